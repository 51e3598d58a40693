package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	kick       chan struct{}
	kickOnce   sync.Once
	playerID   string
	name       string
	identity   string
	remoteAddr string
	binary     bool
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr, playerID, name, identity string, binary bool) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		kick:       make(chan struct{}),
		playerID:   playerID,
		name:       name,
		identity:   identity,
		remoteAddr: remoteAddr,
		binary:     binary,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws read error", zap.String("id", c.playerID), zap.Error(err))
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			zap.L().Warn("rate limit exceeded, disconnecting", zap.String("addr", c.remoteAddr))
			break
		}

		if msgType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(message); err != nil {
				return
			}

		case <-c.kick:
			// flush what is queued (the ban notice is last) then close
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		drain:
			for {
				select {
				case message, ok := <-c.send:
					if !ok || c.write(message) != nil {
						break drain
					}
				default:
					break drain
				}
			}
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "banned"))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// write sends one queued frame; a 0xFF prefix marks a binary frame
func (c *Client) write(message []byte) error {
	if len(message) > 0 && message[0] == 0xFF {
		return c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("marshal error", zap.Error(err))
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// WantsBinary reports whether state snapshots go out as msgpack
func (c *Client) WantsBinary() bool {
	return c.binary
}

// Kick queues a ban notice and closes the connection after it is written
func (c *Client) Kick(msg BanMsg) {
	c.SendJSON(Envelope{T: MsgBan, Data: msg})
	c.kickOnce.Do(func() { close(c.kick) })
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope).
// Anything malformed is dropped without a reply.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		zap.L().Debug("unmarshal error", zap.String("id", c.playerID), zap.Error(err))
		return
	}

	game := c.hub.game
	switch env.T {
	case MsgPlayerInput:
		var in PlayerInput
		if err := json.Unmarshal(env.D, &in); err != nil {
			return
		}
		game.Input(c.playerID, in)
	case MsgPlayerAction:
		var msg PlayerActionMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		game.Action(c.playerID, msg.Type)
	case MsgChooseAbility:
		var kind string
		if err := json.Unmarshal(env.D, &kind); err != nil {
			return
		}
		game.Choose(c.playerID, AbilityKind(kind))
	case MsgSendMessage:
		var text string
		if err := json.Unmarshal(env.D, &text); err != nil {
			return
		}
		game.Chat(c.playerID, text)
	}
}
