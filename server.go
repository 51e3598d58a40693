package main

import (
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// guestName trims a requested name, or invents Player### when none is usable
func guestName(requested string) string {
	name := truncateRunes(strings.TrimSpace(requested), maxNameLen)
	if name == "" {
		name = fmt.Sprintf("Player%03d", rand.Intn(1000))
	}
	return name
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, cfg Config) *http.ServeMux {
	mux := http.NewServeMux()

	if cfg.ClientDir != "" {
		fs := http.FileServer(http.Dir(cfg.ClientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"players": hub.game.PlayerCount(),
			"conns":   hub.TotalConns(),
		})
	})

	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(cfg.PublicURL, qrcode.Medium, 256)
		if err != nil {
			zap.L().Error("qr encode", zap.Error(err))
			http.Error(w, "qr unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "max-age=3600")
		w.Write(png)
	})

	mux.HandleFunc("/api/schema", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, BuildWireSchema())
	})

	mux.Handle("/api/bans", hub.requireAdmin(http.HandlerFunc(hub.handleBans)))
	mux.Handle("/api/stats", hub.requireAdmin(http.HandlerFunc(hub.handleStats)))

	return mux
}

// serveWS resolves the caller's identity, refuses banned callers and
// otherwise attaches a new player to the game.
func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	var identity, name string
	if tok := q.Get("token"); tok != "" {
		id, err := hub.auth.ValidateToken(tok)
		if err != nil {
			zap.L().Debug("rejected token", zap.String("addr", ip), zap.Error(err))
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		identity = id.Email
		name = id.Name
	}
	if name == "" {
		name = q.Get("name")
	}
	name = guestName(name)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Debug("upgrade error", zap.Error(err))
		return
	}

	playerID := NewID()
	if hub.bans.IsBanned(playerID, identity) {
		zap.L().Info("refused banned connection", zap.String("identity", identity), zap.String("addr", ip))
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(Envelope{T: MsgBan, Data: BanMsg{Reason: "You have been banned from the server.", Color: banColor}})
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "banned"))
		conn.Close()
		return
	}

	hub.TrackConnect(ip)
	client := NewClient(hub, conn, ip, playerID, name, identity, q.Get("protocol") == "msgpack")
	hub.Register(client)
	hub.game.Join(playerID, name, identity, client)

	go client.WritePump()
	go client.ReadPump()
}
