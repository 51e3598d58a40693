package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types for analytics tracking
const (
	EvtRoundStart    = "round_start"
	EvtRoundEnd      = "round_end"
	EvtInfection     = "infection"
	EvtAbilityChosen = "ability_chosen"
	EvtPlayerJoin    = "player_join"
	EvtPlayerLeave   = "player_leave"
	EvtBan           = "ban"
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	PlayerID  string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
	Round     *RoundRow // set for round_end, also written to the rounds table
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu           sync.RWMutex
	online       int
	roundsPlayed int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, playerID string, data interface{}) {
	a.enqueue(evtType, playerID, data, nil)
}

func (a *Analytics) enqueue(evtType, playerID string, data interface{}, round *RoundRow) {
	var raw string
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			zap.L().Warn("analytics: marshal event data", zap.String("type", evtType), zap.Error(err))
		} else {
			raw = string(b)
		}
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		Data:      raw,
		Timestamp: time.Now().UTC(),
		Round:     round,
	}:
	default:
		// full: drop rather than block the game loop
	}
}

// TrackWorldEvent records one simulation event
func (a *Analytics) TrackWorldEvent(e WorldEvent) {
	switch e.Type {
	case EvtRoundStart:
		a.Track(e.Type, e.PlayerID, map[string]interface{}{"players": e.Players})
	case EvtRoundEnd:
		a.mu.Lock()
		a.roundsPlayed++
		a.mu.Unlock()
		a.enqueue(e.Type, "", map[string]interface{}{
			"winner":   e.Winner,
			"players":  e.Players,
			"duration": e.Duration,
		}, &RoundRow{Winner: string(e.Winner), Duration: e.Duration, Players: e.Players})
	case EvtAbilityChosen:
		a.Track(e.Type, e.PlayerID, map[string]interface{}{"ability": e.Ability})
	default:
		a.Track(e.Type, e.PlayerID, nil)
	}
}

// SetOnline updates the live player count
func (a *Analytics) SetOnline(n int) {
	a.mu.Lock()
	a.online = n
	a.mu.Unlock()
}

// GetLiveMetrics returns the online player count and rounds finished since start
func (a *Analytics) GetLiveMetrics() (online, rounds int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.online, a.roundsPlayed
}

// Run stops the writer once ctx is done.
func (a *Analytics) Run(ctx context.Context) error {
	<-ctx.Done()
	a.Stop()
	return nil
}

// Stop flushes pending events and shuts down the writer. Safe to call twice.
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		zap.L().Error("analytics: begin tx", zap.Error(err))
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, player_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		zap.L().Error("analytics: prepare", zap.Error(err))
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullString{String: evt.PlayerID, Valid: evt.PlayerID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			zap.L().Warn("analytics: insert", zap.Error(err))
		}
		if r := evt.Round; r != nil {
			if _, err := tx.Exec(`INSERT INTO rounds (winner, duration, players) VALUES (?, ?, ?)`,
				r.Winner, r.Duration, r.Players); err != nil {
				zap.L().Warn("analytics: insert round", zap.Error(err))
			}
		}
	}
	if err := tx.Commit(); err != nil {
		zap.L().Error("analytics: commit", zap.Error(err))
	}
}

// --- Query methods for the API ---

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= ?
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// WinnerCounts returns how many rounds each side won in the last N days
func (a *Analytics) WinnerCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.winner'), 'unknown') AS winner, COUNT(*)
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data) AND created_at >= ?
		GROUP BY winner
	`, EvtRoundEnd, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var winner string
		var count int
		if err := rows.Scan(&winner, &count); err != nil {
			continue
		}
		result[winner] = count
	}
	return result, rows.Err()
}

// PopularAbilities returns the most chosen abilities
func (a *Analytics) PopularAbilities(limit int) ([]AbilityAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.ability'), 'unknown') AS ability, COUNT(*) AS cnt
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
		GROUP BY ability ORDER BY cnt DESC LIMIT ?
	`, EvtAbilityChosen, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AbilityAnalytics
	for rows.Next() {
		var aa AbilityAnalytics
		if err := rows.Scan(&aa.Ability, &aa.Count); err != nil {
			continue
		}
		result = append(result, aa)
	}
	return result, rows.Err()
}

// AbilityAnalytics holds the pick count per ability
type AbilityAnalytics struct {
	Ability string `json:"ability"`
	Count   int    `json:"count"`
}
