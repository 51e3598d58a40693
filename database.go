package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// BanRow is one persisted ban. Kind is "id" or "identity"; a zero
// Expires means permanent.
type BanRow struct {
	Kind    string    `json:"kind"`
	Key     string    `json:"key"`
	Reason  string    `json:"reason"`
	Expires time.Time `json:"expires"`
	By      string    `json:"by"`
}

// RoundRow represents a finished round
type RoundRow struct {
	ID        int64     `json:"id"`
	Winner    string    `json:"winner"`
	Duration  int       `json:"duration"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// An in-memory database lives only as long as its one connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bans (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		expires_at INTEGER NOT NULL DEFAULT 0,
		banned_by TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (kind, key)
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner TEXT NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0,
		players INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics_events(created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		zap.L().Error("db migration failed", zap.Error(err))
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveBan inserts or replaces a ban
func (db *DB) SaveBan(b BanRow) error {
	var exp int64
	if !b.Expires.IsZero() {
		exp = b.Expires.Unix()
	}
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO bans (kind, key, reason, expires_at, banned_by) VALUES (?, ?, ?, ?, ?)`,
		b.Kind, b.Key, b.Reason, exp, b.By,
	)
	return err
}

// DeleteBan removes a ban; missing rows are not an error
func (db *DB) DeleteBan(kind, key string) error {
	_, err := db.conn.Exec("DELETE FROM bans WHERE kind = ? AND key = ?", kind, key)
	return err
}

// LoadBans returns every stored ban
func (db *DB) LoadBans() ([]BanRow, error) {
	rows, err := db.conn.Query("SELECT kind, key, reason, expires_at, banned_by FROM bans")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BanRow
	for rows.Next() {
		var b BanRow
		var exp int64
		if err := rows.Scan(&b.Kind, &b.Key, &b.Reason, &exp, &b.By); err != nil {
			return nil, err
		}
		if exp > 0 {
			b.Expires = time.Unix(exp, 0)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SaveRound records a finished round
func (db *DB) SaveRound(winner string, duration, players int) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO rounds (winner, duration, players) VALUES (?, ?, ?)",
		winner, duration, players,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentRounds returns the latest finished rounds, newest first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(
		"SELECT id, winner, duration, players, created_at FROM rounds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRow
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.ID, &r.Winner, &r.Duration, &r.Players, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSetting returns a stored value, or "" with ok=false when missing
func (db *DB) GetSetting(key string) (string, bool, error) {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetSetting stores a value under key
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
