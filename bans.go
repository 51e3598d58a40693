package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ban record kinds
const (
	BanByID       = "id"
	BanByIdentity = "identity"
)

// BanList is the in-memory ban table, written through to the database
// when one is configured. Safe for concurrent use; checked from HTTP
// handlers as well as the game loop.
type BanList struct {
	mu   sync.Mutex
	db   *DB
	bans map[string]BanRow // kind + "\x00" + key
	now  func() time.Time
}

// NewBanList loads persisted bans from db (which may be nil)
func NewBanList(db *DB) (*BanList, error) {
	bl := &BanList{
		db:   db,
		bans: make(map[string]BanRow),
		now:  time.Now,
	}
	if db == nil {
		return bl, nil
	}
	rows, err := db.LoadBans()
	if err != nil {
		return nil, fmt.Errorf("load bans: %w", err)
	}
	for _, b := range rows {
		bl.bans[banKey(b.Kind, b.Key)] = b
	}
	return bl, nil
}

func banKey(kind, key string) string {
	return kind + "\x00" + key
}

// Ban records a ban for the connection id and, when non-empty, the
// identity. A zero duration bans permanently.
func (bl *BanList) Ban(id, identity, reason, by string, d time.Duration) {
	var expires time.Time
	if d > 0 {
		expires = bl.now().Add(d)
	}
	bl.mu.Lock()
	defer bl.mu.Unlock()
	bl.put(BanRow{Kind: BanByID, Key: id, Reason: reason, Expires: expires, By: by})
	if identity != "" {
		bl.put(BanRow{Kind: BanByIdentity, Key: identity, Reason: reason, Expires: expires, By: by})
	}
}

func (bl *BanList) put(b BanRow) {
	bl.bans[banKey(b.Kind, b.Key)] = b
	if bl.db != nil {
		if err := bl.db.SaveBan(b); err != nil {
			zap.L().Error("save ban", zap.String("kind", b.Kind), zap.String("key", b.Key), zap.Error(err))
		}
	}
}

// IsBanned reports whether either key is banned. Expired temporary bans
// found along the way are deleted.
func (bl *BanList) IsBanned(id, identity string) bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	if bl.check(BanByID, id) {
		return true
	}
	return identity != "" && bl.check(BanByIdentity, identity)
}

func (bl *BanList) check(kind, key string) bool {
	if key == "" {
		return false
	}
	b, ok := bl.bans[banKey(kind, key)]
	if !ok {
		return false
	}
	if !b.Expires.IsZero() && !bl.now().Before(b.Expires) {
		bl.remove(kind, key)
		return false
	}
	return true
}

// Unban removes one ban record and reports whether it existed
func (bl *BanList) Unban(kind, key string) bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	if _, ok := bl.bans[banKey(kind, key)]; !ok {
		return false
	}
	bl.remove(kind, key)
	return true
}

func (bl *BanList) remove(kind, key string) {
	delete(bl.bans, banKey(kind, key))
	if bl.db != nil {
		if err := bl.db.DeleteBan(kind, key); err != nil {
			zap.L().Error("delete ban", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
		}
	}
}

// List returns every ban sorted by kind then key
func (bl *BanList) List() []BanRow {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	out := make([]BanRow, 0, len(bl.bans))
	for _, b := range bl.bans {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Key < out[j].Key
	})
	return out
}
