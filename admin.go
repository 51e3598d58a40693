package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const adminKeyHeader = "X-Admin-Key"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write json", zap.Error(err))
	}
}

// requireAdmin rejects requests whose X-Admin-Key does not match the
// configured bcrypt hash.
func (h *Hub) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(adminKeyHeader)
		if key == "" || h.auth.CheckAdminKey(key) != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleBans lists bans (GET) or lifts one (DELETE ?kind=&key=)
func (h *Hub) handleBans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.bans.List())
	case http.MethodDelete:
		kind := r.URL.Query().Get("kind")
		key := r.URL.Query().Get("key")
		if (kind != BanByID && kind != BanByIdentity) || key == "" {
			http.Error(w, "kind must be id or identity and key is required", http.StatusBadRequest)
			return
		}
		if !h.bans.Unban(kind, key) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		zap.L().Info("ban lifted", zap.String("kind", kind), zap.String("key", key))
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// StatsResponse is the /api/stats payload
type StatsResponse struct {
	Online       int                `json:"online"`
	RoundsPlayed int                `json:"rounds_played"`
	Days         int                `json:"days"`
	Events       map[string]int     `json:"events"`
	Winners      map[string]int     `json:"winners"`
	Abilities    []AbilityAnalytics `json:"abilities"`
	RecentRounds []RoundRow         `json:"recent_rounds"`
}

func (h *Hub) handleStats(w http.ResponseWriter, r *http.Request) {
	days := 7
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 365 {
			http.Error(w, "days must be 1-365", http.StatusBadRequest)
			return
		}
		days = n
	}

	resp := StatsResponse{
		Online: h.game.PlayerCount(),
		Days:   days,
	}
	var err error
	if h.analytics != nil {
		_, resp.RoundsPlayed = h.analytics.GetLiveMetrics()
		if resp.Events, err = h.analytics.EventCounts(days); err != nil {
			zap.L().Error("stats: event counts", zap.Error(err))
		}
		if resp.Winners, err = h.analytics.WinnerCounts(days); err != nil {
			zap.L().Error("stats: winner counts", zap.Error(err))
		}
		if resp.Abilities, err = h.analytics.PopularAbilities(len(AllAbilities)); err != nil {
			zap.L().Error("stats: abilities", zap.Error(err))
		}
	}
	if h.db != nil {
		if resp.RecentRounds, err = h.db.RecentRounds(20); err != nil {
			zap.L().Error("stats: recent rounds", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
