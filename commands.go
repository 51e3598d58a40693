package main

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CommandKind names a moderator chat command
type CommandKind int

const (
	CmdTeleport CommandKind = iota + 1
	CmdBan
	CmdBanTemp
)

// Command is a parsed moderator command
type Command struct {
	Kind     CommandKind
	Target   string
	Amount   int
	Unit     string
	Duration time.Duration // CmdBanTemp only
}

var (
	banTempRe = regexp.MustCompile(`(?i)^/ban\s+temp\s+"?([a-zA-Z0-9_-]+)"?\s+(\d+)\s*(seconds?|minutes?|hours?|days?|weeks?|months?|years?)\s*$`)
	tpRe      = regexp.MustCompile(`(?i)^/tp\s+"?([a-zA-Z0-9_-]+)"?\s*$`)
	banRe     = regexp.MustCompile(`(?i)^/ban\s+"?([a-zA-Z0-9_-]+)"?\s*$`)
)

var unitDurations = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseCommand recognises /tp, /ban and /ban temp. ok is false for
// anything else, including malformed arguments.
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}

	if m := banTempRe.FindStringSubmatch(text); m != nil {
		amount, err := strconv.Atoi(m[2])
		if err != nil || amount <= 0 {
			return Command{}, false
		}
		unit := strings.TrimSuffix(strings.ToLower(m[3]), "s")
		if int64(amount) > math.MaxInt64/int64(unitDurations[unit]) {
			return Command{}, false
		}
		return Command{
			Kind:     CmdBanTemp,
			Target:   m[1],
			Amount:   amount,
			Unit:     unit,
			Duration: time.Duration(amount) * unitDurations[unit],
		}, true
	}
	if m := tpRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: CmdTeleport, Target: m[1]}, true
	}
	if m := banRe.FindStringSubmatch(text); m != nil {
		// "/ban temp" with missing arguments is not a ban on a player named temp
		if strings.EqualFold(m[1], "temp") {
			return Command{}, false
		}
		return Command{Kind: CmdBan, Target: m[1]}, true
	}
	return Command{}, false
}
