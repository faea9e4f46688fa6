package system

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// LeaderboardEntry is one finished run.
type LeaderboardEntry struct {
	PlayerID       string
	PlayerName     string
	CompletionTime world.GameTime
	Achievements   int
	PathType       world.PathType
	Date           time.Time
}

// LeaderboardCategory selects the ranking order.
type LeaderboardCategory string

const (
	CategoryFastest      LeaderboardCategory = "fastest"
	CategoryAchievements LeaderboardCategory = "achievements"
)

// EntrySink receives entries for durable storage via WriteThrough. Failures
// are logged and never surface to the caller.
type EntrySink interface {
	SaveEntry(ctx context.Context, e LeaderboardEntry) error
}

// Leaderboard is process-wide: one per server, shared by every instance.
// Single writer per call, many readers.
type Leaderboard struct {
	mu      sync.RWMutex
	entries []LeaderboardEntry
	sink    EntrySink
	log     *zap.Logger
}

// NewLeaderboard builds an empty board. sink may be nil.
func NewLeaderboard(sink EntrySink, log *zap.Logger) *Leaderboard {
	return &Leaderboard{sink: sink, log: log}
}

// Seed loads previously stored entries, replacing the in-memory set. Used at
// startup before any instance runs.
func (l *Leaderboard) Seed(entries []LeaderboardEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]LeaderboardEntry(nil), entries...)
}

// AddEntry records a finished run on the in-memory board. An entry for a
// player already on the board is replaced only when the new achievement count
// is strictly greater. Memory-only: durable storage goes through WriteThrough,
// which callers run outside command handling.
func (l *Leaderboard) AddEntry(e LeaderboardEntry) error {
	if !world.ValidPath(e.PathType) {
		return world.NewFailure(world.FailInvariant, fmt.Sprintf("invalid path type %q", e.PathType))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, prev := range l.entries {
		if prev.PlayerID != e.PlayerID {
			continue
		}
		if e.Achievements <= prev.Achievements {
			return world.NewFailure(world.FailConflict,
				fmt.Sprintf("existing entry for %s has %d achievements", e.PlayerID, prev.Achievements))
		}
		l.entries[i] = e
		return nil
	}
	l.entries = append(l.entries, e)
	return nil
}

// WriteThrough stores one accepted entry durably. Sink failure is logged and
// never fatal: the in-memory board already holds the entry.
func (l *Leaderboard) WriteThrough(ctx context.Context, e LeaderboardEntry) {
	if l.sink == nil {
		return
	}
	if err := l.sink.SaveEntry(ctx, e); err != nil {
		l.log.Warn("leaderboard write-through failed",
			zap.String("player", e.PlayerID),
			zap.Error(err))
	}
}

// TopByFastest returns up to n entries ordered by completion time.
func (l *Leaderboard) TopByFastest(n int) []LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]LeaderboardEntry(nil), l.entries...)
	sort.SliceStable(out, func(i, j int) bool { return fasterThan(out[i], out[j]) })
	return truncate(out, n)
}

// TopByAchievements returns up to n entries ordered by achievement count
// descending, earlier date first on ties.
func (l *Leaderboard) TopByAchievements(n int) []LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]LeaderboardEntry(nil), l.entries...)
	sort.SliceStable(out, func(i, j int) bool { return moreDecorated(out[i], out[j]) })
	return truncate(out, n)
}

// RankOf returns the player's 1-based rank in the category, or 0 when the
// player is not on the board.
func (l *Leaderboard) RankOf(playerID string, category LeaderboardCategory) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]LeaderboardEntry(nil), l.entries...)
	switch category {
	case CategoryAchievements:
		sort.SliceStable(out, func(i, j int) bool { return moreDecorated(out[i], out[j]) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return fasterThan(out[i], out[j]) })
	}
	for i, e := range out {
		if e.PlayerID == playerID {
			return i + 1
		}
	}
	return 0
}

// Len returns the number of entries on the board.
func (l *Leaderboard) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// fasterThan orders lexicographically by (days, hours, minutes).
func fasterThan(a, b LeaderboardEntry) bool {
	if a.CompletionTime.Days != b.CompletionTime.Days {
		return a.CompletionTime.Days < b.CompletionTime.Days
	}
	if a.CompletionTime.Hours != b.CompletionTime.Hours {
		return a.CompletionTime.Hours < b.CompletionTime.Hours
	}
	return a.CompletionTime.Minutes < b.CompletionTime.Minutes
}

// moreDecorated orders by achievements descending, then earlier date.
func moreDecorated(a, b LeaderboardEntry) bool {
	if a.Achievements != b.Achievements {
		return a.Achievements > b.Achievements
	}
	return a.Date.Before(b.Date)
}

func truncate(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
