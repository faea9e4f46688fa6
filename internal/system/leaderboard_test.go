package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

func entry(player string, days, hours int, ach int, path world.PathType) LeaderboardEntry {
	return LeaderboardEntry{
		PlayerID:       player,
		PlayerName:     player,
		CompletionTime: world.GameTime{Days: days, Hours: hours},
		Achievements:   ach,
		PathType:       path,
		Date:           time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	lb := NewLeaderboard(nil, zap.NewNop())

	a := entry("A", 3, 8, 5, world.PathWarrior)
	b := entry("B", 2, 20, 3, world.PathWarrior)
	if err := lb.AddEntry(a); err != nil {
		t.Fatal(err)
	}
	if err := lb.AddEntry(b); err != nil {
		t.Fatal(err)
	}

	fastest := lb.TopByFastest(2)
	if len(fastest) != 2 || fastest[0].PlayerID != "B" || fastest[1].PlayerID != "A" {
		t.Errorf("TopByFastest = %v", ids(fastest))
	}
	decorated := lb.TopByAchievements(2)
	if len(decorated) != 2 || decorated[0].PlayerID != "A" || decorated[1].PlayerID != "B" {
		t.Errorf("TopByAchievements = %v", ids(decorated))
	}
}

func TestLeaderboardReplacement(t *testing.T) {
	lb := NewLeaderboard(nil, zap.NewNop())

	if err := lb.AddEntry(entry("A", 3, 0, 5, world.PathWarrior)); err != nil {
		t.Fatal(err)
	}

	// Equal achievement count does not replace.
	err := lb.AddEntry(entry("A", 2, 0, 5, world.PathMystic))
	var fail *world.Failure
	if !errors.As(err, &fail) || fail.Kind != world.FailConflict {
		t.Errorf("equal count: got %v, want conflict", err)
	}
	if lb.Len() != 1 {
		t.Fatalf("len = %d", lb.Len())
	}

	// Strictly more achievements replaces in place.
	if err := lb.AddEntry(entry("A", 4, 0, 7, world.PathMystic)); err != nil {
		t.Fatal(err)
	}
	if lb.Len() != 1 {
		t.Fatalf("replacement should not grow the board, len = %d", lb.Len())
	}
	top := lb.TopByAchievements(1)
	if top[0].Achievements != 7 || top[0].PathType != world.PathMystic {
		t.Errorf("entry not replaced: %+v", top[0])
	}
}

func TestLeaderboardRejectsInvalidPath(t *testing.T) {
	lb := NewLeaderboard(nil, zap.NewNop())
	err := lb.AddEntry(entry("A", 1, 0, 1, "bard"))
	var fail *world.Failure
	if !errors.As(err, &fail) || fail.Kind != world.FailInvariant {
		t.Errorf("got %v, want invariant failure", err)
	}
}

func TestLeaderboardRank(t *testing.T) {
	lb := NewLeaderboard(nil, zap.NewNop())
	lb.AddEntry(entry("A", 3, 8, 5, world.PathWarrior))
	lb.AddEntry(entry("B", 2, 20, 3, world.PathWarrior))

	if r := lb.RankOf("B", CategoryFastest); r != 1 {
		t.Errorf("rank of B (fastest) = %d, want 1", r)
	}
	if r := lb.RankOf("A", CategoryAchievements); r != 1 {
		t.Errorf("rank of A (achievements) = %d, want 1", r)
	}
	if r := lb.RankOf("C", CategoryFastest); r != 0 {
		t.Errorf("rank of absent player = %d, want 0", r)
	}
}

type countingSink struct {
	calls int
	last  LeaderboardEntry
	err   error
}

func (s *countingSink) SaveEntry(_ context.Context, e LeaderboardEntry) error {
	s.calls++
	s.last = e
	return s.err
}

func TestAddEntryNeverTouchesSink(t *testing.T) {
	sink := &countingSink{}
	lb := NewLeaderboard(sink, zap.NewNop())

	if err := lb.AddEntry(entry("A", 1, 0, 1, world.PathWarrior)); err != nil {
		t.Fatal(err)
	}
	if sink.calls != 0 {
		t.Fatalf("AddEntry performed %d sink writes; durable I/O belongs to WriteThrough", sink.calls)
	}

	lb.WriteThrough(context.Background(), entry("A", 1, 0, 1, world.PathWarrior))
	if sink.calls != 1 {
		t.Errorf("WriteThrough sink calls = %d, want 1", sink.calls)
	}
	if sink.last.PlayerID != "A" {
		t.Errorf("sink saw %q", sink.last.PlayerID)
	}
}

func TestWriteThroughFailureNonFatal(t *testing.T) {
	sink := &countingSink{err: errors.New("sink down")}
	lb := NewLeaderboard(sink, zap.NewNop())

	if err := lb.AddEntry(entry("A", 1, 0, 1, world.PathWarrior)); err != nil {
		t.Fatal(err)
	}
	lb.WriteThrough(context.Background(), entry("A", 1, 0, 1, world.PathWarrior))
	if lb.Len() != 1 {
		t.Error("entry should still be on the in-memory board after a failed write-through")
	}
}

func TestLeaderboardSeed(t *testing.T) {
	lb := NewLeaderboard(nil, zap.NewNop())
	lb.Seed([]LeaderboardEntry{
		entry("A", 3, 0, 5, world.PathWarrior),
		entry("B", 1, 0, 2, world.PathStealth),
	})
	if lb.Len() != 2 {
		t.Fatalf("len after seed = %d", lb.Len())
	}
	if top := lb.TopByFastest(1); top[0].PlayerID != "B" {
		t.Errorf("seeded order wrong: %v", ids(top))
	}
}

func ids(entries []LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.PlayerID
	}
	return out
}
