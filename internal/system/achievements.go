package system

import (
	"fmt"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Well-known achievement ids the engine checks for. The catalogue must
// declare them; unknown ids unlock nothing.
const (
	AchFirstSteps   = "first_steps"
	AchExplorer     = "explorer"
	AchCartographer = "cartographer"
	AchFirstBlood   = "first_blood"
	AchShadowWalker = "shadow_walker"
	AchDiscoverer   = "discoverer"
	AchKeenEye      = "keen_eye"
	AchPathChosen   = "path_chosen"
	AchAdept        = "adept"
	AchMaster       = "master"
	AchVictor       = "victor"
)

const (
	explorerTileCount = 25
	keenEyeCount      = 5
	adeptLevel        = 3
	masterLevel       = 7
)

// AchievementSystem unlocks achievements and derives titles from them.
type AchievementSystem struct {
	table *data.AchievementTable
	log   *zap.Logger
}

// NewAchievementSystem builds the system on the static catalogue.
func NewAchievementSystem(table *data.AchievementTable, log *zap.Logger) *AchievementSystem {
	return &AchievementSystem{table: table, log: log}
}

// Unlock grants one achievement. Idempotent; unknown ids are ignored. On any
// new unlock titles are recomputed, and the first title ever unlocked becomes
// active automatically.
func (s *AchievementSystem) Unlock(st *world.State, id string) []string {
	if st.Achievements[id] {
		return nil
	}
	ach := s.table.Get(id)
	if ach == nil {
		return nil
	}
	st.Achievements[id] = true
	events := []string{fmt.Sprintf("Achievement unlocked: %s (%d points).", ach.Name, ach.Points)}
	events = append(events, s.recomputeTitles(st)...)
	s.log.Info("achievement unlocked",
		zap.String("instance", st.InstanceID),
		zap.String("achievement", id))
	return events
}

// recomputeTitles unlocks every title whose requirements are now met.
func (s *AchievementSystem) recomputeTitles(st *world.State) []string {
	var events []string
	for _, title := range s.table.Titles() {
		if st.HasTitle(title.ID) {
			continue
		}
		met := true
		for _, req := range title.RequiredAchievements {
			if !st.Achievements[req] {
				met = false
				break
			}
		}
		if !met {
			continue
		}
		st.UnlockedTitles = append(st.UnlockedTitles, title.ID)
		events = append(events, fmt.Sprintf("Title unlocked: %s.", title.Name))
		if st.ActiveTitle == "" {
			st.ActiveTitle = title.ID
			events = append(events, fmt.Sprintf("You are now known as %s.", title.Name))
		}
	}
	return events
}

// SetActiveTitle changes the displayed title. The title must be unlocked.
func (s *AchievementSystem) SetActiveTitle(st *world.State, id string) error {
	if !st.HasTitle(id) {
		return world.NewFailure(world.FailNotFound, "You have not earned that title.")
	}
	st.ActiveTitle = id
	return nil
}

// OnMove runs exploration checks after a successful move.
func (s *AchievementSystem) OnMove(st *world.State) []string {
	var events []string
	visited := len(st.Player.VisitedTiles)
	if visited >= 2 {
		events = append(events, s.Unlock(st, AchFirstSteps)...)
	}
	if visited >= explorerTileCount {
		events = append(events, s.Unlock(st, AchExplorer)...)
	}
	if visited >= world.GridSize*world.GridSize {
		events = append(events, s.Unlock(st, AchCartographer)...)
	}
	return events
}

// OnKill runs combat checks after a victory. stealthKill marks a kill made
// from hiding.
func (s *AchievementSystem) OnKill(st *world.State, enemy *data.Enemy, stealthKill bool) []string {
	events := s.Unlock(st, AchFirstBlood)
	if stealthKill {
		events = append(events, s.Unlock(st, AchShadowWalker)...)
	}
	if enemy.Type == data.EnemyBoss {
		events = append(events, s.Unlock(st, AchVictor)...)
	}
	return events
}

// OnDiscovery runs discovery checks after a find.
func (s *AchievementSystem) OnDiscovery(st *world.State) []string {
	events := s.Unlock(st, AchDiscoverer)
	if len(st.FoundDiscoveries) >= keenEyeCount {
		events = append(events, s.Unlock(st, AchKeenEye)...)
	}
	return events
}

// OnPathSelect runs after an irrevocable path choice.
func (s *AchievementSystem) OnPathSelect(st *world.State) []string {
	return s.Unlock(st, AchPathChosen)
}

// OnLevel runs after a level-up on the selected path.
func (s *AchievementSystem) OnLevel(st *world.State, level int) []string {
	var events []string
	if level >= adeptLevel {
		events = append(events, s.Unlock(st, AchAdept)...)
	}
	if level >= masterLevel {
		events = append(events, s.Unlock(st, AchMaster)...)
	}
	return events
}

// Points sums the points of every unlocked achievement.
func (s *AchievementSystem) Points(st *world.State) int {
	total := 0
	for id := range st.Achievements {
		if ach := s.table.Get(id); ach != nil {
			total += ach.Points
		}
	}
	return total
}
