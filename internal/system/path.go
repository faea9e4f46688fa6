package system

import (
	"fmt"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Path damage tuning.
const (
	warriorDamagePerLevel     = 3
	mysticPowerMultiplier     = 1.5
	mysticManaThreshold       = 20
	stealthBackstabMultiplier = 2.0
)

// stealthDurationMinutes is how long hiding lasts before the player slips
// back into view on their own.
const stealthDurationMinutes = 120

// PathAction is a player action that feeds path affinity.
type PathAction string

const (
	ActionAttack      PathAction = "attack"       // +1.0 warrior
	ActionKill        PathAction = "kill"         // +2.0 warrior
	ActionExamineLore PathAction = "examine_lore" // +0.5 mystic (runes, lore)
	ActionExamine     PathAction = "examine"      // +0.1 mystic
	ActionMeditate    PathAction = "meditate"     // +0.5 mystic
	ActionCastAbility PathAction = "cast"         // +1.0 mystic
	ActionHide        PathAction = "hide"         // +0.5 stealth
	ActionStealthKill PathAction = "stealth_kill" // +2.0 stealth
	ActionSneakPast   PathAction = "sneak_past"   // +1.0 stealth
)

// affinityRubric maps actions to (path, gain) pairs.
var affinityRubric = map[PathAction]struct {
	path world.PathType
	gain float64
}{
	ActionAttack:      {world.PathWarrior, 1.0},
	ActionKill:        {world.PathWarrior, 2.0},
	ActionExamineLore: {world.PathMystic, 0.5},
	ActionExamine:     {world.PathMystic, 0.1},
	ActionMeditate:    {world.PathMystic, 0.5},
	ActionCastAbility: {world.PathMystic, 1.0},
	ActionHide:        {world.PathStealth, 0.5},
	ActionStealthKill: {world.PathStealth, 2.0},
	ActionSneakPast:   {world.PathStealth, 1.0},
}

// xpForLevel[n] is the cumulative XP needed to reach level n. Level 1 is the
// floor every selected path starts at.
var xpForLevel = []int{0, 0, 100, 250, 450, 700, 1000, 1400, 1900, 2500, 3200}

// PathSystem owns affinity, selection, XP, ability unlocks, path damage and
// the stealth state machine.
type PathSystem struct {
	abilities *data.AbilityTable
	weather   *WeatherSystem
	log       *zap.Logger
}

// NewPathSystem wires the ability table and weather modifiers in.
func NewPathSystem(abilities *data.AbilityTable, weather *WeatherSystem, log *zap.Logger) *PathSystem {
	return &PathSystem{abilities: abilities, weather: weather, log: log}
}

// RecordAction feeds one action into the rubric. Unknown actions are ignored.
func (s *PathSystem) RecordAction(st *world.State, action PathAction) {
	entry, ok := affinityRubric[action]
	if !ok {
		return
	}
	if pp := st.Paths.Progress(entry.path); pp != nil {
		pp.Affinity += entry.gain
	}
}

// SelectPath commits the player to a path. Selection is irrevocable within
// an instance: a second call is a Conflict.
func (s *PathSystem) SelectPath(st *world.State, p world.PathType) error {
	if !world.ValidPath(p) {
		return world.NewFailure(world.FailNotFound, fmt.Sprintf("There is no path called %q.", p))
	}
	if st.Paths.Selected != "" {
		return world.NewFailure(world.FailConflict,
			fmt.Sprintf("You have already committed to the %s path. There is no turning back.", st.Paths.Selected))
	}
	st.Paths.Selected = p
	pp := st.Paths.Progress(p)
	if pp.Level < 1 {
		pp.Level = 1
	}
	s.unlockAbilitiesAt(st, pp, p)
	s.log.Info("path selected",
		zap.String("instance", st.InstanceID),
		zap.String("path", string(p)))
	return nil
}

// AddXP accrues XP on the selected path and applies any level-ups, unlocking
// the abilities declared for each level reached. Returns narration for each
// level gained. A no-op before selection.
func (s *PathSystem) AddXP(st *world.State, xp int) []string {
	if st.Paths.Selected == "" || xp <= 0 {
		return nil
	}
	pp := st.Paths.Progress(st.Paths.Selected)
	pp.XP += xp

	var events []string
	for pp.Level+1 < len(xpForLevel) && pp.XP >= xpForLevel[pp.Level+1] {
		pp.Level++
		events = append(events, fmt.Sprintf("You have reached level %d on the %s path.", pp.Level, st.Paths.Selected))
		for _, msg := range s.unlockAbilitiesAt(st, pp, st.Paths.Selected) {
			events = append(events, msg)
		}
	}
	return events
}

// unlockAbilitiesAt unlocks every ability declared at the progress's current
// level that is not already held.
func (s *PathSystem) unlockAbilitiesAt(st *world.State, pp *world.PathProgress, p world.PathType) []string {
	if s.abilities == nil {
		return nil
	}
	var events []string
	for _, ab := range s.abilities.UnlockedAt(p, pp.Level) {
		if pp.HasAbility(ab.ID) {
			continue
		}
		pp.UnlockedAbilities = append(pp.UnlockedAbilities, ab.ID)
		events = append(events, fmt.Sprintf("New ability unlocked: %s.", ab.Name))
	}
	return events
}

// CalculateDamage applies the path-specific damage rule to a base plus
// weapon value. Before selection the raw sum is returned.
func (s *PathSystem) CalculateDamage(st *world.State, base, weaponDamage int) int {
	dmg := base + weaponDamage
	pp := st.Paths.Progress(st.Paths.Selected)
	if pp == nil {
		return dmg
	}
	switch st.Paths.Selected {
	case world.PathWarrior:
		dmg += pp.Level * warriorDamagePerLevel
	case world.PathMystic:
		if st.Player.Stats.Mana >= mysticManaThreshold {
			power := mysticPowerMultiplier
			if s.weather != nil {
				power *= s.weather.Modifiers(st).MysticPower
			}
			dmg = int(float64(dmg) * power)
		}
	case world.PathStealth:
		if st.Stealth.Hidden {
			dmg = int(float64(dmg) * stealthBackstabMultiplier)
		}
	}
	return dmg
}

// EnterStealth attempts the hidden state. The check passes more easily when
// weather suppresses detection or when it is dark.
func (s *PathSystem) EnterStealth(st *world.State, roll float64) (string, error) {
	if st.Stealth.Hidden {
		return "", world.NewFailure(world.FailConflict, "You are already hidden.")
	}
	threshold := 0.75
	if s.weather != nil {
		threshold *= s.weather.Modifiers(st).StealthDetection
	}
	if st.Clock.TimeOfDay() == world.Night {
		threshold *= 0.7
	}
	if pp := st.Paths.Progress(world.PathStealth); pp != nil && pp.Level > 0 {
		threshold *= 1 - 0.05*float64(pp.Level)
	}
	if roll < threshold {
		return "You try to melt into the shadows, but the attempt fails.", nil
	}
	st.Stealth.Hidden = true
	st.Stealth.HiddenSince = st.Clock.TotalMinutes()
	s.RecordAction(st, ActionHide)
	return "You slip into the shadows, unseen.", nil
}

// BreakStealth drops the hidden state. Attacking and moving into the open
// both break it.
func (s *PathSystem) BreakStealth(st *world.State) {
	st.Stealth.Hidden = false
	st.Stealth.HiddenSince = 0
}

// CheckStealthExpiry ends hiding once its duration has run out. Returns
// narration, or "" when nothing changed.
func (s *PathSystem) CheckStealthExpiry(st *world.State) string {
	if !st.Stealth.Hidden {
		return ""
	}
	if st.Clock.TotalMinutes()-st.Stealth.HiddenSince < stealthDurationMinutes {
		return ""
	}
	s.BreakStealth(st)
	return "You can hold the shadows no longer. You step back into view."
}
