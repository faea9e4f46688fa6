package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// HandleAttack strikes a named enemy, opening an encounter if none is
// running.
func HandleAttack(st *world.State, cmd command.Command, deps *Deps) *Result {
	enemyID := resolveEnemy(st, deps, cmd.Target)
	if enemyID == "" {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("There is no %s here to fight.", cmd.Target)))
	}
	wasHidden := st.Stealth.Hidden
	out, err := deps.Combat.Attack(st, enemyID)
	if err != nil {
		return failResult(asFailure(err))
	}
	return finishCombatTurn(st, deps, out, wasHidden)
}

// HandleDefend spends the turn guarding.
func HandleDefend(st *world.State, cmd command.Command, deps *Deps) *Result {
	out, err := deps.Combat.Defend(st)
	if err != nil {
		return failResult(asFailure(err))
	}
	return finishCombatTurn(st, deps, out, false)
}

// HandleDodge spends the turn evading.
func HandleDodge(st *world.State, cmd command.Command, deps *Deps) *Result {
	out, err := deps.Combat.Dodge(st)
	if err != nil {
		return failResult(asFailure(err))
	}
	return finishCombatTurn(st, deps, out, false)
}

// HandleAbility uses an unlocked path ability in combat.
func HandleAbility(st *world.State, cmd command.Command, deps *Deps) *Result {
	ab := resolveAbility(st, deps, cmd.Target)
	if ab == nil {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("You know no ability called %q.", cmd.Target)))
	}
	wasHidden := st.Stealth.Hidden
	out, err := deps.Combat.UseAbility(st, ab)
	if err != nil {
		return failResult(asFailure(err))
	}
	res := finishCombatTurn(st, deps, out, wasHidden)
	res.Effects = append(res.Effects,
		world.StatDelta("mana", -ab.ManaCost),
		world.StatDelta("stamina", -ab.StaminaCost))
	return res
}

// HandleStealth attempts to slip into hiding.
func HandleStealth(st *world.State, cmd command.Command, deps *Deps) *Result {
	if st.Combat != nil {
		return failResult(world.NewFailure(world.FailConflict,
			"It is far too late to hide now."))
	}
	msg, err := deps.Paths.EnterStealth(st, randomRoll(st, deps))
	if err != nil {
		return failResult(asFailure(err))
	}
	res := &Result{Text: msg, Mutated: true}
	if st.Stealth.Hidden {
		res.Effects = append(res.Effects, world.FlagSet("hidden"))
	}
	return res
}

// randomRoll draws from the weather RNG stream so replays stay
// deterministic per instance.
func randomRoll(st *world.State, deps *Deps) float64 {
	return deps.Combat.Roll()
}

// finishCombatTurn folds a combat outcome into a Result, handling victory
// rewards, defeat and run completion.
func finishCombatTurn(st *world.State, deps *Deps, out *system.Outcome, wasHidden bool) *Result {
	res := &Result{Text: strings.Join(out.Lines, "\n"), Mutated: true}

	if out.Defeat {
		st.Completed = true
		return res
	}
	if !out.Victory {
		return res
	}

	enemy := deps.Enemies.Get(out.EnemyID)
	res.Effects = append(res.Effects, world.EnemyDefeated(out.EnemyID))

	advanceTime(st, deps, res, deps.Config.Game.CombatMinutes)

	if out.XP > 0 {
		res.Effects = append(res.Effects, world.XPGained(out.XP))
		levelEvents := deps.Paths.AddXP(st, out.XP)
		appendEvents(res, levelEvents)
		if pp := st.Paths.Progress(st.Paths.Selected); pp != nil && len(levelEvents) > 0 {
			appendEvents(res, deps.Achieve.OnLevel(st, pp.Level))
		}
	}
	if enemy != nil {
		appendEvents(res, deps.Achieve.OnKill(st, enemy, wasHidden))
		if enemy.Type == data.EnemyBoss {
			completeRun(st, deps, res)
		}
	}
	return res
}

// completeRun ends the instance in victory and records the run on the
// in-memory board. The durable write rides on the result; the executor
// performs it after this handler returns.
func completeRun(st *world.State, deps *Deps, res *Result) {
	st.Completed = true
	res.Effects = append(res.Effects, world.FlagSet("completed"))
	appendEvents(res, []string{
		"The corruption lifts from the land like morning mist.",
		fmt.Sprintf("You stand victorious. Your journey took until %s.", st.Clock.String()),
	})

	path := st.Paths.Selected
	if path == "" {
		path = st.Paths.Suggested()
	}
	entry := system.LeaderboardEntry{
		PlayerID:       st.Player.ID,
		PlayerName:     st.Player.Name,
		CompletionTime: st.Clock,
		Achievements:   len(st.Achievements),
		PathType:       path,
		Date:           time.Now(),
	}
	if err := deps.Leaderboard.AddEntry(entry); err != nil {
		if f, ok := err.(*world.Failure); !ok || f.Kind != world.FailConflict {
			deps.Log.Warn("leaderboard entry rejected", zap.Error(err))
		}
		return
	}
	res.Completion = &entry
}

// resolveEnemy matches the target against enemies on the current tile.
func resolveEnemy(st *world.State, deps *Deps, target string) string {
	tile := st.CurrentTile()
	for _, id := range tile.Enemies {
		if id == target || id == normalizeID(target) {
			return id
		}
		if e := deps.Enemies.Get(id); e != nil && foldName(e.Name) == foldName(target) {
			return id
		}
	}
	// Mid-encounter shorthand: "attack" aliases the current opponent.
	if st.Combat != nil {
		return st.Combat.EnemyID
	}
	return ""
}

// resolveAbility matches the target against abilities unlocked on the
// selected path.
func resolveAbility(st *world.State, deps *Deps, target string) *data.PathAbility {
	pp := st.Paths.Progress(st.Paths.Selected)
	if pp == nil {
		return nil
	}
	for _, id := range pp.UnlockedAbilities {
		ab := deps.Abilities.Get(id)
		if ab == nil {
			continue
		}
		if id == target || id == normalizeID(target) || foldName(ab.Name) == foldName(target) {
			return ab
		}
	}
	return nil
}
