package handler

import (
	"fmt"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
)

// HandleRest makes camp, trading time for fatigue and recovery.
func HandleRest(st *world.State, cmd command.Command, deps *Deps) *Result {
	if st.Combat != nil {
		return failResult(world.NewFailure(world.FailConflict, "You cannot rest in the middle of a fight."))
	}
	if len(st.CurrentTile().Enemies) > 0 {
		return failResult(world.NewFailure(world.FailConflict, "You dare not rest with danger so close."))
	}
	minutes := deps.Config.Game.RestMinutes
	staminaGain, healthGain := deps.Resources.Rest(st, minutes)
	st.Player.RestCount++

	res := &Result{
		Text:    "You settle down and rest a while.",
		Mutated: true,
		Effects: []world.Effect{
			world.StatDelta("stamina", staminaGain),
			world.StatDelta("health", healthGain),
		},
	}
	if staminaGain > 0 || healthGain > 0 {
		res.Text += fmt.Sprintf(" You recover %d stamina and %d health.", staminaGain, healthGain)
	} else {
		res.Text += " Hunger gnaws at you; the rest does little good."
	}
	advanceTime(st, deps, res, minutes)
	return res
}

// HandleMeditate stills the mind, recovering mental strain and mana. An
// explicit duration may be given; it is clamped to a half day.
func HandleMeditate(st *world.State, cmd command.Command, deps *Deps) *Result {
	if st.Combat != nil {
		return failResult(world.NewFailure(world.FailConflict, "Your mind will not still itself mid-battle."))
	}
	minutes := cmd.Minutes
	if minutes <= 0 {
		minutes = deps.Config.Game.MeditateMinutes
	}
	if minutes > 720 {
		minutes = 720
	}
	manaGain := deps.Resources.Meditate(st, minutes)
	deps.Paths.RecordAction(st, system.ActionMeditate)

	res := &Result{
		Text:    fmt.Sprintf("You close your eyes and breathe. %s pass in stillness.", plural(minutes, "minute")),
		Mutated: true,
		Effects: []world.Effect{world.StatDelta("mana", manaGain)},
	}
	if manaGain > 0 {
		res.Text += fmt.Sprintf(" Clarity returns; you recover %d mana.", manaGain)
	}
	advanceTime(st, deps, res, minutes)
	return res
}
