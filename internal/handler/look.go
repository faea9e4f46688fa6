package handler

import (
	"fmt"
	"strings"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
)

// HandleLook describes the current tile with its contents, exits, weather
// and time of day. Free.
func HandleLook(st *world.State, cmd command.Command, deps *Deps) *Result {
	tile := st.CurrentTile()
	var b strings.Builder
	b.WriteString(st.Grid.Describe(tile))
	if extra := tileContents(st, deps, tile); extra != "" {
		b.WriteString("\n")
		b.WriteString(extra)
	}
	b.WriteString("\n")
	b.WriteString(describeExits(st))
	b.WriteString("\n")
	b.WriteString(ambience(st))
	return &Result{Text: b.String()}
}

// ambience is one line of weather and light.
func ambience(st *world.State) string {
	tod := st.Clock.TimeOfDay()
	return fmt.Sprintf("It is %s. The weather is %s.", strings.ToLower(string(tod)), st.Weather.Current)
}

// HandleExamine inspects a named item, enemy or character. Examining lore
// feeds mystic affinity more than a casual glance.
func HandleExamine(st *world.State, cmd command.Command, deps *Deps) *Result {
	target := strings.TrimSpace(cmd.Target)
	if target == "" {
		return HandleLook(st, cmd, deps)
	}
	tile := st.CurrentTile()

	if item := resolveItem(deps, target); item != nil {
		if st.Player.HasItem(item.ID) || tile.HasItem(item.ID) {
			deps.Paths.RecordAction(st, examineAction(item.ID, target))
			return &Result{Text: item.Description}
		}
	}
	for _, id := range tile.Enemies {
		e := deps.Enemies.Get(id)
		if e == nil {
			continue
		}
		if id == target || foldName(e.Name) == foldName(target) {
			deps.Paths.RecordAction(st, system.ActionExamine)
			return &Result{Text: describeEnemy(e.Name, string(e.CombatStyle))}
		}
	}
	for _, id := range tile.Npcs {
		n := deps.Npcs.Get(id)
		if n == nil {
			continue
		}
		if id == target || foldName(n.Name) == foldName(target) {
			return &Result{Text: fmt.Sprintf("%s watches you calmly. Perhaps you should talk to them.", n.Name)}
		}
	}

	// Unmatched targets fall through to the discovery engine so phrases like
	// "examine the strange carving" can still uncover something.
	return HandleInteract(st, command.Command{
		Intent: command.IntentInteract,
		Kind:   world.InteractExamine,
		Text:   target,
		Raw:    cmd.Raw,
	}, deps)
}

// examineAction weighs rune and lore study above a casual look.
func examineAction(terms ...string) system.PathAction {
	for _, marker := range []string{"rune", "lore", "scroll", "tome", "glyph"} {
		for _, term := range terms {
			if strings.Contains(term, marker) {
				return system.ActionExamineLore
			}
		}
	}
	return system.ActionExamine
}

func describeEnemy(name, style string) string {
	switch style {
	case "aggressive":
		return fmt.Sprintf("The %s paces restlessly, eager for violence.", name)
	case "defensive":
		return fmt.Sprintf("The %s stands its ground, waiting for you to make the first move.", name)
	case "tactical":
		return fmt.Sprintf("The %s studies you with unsettling patience.", name)
	case "magical":
		return fmt.Sprintf("Power crackles faintly around the %s.", name)
	case "stealth":
		return fmt.Sprintf("The %s keeps slipping in and out of your sight.", name)
	default:
		return fmt.Sprintf("The %s watches you.", name)
	}
}
