package handler

import (
	"fmt"
	"strings"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/world"
)

// HandleInteract feeds a free-form interaction to the discovery engine.
func HandleInteract(st *world.State, cmd command.Command, deps *Deps) *Result {
	out := deps.Discovery.Interact(st, cmd.Kind, cmd.Text)
	res := &Result{Text: out.Text}
	if out.Found == nil {
		return res
	}
	res.Mutated = true
	res.Effects = append(res.Effects, world.DiscoveryFound(out.Found.ID))
	if out.ItemGained != "" {
		res.Effects = append(res.Effects, world.ItemAdded(out.ItemGained))
	}
	for stat, delta := range out.Effects {
		res.Effects = append(res.Effects, world.StatDelta(stat, delta))
	}
	if cmd.Kind == world.InteractExamine {
		deps.Paths.RecordAction(st, examineAction(out.Found.ID, cmd.Text))
	}
	appendEvents(res, deps.Achieve.OnDiscovery(st))
	appendEvents(res, deps.Paths.AddXP(st, 15))
	res.Effects = append(res.Effects, world.XPGained(15))
	return res
}

// HandleTalk speaks with a character on the tile. "talk hermit about key"
// carries a topic; the Lua layer answers first, the YAML table is the
// fallback.
func HandleTalk(st *world.State, cmd command.Command, deps *Deps) *Result {
	target := cmd.Target
	topic := ""
	if name, rest, ok := strings.Cut(target, " about "); ok {
		target, topic = strings.TrimSpace(name), strings.TrimSpace(rest)
	}

	tile := st.CurrentTile()
	for _, id := range tile.Npcs {
		n := deps.Npcs.Get(id)
		if n == nil {
			continue
		}
		if id != target && foldName(n.Name) != foldName(target) {
			continue
		}
		if deps.Scripting != nil {
			if reply := deps.Scripting.Talk(id, topic); reply != "" {
				return &Result{Text: fmt.Sprintf("%s says: %q", n.Name, reply)}
			}
		}
		if topic != "" {
			if reply, ok := n.Topics[topic]; ok {
				return &Result{Text: fmt.Sprintf("%s says: %q", n.Name, reply)}
			}
			return &Result{Text: fmt.Sprintf("%s says: %q", n.Name, "Of that, I know nothing.")}
		}
		return &Result{Text: fmt.Sprintf("%s says: %q", n.Name, n.Greeting)}
	}
	return failResult(world.NewFailure(world.FailNotFound,
		fmt.Sprintf("There is no one called %s here.", target)))
}
