package handler

import (
	"fmt"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/world"
)

// HandlePathSelect commits the player to a path, irrevocably.
func HandlePathSelect(st *world.State, cmd command.Command, deps *Deps) *Result {
	if err := deps.Paths.SelectPath(st, cmd.Path); err != nil {
		return failResult(asFailure(err))
	}
	res := &Result{
		Text:    pathSelectionText(cmd.Path),
		Mutated: true,
		Effects: []world.Effect{world.FlagSet("path_selected")},
	}
	appendEvents(res, deps.Achieve.OnPathSelect(st))
	return res
}

func pathSelectionText(p world.PathType) string {
	switch p {
	case world.PathWarrior:
		return "You grip your weapon and swear the warrior's oath. Strength will carry you to the throne."
	case world.PathMystic:
		return "You open yourself to the currents of old magic. The mystic's way is yours now."
	case world.PathStealth:
		return "You let the shadows take you in. From now on, you walk unseen."
	default:
		return fmt.Sprintf("You commit to the %s path.", p)
	}
}
