// Package command tokenises player input and classifies it into intents.
// The parser is pure: all state is the precompiled pattern table.
package command

import (
	"github.com/lastcentaur/server/internal/world"
)

// Intent is the finite classification of player input.
type Intent string

const (
	IntentUnknown     Intent = "unknown"
	IntentMove        Intent = "move"
	IntentLook        Intent = "look"
	IntentExamine     Intent = "examine"
	IntentTake        Intent = "take"
	IntentDrop        Intent = "drop"
	IntentInventory   Intent = "inventory"
	IntentAttack      Intent = "attack"
	IntentDefend      Intent = "defend"
	IntentDodge       Intent = "dodge"
	IntentRest        Intent = "rest"
	IntentMeditate    Intent = "meditate"
	IntentStatus      Intent = "status"
	IntentMap         Intent = "map"
	IntentHelp        Intent = "help"
	IntentHint        Intent = "hint"
	IntentSave        Intent = "save"
	IntentTitles      Intent = "titles"
	IntentLeaderboard Intent = "leaderboard"
	IntentInteract    Intent = "interact"
	IntentPathSelect  Intent = "path_select"
	IntentAbility     Intent = "ability"
	IntentEat         Intent = "eat"
	IntentTalk        Intent = "talk"
	IntentStealth     Intent = "stealth"
	IntentQuit        Intent = "quit"
)

// Command is one parsed player input.
type Command struct {
	Intent  Intent
	Dir     world.Direction   // MOVE
	Target  string            // EXAMINE/TAKE/DROP/ATTACK/EAT/ABILITY/TALK
	Kind    world.Interaction // INTERACT
	Text    string            // INTERACT remainder / HELP topic / LEADERBOARD category
	Minutes int               // MEDITATE
	Path    world.PathType    // PATH_SELECT
	Raw     string
}
