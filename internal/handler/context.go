// Package handler maps parsed commands onto the world state. Every handler
// returns narrative text plus a machine-readable effects record; failures
// are values from the world taxonomy, never panics.
package handler

import (
	"fmt"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/config"
	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/scripting"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all command handlers.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger

	Items        *data.ItemTable
	Enemies      *data.EnemyTable
	Discoveries  *data.DiscoveryTable
	Achievements *data.AchievementTable
	Abilities    *data.AbilityTable
	Npcs         *data.NpcTable
	Map          *data.MapTable

	Parser      *command.Parser
	Time        *system.TimeSystem
	Weather     *system.WeatherSystem
	Resources   *system.ResourceSystem
	Paths       *system.PathSystem
	Combat      *system.CombatSystem
	Discovery   *system.DiscoverySystem
	Achieve     *system.AchievementSystem
	Leaderboard *system.Leaderboard
	Scripting   *scripting.Engine
}

// Result is what one command produces. Handlers never perform I/O; anything
// durable rides on the result and is written after the handler returns.
type Result struct {
	Text       string
	Effects    []world.Effect
	Mutated    bool // snapshot-worthy state change
	Quit       bool
	Completion *system.LeaderboardEntry // accepted run, written through by the executor
}

// HandlerFunc executes one parsed command against the instance state.
type HandlerFunc func(st *world.State, cmd command.Command, deps *Deps) *Result

// Registry dispatches intents to handlers.
type Registry struct {
	handlers map[command.Intent]HandlerFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[command.Intent]HandlerFunc)}
}

// Register binds an intent to a handler. Later registrations win.
func (r *Registry) Register(intent command.Intent, fn HandlerFunc) {
	r.handlers[intent] = fn
}

// Dispatch runs the handler for the command's intent. Unknown intents get
// vocabulary suggestions; a completed run rejects progress commands.
func (r *Registry) Dispatch(st *world.State, cmd command.Command, deps *Deps) *Result {
	if cmd.Intent == command.IntentUnknown {
		return unknownResult(cmd, deps)
	}
	if st.Completed && mutatesProgress(cmd.Intent) {
		msg := "Your journey is complete. The land is at peace; there is nothing left to do here."
		if st.Player.Stats.Health <= 0 {
			msg = "Your journey has ended. The land remembers those who tried."
		}
		return failResult(world.NewFailure(world.FailConflict, msg))
	}
	fn, ok := r.handlers[cmd.Intent]
	if !ok {
		return unknownResult(cmd, deps)
	}
	return fn(st, cmd, deps)
}

// RegisterAll registers every command handler.
func RegisterAll(reg *Registry) {
	reg.Register(command.IntentMove, HandleMove)
	reg.Register(command.IntentLook, HandleLook)
	reg.Register(command.IntentExamine, HandleExamine)
	reg.Register(command.IntentMap, HandleMap)
	reg.Register(command.IntentTake, HandleTake)
	reg.Register(command.IntentDrop, HandleDrop)
	reg.Register(command.IntentInventory, HandleInventory)
	reg.Register(command.IntentEat, HandleEat)
	reg.Register(command.IntentAttack, HandleAttack)
	reg.Register(command.IntentDefend, HandleDefend)
	reg.Register(command.IntentDodge, HandleDodge)
	reg.Register(command.IntentAbility, HandleAbility)
	reg.Register(command.IntentStealth, HandleStealth)
	reg.Register(command.IntentRest, HandleRest)
	reg.Register(command.IntentMeditate, HandleMeditate)
	reg.Register(command.IntentInteract, HandleInteract)
	reg.Register(command.IntentTalk, HandleTalk)
	reg.Register(command.IntentPathSelect, HandlePathSelect)
	reg.Register(command.IntentStatus, HandleStatus)
	reg.Register(command.IntentHelp, HandleHelp)
	reg.Register(command.IntentHint, HandleHint)
	reg.Register(command.IntentTitles, HandleTitles)
	reg.Register(command.IntentLeaderboard, HandleLeaderboard)
	reg.Register(command.IntentSave, HandleSave)
	reg.Register(command.IntentQuit, HandleQuit)
}

// mutatesProgress reports whether the intent would advance a finished run.
func mutatesProgress(i command.Intent) bool {
	switch i {
	case command.IntentLook, command.IntentExamine, command.IntentMap,
		command.IntentInventory, command.IntentStatus, command.IntentHelp,
		command.IntentHint, command.IntentTitles, command.IntentLeaderboard,
		command.IntentSave, command.IntentQuit:
		return false
	}
	return true
}

func unknownResult(cmd command.Command, deps *Deps) *Result {
	text := "I don't understand that."
	if sugg := deps.Parser.Suggest(cmd.Raw); len(sugg) > 0 {
		text += " Did you mean: "
		for i, s := range sugg {
			if i > 0 {
				text += ", "
			}
			text += s
		}
		text += "?"
	}
	return &Result{
		Text:    text,
		Effects: []world.Effect{world.ErrorEffect(world.FailUnknownCommand)},
	}
}

// failResult renders a Failure as a player-facing result.
func failResult(fail *world.Failure) *Result {
	return &Result{
		Text:    fail.Message,
		Effects: []world.Effect{world.ErrorEffect(fail.Kind)},
	}
}

// asFailure unwraps a handler error into a Failure, defaulting to invariant.
func asFailure(err error) *world.Failure {
	if f, ok := err.(*world.Failure); ok {
		return f
	}
	return world.NewFailure(world.FailInvariant, err.Error())
}

// appendEvents joins narration lines onto the result text.
func appendEvents(res *Result, events []string) {
	for _, ev := range events {
		if ev == "" {
			continue
		}
		res.Text += "\n" + ev
	}
}

// advanceTime moves the clock and folds threshold narration into the result.
func advanceTime(st *world.State, deps *Deps, res *Result, minutes int) {
	appendEvents(res, deps.Time.Advance(st, minutes))
	res.Effects = append(res.Effects, world.TimeAdvanced(minutes))
}

// resolveItem finds a catalogue item whose id or name matches the target.
func resolveItem(deps *Deps, target string) *data.Item {
	if item := deps.Items.Get(target); item != nil {
		return item
	}
	if item := deps.Items.Get(normalizeID(target)); item != nil {
		return item
	}
	for _, id := range deps.Items.IDs() {
		item := deps.Items.Get(id)
		if item != nil && foldName(item.Name) == foldName(target) {
			return item
		}
	}
	return nil
}

func normalizeID(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, '_')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

func foldName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

// itemDisplayName prefers the catalogue name over the raw id.
func itemDisplayName(deps *Deps, id string) string {
	if item := deps.Items.Get(id); item != nil {
		return item.Name
	}
	return id
}

// describeExits lists the open, unblocked exits from the player's tile.
func describeExits(st *world.State) string {
	tile := st.CurrentTile()
	var dirs []string
	for _, d := range world.Directions {
		if tile.HasExit(d) && !st.Player.IsBlocked(st.Player.Pos, d) {
			dirs = append(dirs, string(d))
		}
	}
	if len(dirs) == 0 {
		return "There are no open paths from here."
	}
	out := "Paths lead "
	for i, d := range dirs {
		if i > 0 {
			if i == len(dirs)-1 {
				out += " and "
			} else {
				out += ", "
			}
		}
		out += d
	}
	return out + "."
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
