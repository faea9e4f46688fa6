package handler

import (
	"fmt"
	"strings"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
)

// HandleStatus reports vitals, resources, path standing and conditions.
func HandleStatus(st *world.State, cmd command.Command, deps *Deps) *Result {
	var b strings.Builder
	p := st.Player

	name := p.Name
	if st.ActiveTitle != "" {
		for _, t := range deps.Achievements.Titles() {
			if t.ID == st.ActiveTitle {
				name = fmt.Sprintf("%s, %s", p.Name, t.Name)
				break
			}
		}
	}
	b.WriteString(name)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Health %d/%d  Stamina %d/%d  Mana %d/%d\n",
		p.Stats.Health, p.Stats.MaxHealth,
		p.Stats.Stamina, p.Stats.MaxStamina,
		p.Stats.Mana, p.Stats.MaxMana))
	b.WriteString(fmt.Sprintf("Hunger: %s  Fatigue: %s  Strain: %s\n",
		depletionWord(st.Resources.Hunger),
		depletionWord(st.Resources.Fatigue),
		depletionWord(st.Resources.MentalStrain)))

	if st.Paths.Selected != "" {
		pp := st.Paths.Progress(st.Paths.Selected)
		b.WriteString(fmt.Sprintf("Path: %s (level %d, %d xp)\n", st.Paths.Selected, pp.Level, pp.XP))
	} else {
		b.WriteString(fmt.Sprintf("Path: undecided (leaning %s)\n", st.Paths.Suggested()))
	}
	if st.Stealth.Hidden {
		b.WriteString("You are hidden.\n")
	}
	b.WriteString(fmt.Sprintf("%s. %s", st.Clock.String(), ambience(st)))
	return &Result{Text: b.String()}
}

func depletionWord(v float64) string {
	switch {
	case v < 0.25:
		return "fine"
	case v < 0.5:
		return "noticeable"
	case v < 0.75:
		return "serious"
	default:
		return "critical"
	}
}

// HandleHelp lists the command surface, or detail for one topic.
func HandleHelp(st *world.State, cmd command.Command, deps *Deps) *Result {
	topic := strings.TrimSpace(cmd.Text)
	if detail, ok := helpTopics[topic]; ok {
		return &Result{Text: detail}
	}
	return &Result{Text: strings.TrimSpace(`
You can:
  move    - north, south, east, west (or n/s/e/w)
  observe - look, examine <thing>, map, status
  carry   - take <item>, drop <item>, inventory, eat <item>
  fight   - attack <enemy>, defend, dodge, use <ability>, hide
  recover - rest, meditate [minutes]
  grow    - path <warrior|mystic|stealth>, titles
  world   - talk <name> [about <topic>], touch/gather/dig/listen/...
  meta    - hint, leaderboard [fastest|achievements], save, quit
Try "help <verb>" for more.`)}
}

var helpTopics = map[string]string{
	"move":     "Move with north/south/east/west. Each step costs stamina and a quarter hour. Blocked ways must be fought or unlocked.",
	"attack":   "attack <enemy> opens a turn-based fight. Mix in defend, dodge and your path abilities. Defeat drops the enemy's carry onto the ground.",
	"hide":     "hide slips you into the shadows when conditions allow. Attacks from hiding strike far harder, but movement into the open reveals you.",
	"rest":     "rest makes camp for an hour, easing fatigue. meditate stills the mind and restores mana. Eat to keep hunger from sapping you.",
	"path":     "path warrior|mystic|stealth commits you for good. Your actions until then nudge which path suits you; status shows the leaning.",
	"interact": "The land hides more than it shows. touch, gather, dig, listen, smell and stranger verbs can uncover discoveries on the right ground.",
}

// HandleHint offers a context-sensitive nudge. The Lua layer answers first.
func HandleHint(st *world.State, cmd command.Command, deps *Deps) *Result {
	if deps.Scripting != nil {
		if h := deps.Scripting.Hint(string(st.Player.CurrentArea), string(st.Paths.Selected), len(st.Achievements)); h != "" {
			return &Result{Text: h}
		}
	}
	if st.Paths.Selected == "" {
		return &Result{Text: fmt.Sprintf(
			"The land tests what kind of centaur you are. Your deeds so far lean toward the %s path.",
			st.Paths.Suggested())}
	}
	if hint, ok := areaHints[st.Player.CurrentArea]; ok {
		return &Result{Text: hint}
	}
	return &Result{Text: "Press on. The corruption has a heart, and hearts can be pierced."}
}

var areaHints = map[world.Area]string{
	world.AreaAwakeningWoods:  "These woods are only the beginning. Gather your strength and head north.",
	world.AreaMysticValley:    "Old magic pools in this valley. A mystic eye finds more here than a sword.",
	world.AreaAncientRuins:    "The ruins remember. Examine what others would walk past.",
	world.AreaForgottenPeaks:  "The peaks punish the weary. Rest before you climb.",
	world.AreaShadowDomain:    "Here the shadows serve whoever dares use them.",
	world.AreaTwilightGlade:   "Something watches from the half-light. Tread carefully.",
	world.AreaEnchantedValley: "The valley's bounty is real, but so are its guardians.",
	world.AreaFinalAscent:     "The Second Centaur waits at the summit. Everything has led to this.",
}

// HandleTitles lists earned titles, marking the active one.
func HandleTitles(st *world.State, cmd command.Command, deps *Deps) *Result {
	if len(st.UnlockedTitles) == 0 {
		return &Result{Text: "You have earned no titles yet."}
	}
	var b strings.Builder
	b.WriteString("Titles earned:")
	for _, id := range st.UnlockedTitles {
		name := id
		for _, t := range deps.Achievements.Titles() {
			if t.ID == id {
				name = t.Name
				break
			}
		}
		b.WriteString("\n  ")
		b.WriteString(name)
		if id == st.ActiveTitle {
			b.WriteString(" (active)")
		}
	}
	return &Result{Text: b.String()}
}

// HandleLeaderboard shows the rankings. Default category is fastest.
func HandleLeaderboard(st *world.State, cmd command.Command, deps *Deps) *Result {
	category := system.CategoryFastest
	if strings.Contains(cmd.Text, "achieve") {
		category = system.CategoryAchievements
	}

	var entries []system.LeaderboardEntry
	var title string
	if category == system.CategoryAchievements {
		entries = deps.Leaderboard.TopByAchievements(10)
		title = "Most decorated journeys:"
	} else {
		entries = deps.Leaderboard.TopByFastest(10)
		title = "Fastest journeys:"
	}
	if len(entries) == 0 {
		return &Result{Text: "No one has completed the journey yet. The throne stands empty."}
	}

	var b strings.Builder
	b.WriteString(title)
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("\n%2d. %s - %s, %s, %s",
			i+1, e.PlayerName, e.CompletionTime.String(),
			plural(e.Achievements, "achievement"), e.PathType))
	}
	if rank := deps.Leaderboard.RankOf(st.Player.ID, category); rank > 0 {
		b.WriteString(fmt.Sprintf("\nYour rank: %d", rank))
	}
	return &Result{Text: b.String()}
}

// HandleSave forces a snapshot after this command.
func HandleSave(st *world.State, cmd command.Command, deps *Deps) *Result {
	return &Result{Text: "Your story is recorded. The land will remember you.", Mutated: true}
}

// HandleQuit ends the session; state survives through the snapshot store.
func HandleQuit(st *world.State, cmd command.Command, deps *Deps) *Result {
	return &Result{Text: "You rest beneath the old trees. Return when you are ready.", Mutated: true, Quit: true}
}
