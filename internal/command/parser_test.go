package command

import (
	"testing"

	"github.com/lastcentaur/server/internal/world"
)

func TestParseMovement(t *testing.T) {
	p := NewParser()
	cases := []struct {
		in  string
		dir world.Direction
	}{
		{"north", world.North},
		{"n", world.North},
		{"  SOUTH  ", world.South},
		{"go east", world.East},
		{"move west", world.West},
		{"walk north", world.North},
	}
	for _, c := range cases {
		cmd := p.Parse(c.in)
		if cmd.Intent != IntentMove {
			t.Errorf("Parse(%q).Intent = %s, want move", c.in, cmd.Intent)
			continue
		}
		if cmd.Dir != c.dir {
			t.Errorf("Parse(%q).Dir = %s, want %s", c.in, cmd.Dir, c.dir)
		}
	}
}

func TestParseIntents(t *testing.T) {
	p := NewParser()
	cases := []struct {
		in     string
		intent Intent
		target string
	}{
		{"look", IntentLook, ""},
		{"l", IntentLook, ""},
		{"look at the statue", IntentExamine, "statue"},
		{"examine rune", IntentExamine, "rune"},
		{"take the shadow essence fragment", IntentTake, "shadow essence fragment"},
		{"pick up sword", IntentTake, "sword"},
		{"drop my sword", IntentDrop, "sword"},
		{"eat some berries", IntentEat, "berries"},
		{"attack phantom_assassin", IntentAttack, "phantom_assassin"},
		{"kill the wolf", IntentAttack, "wolf"},
		{"defend", IntentDefend, ""},
		{"dodge", IntentDodge, ""},
		{"cast arcane bolt", IntentAbility, "arcane bolt"},
		{"hide", IntentStealth, ""},
		{"rest", IntentRest, ""},
		{"status", IntentStatus, ""},
		{"map", IntentMap, ""},
		{"inventory", IntentInventory, ""},
		{"i", IntentInventory, ""},
		{"hint", IntentHint, ""},
		{"save", IntentSave, ""},
		{"titles", IntentTitles, ""},
		{"quit", IntentQuit, ""},
		{"talk to the hermit", IntentTalk, "hermit"},
		{"talk with hermit about crown", IntentTalk, "hermit about crown"},
	}
	for _, c := range cases {
		cmd := p.Parse(c.in)
		if cmd.Intent != c.intent {
			t.Errorf("Parse(%q).Intent = %s, want %s", c.in, cmd.Intent, c.intent)
			continue
		}
		if c.target != "" && cmd.Target != c.target {
			t.Errorf("Parse(%q).Target = %q, want %q", c.in, cmd.Target, c.target)
		}
	}
}

func TestParsePathSelect(t *testing.T) {
	p := NewParser()
	for _, in := range []string{"choose warrior", "select path mystic", "path stealth", "follow stealth path"} {
		cmd := p.Parse(in)
		if cmd.Intent != IntentPathSelect {
			t.Errorf("Parse(%q).Intent = %s, want path_select", in, cmd.Intent)
			continue
		}
		if !world.ValidPath(cmd.Path) {
			t.Errorf("Parse(%q).Path = %q, not a valid path", in, cmd.Path)
		}
	}
}

func TestParseMeditateMinutes(t *testing.T) {
	p := NewParser()
	cmd := p.Parse("meditate 45")
	if cmd.Intent != IntentMeditate || cmd.Minutes != 45 {
		t.Errorf("got intent=%s minutes=%d", cmd.Intent, cmd.Minutes)
	}
	cmd = p.Parse("meditate")
	if cmd.Intent != IntentMeditate || cmd.Minutes != 0 {
		t.Errorf("bare meditate: intent=%s minutes=%d", cmd.Intent, cmd.Minutes)
	}
}

func TestParseInteractions(t *testing.T) {
	p := NewParser()
	cases := []struct {
		in   string
		kind world.Interaction
		text string
	}{
		{"gather berries from the bush", world.InteractGather, "berries from bush"},
		{"touch the moss", world.InteractTouch, "moss"},
		{"dig under the cairn stones", world.InteractDig, "under cairn stones"},
		{"listen to the wind", world.InteractListen, "to wind"},
		{"climb the cliff", world.InteractClimb, "cliff"},
	}
	for _, c := range cases {
		cmd := p.Parse(c.in)
		if cmd.Intent != IntentInteract {
			t.Errorf("Parse(%q).Intent = %s, want interact", c.in, cmd.Intent)
			continue
		}
		if cmd.Kind != c.kind {
			t.Errorf("Parse(%q).Kind = %s, want %s", c.in, cmd.Kind, c.kind)
		}
		if cmd.Text != c.text {
			t.Errorf("Parse(%q).Text = %q, want %q", c.in, cmd.Text, c.text)
		}
	}
}

func TestParseCustomInteractionFallback(t *testing.T) {
	p := NewParser()
	cmd := p.Parse("whisper to the old stones")
	if cmd.Intent != IntentInteract || cmd.Kind != world.InteractCustom {
		t.Errorf("got intent=%s kind=%s, want interact/custom", cmd.Intent, cmd.Kind)
	}
	// A lone unrecognized token stays unknown.
	cmd = p.Parse("xyzzy")
	if cmd.Intent != IntentUnknown {
		t.Errorf("single garbage token: intent=%s, want unknown", cmd.Intent)
	}
}

func TestParseFoldsDiacritics(t *testing.T) {
	p := NewParser()
	cmd := p.Parse("examine runé")
	if cmd.Intent != IntentExamine || cmd.Target != "rune" {
		t.Errorf("got intent=%s target=%q", cmd.Intent, cmd.Target)
	}
}

func TestParseLeaderboardCategory(t *testing.T) {
	p := NewParser()
	cmd := p.Parse("leaderboard achievements")
	if cmd.Intent != IntentLeaderboard || cmd.Text != "achievements" {
		t.Errorf("got intent=%s text=%q", cmd.Intent, cmd.Text)
	}
	cmd = p.Parse("rankings")
	if cmd.Intent != IntentLeaderboard || cmd.Text != "" {
		t.Errorf("got intent=%s text=%q", cmd.Intent, cmd.Text)
	}
}

func TestSuggest(t *testing.T) {
	p := NewParser()
	sugg := p.Suggest("nort")
	if len(sugg) == 0 || sugg[0] != "north" {
		t.Errorf("Suggest(nort) = %v", sugg)
	}
	if got := p.Suggest("zzz"); len(got) != 0 {
		t.Errorf("Suggest(zzz) = %v, want none", got)
	}
	if len(p.Suggest("")) != 0 {
		t.Error("Suggest of empty input should be empty")
	}
}
