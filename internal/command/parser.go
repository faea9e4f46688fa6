package command

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/lastcentaur/server/internal/world"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// directionWords maps shortcut tokens to directions.
var directionWords = map[string]world.Direction{
	"n": world.North, "north": world.North,
	"s": world.South, "south": world.South,
	"e": world.East, "east": world.East,
	"w": world.West, "west": world.West,
}

// fillerWords are stripped before classification. Articles and politeness
// carry no intent.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"please": true, "my": true, "some": true,
}

// interactionVerbs maps leading verbs to interaction kinds for INTERACT.
var interactionVerbs = map[string]world.Interaction{
	"touch": world.InteractTouch, "feel": world.InteractTouch,
	"gather": world.InteractGather, "collect": world.InteractGather,
	"pick": world.InteractGather, "harvest": world.InteractGather, "forage": world.InteractGather,
	"break": world.InteractBreak, "smash": world.InteractBreak, "shatter": world.InteractBreak,
	"push": world.InteractMove, "pull": world.InteractMove, "shift": world.InteractMove,
	"climb": world.InteractClimb, "scale": world.InteractClimb,
	"dig": world.InteractDig, "excavate": world.InteractDig,
	"listen": world.InteractListen, "hear": world.InteractListen,
	"smell": world.InteractSmell, "sniff": world.InteractSmell,
	"taste": world.InteractTaste, "lick": world.InteractTaste,
	"search": world.InteractExamine, "inspect": world.InteractExamine,
}

type intentPattern struct {
	intent Intent
	re     *regexp.Regexp
}

// Parser classifies input lines. Safe for concurrent use: it holds only the
// precompiled pattern table.
type Parser struct {
	patterns []intentPattern
}

// NewParser precompiles the regex table once.
func NewParser() *Parser {
	compile := func(intent Intent, expr string) intentPattern {
		return intentPattern{intent: intent, re: regexp.MustCompile(expr)}
	}
	return &Parser{patterns: []intentPattern{
		// Order matters: more specific phrasings before generic ones.
		compile(IntentLeaderboard, `^(leaderboard|rankings?|top)\b\s*(.*)$`),
		compile(IntentPathSelect, `^(choose|select|follow|pick)\s+(?:path\s+)?(warrior|mystic|stealth)(?:\s+path)?$`),
		compile(IntentPathSelect, `^path\s+(warrior|mystic|stealth)$`),
		compile(IntentInventory, `^(inventory|inv|i|items|bag)$`),
		compile(IntentLook, `^(look|look around|l|surroundings)$`),
		compile(IntentExamine, `^(examine|look at|inspect|study|observe)\s+(.+)$`),
		compile(IntentTake, `^(take|get|grab|pick up)\s+(.+)$`),
		compile(IntentDrop, `^(drop|discard|leave)\s+(.+)$`),
		compile(IntentEat, `^(eat|drink|consume)\s+(.+)$`),
		compile(IntentAttack, `^(attack|fight|strike|hit|kill)\s+(.+)$`),
		compile(IntentDefend, `^(defend|block|guard|brace)$`),
		compile(IntentDodge, `^(dodge|evade|roll)$`),
		compile(IntentAbility, `^(use|cast|ability)\s+(.+)$`),
		compile(IntentStealth, `^(hide|sneak|stealth|vanish)$`),
		compile(IntentRest, `^(rest|sleep|camp)$`),
		compile(IntentMeditate, `^meditate(?:\s+(\d+))?$`),
		compile(IntentStatus, `^(status|stats|condition)$`),
		compile(IntentMap, `^(map|m)$`),
		compile(IntentHelp, `^(help|h|\?)\s*(.*)$`),
		compile(IntentHint, `^(hint|guide me)$`),
		compile(IntentSave, `^save$`),
		compile(IntentTitles, `^(titles?|title list)$`),
		compile(IntentTalk, `^(talk|speak|chat)(?:\s+(?:with|to))?\s+(.+)$`),
		compile(IntentQuit, `^(quit|exit|bye)$`),
	}}
}

// foldText strips diacritic marks so keyword matching treats "café" and
// "cafe" alike.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalize lowercases, folds diacritics, and strips articles and fillers.
func normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(foldText(input)))
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if fillerWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Parse classifies one input line into a Command.
func (p *Parser) Parse(input string) Command {
	cmd := Command{Intent: IntentUnknown, Raw: input}
	s := normalize(input)
	if s == "" {
		return cmd
	}

	// Direction shortcut: a leading direction token is always a MOVE.
	first := strings.Fields(s)[0]
	if dir, ok := directionWords[first]; ok {
		cmd.Intent = IntentMove
		cmd.Dir = dir
		return cmd
	}
	if strings.HasPrefix(s, "go ") || strings.HasPrefix(s, "move ") || strings.HasPrefix(s, "walk ") {
		rest := strings.Fields(s)[1:]
		if len(rest) > 0 {
			if dir, ok := directionWords[rest[0]]; ok {
				cmd.Intent = IntentMove
				cmd.Dir = dir
				return cmd
			}
		}
	}

	for _, pat := range p.patterns {
		m := pat.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		cmd.Intent = pat.intent
		switch pat.intent {
		case IntentExamine, IntentTake, IntentDrop, IntentAttack, IntentAbility, IntentEat, IntentTalk:
			cmd.Target = m[len(m)-1]
		case IntentHelp, IntentLeaderboard:
			cmd.Text = strings.TrimSpace(m[len(m)-1])
		case IntentMeditate:
			if m[1] != "" {
				cmd.Minutes, _ = strconv.Atoi(m[1])
			}
		case IntentPathSelect:
			cmd.Path = world.PathType(m[len(m)-1])
		}
		return cmd
	}

	// Free-form interaction: leading verb picks the kind, the rest is the
	// cleaned text the discovery engine matches keywords against.
	if kind, ok := interactionVerbs[first]; ok {
		cmd.Intent = IntentInteract
		cmd.Kind = kind
		cmd.Text = strings.TrimSpace(strings.TrimPrefix(s, first))
		return cmd
	}

	// Anything else becomes a custom interaction so discoveries with
	// required_interaction=custom can still match.
	if len(strings.Fields(s)) >= 2 {
		cmd.Intent = IntentInteract
		cmd.Kind = world.InteractCustom
		cmd.Text = s
		return cmd
	}
	return cmd
}

// vocabulary is the suggestion pool for unknown input.
var vocabulary = []string{
	"north", "south", "east", "west", "look", "examine", "take", "drop",
	"inventory", "attack", "defend", "dodge", "rest", "meditate", "status",
	"map", "help", "hint", "save", "titles", "leaderboard", "path", "hide",
	"talk", "eat", "quit",
}

// Suggest returns up to three vocabulary entries sharing a prefix with the
// first token of the failed input.
func (p *Parser) Suggest(input string) []string {
	s := normalize(input)
	if s == "" {
		return nil
	}
	first := strings.Fields(s)[0]
	var out []string
	for _, v := range vocabulary {
		if strings.HasPrefix(v, first) || strings.HasPrefix(first, v) {
			out = append(out, v)
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}
