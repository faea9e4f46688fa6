package system

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// DiscoveryResult is the outcome of one interaction.
type DiscoveryResult struct {
	Found      *data.Discovery
	Text       string
	ItemGained string         // "" when no reward or inventory full
	Effects    map[string]int // stat deltas from special_effect
}

// DiscoverySystem matches free-form interactions against the discovery
// catalogue and falls back to canned flavor text.
type DiscoverySystem struct {
	table *data.DiscoveryTable
	rng   *rand.Rand
	log   *zap.Logger
}

// NewDiscoverySystem builds the system on the instance RNG stream.
func NewDiscoverySystem(table *data.DiscoveryTable, rng *rand.Rand, log *zap.Logger) *DiscoverySystem {
	return &DiscoverySystem{table: table, rng: rng, log: log}
}

// Interact evaluates one INTERACT(kind, text) against the current tile.
// Discoveries are checked in definition order; the first match wins. Empty
// text or an unknown kind yields an empty response.
func (s *DiscoverySystem) Interact(st *world.State, kind world.Interaction, text string) *DiscoveryResult {
	if text == "" || !knownInteraction(kind) {
		return &DiscoveryResult{}
	}
	tile := st.CurrentTile()
	lowered := strings.ToLower(text)

	for _, d := range s.table.All() {
		if !s.matches(st, d, tile, kind, lowered) {
			continue
		}
		return s.apply(st, d)
	}
	return &DiscoveryResult{Text: s.cannedResponse(st, kind, tile)}
}

func (s *DiscoverySystem) matches(st *world.State, d *data.Discovery, tile *world.Tile, kind world.Interaction, text string) bool {
	if !d.MatchesTerrain(tile.Terrain) {
		return false
	}
	if !d.MatchesConditions(st.Weather.Current, st.Clock.TimeOfDay()) {
		return false
	}
	if kind != d.RequiredInteraction && d.RequiredInteraction != world.InteractCustom {
		return false
	}
	if len(d.RequiredKeywords) > 0 {
		hit := false
		for _, kw := range d.RequiredKeywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if d.Unique && st.FoundDiscoveries[d.ID] {
		return false
	}
	return s.rng.Float64() <= d.ChanceToFind
}

// apply records the find, grants the reward when there is room, and writes
// the permanent environmental change.
func (s *DiscoverySystem) apply(st *world.State, d *data.Discovery) *DiscoveryResult {
	st.FoundDiscoveries[d.ID] = true

	res := &DiscoveryResult{Found: d, Text: d.DiscoveryText}
	if res.Text == "" {
		res.Text = fmt.Sprintf("You discover %s. %s", d.Name, d.Description)
	}
	if d.ItemReward != "" {
		if fail := st.Player.AddItem(d.ItemReward); fail == nil {
			res.ItemGained = d.ItemReward
		} else {
			res.Text += " Your hands are too full to carry it; it rests here for now."
		}
	}
	if len(d.SpecialEffect) > 0 {
		res.Effects = d.SpecialEffect
		for stat, delta := range d.SpecialEffect {
			switch stat {
			case "health":
				st.Player.Stats.AddHealth(delta)
			case "stamina":
				st.Player.Stats.AddStamina(delta)
			case "mana":
				st.Player.Stats.AddMana(delta)
			}
		}
	}

	st.Grid.ApplyChange(st.Player.Pos, world.EnvironmentalChange{
		Description:        fmt.Sprintf("Discovery: %s - %s", d.Name, d.Description),
		Timestamp:          st.Clock.TotalMinutes(),
		IsPermanent:        true,
		AffectsDescription: true,
		HiddenItemRevealed: d.ItemReward,
	})
	s.log.Info("discovery found",
		zap.String("instance", st.InstanceID),
		zap.String("discovery", d.ID))
	return res
}

// cannedResponse is keyed by kind and flavored by terrain and weather.
func (s *DiscoverySystem) cannedResponse(st *world.State, kind world.Interaction, tile *world.Tile) string {
	base := cannedByKind[kind]
	if base == "" {
		base = "Nothing comes of it."
	}
	if flavor := terrainFlavor[tile.Terrain]; flavor != "" {
		base += " " + flavor
	}
	if flavor := weatherFlavor[st.Weather.Current]; flavor != "" {
		base += " " + flavor
	}
	return base
}

var cannedByKind = map[world.Interaction]string{
	world.InteractExamine: "You look closely but find nothing out of the ordinary.",
	world.InteractTouch:   "It feels as it looks. Nothing stirs.",
	world.InteractGather:  "You find nothing worth gathering here.",
	world.InteractBreak:   "It holds firm against your effort.",
	world.InteractMove:    "It will not budge.",
	world.InteractClimb:   "There is nothing here worth climbing.",
	world.InteractDig:     "You turn over the earth and find only more earth.",
	world.InteractListen:  "You hear nothing unusual.",
	world.InteractSmell:   "You catch nothing beyond the ordinary scents of the land.",
	world.InteractTaste:   "Bold, but unrewarding.",
	world.InteractCustom:  "Nothing happens.",
}

var terrainFlavor = map[world.Terrain]string{
	world.TerrainForest:          "The trees whisper above you.",
	world.TerrainClearing:        "The open grass sways gently.",
	world.TerrainGrass:           "The grass ripples in long green waves.",
	world.TerrainMountain:        "Loose stone shifts underfoot.",
	world.TerrainRuins:           "Old stones keep their silence.",
	world.TerrainCave:            "Your movements echo in the dark.",
	world.TerrainDesert:          "Sand hisses across the dunes.",
	world.TerrainValley:          "A soft wind runs along the valley floor.",
	world.TerrainShadowDomain:    "The darkness here seems to watch back.",
	world.TerrainForgottenGrove:  "The grove holds a hush older than memory.",
	world.TerrainTwilightGlade:   "Half-light shimmers between the trunks.",
	world.TerrainEnchantedValley: "The air itself hums faintly.",
	world.TerrainAncientRuins:    "Time lies thick over the fallen stones.",
	world.TerrainAncientForest:   "The eldest trees lean close overhead.",
}

var weatherFlavor = map[world.WeatherType]string{
	world.WeatherRain:         "Rain patters steadily around you.",
	world.WeatherStorm:        "Thunder growls overhead.",
	world.WeatherFog:          "The fog presses close.",
	world.WeatherWindy:        "The wind tugs at you insistently.",
	world.WeatherMagicalStorm: "Stray sparks of magic drift past.",
	world.WeatherShadowMist:   "The mist coils around your legs.",
	world.WeatherBloodMoon:    "Everything is washed in red light.",
}

func knownInteraction(kind world.Interaction) bool {
	switch kind {
	case world.InteractExamine, world.InteractTouch, world.InteractGather,
		world.InteractBreak, world.InteractMove, world.InteractClimb,
		world.InteractDig, world.InteractListen, world.InteractSmell,
		world.InteractTaste, world.InteractCustom:
		return true
	}
	return false
}
