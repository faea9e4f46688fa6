package world

import (
	"fmt"
	"strconv"
	"strings"
)

// GridSize is the fixed edge length of the world map. Positions live in
// [0, GridSize) on both axes.
const GridSize = 10

// Position is a tile coordinate. Y grows northward: the spawn row is y=0
// and moving north increases y.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// InBounds reports whether the position lies on the map.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Key renders the position in the "x,y" form used by snapshot tile overrides.
func (p Position) Key() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// ParsePositionKey parses the "x,y" snapshot key form back into a Position.
func ParsePositionKey(s string) (Position, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("bad position key %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("bad position key %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("bad position key %q: %w", s, err)
	}
	return Position{X: x, Y: y}, nil
}

// Direction is one of the four cardinal movement directions.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists all four directions in stable order.
var Directions = []Direction{North, South, East, West}

// Vector returns the coordinate delta for the direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// Terrain classifies a tile's ground type. Discoveries match against it.
type Terrain string

const (
	TerrainForest         Terrain = "forest"
	TerrainClearing       Terrain = "clearing"
	TerrainMountain       Terrain = "mountain"
	TerrainRuins          Terrain = "ruins"
	TerrainGrass          Terrain = "grass"
	TerrainCave           Terrain = "cave"
	TerrainDesert         Terrain = "desert"
	TerrainValley         Terrain = "valley"
	TerrainShadowDomain   Terrain = "shadow_domain"
	TerrainForgottenGrove Terrain = "forgotten_grove"
	TerrainTwilightGlade  Terrain = "twilight_glade"
	TerrainEnchantedValley Terrain = "enchanted_valley"
	TerrainAncientRuins   Terrain = "ancient_ruins"
	TerrainAncientForest  Terrain = "ancient_forest"
)

// Area is a narrative region spanning multiple tiles; distinct from terrain.
type Area string

const (
	AreaAwakeningWoods Area = "awakening_woods"
	AreaMysticValley   Area = "mystic_valley"
	AreaAncientRuins   Area = "ancient_ruins"
	AreaForgottenPeaks Area = "forgotten_peaks"
	AreaShadowDomain   Area = "shadow_domain"
	AreaTwilightGlade  Area = "twilight_glade"
	AreaEnchantedValley Area = "enchanted_valley"
	AreaFinalAscent    Area = "final_ascent"
)

// MysticAreas are areas eligible for the MAGICAL_STORM special transition.
var MysticAreas = map[Area]bool{
	AreaMysticValley:    true,
	AreaEnchantedValley: true,
	AreaTwilightGlade:   true,
}

// ShadowAreas are areas eligible for the SHADOW_MIST special transition.
var ShadowAreas = map[Area]bool{
	AreaShadowDomain: true,
	AreaFinalAscent:  true,
}

// Interaction is the verb class of an INTERACT command.
type Interaction string

const (
	InteractExamine Interaction = "examine"
	InteractTouch   Interaction = "touch"
	InteractGather  Interaction = "gather"
	InteractBreak   Interaction = "break"
	InteractMove    Interaction = "move"
	InteractClimb   Interaction = "climb"
	InteractDig     Interaction = "dig"
	InteractListen  Interaction = "listen"
	InteractSmell   Interaction = "smell"
	InteractTaste   Interaction = "taste"
	InteractCustom  Interaction = "custom"
)

// EnvironmentalChange records a persistent alteration to a tile. Changes with
// AffectsDescription are woven into the tile description on render.
type EnvironmentalChange struct {
	Description        string `json:"description"`
	Timestamp          int    `json:"timestamp"` // game time, total minutes
	IsPermanent        bool   `json:"is_permanent"`
	AffectsDescription bool   `json:"affects_description"`
	HiddenItemRevealed string `json:"hidden_item_revealed,omitempty"`
}

// Tile is a single cell of the world grid. Geometry (Pos, Terrain, Area,
// Exits) is immutable after grid construction; only Visited, Items, Enemies
// and Changes mutate.
type Tile struct {
	Pos             Position
	Terrain         Terrain
	Area            Area
	BaseDescription string
	Exits           map[Direction]bool
	Items           []string
	Enemies         []string
	Npcs            []string
	Requirements    map[string]string
	Visited         bool
	Changes         []EnvironmentalChange
}

// HasExit reports whether the tile has an exit in the given direction.
func (t *Tile) HasExit(d Direction) bool {
	return t.Exits[d]
}

// HasItem reports whether the item is currently on the tile.
func (t *Tile) HasItem(id string) bool {
	for _, it := range t.Items {
		if it == id {
			return true
		}
	}
	return false
}

// RemoveItem removes the first occurrence of the item from the tile.
func (t *Tile) RemoveItem(id string) bool {
	for i, it := range t.Items {
		if it == id {
			t.Items = append(t.Items[:i], t.Items[i+1:]...)
			return true
		}
	}
	return false
}

// HasEnemy reports whether the enemy is alive on the tile.
func (t *Tile) HasEnemy(id string) bool {
	for _, e := range t.Enemies {
		if e == id {
			return true
		}
	}
	return false
}

// RemoveEnemy removes a defeated enemy from the tile.
func (t *Tile) RemoveEnemy(id string) bool {
	for i, e := range t.Enemies {
		if e == id {
			t.Enemies = append(t.Enemies[:i], t.Enemies[i+1:]...)
			return true
		}
	}
	return false
}

// HasNpc reports whether the named NPC stands on the tile.
func (t *Tile) HasNpc(id string) bool {
	for _, n := range t.Npcs {
		if n == id {
			return true
		}
	}
	return false
}
