package data

import (
	"fmt"
	"os"

	"github.com/lastcentaur/server/internal/world"
	"gopkg.in/yaml.v3"
)

// tileDef is one explicit tile entry in map.yaml. Anything unset falls back
// to the covering fill rect.
type tileDef struct {
	Pos          world.Position    `yaml:"pos"`
	Terrain      world.Terrain     `yaml:"terrain"`
	Area         world.Area        `yaml:"area"`
	Description  string            `yaml:"description"`
	Items        []string          `yaml:"items"`
	Enemies      []string          `yaml:"enemies"`
	Npcs         []string          `yaml:"npcs"`
	Requirements map[string]string `yaml:"requirements"`
	ClosedExits  []world.Direction `yaml:"closed_exits"`
	GuardedExits []world.Direction `yaml:"guarded_exits"`
}

// fillDef paints a rectangle of tiles with shared terrain/area/description.
type fillDef struct {
	X0          int           `yaml:"x0"`
	Y0          int           `yaml:"y0"`
	X1          int           `yaml:"x1"`
	Y1          int           `yaml:"y1"`
	Terrain     world.Terrain `yaml:"terrain"`
	Area        world.Area    `yaml:"area"`
	Description string        `yaml:"description"`
}

// MapTable is the static world layout: fills plus explicit tiles. BuildGrid
// produces a fresh mutable grid; the table itself never mutates.
type MapTable struct {
	spawn   world.Position
	fills   []fillDef
	tiles   map[world.Position]*tileDef
	guarded map[world.Position][]world.Direction
}

// LoadMapTable reads the world layout from a YAML file.
func LoadMapTable(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	var doc struct {
		Spawn world.Position `yaml:"spawn"`
		Fills []fillDef      `yaml:"fills"`
		Tiles []tileDef      `yaml:"tiles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	t := &MapTable{
		spawn:   doc.Spawn,
		fills:   doc.Fills,
		tiles:   make(map[world.Position]*tileDef, len(doc.Tiles)),
		guarded: make(map[world.Position][]world.Direction),
	}
	for i := range doc.Tiles {
		td := &doc.Tiles[i]
		if !td.Pos.InBounds() {
			return nil, fmt.Errorf("map %s: tile %s out of bounds", path, td.Pos.Key())
		}
		t.tiles[td.Pos] = td
	}
	// Precompute guard directions: explicit guarded_exits, else every open
	// exit of a tile that spawns enemies.
	for pos, td := range t.tiles {
		if len(td.Enemies) == 0 {
			continue
		}
		if len(td.GuardedExits) > 0 {
			t.guarded[pos] = td.GuardedExits
			continue
		}
		var dirs []world.Direction
		for _, d := range world.Directions {
			if t.exitOpen(pos, td, d) {
				dirs = append(dirs, d)
			}
		}
		t.guarded[pos] = dirs
	}
	return t, nil
}

func (t *MapTable) exitOpen(pos world.Position, td *tileDef, d world.Direction) bool {
	dx, dy := d.Vector()
	if !(world.Position{X: pos.X + dx, Y: pos.Y + dy}).InBounds() {
		return false
	}
	if td == nil {
		return true
	}
	for _, c := range td.ClosedExits {
		if c == d {
			return false
		}
	}
	return true
}

// Spawn returns the fixed spawn position.
func (t *MapTable) Spawn() world.Position { return t.spawn }

// GuardedExits returns the exits gated while enemies remain on the tile.
func (t *MapTable) GuardedExits(pos world.Position) []world.Direction {
	return t.guarded[pos]
}

// Count returns the number of explicit tile definitions.
func (t *MapTable) Count() int { return len(t.tiles) }

// BuildGrid materializes a fresh 10x10 grid from fills and tile overrides.
func (t *MapTable) BuildGrid() (*world.Grid, error) {
	var tiles []*world.Tile
	for x := 0; x < world.GridSize; x++ {
		for y := 0; y < world.GridSize; y++ {
			pos := world.Position{X: x, Y: y}
			tile := &world.Tile{
				Pos:     pos,
				Terrain: world.TerrainGrass,
				Area:    world.AreaAwakeningWoods,
				Exits:   make(map[world.Direction]bool),
			}
			for _, f := range t.fills {
				if x >= f.X0 && x <= f.X1 && y >= f.Y0 && y <= f.Y1 {
					tile.Terrain = f.Terrain
					tile.Area = f.Area
					tile.BaseDescription = f.Description
				}
			}
			td := t.tiles[pos]
			if td != nil {
				if td.Terrain != "" {
					tile.Terrain = td.Terrain
				}
				if td.Area != "" {
					tile.Area = td.Area
				}
				if td.Description != "" {
					tile.BaseDescription = td.Description
				}
				tile.Items = append([]string(nil), td.Items...)
				tile.Enemies = append([]string(nil), td.Enemies...)
				tile.Npcs = append([]string(nil), td.Npcs...)
				if len(td.Requirements) > 0 {
					tile.Requirements = td.Requirements
				}
			}
			for _, d := range world.Directions {
				if t.exitOpen(pos, td, d) {
					tile.Exits[d] = true
				}
			}
			if tile.BaseDescription == "" {
				tile.BaseDescription = fmt.Sprintf("Open %s stretches in every direction.", tile.Terrain)
			}
			tiles = append(tiles, tile)
		}
	}
	return world.NewGrid(tiles, t.spawn)
}
