package world

import (
	"fmt"
	"strings"
)

// Grid owns the tile arena. The player holds only a Position; all lookups go
// through the grid, so there are no object back-pointers to keep consistent.
type Grid struct {
	tiles [GridSize][GridSize]*Tile
	spawn Position
}

// NewGrid builds a grid from a full set of 100 tiles and validates geometry.
func NewGrid(tiles []*Tile, spawn Position) (*Grid, error) {
	g := &Grid{spawn: spawn}
	for _, t := range tiles {
		if !t.Pos.InBounds() {
			return nil, fmt.Errorf("tile %s out of bounds", t.Pos.Key())
		}
		if g.tiles[t.Pos.X][t.Pos.Y] != nil {
			return nil, fmt.Errorf("duplicate tile at %s", t.Pos.Key())
		}
		g.tiles[t.Pos.X][t.Pos.Y] = t
	}
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			t := g.tiles[x][y]
			if t == nil {
				return nil, fmt.Errorf("missing tile at %d,%d", x, y)
			}
			// Every exit must point at an in-bounds tile. An exit only means
			// the move may be attempted; blockers still override.
			for d := range t.Exits {
				if !t.Exits[d] {
					continue
				}
				dx, dy := d.Vector()
				if !(Position{X: x + dx, Y: y + dy}).InBounds() {
					return nil, fmt.Errorf("tile %s: exit %s leaves the map", t.Pos.Key(), d)
				}
			}
		}
	}
	if !spawn.InBounds() {
		return nil, fmt.Errorf("spawn %s out of bounds", spawn.Key())
	}
	return g, nil
}

// Spawn returns the fixed spawn position.
func (g *Grid) Spawn() Position { return g.spawn }

// TileAt returns the tile at pos, or an OutOfBounds failure.
func (g *Grid) TileAt(pos Position) (*Tile, *Failure) {
	if !pos.InBounds() {
		return nil, NewFailure(FailOutOfBounds, BarrierMessage)
	}
	return g.tiles[pos.X][pos.Y], nil
}

// Neighbor returns the position one step in dir, or an OutOfBounds failure.
func (g *Grid) Neighbor(pos Position, dir Direction) (Position, *Failure) {
	dx, dy := dir.Vector()
	next := Position{X: pos.X + dx, Y: pos.Y + dy}
	if !next.InBounds() {
		return Position{}, NewFailure(FailOutOfBounds, BarrierMessage)
	}
	return next, nil
}

// ApplyChange appends a change to the tile's log. A revealed hidden item is
// added to the tile so a later TAKE can pick it up.
func (g *Grid) ApplyChange(pos Position, ch EnvironmentalChange) *Failure {
	t, fail := g.TileAt(pos)
	if fail != nil {
		return fail
	}
	t.Changes = append(t.Changes, ch)
	if ch.HiddenItemRevealed != "" && !t.HasItem(ch.HiddenItemRevealed) {
		t.Items = append(t.Items, ch.HiddenItemRevealed)
	}
	return nil
}

// Describe renders the tile's base description followed by every change that
// affects it. "Discovery: {name} - {desc}" entries are rewritten to past
// tense so revisits read naturally.
func (g *Grid) Describe(t *Tile) string {
	var b strings.Builder
	b.WriteString(t.BaseDescription)
	for _, ch := range t.Changes {
		if !ch.AffectsDescription {
			continue
		}
		b.WriteString(" ")
		b.WriteString(rewriteDiscoveryChange(ch.Description))
	}
	return b.String()
}

func rewriteDiscoveryChange(desc string) string {
	const prefix = "Discovery: "
	if !strings.HasPrefix(desc, prefix) {
		return desc
	}
	rest := desc[len(prefix):]
	name, detail, ok := strings.Cut(rest, " - ")
	if !ok {
		return desc
	}
	return fmt.Sprintf("You previously found %s here. %s", name, detail)
}
