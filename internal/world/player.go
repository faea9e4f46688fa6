package world

import "fmt"

// Stats holds the player's bounded vitals. Current values are clamped to
// [0, max] by every mutation.
type Stats struct {
	Health            int `json:"health"`
	MaxHealth         int `json:"max_health"`
	Stamina           int `json:"stamina"`
	MaxStamina        int `json:"max_stamina"`
	Mana              int `json:"mana"`
	MaxMana           int `json:"max_mana"`
	InventoryCapacity int `json:"inventory_capacity"`
	InventoryWeight   int `json:"current_inventory_weight"`
}

// DefaultStats are the values a fresh avatar starts with.
func DefaultStats() Stats {
	return Stats{
		Health: 100, MaxHealth: 100,
		Stamina: 100, MaxStamina: 100,
		Mana: 100, MaxMana: 100,
		InventoryCapacity: 20,
	}
}

// AddHealth adjusts health by n, clamped to [0, max].
func (s *Stats) AddHealth(n int) { s.Health = clamp(s.Health+n, 0, s.MaxHealth) }

// AddStamina adjusts stamina by n, clamped to [0, max].
func (s *Stats) AddStamina(n int) { s.Stamina = clamp(s.Stamina+n, 0, s.MaxStamina) }

// AddMana adjusts mana by n, clamped to [0, max].
func (s *Stats) AddMana(n int) { s.Mana = clamp(s.Mana+n, 0, s.MaxMana) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Player is the single avatar of a game instance. It holds only a Position;
// tile lookups go through the grid.
type Player struct {
	ID           string
	Name         string
	Pos          Position
	CurrentArea  Area
	Stats        Stats
	Inventory    []string
	VisitedTiles map[Position]bool
	BlockedPaths map[Position]map[Direction]bool
	RestCount    int
}

// NewPlayer creates the avatar at the spawn tile with default stats.
func NewPlayer(id, name string, spawn Position, area Area) *Player {
	p := &Player{
		ID:           id,
		Name:         name,
		Pos:          spawn,
		CurrentArea:  area,
		Stats:        DefaultStats(),
		VisitedTiles: make(map[Position]bool),
		BlockedPaths: make(map[Position]map[Direction]bool),
	}
	p.VisitedTiles[spawn] = true
	return p
}

// HasItem reports whether the item is in the inventory.
func (p *Player) HasItem(id string) bool {
	for _, it := range p.Inventory {
		if it == id {
			return true
		}
	}
	return false
}

// AddItem appends an item, failing when the inventory is full.
func (p *Player) AddItem(id string) *Failure {
	if len(p.Inventory) >= p.Stats.InventoryCapacity {
		return NewFailure(FailInsufficientResource,
			fmt.Sprintf("Your hands are full. You cannot carry the %s.", id))
	}
	p.Inventory = append(p.Inventory, id)
	return nil
}

// RemoveItem removes the first occurrence of the item.
func (p *Player) RemoveItem(id string) bool {
	for i, it := range p.Inventory {
		if it == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// MarkVisited records the position. Visited sets only ever grow.
func (p *Player) MarkVisited(pos Position) {
	p.VisitedTiles[pos] = true
}

// BlockPath records that the exit from pos in dir is presently gated.
func (p *Player) BlockPath(pos Position, dir Direction) {
	if p.BlockedPaths[pos] == nil {
		p.BlockedPaths[pos] = make(map[Direction]bool)
	}
	p.BlockedPaths[pos][dir] = true
}

// IsBlocked reports whether the exit from pos in dir is gated.
func (p *Player) IsBlocked(pos Position, dir Direction) bool {
	return p.BlockedPaths[pos][dir]
}

// ClearBlocked removes every gate recorded for pos. Called when the blocking
// enemy on that tile is defeated.
func (p *Player) ClearBlocked(pos Position) {
	delete(p.BlockedPaths, pos)
}
