package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
)

// tileOverride is the per-tile delta against the static map.
type tileOverride struct {
	Items     []string                    `json:"items"`
	Enemies   []string                    `json:"enemies"`
	ChangeLog []world.EnvironmentalChange `json:"change_log"`
}

// snapshot is the serialised mutable slice of one instance. Tile geometry is
// not stored: restore rebuilds the grid from the static map and applies
// overrides. The active combat encounter is deliberately absent; restoring
// drops any in-progress fight.
type snapshot struct {
	PlayerName       string                  `json:"player_name"`
	PlayerPosition   [2]int                  `json:"player_position"`
	Inventory        []string                `json:"inventory"`
	VisitedTiles     [][2]int                `json:"visited_tiles"`
	PlayerStats      world.Stats             `json:"player_stats"`
	GameTime         string                  `json:"game_time"`
	ActiveQuests     []string                `json:"active_quests"`
	CompletedQuests  []string                `json:"completed_quests"`
	TileOverrides    map[string]tileOverride `json:"tile_overrides"`
	PathProgress     world.PathState         `json:"path_progress"`
	Weather          world.WeatherState      `json:"weather"`
	Resources        world.Resources         `json:"resources"`
	Achievements     []string                `json:"achievements"`
	Titles           []string                `json:"titles"`
	ActiveTitle      string                  `json:"active_title,omitempty"`
	FoundDiscoveries []string                `json:"found_discoveries"`
	Stealth          world.StealthState      `json:"stealth"`
	History          [][2]int                `json:"history"`
	RestCount        int                     `json:"rest_count"`
	Completed        bool                    `json:"completed"`
}

// Snapshotter captures and restores instance state against the static map.
// It is the only component aware of the snapshot encoding.
type Snapshotter struct {
	maps *data.MapTable
	base *world.Grid // pristine build, for computing overrides
}

// NewSnapshotter builds the adapter. The base grid is materialized once and
// only ever read.
func NewSnapshotter(maps *data.MapTable) (*Snapshotter, error) {
	base, err := maps.BuildGrid()
	if err != nil {
		return nil, fmt.Errorf("build base grid: %w", err)
	}
	return &Snapshotter{maps: maps, base: base}, nil
}

// Capture serialises the state. Deterministic: slices are emitted in sorted
// order so equal states produce equal bytes.
func (s *Snapshotter) Capture(st *world.State) ([]byte, error) {
	snap := snapshot{
		PlayerName:       st.Player.Name,
		PlayerPosition:   [2]int{st.Player.Pos.X, st.Player.Pos.Y},
		Inventory:        append([]string{}, st.Player.Inventory...),
		PlayerStats:      st.Player.Stats,
		GameTime:         st.Clock.String(),
		ActiveQuests:     append([]string{}, st.ActiveQuests...),
		CompletedQuests:  append([]string{}, st.CompletedQuests...),
		TileOverrides:    make(map[string]tileOverride),
		PathProgress:     st.Paths,
		Weather:          st.Weather,
		Resources:        st.Resources,
		Achievements:     sortedKeys(st.Achievements),
		Titles:           append([]string{}, st.UnlockedTitles...),
		ActiveTitle:      st.ActiveTitle,
		FoundDiscoveries: sortedKeys(st.FoundDiscoveries),
		Stealth:          st.Stealth,
		RestCount:        st.Player.RestCount,
		Completed:        st.Completed,
	}

	for pos := range st.Player.VisitedTiles {
		snap.VisitedTiles = append(snap.VisitedTiles, [2]int{pos.X, pos.Y})
	}
	sort.Slice(snap.VisitedTiles, func(i, j int) bool {
		a, b := snap.VisitedTiles[i], snap.VisitedTiles[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	snap.History = make([][2]int, 0, len(st.History))
	for _, pos := range st.History {
		snap.History = append(snap.History, [2]int{pos.X, pos.Y})
	}

	for x := 0; x < world.GridSize; x++ {
		for y := 0; y < world.GridSize; y++ {
			pos := world.Position{X: x, Y: y}
			cur, _ := st.Grid.TileAt(pos)
			base, _ := s.base.TileAt(pos)
			if cur == nil || base == nil {
				continue
			}
			if len(cur.Changes) == 0 &&
				equalStrings(cur.Items, base.Items) &&
				equalStrings(cur.Enemies, base.Enemies) {
				continue
			}
			snap.TileOverrides[pos.Key()] = tileOverride{
				Items:     append([]string{}, cur.Items...),
				Enemies:   append([]string{}, cur.Enemies...),
				ChangeLog: append([]world.EnvironmentalChange{}, cur.Changes...),
			}
		}
	}

	return json.Marshal(snap)
}

// Restore rebuilds a full instance state from snapshot bytes. Blocked paths
// are re-derived from the enemies still present after overrides.
func (s *Snapshotter) Restore(instanceID string, raw []byte) (*world.State, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	grid, err := s.maps.BuildGrid()
	if err != nil {
		return nil, fmt.Errorf("rebuild grid: %w", err)
	}
	for key, ov := range snap.TileOverrides {
		pos, err := world.ParsePositionKey(key)
		if err != nil {
			return nil, fmt.Errorf("tile override %q: %w", key, err)
		}
		tile, fail := grid.TileAt(pos)
		if fail != nil {
			return nil, fmt.Errorf("tile override %q: %s", key, fail.Message)
		}
		tile.Items = append([]string(nil), ov.Items...)
		tile.Enemies = append([]string(nil), ov.Enemies...)
		tile.Changes = append([]world.EnvironmentalChange(nil), ov.ChangeLog...)
	}

	pos := world.Position{X: snap.PlayerPosition[0], Y: snap.PlayerPosition[1]}
	if !pos.InBounds() {
		return nil, fmt.Errorf("player position %v out of bounds", snap.PlayerPosition)
	}
	tile, _ := grid.TileAt(pos)

	clock, err := world.ParseGameTime(snap.GameTime)
	if err != nil {
		return nil, fmt.Errorf("game time %q: %w", snap.GameTime, err)
	}

	player := world.NewPlayer(instanceID, snap.PlayerName, pos, tile.Area)
	player.Stats = snap.PlayerStats
	player.Inventory = append([]string(nil), snap.Inventory...)
	player.RestCount = snap.RestCount
	player.VisitedTiles = make(map[world.Position]bool, len(snap.VisitedTiles))
	for _, v := range snap.VisitedTiles {
		vp := world.Position{X: v[0], Y: v[1]}
		player.VisitedTiles[vp] = true
		if t, fail := grid.TileAt(vp); fail == nil {
			t.Visited = true
		}
	}
	player.VisitedTiles[pos] = true

	st := &world.State{
		InstanceID:       instanceID,
		Player:           player,
		Grid:             grid,
		Clock:            clock,
		Weather:          snap.Weather,
		Resources:        snap.Resources,
		Paths:            snap.PathProgress,
		Stealth:          snap.Stealth,
		FoundDiscoveries: make(map[string]bool, len(snap.FoundDiscoveries)),
		Achievements:     make(map[string]bool, len(snap.Achievements)),
		UnlockedTitles:   append([]string(nil), snap.Titles...),
		ActiveTitle:      snap.ActiveTitle,
		ActiveQuests:     append([]string(nil), snap.ActiveQuests...),
		CompletedQuests:  append([]string(nil), snap.CompletedQuests...),
		Completed:        snap.Completed,
	}
	for _, id := range snap.FoundDiscoveries {
		st.FoundDiscoveries[id] = true
	}
	for _, id := range snap.Achievements {
		st.Achievements[id] = true
	}
	for _, h := range snap.History {
		st.History = append(st.History, world.Position{X: h[0], Y: h[1]})
	}

	ApplyGuards(st, s.maps)
	return st, nil
}

// ApplyGuards blocks the guarded exits of every tile that still holds
// enemies. Used at instance creation and after restore.
func ApplyGuards(st *world.State, maps *data.MapTable) {
	for x := 0; x < world.GridSize; x++ {
		for y := 0; y < world.GridSize; y++ {
			pos := world.Position{X: x, Y: y}
			tile, _ := st.Grid.TileAt(pos)
			if tile == nil || len(tile.Enemies) == 0 {
				continue
			}
			for _, d := range maps.GuardedExits(pos) {
				st.Player.BlockPath(pos, d)
			}
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
