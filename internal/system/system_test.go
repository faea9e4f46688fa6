package system

import (
	"math/rand"
	"testing"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// testGrid builds a 10x10 forest grid with every in-bounds exit open.
func testGrid(t *testing.T, spawn world.Position) *world.Grid {
	t.Helper()
	var tiles []*world.Tile
	for x := 0; x < world.GridSize; x++ {
		for y := 0; y < world.GridSize; y++ {
			pos := world.Position{X: x, Y: y}
			tile := &world.Tile{
				Pos:             pos,
				Terrain:         world.TerrainForest,
				Area:            world.AreaAwakeningWoods,
				BaseDescription: "Forest.",
				Exits:           make(map[world.Direction]bool),
			}
			for _, d := range world.Directions {
				dx, dy := d.Vector()
				if (world.Position{X: x + dx, Y: y + dy}).InBounds() {
					tile.Exits[d] = true
				}
			}
			tiles = append(tiles, tile)
		}
	}
	g, err := world.NewGrid(tiles, spawn)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

// testState is a fresh state at spawn (5,0), day 1 07:00, clear weather.
func testState(t *testing.T) *world.State {
	t.Helper()
	return world.NewState("test-instance", "Tester", testGrid(t, world.Position{X: 5, Y: 0}))
}

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// calmState zeroes weather intensity so modifiers stay neutral in tests that
// only care about the system under test.
func calmState(t *testing.T) *world.State {
	st := testState(t)
	st.Weather.Intensity = 0
	return st
}

func testAbilities() *data.AbilityTable {
	return data.NewAbilityTable([]*data.PathAbility{
		{ID: "power_strike", Path: world.PathWarrior, Level: 1, Name: "Power Strike", Damage: 18, CooldownTurns: 2, StaminaCost: 15},
		{ID: "war_cry", Path: world.PathWarrior, Level: 3, Name: "War Cry", Damage: 12, CooldownTurns: 3, StaminaCost: 10},
		{ID: "arcane_bolt", Path: world.PathMystic, Level: 1, Name: "Arcane Bolt", Damage: 16, CooldownTurns: 1, ManaCost: 20},
		{ID: "shadow_step", Path: world.PathStealth, Level: 1, Name: "Shadow Step", Damage: 12, CooldownTurns: 2, StaminaCost: 10},
	})
}

func testPaths() *PathSystem {
	return NewPathSystem(testAbilities(), nil, zap.NewNop())
}
