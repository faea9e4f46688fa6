package world

import (
	"strings"
	"testing"
)

// fullGrid builds a 10x10 grid where every in-bounds exit is open.
func fullGrid(t *testing.T, spawn Position) *Grid {
	t.Helper()
	var tiles []*Tile
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			pos := Position{X: x, Y: y}
			tile := &Tile{
				Pos:             pos,
				Terrain:         TerrainForest,
				Area:            AreaAwakeningWoods,
				BaseDescription: "Trees.",
				Exits:           make(map[Direction]bool),
			}
			for _, d := range Directions {
				dx, dy := d.Vector()
				if (Position{X: x + dx, Y: y + dy}).InBounds() {
					tile.Exits[d] = true
				}
			}
			tiles = append(tiles, tile)
		}
	}
	g, err := NewGrid(tiles, spawn)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestNeighborBounds(t *testing.T) {
	g := fullGrid(t, Position{X: 5, Y: 0})

	next, fail := g.Neighbor(Position{X: 5, Y: 0}, North)
	if fail != nil {
		t.Fatalf("north from (5,0): %v", fail)
	}
	if next != (Position{X: 5, Y: 1}) {
		t.Errorf("north from (5,0) = %v, want (5,1)", next)
	}

	if _, fail := g.Neighbor(Position{X: 5, Y: 0}, South); fail == nil {
		t.Error("south from (5,0) should be out of bounds")
	} else if fail.Kind != FailOutOfBounds {
		t.Errorf("fail kind = %s, want %s", fail.Kind, FailOutOfBounds)
	} else if fail.Message != BarrierMessage {
		t.Errorf("barrier message = %q, want %q", fail.Message, BarrierMessage)
	}

	if _, fail := g.Neighbor(Position{X: 9, Y: 4}, East); fail == nil {
		t.Error("east from (9,4) should be out of bounds")
	}
}

func TestNewGridRejectsBadGeometry(t *testing.T) {
	if _, err := NewGrid(nil, Position{}); err == nil {
		t.Error("empty tile set should fail")
	}
}

func TestApplyChangeRevealsHiddenItem(t *testing.T) {
	g := fullGrid(t, Position{X: 0, Y: 0})
	pos := Position{X: 2, Y: 2}

	fail := g.ApplyChange(pos, EnvironmentalChange{
		Description:        "Discovery: Berry Bush - A bush heavy with berries.",
		IsPermanent:        true,
		AffectsDescription: true,
		HiddenItemRevealed: "forest_berries",
	})
	if fail != nil {
		t.Fatalf("ApplyChange: %v", fail)
	}
	tile, _ := g.TileAt(pos)
	if !tile.HasItem("forest_berries") {
		t.Error("revealed item not added to tile")
	}
	desc := g.Describe(tile)
	if !strings.Contains(desc, "You previously found Berry Bush here.") {
		t.Errorf("revisit description not rewritten: %q", desc)
	}
}

func TestPlayerInventoryCapacity(t *testing.T) {
	p := NewPlayer("id", "Tester", Position{X: 5, Y: 0}, AreaAwakeningWoods)
	p.Stats.InventoryCapacity = 2

	if fail := p.AddItem("a"); fail != nil {
		t.Fatalf("first add: %v", fail)
	}
	if fail := p.AddItem("b"); fail != nil {
		t.Fatalf("second add: %v", fail)
	}
	fail := p.AddItem("c")
	if fail == nil {
		t.Fatal("third add should fail at capacity 2")
	}
	if fail.Kind != FailInsufficientResource {
		t.Errorf("fail kind = %s, want %s", fail.Kind, FailInsufficientResource)
	}
	if !p.RemoveItem("a") {
		t.Error("RemoveItem should report success")
	}
	if fail := p.AddItem("c"); fail != nil {
		t.Errorf("add after remove: %v", fail)
	}
}

func TestStatsClamp(t *testing.T) {
	s := DefaultStats()
	s.AddHealth(50)
	if s.Health != s.MaxHealth {
		t.Errorf("health overshoot: %d", s.Health)
	}
	s.AddHealth(-500)
	if s.Health != 0 {
		t.Errorf("health undershoot: %d", s.Health)
	}
	s.AddStamina(-30)
	if s.Stamina != 70 {
		t.Errorf("stamina = %d, want 70", s.Stamina)
	}
}

func TestBlockedPaths(t *testing.T) {
	p := NewPlayer("id", "Tester", Position{}, AreaAwakeningWoods)
	pos := Position{X: 0, Y: 3}
	p.BlockPath(pos, North)
	if !p.IsBlocked(pos, North) {
		t.Error("north should be blocked")
	}
	if p.IsBlocked(pos, East) {
		t.Error("east should not be blocked")
	}
	p.ClearBlocked(pos)
	if p.IsBlocked(pos, North) {
		t.Error("ClearBlocked should drop every gate for the tile")
	}
}

func TestGameTimeAdvance(t *testing.T) {
	gt := NewGameTime()
	if gt.String() != "Day 1, 07:00" {
		t.Fatalf("start clock = %q", gt.String())
	}
	gt.Advance(15)
	if gt.String() != "Day 1, 07:15" {
		t.Errorf("after 15m = %q", gt.String())
	}
	gt.Advance(17 * 60) // cross midnight
	if gt.Days != 2 || gt.Hours != 0 || gt.Minutes != 15 {
		t.Errorf("after 17h = %q", gt.String())
	}
	gt.Advance(-5)
	if gt.String() != "Day 2, 00:15" {
		t.Errorf("negative advance should be a no-op, got %q", gt.String())
	}
}

func TestGameTimeRoundTrip(t *testing.T) {
	for _, want := range []GameTime{
		{Days: 1, Hours: 7, Minutes: 0},
		{Days: 3, Hours: 23, Minutes: 59},
		{Days: 12, Hours: 0, Minutes: 5},
	} {
		got, err := ParseGameTime(want.String())
		if err != nil {
			t.Fatalf("parse %q: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("round trip %q: got %+v", want.String(), got)
		}
	}
	for _, bad := range []string{"", "Day 0, 07:00", "Day 1, 24:00", "noon"} {
		if _, err := ParseGameTime(bad); err == nil {
			t.Errorf("ParseGameTime(%q) should fail", bad)
		}
	}
}

func TestTimeOfDayBands(t *testing.T) {
	cases := []struct {
		hour int
		want TimeOfDay
	}{
		{5, Dawn}, {6, Dawn}, {7, Morning}, {11, Morning},
		{12, Noon}, {13, Noon}, {14, Afternoon}, {16, Afternoon},
		{17, Evening}, {19, Evening}, {20, Night}, {3, Night},
	}
	for _, c := range cases {
		gt := GameTime{Days: 1, Hours: c.hour}
		if got := gt.TimeOfDay(); got != c.want {
			t.Errorf("hour %d: got %s, want %s", c.hour, got, c.want)
		}
	}
}

func TestParsePositionKey(t *testing.T) {
	pos, err := ParsePositionKey("3,7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pos != (Position{X: 3, Y: 7}) {
		t.Errorf("got %v", pos)
	}
	for _, bad := range []string{"", "3", "a,b"} {
		if _, err := ParsePositionKey(bad); err == nil {
			t.Errorf("ParsePositionKey(%q) should fail", bad)
		}
	}
}

func TestPathStateSuggested(t *testing.T) {
	ps := PathState{}
	ps.Warrior.Affinity = 1
	ps.Stealth.Affinity = 3
	if got := ps.Suggested(); got != PathStealth {
		t.Errorf("suggested = %s, want stealth", got)
	}
	ps.Mystic.Affinity = 5
	if got := ps.Suggested(); got != PathMystic {
		t.Errorf("suggested = %s, want mystic", got)
	}
}
