package system

import (
	"testing"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

func combatFixture(t *testing.T, enemies ...*data.Enemy) (*CombatSystem, *world.State) {
	t.Helper()
	items := data.NewItemTable([]*data.Item{
		{ID: "rusty_sword", Name: "Rusty Sword", Type: data.ItemWeapon,
			Properties: map[string]int{"damage": 5}, CanBePickedUp: true},
		{ID: "centaur_blade", Name: "Centaur Blade", Type: data.ItemWeapon,
			Properties: map[string]int{"damage": 12}, CanBePickedUp: true},
	})
	paths := testPaths()
	resources := NewResourceSystem(nil)
	sys := NewCombatSystem(data.NewEnemyTable(enemies), items, paths, resources,
		nil, testRNG(42), zap.NewNop())
	st := calmState(t)
	for _, e := range enemies {
		st.CurrentTile().Enemies = append(st.CurrentTile().Enemies, e.ID)
	}
	return sys, st
}

func TestAttackVictoryUnblocksAndDrops(t *testing.T) {
	wolf := &data.Enemy{ID: "wolf", Name: "Grey Wolf", Type: data.EnemyBeast,
		CombatStyle: data.StyleAggressive, Health: 10, Damage: 4, Drops: []string{"wolf_pelt"}}
	sys, st := combatFixture(t, wolf)
	st.Player.BlockPath(st.Player.Pos, world.North)

	out, err := sys.Attack(st, "wolf")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Victory {
		t.Fatalf("10hp wolf should fall to one unarmed hit: %v", out.Lines)
	}
	if want := 10/2 + 4; out.XP != want {
		t.Errorf("XP = %d, want %d", out.XP, want)
	}
	if st.CurrentTile().HasEnemy("wolf") {
		t.Error("defeated enemy still on the tile")
	}
	if !st.CurrentTile().HasItem("wolf_pelt") {
		t.Error("drop missing from the tile")
	}
	if st.Player.IsBlocked(st.Player.Pos, world.North) {
		t.Error("victory should clear the tile's gated exits")
	}
	if st.Combat != nil {
		t.Error("encounter should be over")
	}
	if st.Paths.Warrior.Affinity != 3.0 { // attack +1, kill +2
		t.Errorf("warrior affinity = %v, want 3.0", st.Paths.Warrior.Affinity)
	}
}

func TestAttackUsesBestWeapon(t *testing.T) {
	tough := &data.Enemy{ID: "guardian", Name: "Guardian", Type: data.EnemyConstruct,
		CombatStyle: data.StyleDefensive, Health: 500, Damage: 3}
	sys, st := combatFixture(t, tough)
	st.Player.Inventory = []string{"rusty_sword", "centaur_blade"}

	out, err := sys.Attack(st, "guardian")
	if err != nil {
		t.Fatal(err)
	}
	// Unselected path, no weather: damage is base 10 + best weapon 12.
	if got := 500 - st.Combat.EnemyHealth; got != 22 {
		t.Errorf("damage dealt = %d, want 22 (lines: %v)", got, out.Lines)
	}
}

func TestDefendHalvesDamage(t *testing.T) {
	brute := &data.Enemy{ID: "brute", Name: "Brute", Type: data.EnemyBeast,
		CombatStyle: data.StyleAggressive, Health: 500, Damage: 20}
	sys, st := combatFixture(t, brute)

	if _, err := sys.Engage(st, "brute"); err != nil {
		t.Fatal(err)
	}
	before := st.Player.Stats.Health
	if _, err := sys.Defend(st); err != nil {
		t.Fatal(err)
	}
	if taken := before - st.Player.Stats.Health; taken != 10 {
		t.Errorf("damage taken while defending = %d, want 10", taken)
	}
}

func TestDefendOutsideCombat(t *testing.T) {
	sys, st := combatFixture(t)
	if _, err := sys.Defend(st); err == nil {
		t.Error("defending outside combat should conflict")
	}
}

func TestDefensiveEnemyOnlyCounters(t *testing.T) {
	turtle := &data.Enemy{ID: "turtle", Name: "Stone Turtle", Type: data.EnemyConstruct,
		CombatStyle: data.StyleDefensive, Health: 500, Damage: 15}
	sys, st := combatFixture(t, turtle)

	if _, err := sys.Engage(st, "turtle"); err != nil {
		t.Fatal(err)
	}
	before := st.Player.Stats.Health
	if _, err := sys.Defend(st); err != nil {
		t.Fatal(err)
	}
	if st.Player.Stats.Health != before {
		t.Error("defensive enemy should not strike an un-attacking player")
	}
	if _, err := sys.Attack(st, "turtle"); err != nil {
		t.Fatal(err)
	}
	if st.Player.Stats.Health == before {
		t.Error("defensive enemy should counter an attack")
	}
}

func TestAbilityCostsAndCooldown(t *testing.T) {
	tough := &data.Enemy{ID: "guardian", Name: "Guardian", Type: data.EnemyConstruct,
		CombatStyle: data.StyleDefensive, Health: 500, Damage: 3}
	sys, st := combatFixture(t, tough)
	paths := sys.paths
	if err := paths.SelectPath(st, world.PathWarrior); err != nil {
		t.Fatal(err)
	}
	ab := testAbilities().Get("power_strike")

	if _, err := sys.Engage(st, "guardian"); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.UseAbility(st, ab); err != nil {
		t.Fatal(err)
	}
	if st.Player.Stats.Stamina != 85 {
		t.Errorf("stamina after power strike = %d, want 85", st.Player.Stats.Stamina)
	}
	// Cooldown 2, one turn elapsed: still cooling.
	if _, err := sys.UseAbility(st, ab); err == nil {
		t.Error("ability should be on cooldown")
	}

	st.Player.Stats.Stamina = 5
	cold := testAbilities().Get("war_cry")
	if _, err := sys.UseAbility(st, cold); err == nil {
		t.Error("ability should fail without stamina")
	}
}

func TestStealthSurpriseOnlyOnce(t *testing.T) {
	ghost := &data.Enemy{ID: "ghost", Name: "Ghost", Type: data.EnemyShadow,
		CombatStyle: data.StyleStealth, Health: 500, Damage: 10}
	sys, st := combatFixture(t, ghost)

	if _, err := sys.Attack(st, "ghost"); err != nil {
		t.Fatal(err)
	}
	if !st.Combat.SurpriseRolled {
		t.Error("surprise should be rolled on the first exchange")
	}
}

func TestPlayerDefeat(t *testing.T) {
	reaper := &data.Enemy{ID: "reaper", Name: "Reaper", Type: data.EnemyShadow,
		CombatStyle: data.StyleAggressive, Health: 500, Damage: 60}
	sys, st := combatFixture(t, reaper)
	st.Player.Stats.Health = 30

	out, err := sys.Attack(st, "reaper")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Defeat {
		t.Fatalf("player at 30hp should fall to a 60-damage hit: %v", out.Lines)
	}
	if st.Player.Stats.Health != 0 {
		t.Errorf("health = %d, want 0", st.Player.Stats.Health)
	}
	if st.Combat != nil {
		t.Error("encounter should end on defeat")
	}
}

func TestHiddenStrikeBreaksStealth(t *testing.T) {
	tough := &data.Enemy{ID: "guardian", Name: "Guardian", Type: data.EnemyConstruct,
		CombatStyle: data.StyleDefensive, Health: 500, Damage: 3}
	sys, st := combatFixture(t, tough)
	if err := sys.paths.SelectPath(st, world.PathStealth); err != nil {
		t.Fatal(err)
	}
	st.Stealth.Hidden = true

	if _, err := sys.Attack(st, "guardian"); err != nil {
		t.Fatal(err)
	}
	// Backstab doubles the unarmed 10 base.
	if got := 500 - st.Combat.EnemyHealth; got != 20 {
		t.Errorf("backstab damage = %d, want 20", got)
	}
	if st.Stealth.Hidden {
		t.Error("striking from hiding should break stealth")
	}
}

func TestAttackMissingEnemy(t *testing.T) {
	sys, st := combatFixture(t)
	if _, err := sys.Attack(st, "nobody"); err == nil {
		t.Error("attacking an absent enemy should fail")
	}
}
