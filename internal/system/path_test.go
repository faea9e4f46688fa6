package system

import (
	"errors"
	"testing"

	"github.com/lastcentaur/server/internal/world"
)

func TestSelectPathIrrevocable(t *testing.T) {
	sys := testPaths()
	st := testState(t)

	if err := sys.SelectPath(st, world.PathWarrior); err != nil {
		t.Fatalf("first selection: %v", err)
	}
	if st.Paths.Selected != world.PathWarrior {
		t.Fatalf("selected = %s", st.Paths.Selected)
	}
	if st.Paths.Warrior.Level != 1 {
		t.Errorf("selection should floor level at 1, got %d", st.Paths.Warrior.Level)
	}
	if !st.Paths.Warrior.HasAbility("power_strike") {
		t.Error("level-1 ability not unlocked on selection")
	}

	err := sys.SelectPath(st, world.PathMystic)
	var fail *world.Failure
	if !errors.As(err, &fail) || fail.Kind != world.FailConflict {
		t.Errorf("second selection: got %v, want conflict", err)
	}
	if err := sys.SelectPath(testState(t), "bard"); err == nil {
		t.Error("unknown path should fail")
	}
}

func TestRecordActionAffinity(t *testing.T) {
	sys := testPaths()
	st := testState(t)

	sys.RecordAction(st, ActionAttack)
	sys.RecordAction(st, ActionKill)
	sys.RecordAction(st, ActionMeditate)
	sys.RecordAction(st, ActionHide)
	sys.RecordAction(st, ActionStealthKill)
	sys.RecordAction(st, PathAction("no_such_action"))

	if st.Paths.Warrior.Affinity != 3.0 {
		t.Errorf("warrior affinity = %v, want 3.0", st.Paths.Warrior.Affinity)
	}
	if st.Paths.Mystic.Affinity != 0.5 {
		t.Errorf("mystic affinity = %v, want 0.5", st.Paths.Mystic.Affinity)
	}
	if st.Paths.Stealth.Affinity != 2.5 {
		t.Errorf("stealth affinity = %v, want 2.5", st.Paths.Stealth.Affinity)
	}
}

func TestAddXPLevelsAndUnlocks(t *testing.T) {
	sys := testPaths()
	st := testState(t)

	if events := sys.AddXP(st, 500); events != nil {
		t.Errorf("XP before selection should be dropped, got %v", events)
	}
	if err := sys.SelectPath(st, world.PathWarrior); err != nil {
		t.Fatal(err)
	}

	events := sys.AddXP(st, 99)
	if len(events) != 0 || st.Paths.Warrior.Level != 1 {
		t.Errorf("99 XP should not level: events=%v level=%d", events, st.Paths.Warrior.Level)
	}

	events = sys.AddXP(st, 151) // total 250: levels 2 and 3
	if st.Paths.Warrior.Level != 3 {
		t.Fatalf("level = %d, want 3", st.Paths.Warrior.Level)
	}
	if len(events) != 3 { // two level lines plus the war_cry unlock
		t.Errorf("events = %v", events)
	}
	if !st.Paths.Warrior.HasAbility("war_cry") {
		t.Error("level-3 ability not unlocked")
	}
}

func TestCalculateDamageWarrior(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	if err := sys.SelectPath(st, world.PathWarrior); err != nil {
		t.Fatal(err)
	}
	st.Paths.Warrior.Level = 2

	if got := sys.CalculateDamage(st, 10, 5); got != 21 {
		t.Errorf("warrior damage = %d, want 21", got)
	}
}

func TestCalculateDamageMystic(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	if err := sys.SelectPath(st, world.PathMystic); err != nil {
		t.Fatal(err)
	}

	st.Player.Stats.Mana = 50
	if got := sys.CalculateDamage(st, 10, 0); got != 15 {
		t.Errorf("mystic damage with mana = %d, want 15", got)
	}
	st.Player.Stats.Mana = 10 // below the threshold
	if got := sys.CalculateDamage(st, 10, 0); got != 10 {
		t.Errorf("mystic damage without mana = %d, want 10", got)
	}
}

func TestCalculateDamageStealth(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	if err := sys.SelectPath(st, world.PathStealth); err != nil {
		t.Fatal(err)
	}

	if got := sys.CalculateDamage(st, 10, 0); got != 10 {
		t.Errorf("visible stealth damage = %d, want 10", got)
	}
	st.Stealth.Hidden = true
	if got := sys.CalculateDamage(st, 10, 0); got != 20 {
		t.Errorf("backstab damage = %d, want 20", got)
	}
}

func TestCalculateDamageUnselected(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	if got := sys.CalculateDamage(st, 10, 5); got != 15 {
		t.Errorf("unselected damage = %d, want raw 15", got)
	}
}

func TestEnterStealth(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 12} // daytime: threshold 0.75

	msg, err := sys.EnterStealth(st, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if st.Stealth.Hidden {
		t.Errorf("roll below threshold should fail: %q", msg)
	}

	if _, err := sys.EnterStealth(st, 0.9); err != nil {
		t.Fatal(err)
	}
	if !st.Stealth.Hidden {
		t.Fatal("roll above threshold should hide")
	}
	if st.Paths.Stealth.Affinity != 0.5 {
		t.Errorf("hiding should feed stealth affinity, got %v", st.Paths.Stealth.Affinity)
	}

	if _, err := sys.EnterStealth(st, 0.9); err == nil {
		t.Error("hiding while hidden should conflict")
	}
}

func TestStealthExpiry(t *testing.T) {
	sys := testPaths()
	st := testState(t)
	st.Stealth.Hidden = true
	st.Stealth.HiddenSince = st.Clock.TotalMinutes()

	st.Clock.Advance(119)
	if msg := sys.CheckStealthExpiry(st); msg != "" {
		t.Errorf("stealth expired early: %q", msg)
	}
	st.Clock.Advance(1)
	if msg := sys.CheckStealthExpiry(st); msg == "" {
		t.Error("stealth should expire after 120 minutes")
	}
	if st.Stealth.Hidden {
		t.Error("expiry should clear the hidden state")
	}
}
