package system

import (
	"math"
	"testing"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAccrueBaseRates(t *testing.T) {
	sys := NewResourceSystem(nil)
	st := calmState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 12} // daytime, no night factor

	sys.Accrue(st, 360)
	if !almost(st.Resources.Hunger, 0.5) {
		t.Errorf("hunger after 360m = %v, want 0.5", st.Resources.Hunger)
	}
	if !almost(st.Resources.Fatigue, 0.375) {
		t.Errorf("fatigue after 360m = %v, want 0.375", st.Resources.Fatigue)
	}
	if !almost(st.Resources.MentalStrain, 0.25) {
		t.Errorf("strain after 360m = %v, want 0.25", st.Resources.MentalStrain)
	}

	sys.Accrue(st, 100000)
	if st.Resources.Hunger != 1 || st.Resources.Fatigue != 1 || st.Resources.MentalStrain != 1 {
		t.Errorf("scalars must clamp at 1, got %+v", st.Resources)
	}
}

func TestAccrueWindowModifiers(t *testing.T) {
	sys := NewResourceSystem(nil)

	st := calmState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 12}
	sys.MarkCombat(st)
	sys.Accrue(st, 60) // inside the 60-minute combat window
	if !almost(st.Resources.Hunger, 60.0/720*1.5) {
		t.Errorf("combat hunger = %v, want %v", st.Resources.Hunger, 60.0/720*1.5)
	}

	st = calmState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 22} // night
	sys.Accrue(st, 96)
	if !almost(st.Resources.Fatigue, 96.0/960*1.3) {
		t.Errorf("night fatigue = %v, want %v", st.Resources.Fatigue, 96.0/960*1.3)
	}

	st = calmState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 12}
	sys.MarkAbilityUse(st)
	sys.Accrue(st, 60)
	if !almost(st.Resources.MentalStrain, 60.0/1440*1.8) {
		t.Errorf("ability strain = %v, want %v", st.Resources.MentalStrain, 60.0/1440*1.8)
	}

	// Outside the window the modifier no longer applies.
	st = calmState(t)
	st.Clock = world.GameTime{Days: 1, Hours: 12}
	sys.MarkCombat(st)
	st.Clock.Advance(120)
	sys.Accrue(st, 60)
	if !almost(st.Resources.Hunger, 60.0/720) {
		t.Errorf("expired combat window hunger = %v, want %v", st.Resources.Hunger, 60.0/720)
	}
}

func TestRegenFactors(t *testing.T) {
	sys := NewResourceSystem(nil)
	st := calmState(t)

	st.Resources.Hunger = 0.5
	if got := sys.StaminaRegenFactor(st); got != 1.0 {
		t.Errorf("no penalty at 0.5, got %v", got)
	}
	st.Resources.Hunger = 0.75
	if got := sys.StaminaRegenFactor(st); !almost(got, 0.55) {
		t.Errorf("stamina factor at 0.75 = %v, want 0.55", got)
	}
	st.Resources.Hunger = 1.0
	if got := sys.StaminaRegenFactor(st); !almost(got, 0.1) {
		t.Errorf("stamina factor at 1.0 = %v, want 0.1", got)
	}
	st.Resources.Fatigue = 1.0
	if got := sys.HealthRegenFactor(st); !almost(got, 0.2) {
		t.Errorf("health factor at 1.0 = %v, want 0.2", got)
	}
	st.Resources.MentalStrain = 1.0
	if got := sys.ManaRegenFactor(st); !almost(got, 0.15) {
		t.Errorf("mana factor at 1.0 = %v, want 0.15", got)
	}
}

func TestEat(t *testing.T) {
	sys := NewResourceSystem(nil)
	st := calmState(t)
	st.Resources.Hunger = 0.5
	st.Player.Stats.Health = 50
	st.Player.Stats.Stamina = 50

	herb := &data.Item{ID: "healing_herbs", Type: data.ItemConsumable,
		Properties: map[string]int{"heal": 25, "nourishment": 10}}
	sys.Eat(st, herb)
	if !almost(st.Resources.Hunger, 0.4) {
		t.Errorf("hunger after eating = %v, want 0.4", st.Resources.Hunger)
	}
	if st.Player.Stats.Health != 75 {
		t.Errorf("health = %d, want 75", st.Player.Stats.Health)
	}
	if st.Player.Stats.Stamina != 50 {
		t.Errorf("stamina should be untouched, got %d", st.Player.Stats.Stamina)
	}
	if st.Resources.LastMealAt != st.Clock.TotalMinutes() {
		t.Error("LastMealAt not stamped")
	}
}

func TestRestAndMeditate(t *testing.T) {
	sys := NewResourceSystem(nil)
	st := calmState(t)
	st.Player.Stats.Stamina = 20
	st.Player.Stats.Health = 40
	st.Player.Stats.Mana = 10
	st.Resources.Fatigue = 0.4

	staminaGain, healthGain := sys.Rest(st, 60)
	if staminaGain != 30 || healthGain != 15 {
		t.Errorf("rest gains = (%d,%d), want (30,15)", staminaGain, healthGain)
	}
	if st.Player.Stats.Stamina != 50 || st.Player.Stats.Health != 55 {
		t.Errorf("stats after rest = %d/%d", st.Player.Stats.Stamina, st.Player.Stats.Health)
	}
	if !almost(st.Resources.Fatigue, 0.15) {
		t.Errorf("fatigue after rest = %v, want 0.15", st.Resources.Fatigue)
	}

	st.Resources.MentalStrain = 0.3
	manaGain := sys.Meditate(st, 30)
	if manaGain != 18 {
		t.Errorf("meditate mana gain = %d, want 18", manaGain)
	}
	if !almost(st.Resources.MentalStrain, 0.05) {
		t.Errorf("strain after meditate = %v, want 0.05", st.Resources.MentalStrain)
	}
}
