package system

import (
	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
)

// Base accrual rates per game minute. At these rates an unfed, unrested
// centaur bottoms out in roughly half a game day to a full day.
const (
	hungerPerMinute  = 1.0 / 720
	fatiguePerMinute = 1.0 / 960
	strainPerMinute  = 1.0 / 1440
)

// Accrual modifiers while the matching window is active.
const (
	combatHungerFactor  = 1.5 // recent combat: hunger +50%
	nightFatigueFactor  = 1.3 // night: fatigue +30%
	abilityStrainFactor = 1.8 // recent ability use: mental strain +80%
	recentWindowMinutes = 60
)

// Maximum regen penalties at depletion 1.0.
const (
	maxStaminaPenalty = 0.90 // hunger
	maxHealthPenalty  = 0.80 // fatigue
	maxManaPenalty    = 0.85 // mental strain
)

// ResourceSystem accrues hunger, fatigue and mental strain and converts
// them into regen penalties.
type ResourceSystem struct {
	weather *WeatherSystem
}

// NewResourceSystem builds the system; weather scales drain rates.
func NewResourceSystem(weather *WeatherSystem) *ResourceSystem {
	return &ResourceSystem{weather: weather}
}

// Accrue grows all three scalars for the elapsed minutes.
func (s *ResourceSystem) Accrue(st *world.State, minutes int) {
	if minutes <= 0 {
		return
	}
	drain := 1.0
	if s.weather != nil {
		drain = s.weather.Modifiers(st).ResourceDrain
	}
	now := st.Clock.TotalMinutes()
	m := float64(minutes)

	hunger := hungerPerMinute * m * drain
	if st.Resources.LastCombatAt > 0 && now-st.Resources.LastCombatAt <= recentWindowMinutes {
		hunger *= combatHungerFactor
	}
	fatigue := fatiguePerMinute * m * drain
	if st.Clock.TimeOfDay() == world.Night {
		fatigue *= nightFatigueFactor
	}
	strain := strainPerMinute * m * drain
	if st.Resources.LastAbilityAt > 0 && now-st.Resources.LastAbilityAt <= recentWindowMinutes {
		strain *= abilityStrainFactor
	}

	st.Resources.Hunger = clamp01(st.Resources.Hunger + hunger)
	st.Resources.Fatigue = clamp01(st.Resources.Fatigue + fatigue)
	st.Resources.MentalStrain = clamp01(st.Resources.MentalStrain + strain)
}

// regenFactor maps a depletion scalar to a regen multiplier: no penalty
// below 0.5, then linear down to (1 - maxPenalty) at 1.0.
func regenFactor(depletion, maxPenalty float64) float64 {
	if depletion <= 0.5 {
		return 1.0
	}
	return 1.0 - (depletion-0.5)/0.5*maxPenalty
}

// StaminaRegenFactor is the hunger-driven stamina regen multiplier.
func (s *ResourceSystem) StaminaRegenFactor(st *world.State) float64 {
	return regenFactor(st.Resources.Hunger, maxStaminaPenalty)
}

// HealthRegenFactor is the fatigue-driven health regen multiplier.
func (s *ResourceSystem) HealthRegenFactor(st *world.State) float64 {
	return regenFactor(st.Resources.Fatigue, maxHealthPenalty)
}

// ManaRegenFactor is the strain-driven mana regen multiplier.
func (s *ResourceSystem) ManaRegenFactor(st *world.State) float64 {
	return regenFactor(st.Resources.MentalStrain, maxManaPenalty)
}

// Eat applies a food item: hunger falls by nourishment/100 and any
// heal/stamina/mana properties restore the matching stat.
func (s *ResourceSystem) Eat(st *world.State, item *data.Item) {
	st.Resources.Hunger = clamp01(st.Resources.Hunger - float64(item.Property("nourishment"))/100)
	st.Resources.LastMealAt = st.Clock.TotalMinutes()
	st.Player.Stats.AddHealth(item.Property("heal"))
	st.Player.Stats.AddStamina(item.Property("stamina"))
	st.Player.Stats.AddMana(item.Property("mana"))
}

// Rest recovers fatigue and regenerates stamina and health, both scaled by
// the current penalties.
func (s *ResourceSystem) Rest(st *world.State, minutes int) (staminaGain, healthGain int) {
	st.Resources.Fatigue = clamp01(st.Resources.Fatigue - float64(minutes)/240)
	st.Resources.LastRestAt = st.Clock.TotalMinutes()
	staminaGain = int(float64(minutes) * 0.5 * s.StaminaRegenFactor(st))
	healthGain = int(float64(minutes) * 0.25 * s.HealthRegenFactor(st))
	st.Player.Stats.AddStamina(staminaGain)
	st.Player.Stats.AddHealth(healthGain)
	return staminaGain, healthGain
}

// Meditate recovers mental strain and regenerates mana, scaled by the
// strain penalty.
func (s *ResourceSystem) Meditate(st *world.State, minutes int) (manaGain int) {
	st.Resources.MentalStrain = clamp01(st.Resources.MentalStrain - float64(minutes)/120)
	manaGain = int(float64(minutes) * 0.6 * s.ManaRegenFactor(st))
	st.Player.Stats.AddMana(manaGain)
	return manaGain
}

// MarkCombat stamps the combat window that accelerates hunger.
func (s *ResourceSystem) MarkCombat(st *world.State) {
	st.Resources.LastCombatAt = st.Clock.TotalMinutes()
}

// MarkAbilityUse stamps the ability window that accelerates mental strain.
func (s *ResourceSystem) MarkAbilityUse(st *world.State) {
	st.Resources.LastAbilityAt = st.Clock.TotalMinutes()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
