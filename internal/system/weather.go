package system

import (
	"fmt"
	"math/rand"

	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Weather transition probabilities. Declared once; the blood moon roll only
// happens at night.
const (
	pBloodMoon = 0.01
	pSpecial   = 0.05
)

// Modifiers are the multiplicative adjustments the current weather exposes,
// already scaled by intensity. 1.0 means no effect.
type Modifiers struct {
	CombatAccuracy      float64
	StealthDetection    float64 // <1 = harder to detect the player
	MysticPower         float64
	MovementPenalty     float64 // extra stamina fraction per move
	VisibilityReduction float64 // [0,1], 0 = clear view
	ResourceDrain       float64
}

// baseModifiers are the full-intensity modifiers per weather type.
var baseModifiers = map[world.WeatherType]Modifiers{
	world.WeatherClear:        {CombatAccuracy: 1.0, StealthDetection: 1.0, MysticPower: 1.0, ResourceDrain: 1.0},
	world.WeatherCloudy:       {CombatAccuracy: 1.0, StealthDetection: 0.9, MysticPower: 1.0, VisibilityReduction: 0.1, ResourceDrain: 1.0},
	world.WeatherRain:         {CombatAccuracy: 0.9, StealthDetection: 0.8, MysticPower: 1.05, MovementPenalty: 0.2, VisibilityReduction: 0.3, ResourceDrain: 1.1},
	world.WeatherStorm:        {CombatAccuracy: 0.75, StealthDetection: 0.7, MysticPower: 1.15, MovementPenalty: 0.4, VisibilityReduction: 0.5, ResourceDrain: 1.25},
	world.WeatherFog:          {CombatAccuracy: 0.8, StealthDetection: 0.6, MysticPower: 1.1, MovementPenalty: 0.1, VisibilityReduction: 0.6, ResourceDrain: 1.0},
	world.WeatherWindy:        {CombatAccuracy: 0.9, StealthDetection: 1.1, MysticPower: 1.0, MovementPenalty: 0.1, ResourceDrain: 1.1},
	world.WeatherMagicalStorm: {CombatAccuracy: 0.85, StealthDetection: 0.8, MysticPower: 1.5, MovementPenalty: 0.3, VisibilityReduction: 0.4, ResourceDrain: 1.3},
	world.WeatherShadowMist:   {CombatAccuracy: 0.8, StealthDetection: 0.4, MysticPower: 1.2, MovementPenalty: 0.2, VisibilityReduction: 0.7, ResourceDrain: 1.2},
	world.WeatherBloodMoon:    {CombatAccuracy: 1.1, StealthDetection: 0.7, MysticPower: 1.4, MovementPenalty: 0.1, VisibilityReduction: 0.3, ResourceDrain: 1.4},
}

// markovRow is one weighted transition choice.
type markovRow struct {
	next   world.WeatherType
	weight float64
}

// transitionTable is the fixed Markov table keyed by current weather.
// Special weathers decay back toward ordinary conditions.
var transitionTable = map[world.WeatherType][]markovRow{
	world.WeatherClear: {
		{world.WeatherClear, 0.5}, {world.WeatherCloudy, 0.25},
		{world.WeatherWindy, 0.15}, {world.WeatherFog, 0.1},
	},
	world.WeatherCloudy: {
		{world.WeatherCloudy, 0.35}, {world.WeatherClear, 0.25},
		{world.WeatherRain, 0.25}, {world.WeatherFog, 0.15},
	},
	world.WeatherRain: {
		{world.WeatherRain, 0.35}, {world.WeatherCloudy, 0.3},
		{world.WeatherStorm, 0.2}, {world.WeatherClear, 0.15},
	},
	world.WeatherStorm: {
		{world.WeatherRain, 0.45}, {world.WeatherStorm, 0.25},
		{world.WeatherCloudy, 0.3},
	},
	world.WeatherFog: {
		{world.WeatherFog, 0.35}, {world.WeatherCloudy, 0.35},
		{world.WeatherClear, 0.3},
	},
	world.WeatherWindy: {
		{world.WeatherWindy, 0.3}, {world.WeatherClear, 0.4},
		{world.WeatherCloudy, 0.3},
	},
	world.WeatherMagicalStorm: {
		{world.WeatherCloudy, 0.5}, {world.WeatherClear, 0.3}, {world.WeatherRain, 0.2},
	},
	world.WeatherShadowMist: {
		{world.WeatherFog, 0.5}, {world.WeatherCloudy, 0.3}, {world.WeatherClear, 0.2},
	},
	world.WeatherBloodMoon: {
		{world.WeatherClear, 0.6}, {world.WeatherCloudy, 0.4},
	},
}

// WeatherSystem drives condition transitions for a single instance.
type WeatherSystem struct {
	rng *rand.Rand
	log *zap.Logger
}

// NewWeatherSystem builds the system on the instance RNG stream.
func NewWeatherSystem(rng *rand.Rand, log *zap.Logger) *WeatherSystem {
	return &WeatherSystem{rng: rng, log: log}
}

// Reevaluate rolls the next condition and returns transition narration, or
// "" when the weather holds.
func (s *WeatherSystem) Reevaluate(st *world.State) string {
	prev := st.Weather.Current
	tod := st.Clock.TimeOfDay()
	area := st.Player.CurrentArea

	// 1. Blood moon: night only, rare, hard bounds on duration.
	if tod == world.Night && s.rng.Float64() < pBloodMoon {
		st.Weather = world.WeatherState{
			Current:           world.WeatherBloodMoon,
			DurationRemaining: 120 + s.rng.Intn(121), // 120 to 240 minutes
			Intensity:         0.7 + s.rng.Float64()*0.3,
		}
		s.log.Info("blood moon rises",
			zap.String("instance", st.InstanceID),
			zap.Int("duration", st.Weather.DurationRemaining))
		return "The moon turns a deep crimson. An oppressive dread settles over everything."
	}

	// 2. Area-flavored special weather.
	if s.rng.Float64() < pSpecial {
		if world.MysticAreas[area] {
			st.Weather = world.WeatherState{
				Current:           world.WeatherMagicalStorm,
				DurationRemaining: 60 + s.rng.Intn(61),
				Intensity:         0.5 + s.rng.Float64()*0.5,
			}
			return "Arcs of raw magic crackle through the air. A magical storm is brewing."
		}
		if world.ShadowAreas[area] {
			st.Weather = world.WeatherState{
				Current:           world.WeatherShadowMist,
				DurationRemaining: 60 + s.rng.Intn(61),
				Intensity:         0.5 + s.rng.Float64()*0.5,
			}
			return "Tendrils of dark mist seep up from the ground, swallowing the light."
		}
	}

	// 3. Markov sample re-weighted by time of day: fog and clouds are
	// favored when the light is low.
	rows := transitionTable[st.Weather.Current]
	if len(rows) == 0 {
		rows = transitionTable[world.WeatherClear]
	}
	dim := tod == world.Night || tod == world.Dawn || tod == world.Evening
	total := 0.0
	weights := make([]float64, len(rows))
	for i, r := range rows {
		w := r.weight
		if dim && (r.next == world.WeatherFog || r.next == world.WeatherCloudy) {
			w *= 2
		}
		weights[i] = w
		total += w
	}
	roll := s.rng.Float64() * total
	next := rows[len(rows)-1].next
	for i, r := range rows {
		if roll < weights[i] {
			next = r.next
			break
		}
		roll -= weights[i]
	}

	st.Weather = world.WeatherState{
		Current:           next,
		DurationRemaining: 60 + s.rng.Intn(121),
		Intensity:         0.3 + s.rng.Float64()*0.7,
	}
	if next == prev {
		return ""
	}
	return weatherNarration(next)
}

// Modifiers returns the current modifiers scaled by intensity: each value is
// interpolated between neutral and its full-intensity figure.
func (s *WeatherSystem) Modifiers(st *world.State) Modifiers {
	base, ok := baseModifiers[st.Weather.Current]
	if !ok {
		base = baseModifiers[world.WeatherClear]
	}
	k := st.Weather.Intensity
	lerp := func(full float64) float64 { return 1 + (full-1)*k }
	return Modifiers{
		CombatAccuracy:      lerp(base.CombatAccuracy),
		StealthDetection:    lerp(base.StealthDetection),
		MysticPower:         lerp(base.MysticPower),
		MovementPenalty:     base.MovementPenalty * k,
		VisibilityReduction: base.VisibilityReduction * k,
		ResourceDrain:       lerp(base.ResourceDrain),
	}
}

func weatherNarration(w world.WeatherType) string {
	switch w {
	case world.WeatherClear:
		return "The sky clears."
	case world.WeatherCloudy:
		return "Grey clouds gather overhead."
	case world.WeatherRain:
		return "Rain begins to fall."
	case world.WeatherStorm:
		return "Thunder rolls in the distance as a storm breaks."
	case world.WeatherFog:
		return "A thick fog rises, muffling every sound."
	case world.WeatherWindy:
		return "A sharp wind picks up, tugging at your mane."
	default:
		return fmt.Sprintf("The weather shifts to %s.", w)
	}
}
