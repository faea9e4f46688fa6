// Package system implements the dynamic world subsystems: time, weather,
// resource depletion, path progression, combat, discoveries, achievements
// and the leaderboard. Systems are per-instance (they share the instance
// RNG) except the Leaderboard, which is process-wide.
package system

import (
	"fmt"

	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// weatherEvalInterval is how often (game minutes) weather is re-evaluated
// even while the current condition's duration is still running.
const weatherEvalInterval = 30

// TimeSystem advances the in-world clock and fans the elapsed minutes out to
// the weather and resource systems. Time only moves as a side effect of
// handlers; there is no ticker goroutine.
type TimeSystem struct {
	weather   *WeatherSystem
	resources *ResourceSystem
	paths     *PathSystem
	log       *zap.Logger

	sinceWeatherEval int
}

// NewTimeSystem wires the clock to its dependent systems.
func NewTimeSystem(weather *WeatherSystem, resources *ResourceSystem, paths *PathSystem, log *zap.Logger) *TimeSystem {
	return &TimeSystem{weather: weather, resources: resources, paths: paths, log: log}
}

// Advance moves the clock by n minutes and returns narration for any
// crossed thresholds (time-of-day change, day change, weather shift).
func (s *TimeSystem) Advance(st *world.State, minutes int) []string {
	if minutes <= 0 {
		return nil
	}
	prevTod := st.Clock.TimeOfDay()
	prevDay := st.Clock.Days
	st.Clock.Advance(minutes)

	var events []string
	if tod := st.Clock.TimeOfDay(); tod != prevTod {
		events = append(events, todNarration(tod))
	}
	if st.Clock.Days != prevDay {
		events = append(events, fmt.Sprintf("A new day dawns over the land. It is now day %d.", st.Clock.Days))
	}

	s.resources.Accrue(st, minutes)

	// Weather re-evaluates every 30 game minutes or when its duration runs
	// out, whichever comes first.
	s.sinceWeatherEval += minutes
	st.Weather.DurationRemaining -= minutes
	if st.Weather.DurationRemaining <= 0 || s.sinceWeatherEval >= weatherEvalInterval {
		s.sinceWeatherEval = 0
		if msg := s.weather.Reevaluate(st); msg != "" {
			events = append(events, msg)
		}
	}

	if s.paths != nil {
		if msg := s.paths.CheckStealthExpiry(st); msg != "" {
			events = append(events, msg)
		}
	}
	return events
}

func todNarration(tod world.TimeOfDay) string {
	switch tod {
	case world.Dawn:
		return "Pale light creeps over the horizon as dawn breaks."
	case world.Morning:
		return "The sun climbs higher; morning settles over the land."
	case world.Noon:
		return "The sun stands at its peak."
	case world.Afternoon:
		return "The light softens as afternoon wears on."
	case world.Evening:
		return "Long shadows stretch across the ground as evening falls."
	default:
		return "Darkness swallows the land. Night has come."
	}
}
