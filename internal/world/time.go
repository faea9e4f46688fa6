package world

import "fmt"

// GameTime is the in-world clock. It only advances as a side effect of
// command handlers; there is no wall-clock ticker.
type GameTime struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TimeOfDay is derived from the hour.
type TimeOfDay string

const (
	Dawn      TimeOfDay = "dawn"      // [5,7)
	Morning   TimeOfDay = "morning"   // [7,12)
	Noon      TimeOfDay = "noon"      // [12,14)
	Afternoon TimeOfDay = "afternoon" // [14,17)
	Evening   TimeOfDay = "evening"   // [17,20)
	Night     TimeOfDay = "night"     // otherwise
)

// Advance moves the clock forward by n minutes, normalizing carry.
func (t *GameTime) Advance(minutes int) {
	if minutes <= 0 {
		return
	}
	t.Minutes += minutes
	t.Hours += t.Minutes / 60
	t.Minutes %= 60
	t.Days += t.Hours / 24
	t.Hours %= 24
}

// TotalMinutes returns the absolute minute count since day 1, 00:00.
func (t GameTime) TotalMinutes() int {
	return ((t.Days-1)*24+t.Hours)*60 + t.Minutes
}

// TimeOfDay derives the current period from the hour.
func (t GameTime) TimeOfDay() TimeOfDay {
	switch {
	case t.Hours >= 5 && t.Hours < 7:
		return Dawn
	case t.Hours >= 7 && t.Hours < 12:
		return Morning
	case t.Hours >= 12 && t.Hours < 14:
		return Noon
	case t.Hours >= 14 && t.Hours < 17:
		return Afternoon
	case t.Hours >= 17 && t.Hours < 20:
		return Evening
	default:
		return Night
	}
}

// String renders the clock in the "Day D, HH:MM" snapshot form.
func (t GameTime) String() string {
	return fmt.Sprintf("Day %d, %02d:%02d", t.Days, t.Hours, t.Minutes)
}

// ParseGameTime parses the "Day D, HH:MM" form.
func ParseGameTime(s string) (GameTime, error) {
	var t GameTime
	if _, err := fmt.Sscanf(s, "Day %d, %d:%d", &t.Days, &t.Hours, &t.Minutes); err != nil {
		return GameTime{}, fmt.Errorf("bad game time %q: %w", s, err)
	}
	if t.Days < 1 || t.Hours < 0 || t.Hours > 23 || t.Minutes < 0 || t.Minutes > 59 {
		return GameTime{}, fmt.Errorf("bad game time %q", s)
	}
	return t, nil
}

// NewGameTime returns the clock at game start: day 1, 07:00 (morning).
func NewGameTime() GameTime {
	return GameTime{Days: 1, Hours: 7}
}
