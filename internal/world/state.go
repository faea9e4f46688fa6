package world

// WeatherType enumerates weather conditions. Special types only occur in the
// matching area class; BLOOD_MOON only at night.
type WeatherType string

const (
	WeatherClear        WeatherType = "clear"
	WeatherCloudy       WeatherType = "cloudy"
	WeatherRain         WeatherType = "rain"
	WeatherStorm        WeatherType = "storm"
	WeatherFog          WeatherType = "fog"
	WeatherWindy        WeatherType = "windy"
	WeatherMagicalStorm WeatherType = "magical_storm"
	WeatherShadowMist   WeatherType = "shadow_mist"
	WeatherBloodMoon    WeatherType = "blood_moon"
)

// WeatherState is the current condition plus how long it persists.
// Intensity scales every modifier the weather exposes.
type WeatherState struct {
	Current           WeatherType `json:"current"`
	DurationRemaining int         `json:"duration"`  // game minutes
	Intensity         float64     `json:"intensity"` // [0,1]
}

// Resources tracks the three depletion scalars in [0,1] plus the "last X"
// timestamps (total game minutes) their accrual rates key off.
type Resources struct {
	Hunger        float64 `json:"hunger"`
	Fatigue       float64 `json:"fatigue"`
	MentalStrain  float64 `json:"mental_strain"`
	LastMealAt    int     `json:"last_meal_at"`
	LastRestAt    int     `json:"last_rest_at"`
	LastCombatAt  int     `json:"last_combat_at"`
	LastAbilityAt int     `json:"last_ability_at"`
}

// PathType is one of the three progression paths.
type PathType string

const (
	PathWarrior PathType = "warrior"
	PathMystic  PathType = "mystic"
	PathStealth PathType = "stealth"
)

// ValidPath reports whether p names a real path.
func ValidPath(p PathType) bool {
	return p == PathWarrior || p == PathMystic || p == PathStealth
}

// PathProgress is the per-path accumulator.
type PathProgress struct {
	Affinity          float64  `json:"affinity"`
	Level             int      `json:"level"`
	XP                int      `json:"xp"`
	UnlockedAbilities []string `json:"unlocked_abilities"`
}

// HasAbility reports whether the ability has been unlocked on this path.
func (pp *PathProgress) HasAbility(id string) bool {
	for _, a := range pp.UnlockedAbilities {
		if a == id {
			return true
		}
	}
	return false
}

// PathState holds all three paths plus the irrevocable selection.
type PathState struct {
	Warrior  PathProgress `json:"warrior"`
	Mystic   PathProgress `json:"mystic"`
	Stealth  PathProgress `json:"stealth"`
	Selected PathType     `json:"selected,omitempty"` // "" until PATH_SELECT
}

// Progress returns the accumulator for the named path, or nil.
func (ps *PathState) Progress(p PathType) *PathProgress {
	switch p {
	case PathWarrior:
		return &ps.Warrior
	case PathMystic:
		return &ps.Mystic
	case PathStealth:
		return &ps.Stealth
	}
	return nil
}

// Suggested returns the path with the highest affinity.
func (ps *PathState) Suggested() PathType {
	best, bestAff := PathWarrior, ps.Warrior.Affinity
	if ps.Mystic.Affinity > bestAff {
		best, bestAff = PathMystic, ps.Mystic.Affinity
	}
	if ps.Stealth.Affinity > bestAff {
		best = PathStealth
	}
	return best
}

// StealthState is the two-state hidden/visible machine.
type StealthState struct {
	Hidden      bool `json:"hidden"`
	HiddenSince int  `json:"hidden_since"` // total game minutes when hiding began
}

// ActiveCombat is the transient encounter state. It is not snapshotted:
// restoring an instance drops any in-progress fight.
type ActiveCombat struct {
	EnemyID         string
	EnemyHealth     int
	Turn            int
	PlayerCooldowns map[string]int // ability id to turns remaining
	EnemyCooldowns  map[string]int
	SurpriseRolled  bool
}

// State is the full mutable slice of one game instance. All access is
// serialised by the instance executor; no locks inside.
type State struct {
	InstanceID string
	Player     *Player
	Grid       *Grid
	Clock      GameTime
	Weather    WeatherState
	Resources  Resources
	Paths      PathState
	Stealth    StealthState
	Combat     *ActiveCombat

	FoundDiscoveries map[string]bool
	Achievements     map[string]bool
	UnlockedTitles   []string
	ActiveTitle      string
	ActiveQuests     []string
	CompletedQuests  []string

	// History is the movement trail, most recent last.
	History []Position

	// Completed marks the terminal state: the run is over and further
	// progress commands are Conflict no-ops.
	Completed bool
}

// NewState assembles a fresh instance state on the given grid. The spawn
// tile is always marked visited at creation.
func NewState(instanceID, playerName string, grid *Grid) *State {
	spawn := grid.Spawn()
	tile, _ := grid.TileAt(spawn)
	tile.Visited = true
	return &State{
		InstanceID:       instanceID,
		Player:           NewPlayer(instanceID, playerName, spawn, tile.Area),
		Grid:             grid,
		Clock:            NewGameTime(),
		Weather:          WeatherState{Current: WeatherClear, DurationRemaining: 120, Intensity: 0.3},
		FoundDiscoveries: make(map[string]bool),
		Achievements:     make(map[string]bool),
	}
}

// CurrentTile returns the tile under the player.
func (st *State) CurrentTile() *Tile {
	t, _ := st.Grid.TileAt(st.Player.Pos)
	return t
}

// HasTitle reports whether the title id has been unlocked.
func (st *State) HasTitle(id string) bool {
	for _, t := range st.UnlockedTitles {
		if t == id {
			return true
		}
	}
	return false
}
