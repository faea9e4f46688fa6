package world

// EffectKind tags one entry of the effects record.
type EffectKind string

const (
	EffectItemAdded          EffectKind = "item_added"
	EffectItemRemoved        EffectKind = "item_removed"
	EffectStatDelta          EffectKind = "stat_delta"
	EffectFlagSet            EffectKind = "flag_set"
	EffectXPGained           EffectKind = "xp_gained"
	EffectAchievementUnlocked EffectKind = "achievement_unlocked"
	EffectEnemyDefeated      EffectKind = "enemy_defeated"
	EffectDiscoveryFound     EffectKind = "discovery_found"
	EffectTimeAdvanced       EffectKind = "time_advanced"
	EffectError              EffectKind = "error"
)

// Effect is one machine-readable state delta emitted by a handler, alongside
// its human text. A tagged struct instead of a map so tests can match fields
// without dynamic attribute access.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Item  string     `json:"item,omitempty"`
	Stat  string     `json:"stat,omitempty"`
	Delta int        `json:"delta,omitempty"`
	Flag  string     `json:"flag,omitempty"`
	Code  FailKind   `json:"code,omitempty"`
}

// ItemAdded records an item entering the player inventory.
func ItemAdded(id string) Effect { return Effect{Kind: EffectItemAdded, Item: id} }

// ItemRemoved records an item leaving the player inventory.
func ItemRemoved(id string) Effect { return Effect{Kind: EffectItemRemoved, Item: id} }

// StatDelta records a change to a named stat.
func StatDelta(stat string, n int) Effect { return Effect{Kind: EffectStatDelta, Stat: stat, Delta: n} }

// FlagSet records a boolean state flip (e.g. "hidden", "path_selected").
func FlagSet(name string) Effect { return Effect{Kind: EffectFlagSet, Flag: name} }

// XPGained records experience granted to the selected path.
func XPGained(n int) Effect { return Effect{Kind: EffectXPGained, Delta: n} }

// AchievementUnlocked records a newly unlocked achievement.
func AchievementUnlocked(id string) Effect {
	return Effect{Kind: EffectAchievementUnlocked, Item: id}
}

// EnemyDefeated records a combat victory.
func EnemyDefeated(id string) Effect { return Effect{Kind: EffectEnemyDefeated, Item: id} }

// DiscoveryFound records a discovery unlock.
func DiscoveryFound(id string) Effect { return Effect{Kind: EffectDiscoveryFound, Item: id} }

// TimeAdvanced records game minutes consumed by a command.
func TimeAdvanced(minutes int) Effect { return Effect{Kind: EffectTimeAdvanced, Delta: minutes} }

// ErrorEffect records the machine-readable failure code for a recovered error.
func ErrorEffect(kind FailKind) Effect { return Effect{Kind: EffectError, Code: kind} }
