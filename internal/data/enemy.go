package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyType classifies enemies; boss defeats end the run.
type EnemyType string

const (
	EnemyBeast     EnemyType = "beast"
	EnemySpirit    EnemyType = "spirit"
	EnemyConstruct EnemyType = "construct"
	EnemyCorrupted EnemyType = "corrupted"
	EnemyShadow    EnemyType = "shadow"
	EnemyBoss      EnemyType = "boss"
)

// CombatStyle drives the enemy's turn response in an encounter.
type CombatStyle string

const (
	StyleAggressive CombatStyle = "aggressive"
	StyleDefensive  CombatStyle = "defensive"
	StyleTactical   CombatStyle = "tactical"
	StyleMagical    CombatStyle = "magical"
	StyleStealth    CombatStyle = "stealth"
)

// Ability is an attack usable by enemies or unlocked on a player path.
// Cooldowns tick in combat turns, not game minutes.
type Ability struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Damage        int      `yaml:"damage"`
	CooldownTurns int      `yaml:"cooldown_turns"`
	Requirements  []string `yaml:"requirements"`
}

// Enemy is one immutable catalogue entry.
type Enemy struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Type         EnemyType   `yaml:"type"`
	CombatStyle  CombatStyle `yaml:"combat_style"`
	Health       int         `yaml:"health"`
	Damage       int         `yaml:"damage"`
	Abilities    []Ability   `yaml:"abilities"`
	Drops        []string    `yaml:"drops"`
	Requirements []string    `yaml:"requirements"`
	Weakness     []string    `yaml:"weakness"`
}

// EnemyTable is the immutable enemy catalogue.
type EnemyTable struct {
	byID map[string]*Enemy
}

// NewEnemyTable builds a table from already-decoded enemies (used by tests).
func NewEnemyTable(enemies []*Enemy) *EnemyTable {
	t := &EnemyTable{byID: make(map[string]*Enemy, len(enemies))}
	for _, e := range enemies {
		t.byID[e.ID] = e
	}
	return t
}

// LoadEnemyTable reads the enemy catalogue from a YAML file.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemies %s: %w", path, err)
	}
	var doc struct {
		Enemies []*Enemy `yaml:"enemies"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse enemies %s: %w", path, err)
	}
	for _, e := range doc.Enemies {
		if e.ID == "" {
			return nil, fmt.Errorf("enemies %s: entry with empty id", path)
		}
		if e.Health <= 0 {
			return nil, fmt.Errorf("enemies %s: %s has non-positive health", path, e.ID)
		}
	}
	return NewEnemyTable(doc.Enemies), nil
}

// Get returns the enemy by id, or nil.
func (t *EnemyTable) Get(id string) *Enemy { return t.byID[id] }

// Count returns the number of catalogue entries.
func (t *EnemyTable) Count() int { return len(t.byID) }
