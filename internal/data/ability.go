package data

import (
	"fmt"
	"os"

	"github.com/lastcentaur/server/internal/world"
	"gopkg.in/yaml.v3"
)

// PathAbility is an ability unlocked when a path reaches a level.
type PathAbility struct {
	ID            string         `yaml:"id"`
	Path          world.PathType `yaml:"path"`
	Level         int            `yaml:"level"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Damage        int            `yaml:"damage"`
	CooldownTurns int            `yaml:"cooldown_turns"`
	ManaCost      int            `yaml:"mana_cost"`
	StaminaCost   int            `yaml:"stamina_cost"`
}

// AbilityTable maps (path, level) to the abilities unlocked there.
type AbilityTable struct {
	byID    map[string]*PathAbility
	byLevel map[world.PathType]map[int][]*PathAbility
}

// NewAbilityTable builds a table from already-decoded abilities.
func NewAbilityTable(abilities []*PathAbility) *AbilityTable {
	t := &AbilityTable{
		byID:    make(map[string]*PathAbility, len(abilities)),
		byLevel: make(map[world.PathType]map[int][]*PathAbility),
	}
	for _, a := range abilities {
		t.byID[a.ID] = a
		if t.byLevel[a.Path] == nil {
			t.byLevel[a.Path] = make(map[int][]*PathAbility)
		}
		t.byLevel[a.Path][a.Level] = append(t.byLevel[a.Path][a.Level], a)
	}
	return t
}

// LoadAbilityTable reads the path ability catalogue from a YAML file.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read abilities %s: %w", path, err)
	}
	var doc struct {
		Abilities []*PathAbility `yaml:"abilities"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse abilities %s: %w", path, err)
	}
	for _, a := range doc.Abilities {
		if a.ID == "" {
			return nil, fmt.Errorf("abilities %s: entry with empty id", path)
		}
		if !world.ValidPath(a.Path) {
			return nil, fmt.Errorf("abilities %s: %s has unknown path %q", path, a.ID, a.Path)
		}
	}
	return NewAbilityTable(doc.Abilities), nil
}

// Get returns the ability by id, or nil.
func (t *AbilityTable) Get(id string) *PathAbility { return t.byID[id] }

// UnlockedAt returns the abilities a path gains at the given level.
func (t *AbilityTable) UnlockedAt(p world.PathType, level int) []*PathAbility {
	return t.byLevel[p][level]
}

// Count returns the number of catalogue entries.
func (t *AbilityTable) Count() int { return len(t.byID) }
