package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Achievement is one entry of the flat unlock catalogue.
type Achievement struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Points      int    `yaml:"points"`
}

// Title is a derived rule: it unlocks once all required achievements are held.
type Title struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	RequiredAchievements []string `yaml:"required_achievements"`
}

// AchievementTable holds achievements and titles, both in definition order.
type AchievementTable struct {
	achievements []*Achievement
	titles       []*Title
	byID         map[string]*Achievement
}

// NewAchievementTable builds a table from already-decoded entries.
func NewAchievementTable(achievements []*Achievement, titles []*Title) *AchievementTable {
	t := &AchievementTable{achievements: achievements, titles: titles,
		byID: make(map[string]*Achievement, len(achievements))}
	for _, a := range achievements {
		t.byID[a.ID] = a
	}
	return t
}

// LoadAchievementTable reads achievements and titles from a YAML file.
func LoadAchievementTable(path string) (*AchievementTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievements %s: %w", path, err)
	}
	var doc struct {
		Achievements []*Achievement `yaml:"achievements"`
		Titles       []*Title       `yaml:"titles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse achievements %s: %w", path, err)
	}
	t := NewAchievementTable(doc.Achievements, doc.Titles)
	for _, ti := range doc.Titles {
		for _, req := range ti.RequiredAchievements {
			if t.byID[req] == nil {
				return nil, fmt.Errorf("achievements %s: title %s requires unknown achievement %s", path, ti.ID, req)
			}
		}
	}
	return t, nil
}

// Get returns the achievement by id, or nil.
func (t *AchievementTable) Get(id string) *Achievement { return t.byID[id] }

// All returns achievements in definition order.
func (t *AchievementTable) All() []*Achievement { return t.achievements }

// Titles returns titles in definition order.
func (t *AchievementTable) Titles() []*Title { return t.titles }

// Count returns the number of achievements.
func (t *AchievementTable) Count() int { return len(t.achievements) }
