package data

import (
	"fmt"
	"os"

	"github.com/lastcentaur/server/internal/world"
	"gopkg.in/yaml.v3"
)

// Discovery is a latent item or event attached to terrain, unlocked by a
// matching interaction. Evaluated in stable definition order.
type Discovery struct {
	ID                  string              `yaml:"id"`
	Name                string              `yaml:"name"`
	Description         string              `yaml:"description"`
	DiscoveryText       string              `yaml:"discovery_text"`
	TerrainTypes        []world.Terrain     `yaml:"terrain_types"`
	WeatherTypes        []world.WeatherType `yaml:"weather_types"`
	TimeOfDay           []world.TimeOfDay   `yaml:"time_of_day"`
	RequiredInteraction world.Interaction   `yaml:"required_interaction"`
	RequiredKeywords    []string            `yaml:"required_keywords"`
	ChanceToFind        float64             `yaml:"chance_to_find"`
	Unique              bool                `yaml:"unique"`
	ItemReward          string              `yaml:"item_reward"`
	SpecialEffect       map[string]int      `yaml:"special_effect"` // stat deltas
}

// MatchesTerrain reports whether the discovery can occur on the terrain.
func (d *Discovery) MatchesTerrain(t world.Terrain) bool {
	for _, tt := range d.TerrainTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// MatchesConditions checks the weather/time gates. Empty gates always pass.
func (d *Discovery) MatchesConditions(w world.WeatherType, tod world.TimeOfDay) bool {
	if len(d.WeatherTypes) > 0 {
		ok := false
		for _, wt := range d.WeatherTypes {
			if wt == w {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(d.TimeOfDay) > 0 {
		ok := false
		for _, t := range d.TimeOfDay {
			if t == tod {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// DiscoveryTable holds discoveries in definition order. Order matters: the
// first matching discovery wins ties.
type DiscoveryTable struct {
	all []*Discovery
}

// NewDiscoveryTable builds a table from already-decoded discoveries.
func NewDiscoveryTable(ds []*Discovery) *DiscoveryTable {
	return &DiscoveryTable{all: ds}
}

// LoadDiscoveryTable reads the discovery catalogue from a YAML file.
func LoadDiscoveryTable(path string) (*DiscoveryTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read discoveries %s: %w", path, err)
	}
	var doc struct {
		Discoveries []*Discovery `yaml:"discoveries"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse discoveries %s: %w", path, err)
	}
	for _, d := range doc.Discoveries {
		if d.ID == "" {
			return nil, fmt.Errorf("discoveries %s: entry with empty id", path)
		}
		if d.ChanceToFind < 0 || d.ChanceToFind > 1 {
			return nil, fmt.Errorf("discoveries %s: %s chance outside [0,1]", path, d.ID)
		}
	}
	return NewDiscoveryTable(doc.Discoveries), nil
}

// All returns discoveries in definition order.
func (t *DiscoveryTable) All() []*Discovery { return t.all }

// Count returns the number of catalogue entries.
func (t *DiscoveryTable) Count() int { return len(t.all) }
