package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Npc is a non-hostile character with static lore lines. The Lua dialogue
// engine can override these; the table provides the fallback.
type Npc struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Greeting string            `yaml:"greeting"`
	Topics   map[string]string `yaml:"topics"` // topic keyword to response line
}

// NpcTable is the immutable NPC lore catalogue.
type NpcTable struct {
	byID map[string]*Npc
}

// NewNpcTable builds a table from already-decoded NPCs.
func NewNpcTable(npcs []*Npc) *NpcTable {
	t := &NpcTable{byID: make(map[string]*Npc, len(npcs))}
	for _, n := range npcs {
		t.byID[n.ID] = n
	}
	return t
}

// LoadNpcTable reads the NPC catalogue from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npcs %s: %w", path, err)
	}
	var doc struct {
		Npcs []*Npc `yaml:"npcs"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse npcs %s: %w", path, err)
	}
	for _, n := range doc.Npcs {
		if n.ID == "" {
			return nil, fmt.Errorf("npcs %s: entry with empty id", path)
		}
	}
	return NewNpcTable(doc.Npcs), nil
}

// Get returns the NPC by id, or nil.
func (t *NpcTable) Get(id string) *Npc { return t.byID[id] }

// Count returns the number of catalogue entries.
func (t *NpcTable) Count() int { return len(t.byID) }
