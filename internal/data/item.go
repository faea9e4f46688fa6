package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemType classifies catalogue items for game logic.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemConsumable ItemType = "consumable"
	ItemQuest      ItemType = "quest_item"
	ItemKey        ItemType = "key"
	ItemMaterial   ItemType = "material"
	ItemTrinket    ItemType = "trinket"
)

// Item is one immutable catalogue entry. Properties carry typed numbers the
// handlers understand: "damage" for weapons, "heal"/"stamina"/"mana" and
// "nourishment" for consumables.
type Item struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description"`
	Type           ItemType       `yaml:"type"`
	Properties     map[string]int `yaml:"properties"`
	IsQuestItem    bool           `yaml:"is_quest_item"`
	CanBePickedUp  bool           `yaml:"can_be_picked_up"`
	Weight         int            `yaml:"weight"`
}

// Property returns the named property or 0.
func (i *Item) Property(name string) int {
	return i.Properties[name]
}

// ItemTable is the immutable item catalogue, shared read-only process-wide.
type ItemTable struct {
	byID  map[string]*Item
	order []string
}

// NewItemTable builds a table from already-decoded items (used by tests).
func NewItemTable(items []*Item) *ItemTable {
	t := &ItemTable{byID: make(map[string]*Item, len(items))}
	for _, it := range items {
		if _, dup := t.byID[it.ID]; dup {
			continue
		}
		t.byID[it.ID] = it
		t.order = append(t.order, it.ID)
	}
	return t
}

// LoadItemTable reads the item catalogue from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	var doc struct {
		Items []*Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	for _, it := range doc.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("items %s: entry with empty id", path)
		}
	}
	return NewItemTable(doc.Items), nil
}

// Get returns the item by id, or nil.
func (t *ItemTable) Get(id string) *Item { return t.byID[id] }

// Count returns the number of catalogue entries.
func (t *ItemTable) Count() int { return len(t.byID) }

// IDs returns item ids in definition order.
func (t *ItemTable) IDs() []string { return t.order }
