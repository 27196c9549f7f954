package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category identifies which metadata table a key belongs to.
type Category string

const (
	CategoryResource    Category = "resource"
	CategoryStat        Category = "stat"
	CategoryBuilding    Category = "building"
	CategoryDevelopment Category = "development"
	CategoryPassive     Category = "passive"
	CategoryLand        Category = "land"
	CategorySlot        Category = "slot"
)

// Rounding selects how percent values are rounded before display.
type Rounding string

const (
	RoundNearest Rounding = "nearest"
	RoundUp      Rounding = "up"
	RoundDown    Rounding = "down"
)

// UnmarshalYAML accepts the rounding names case-insensitively; blank means nearest.
func (r *Rounding) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch Rounding(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoundNearest:
		*r = RoundNearest
	case RoundUp:
		*r = RoundUp
	case RoundDown:
		*r = RoundDown
	default:
		return fmt.Errorf("unknown rounding mode %q", raw)
	}
	return nil
}

// Meta is the display metadata for one resource, stat, building, etc.
type Meta struct {
	Key              string   `yaml:"key"`
	Label            string   `yaml:"label"`
	Icon             string   `yaml:"icon,omitempty"`
	DisplayAsPercent bool     `yaml:"percent,omitempty"`
	Rounding         Rounding `yaml:"rounding,omitempty"`
}

// Action is the part of an action definition the log needs to label it.
type Action struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Icon   string `yaml:"icon,omitempty"`
	System bool   `yaml:"system,omitempty"`
}

// Label is the "{icon} {name}" headline used for the action.
func (a Action) Label() string {
	return strings.TrimSpace(a.Icon + " " + a.Name)
}

// SubactionLabel heads the lines of an action that ran nested under another.
// System actions are triggered by the engine rather than chosen by the
// player, so their headline says so.
func (a Action) SubactionLabel() string {
	if a.System {
		return a.Label() + " (automatic)"
	}
	return a.Label()
}

// Catalog is the authored content the registry is built from.
type Catalog struct {
	Resources    []Meta   `yaml:"resources"`
	Stats        []Meta   `yaml:"stats"`
	Buildings    []Meta   `yaml:"buildings"`
	Developments []Meta   `yaml:"developments"`
	Passives     []Meta   `yaml:"passives"`
	Land         Meta     `yaml:"land"`
	Slot         Meta     `yaml:"slot"`
	Actions      []Action `yaml:"actions"`
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse content catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a YAML catalog from disk and builds a registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(c)
}
