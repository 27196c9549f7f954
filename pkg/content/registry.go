package content

import (
	"fmt"
	"strings"
)

type table struct {
	order []string
	metas map[string]Meta
}

func newTable(category Category, metas []Meta) (table, error) {
	t := table{metas: make(map[string]Meta, len(metas))}
	for _, m := range metas {
		m.Key = strings.TrimSpace(m.Key)
		if m.Key == "" {
			return table{}, fmt.Errorf("%s entry with blank key", category)
		}
		if _, dup := t.metas[m.Key]; dup {
			return table{}, fmt.Errorf("duplicate %s key %q", category, m.Key)
		}
		if m.Label == "" {
			m.Label = m.Key
		}
		if m.Rounding == "" {
			m.Rounding = RoundNearest
		}
		t.metas[m.Key] = m
		t.order = append(t.order, m.Key)
	}
	return t, nil
}

// Registry answers metadata and action lookups. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	tables  map[Category]table
	land    Meta
	slot    Meta
	actions map[string]Action
}

// New builds a registry from a catalog. Tables are built in a fixed order
// and each one is complete before the next starts.
func New(c Catalog) (*Registry, error) {
	r := &Registry{
		tables:  make(map[Category]table),
		actions: make(map[string]Action, len(c.Actions)),
	}

	steps := []struct {
		category Category
		metas    []Meta
	}{
		{CategoryResource, c.Resources},
		{CategoryStat, c.Stats},
		{CategoryBuilding, c.Buildings},
		{CategoryDevelopment, c.Developments},
		{CategoryPassive, c.Passives},
	}
	for _, step := range steps {
		t, err := newTable(step.category, step.metas)
		if err != nil {
			return nil, err
		}
		r.tables[step.category] = t
	}

	r.land = withDefaults(c.Land, "land", "Land")
	r.slot = withDefaults(c.Slot, "slot", "Development Slot")

	for _, a := range c.Actions {
		action, err := NewAction(a)
		if err != nil {
			return nil, err
		}
		if _, dup := r.actions[action.ID]; dup {
			return nil, fmt.Errorf("duplicate action id %q", action.ID)
		}
		r.actions[action.ID] = action
	}
	return r, nil
}

// NewAction validates an action definition and returns it with defaults applied.
func NewAction(a Action) (Action, error) {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return Action{}, fmt.Errorf("action with blank id")
	}
	if strings.TrimSpace(a.Name) == "" {
		a.Name = a.ID
	}
	return a, nil
}

func withDefaults(m Meta, key, label string) Meta {
	if m.Key == "" {
		m.Key = key
	}
	if m.Label == "" {
		m.Label = label
	}
	if m.Rounding == "" {
		m.Rounding = RoundNearest
	}
	return m
}

// Lookup returns the metadata for a key. Land and slot categories have a
// single entry that answers for every key.
func (r *Registry) Lookup(category Category, key string) (Meta, bool) {
	switch category {
	case CategoryLand:
		return r.land, true
	case CategorySlot:
		return r.slot, true
	}
	t, ok := r.tables[category]
	if !ok {
		return Meta{}, false
	}
	m, ok := t.metas[key]
	return m, ok
}

// Order returns the authored key order for a category.
func (r *Registry) Order(category Category) []string {
	t, ok := r.tables[category]
	if !ok {
		return nil
	}
	return append([]string(nil), t.order...)
}

// ResourceKeys is the authored resource order; it is the default key list
// for diffing.
func (r *Registry) ResourceKeys() []string {
	return r.Order(CategoryResource)
}

// Action looks up an action definition by id.
func (r *Registry) Action(id string) (Action, bool) {
	a, ok := r.actions[id]
	return a, ok
}
