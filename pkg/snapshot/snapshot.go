package snapshot

import (
	"maps"
	"slices"
	"sort"
)

// LandState is a land as the rules engine holds it while effects are applied.
type LandState struct {
	ID           string   `json:"id" yaml:"id"`
	SlotsMax     int      `json:"slots_max" yaml:"slots_max"`
	SlotsUsed    int      `json:"slots_used" yaml:"slots_used"`
	Developments []string `json:"developments,omitempty" yaml:"developments,omitempty"`
}

// PlayerState is the live, mutable player record owned by the rules engine.
type PlayerState struct {
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Resources map[string]float64 `json:"resources,omitempty" yaml:"resources,omitempty"`
	Stats     map[string]float64 `json:"stats,omitempty" yaml:"stats,omitempty"`
	Buildings []string           `json:"buildings,omitempty" yaml:"buildings,omitempty"`
	Lands     []LandState        `json:"lands,omitempty" yaml:"lands,omitempty"`
	Passives  []string           `json:"passives,omitempty" yaml:"passives,omitempty"`
}

// Land is the captured form of a single land.
type Land struct {
	ID           string
	SlotsMax     int
	SlotsUsed    int
	Developments []string
}

// Snapshot is an immutable copy of one player's state at an instant.
// Callers must treat every field as read-only.
type Snapshot struct {
	Resources map[string]float64
	Stats     map[string]float64
	Buildings map[string]struct{}
	Lands     []Land
	Passives  []string
}

// Capture copies the diffable parts of a player state. Every call allocates
// fresh containers, so later mutation of state never reaches a snapshot.
func Capture(state PlayerState) Snapshot {
	s := Snapshot{
		Resources: cloneValues(state.Resources),
		Stats:     cloneValues(state.Stats),
		Buildings: make(map[string]struct{}, len(state.Buildings)),
		Lands:     make([]Land, 0, len(state.Lands)),
		Passives:  slices.Clone(state.Passives),
	}
	for _, id := range state.Buildings {
		s.Buildings[id] = struct{}{}
	}
	for _, l := range state.Lands {
		s.Lands = append(s.Lands, Land{
			ID:           l.ID,
			SlotsMax:     l.SlotsMax,
			SlotsUsed:    l.SlotsUsed,
			Developments: slices.Clone(l.Developments),
		})
	}
	if s.Passives == nil {
		s.Passives = []string{}
	}
	return s
}

// Clone returns a structurally independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Resources: cloneValues(s.Resources),
		Stats:     cloneValues(s.Stats),
		Buildings: make(map[string]struct{}, len(s.Buildings)),
		Lands:     make([]Land, 0, len(s.Lands)),
		Passives:  slices.Clone(s.Passives),
	}
	maps.Copy(c.Buildings, s.Buildings)
	for _, l := range s.Lands {
		l.Developments = slices.Clone(l.Developments)
		c.Lands = append(c.Lands, l)
	}
	return c
}

// HasBuilding reports whether the building id is in the snapshot.
func (s Snapshot) HasBuilding(id string) bool {
	_, ok := s.Buildings[id]
	return ok
}

// BuildingIDs returns the building set in sorted order.
func (s Snapshot) BuildingIDs() []string {
	ids := make([]string, 0, len(s.Buildings))
	for id := range s.Buildings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Land returns the land with the given id.
func (s Snapshot) Land(id string) (Land, bool) {
	for _, l := range s.Lands {
		if l.ID == id {
			return l, true
		}
	}
	return Land{}, false
}

// HasPassive reports whether the passive id is active in the snapshot.
func (s Snapshot) HasPassive(id string) bool {
	return slices.Contains(s.Passives, id)
}

func cloneValues(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return maps.Clone(m)
}
