package diff

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/snapshot"
)

// DevelopedPrefix starts the summary of a development added to an existing land.
const DevelopedPrefix = "Developed"

// Context is the metadata lookup surface the diff needs.
// *content.Registry satisfies it.
type Context interface {
	Lookup(category content.Category, key string) (content.Meta, bool)
	Order(category content.Category) []string
}

// Change is one human-readable change. Children break the change down by
// cause, e.g. a resource delta split by contributing source.
type Change struct {
	Summary  string       `json:"summary"`
	Meta     *Attribution `json:"meta,omitempty"`
	Children []Change     `json:"children,omitempty"`
}

// Result holds the root changes and their summaries in the same order.
type Result struct {
	Changes   []Change
	Summaries []string
}

// IsEmpty reports whether the diff found no changes.
func (r Result) IsEmpty() bool {
	return len(r.Changes) == 0
}

// Diff compares two snapshots. The effect tree, when given, only adds
// attribution. keys selects the resources to compare; nil compares every key
// present in either snapshot.
func Diff(before, after snapshot.Snapshot, effect *Effect, ctx Context, keys []string) Result {
	d := differ{ctx: ctx, attribution: collectAttribution(effect)}
	if keys == nil {
		keys = d.orderedKeys(content.CategoryResource, unionKeys(before.Resources, after.Resources))
	}

	var changes []Change
	changes = append(changes, d.resources(before, after, keys)...)
	changes = append(changes, d.stats(before, after)...)
	changes = append(changes, d.buildings(before, after)...)
	changes = append(changes, d.lands(before, after)...)
	changes = append(changes, d.passives(before, after)...)

	res := Result{Changes: changes, Summaries: make([]string, 0, len(changes))}
	for _, c := range changes {
		res.Summaries = append(res.Summaries, c.Summary)
	}
	return res
}

type differ struct {
	ctx         Context
	attribution map[attributionKey]*Attribution
}

// meta falls back to the raw key as label with no icon.
func (d differ) meta(category content.Category, key string) content.Meta {
	if d.ctx != nil {
		if m, ok := d.ctx.Lookup(category, key); ok {
			if m.Label == "" {
				m.Label = key
			}
			return m
		}
	}
	return content.Meta{Key: key, Label: key, Rounding: content.RoundNearest}
}

// orderedKeys puts keys in authored order, then any unknown keys sorted.
func (d differ) orderedKeys(category content.Category, keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	if d.ctx != nil {
		for _, k := range d.ctx.Order(category) {
			if present[k] {
				out = append(out, k)
				delete(present, k)
			}
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (d differ) resources(before, after snapshot.Snapshot, keys []string) []Change {
	var out []Change
	for _, key := range keys {
		b, a := before.Resources[key], after.Resources[key]
		delta := a - b
		if isZero(delta) {
			continue
		}
		m := d.meta(content.CategoryResource, key)
		c := Change{Summary: fmt.Sprintf("%s %s (%s→%s)", withIcon(m.Icon, m.Label), signed(delta), number(b), number(a))}
		d.attribute(&c, "resource", m)
		out = append(out, c)
	}
	return out
}

func (d differ) stats(before, after snapshot.Snapshot) []Change {
	var out []Change
	for _, key := range d.orderedKeys(content.CategoryStat, unionKeys(before.Stats, after.Stats)) {
		b, a := before.Stats[key], after.Stats[key]
		if isZero(a - b) {
			continue
		}
		m := d.meta(content.CategoryStat, key)
		label := withIcon(m.Icon, m.Label)
		var c Change
		if m.DisplayAsPercent {
			pb, pa := percent(b, m.Rounding), percent(a, m.Rounding)
			pd := percent(a-b, m.Rounding)
			if isZero(pd) {
				continue
			}
			c.Summary = fmt.Sprintf("%s %s%% (%s%%→%s%%)", label, signed(pd), number(pb), number(pa))
		} else {
			c.Summary = fmt.Sprintf("%s %s (%s→%s)", label, signed(a-b), number(b), number(a))
		}
		d.attribute(&c, "stat", m)
		out = append(out, c)
	}
	return out
}

// attribute appends the "(icon±n from sources)" suffix and, when several
// sources contributed, one child per source.
func (d differ) attribute(c *Change, effectType string, m content.Meta) {
	attr, ok := d.attribution[attributionKey{effectType: effectType, key: m.Key}]
	if !ok || len(attr.Sources) == 0 || isZero(attr.Total()) {
		return
	}
	icons := make([]string, 0, len(attr.Sources))
	for _, s := range attr.Sources {
		icons = append(icons, s.Icon)
	}
	c.Summary += fmt.Sprintf(" (%s%s from %s)", m.Icon, signed(attr.Total()), strings.Join(icons, ""))
	c.Meta = &Attribution{Key: attr.Key, Sources: slices.Clone(attr.Sources)}
	if len(attr.Sources) < 2 {
		return
	}
	for _, s := range attr.Sources {
		if isZero(s.Amount) {
			continue
		}
		c.Children = append(c.Children, Change{
			Summary: fmt.Sprintf("%s%s from %s", m.Icon, signed(s.Amount), s.Icon),
		})
	}
}

func (d differ) buildings(before, after snapshot.Snapshot) []Change {
	var out []Change
	for _, id := range d.orderedKeys(content.CategoryBuilding, after.BuildingIDs()) {
		if before.HasBuilding(id) {
			continue
		}
		m := d.meta(content.CategoryBuilding, id)
		out = append(out, Change{Summary: withIcon(m.Icon, m.Label) + " built"})
	}
	return out
}

func (d differ) lands(before, after snapshot.Snapshot) []Change {
	var out []Change
	landMeta := d.meta(content.CategoryLand, "land")

	beforeSlots := 0
	for _, l := range before.Lands {
		beforeSlots += l.SlotsMax
	}
	existingSlots := 0

	for _, land := range after.Lands {
		prev, existed := before.Land(land.ID)
		if !existed {
			out = append(out, Change{Summary: withIcon(landMeta.Icon, "New "+landMeta.Label)})
			continue
		}
		existingSlots += land.SlotsMax

		remaining := make(map[string]int, len(prev.Developments))
		for _, dev := range prev.Developments {
			remaining[dev]++
		}
		for _, dev := range land.Developments {
			if remaining[dev] > 0 {
				remaining[dev]--
				continue
			}
			m := d.meta(content.CategoryDevelopment, dev)
			out = append(out, Change{Summary: DevelopedPrefix + " " + withIcon(m.Icon, m.Label)})
		}
	}

	// capacity brought in by brand-new lands is already implied by their line
	if delta := existingSlots - beforeSlots; delta != 0 {
		m := d.meta(content.CategorySlot, "slot")
		out = append(out, Change{Summary: fmt.Sprintf("%s %s (%d→%d)",
			withIcon(m.Icon, m.Label), signed(float64(delta)), beforeSlots, existingSlots)})
	}
	return out
}

// passives only reports removals; additions are narrated by their own
// enter effects.
func (d differ) passives(before, after snapshot.Snapshot) []Change {
	var out []Change
	for _, id := range before.Passives {
		if after.HasPassive(id) {
			continue
		}
		m := d.meta(content.CategoryPassive, id)
		out = append(out, Change{Summary: withIcon(m.Icon, m.Label) + " removed"})
	}
	return out
}

func unionKeys(a, b map[string]float64) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]float64{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
