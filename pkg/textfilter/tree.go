package textfilter

import "github.com/jwebster45206/resolution-engine/pkg/diff"

// Filtered is the result of filtering one node: either the node survives
// (Kept) or it is elided and its surviving descendants take its place
// (Promoted).
type Filtered struct {
	Kept     *diff.Change
	Promoted []diff.Change
}

// Changes returns the nodes that occupy the filtered node's position.
func (f Filtered) Changes() []diff.Change {
	if f.Kept != nil {
		return []diff.Change{*f.Kept}
	}
	return f.Promoted
}

// FilterNode filters children first, then keeps the node if its summary is
// allowed; otherwise its filtered children are promoted.
func FilterNode(c diff.Change, allowed Set) Filtered {
	children := FilterChanges(c.Children, allowed)
	if !allowed.Has(c.Summary) {
		return Filtered{Promoted: children}
	}
	return Filtered{Kept: &diff.Change{
		Summary:  c.Summary,
		Meta:     c.Meta,
		Children: children,
	}}
}

// FilterChanges filters a forest. The input is never modified.
func FilterChanges(changes []diff.Change, allowed Set) []diff.Change {
	var out []diff.Change
	for _, c := range changes {
		out = append(out, FilterNode(c, allowed).Changes()...)
	}
	return out
}
