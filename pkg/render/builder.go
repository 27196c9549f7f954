package render

import (
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/diff"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

// Variant names the timeline layout chosen for a resolution.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantDevelop Variant = "develop"
)

// SelectVariant picks the develop layout when a root change starts with the
// "Developed" keyword, returning the index of that change.
func SelectVariant(changes []diff.Change) (Variant, int) {
	for i, c := range changes {
		if strings.HasPrefix(strings.TrimSpace(c.Summary), diff.DevelopedPrefix) {
			return VariantDevelop, i
		}
	}
	return VariantDefault, -1
}

// DefaultTimeline keeps the messages as they are and nests the diff forest
// one level under the headline.
func DefaultTimeline(messages []timeline.Descriptor, changes []diff.Change) []timeline.Descriptor {
	out := make([]timeline.Descriptor, 0, len(messages)+len(changes))
	out = append(out, messages...)
	return append(out, timeline.FromChanges(changes, 1)...)
}

// DevelopTimeline replaces the headline with the developed change at index
// and nests the remaining messages and changes beneath it.
func DevelopTimeline(messages []timeline.Descriptor, changes []diff.Change, index int) []timeline.Descriptor {
	if index < 0 || index >= len(changes) {
		return DefaultTimeline(messages, changes)
	}
	developed := changes[index]
	out := []timeline.Descriptor{{Text: developed.Summary, Depth: 0, Kind: timeline.KindHeadline}}
	if len(messages) > 1 {
		out = append(out, messages[1:]...)
	}
	out = append(out, timeline.FromChanges(developed.Children, 1)...)
	for i, c := range changes {
		if i == index {
			continue
		}
		out = append(out, timeline.FromChanges([]diff.Change{c}, 1)...)
	}
	return out
}

// Build selects a variant and builds the timeline for it.
func Build(messages []timeline.Descriptor, changes []diff.Change) ([]timeline.Descriptor, Variant) {
	variant, index := SelectVariant(changes)
	if variant == VariantDevelop {
		return DevelopTimeline(messages, changes, index), variant
	}
	return DefaultTimeline(messages, changes), variant
}
