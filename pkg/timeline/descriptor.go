package timeline

import (
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/diff"
)

// Kind classifies a timeline line.
type Kind string

const (
	KindHeadline   Kind = "headline"
	KindGroup      Kind = "group"
	KindSubaction  Kind = "subaction"
	KindEffect     Kind = "effect"
	KindCost       Kind = "cost"
	KindCostDetail Kind = "cost-detail"
)

// Descriptor is one depth-annotated line. Depth 0 is the headline; a line's
// parent is the nearest preceding line with a smaller depth. RefID ties a
// subaction line to the trace that produced it.
type Descriptor struct {
	Text  string `json:"text" yaml:"text"`
	Depth int    `json:"depth" yaml:"depth"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	RefID string `json:"ref_id,omitempty" yaml:"ref_id,omitempty"`
}

// FromText wraps raw content lines: the first becomes the headline, the
// rest depth-1 effects. Blank lines are dropped.
func FromText(lines ...string) []Descriptor {
	out := make([]Descriptor, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(out) == 0 {
			out = append(out, Descriptor{Text: line, Depth: 0, Kind: KindHeadline})
			continue
		}
		out = append(out, Descriptor{Text: line, Depth: 1, Kind: KindEffect})
	}
	return out
}

// Normalize returns a copy with blank lines dropped, the first line forced to
// a depth-0 headline, later lines at depth >= 1 and untyped lines marked as
// effects.
func Normalize(lines []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(lines))
	for _, d := range lines {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		if len(out) == 0 {
			d.Depth = 0
			d.Kind = KindHeadline
			out = append(out, d)
			continue
		}
		if d.Depth < 1 {
			d.Depth = 1
		}
		if d.Kind == "" {
			d.Kind = KindEffect
		}
		out = append(out, d)
	}
	return out
}

// FromChanges flattens a diff forest into effect lines, roots at depth.
func FromChanges(changes []diff.Change, depth int) []Descriptor {
	var out []Descriptor
	for _, c := range changes {
		if strings.TrimSpace(c.Summary) == "" {
			continue
		}
		out = append(out, Descriptor{Text: c.Summary, Depth: depth, Kind: KindEffect})
		out = append(out, FromChanges(c.Children, depth+1)...)
	}
	return out
}

// Texts returns the text of every line.
func Texts(lines []Descriptor) []string {
	out := make([]string, 0, len(lines))
	for _, d := range lines {
		out = append(out, d.Text)
	}
	return out
}
