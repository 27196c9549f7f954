package subaction

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/diff"
	"github.com/jwebster45206/resolution-engine/pkg/snapshot"
	"github.com/jwebster45206/resolution-engine/pkg/textfilter"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

// Trace is the before/after record of one nested action execution. ID is
// the action id.
type Trace struct {
	ID     string               `json:"id" yaml:"id"`
	Before snapshot.PlayerState `json:"before" yaml:"before"`
	After  snapshot.PlayerState `json:"after" yaml:"after"`
}

// ActionLookup resolves action definitions. *content.Registry satisfies it.
type ActionLookup interface {
	Action(id string) (content.Action, bool)
}

// UnmatchedPolicy decides what happens to a trace whose diff has no
// placeholder line to nest under.
type UnmatchedPolicy string

const (
	UnmatchedDiscard UnmatchedPolicy = "discard"
	UnmatchedAppend  UnmatchedPolicy = "append"
)

// ParseUnmatchedPolicy accepts "discard" (or blank) and "append".
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnmatchedDiscard:
		return UnmatchedDiscard, nil
	case UnmatchedAppend:
		return UnmatchedAppend, nil
	default:
		return "", fmt.Errorf("unknown unmatched trace policy %q", s)
	}
}

// Integrator splices the diffs of nested action traces into a parent
// resolution's message list.
type Integrator struct {
	Actions   ActionLookup
	Context   diff.Context
	Keys      []string
	Unmatched UnmatchedPolicy
	Logger    *slog.Logger
}

// Integrate processes traces in order. Each trace's diff summaries are
// inserted right after its placeholder line, one level deeper. It returns the
// new message list (messages itself is not modified) and every summary that
// was spliced in.
func (in Integrator) Integrate(traces []Trace, messages []timeline.Descriptor) ([]timeline.Descriptor, []string) {
	out := slices.Clone(messages)
	used := make([]bool, len(out))
	var nested []string

	for _, tr := range traces {
		action, ok := in.action(tr.ID)
		if !ok {
			in.debug("Skipping trace for unknown action", "action_id", tr.ID)
			continue
		}

		res := diff.Diff(snapshot.Capture(tr.Before), snapshot.Capture(tr.After), nil, in.Context, in.Keys)
		if res.IsEmpty() {
			continue
		}

		idx := findPlaceholder(out, used, tr.ID, action.Label())
		if idx < 0 {
			idx = findPlaceholder(out, nil, tr.ID, action.Label())
		}
		if idx < 0 {
			if in.Unmatched != UnmatchedAppend {
				in.debug("Discarding trace without placeholder line", "action_id", tr.ID, "changes", len(res.Summaries))
				continue
			}
			out = append(out, timeline.Descriptor{
				Text:  action.SubactionLabel(),
				Depth: 1,
				Kind:  timeline.KindSubaction,
				RefID: tr.ID,
			})
			used = append(used, false)
			idx = len(out) - 1
		}
		used[idx] = true

		depth := out[idx].Depth + 1
		lines := make([]timeline.Descriptor, 0, len(res.Summaries))
		for _, s := range res.Summaries {
			lines = append(lines, timeline.Descriptor{Text: s, Depth: depth, Kind: timeline.KindEffect})
		}
		at := endOfChildren(out, idx)
		out = slices.Insert(out, at, lines...)
		used = slices.Insert(used, at, make([]bool, len(lines))...)
		nested = append(nested, res.Summaries...)
	}
	return out, nested
}

func (in Integrator) action(id string) (content.Action, bool) {
	if in.Actions == nil {
		return content.Action{}, false
	}
	return in.Actions.Action(id)
}

func (in Integrator) debug(msg string, args ...any) {
	if in.Logger != nil {
		in.Logger.Debug(msg, args...)
	}
}

// findPlaceholder returns the first unused subaction line whose RefID is the
// trace id, falling back to the first unused non-headline line whose
// normalized text is the action label. A nil used mask treats every line as
// unused.
func findPlaceholder(lines []timeline.Descriptor, used []bool, refID, label string) int {
	isUsed := func(i int) bool { return used != nil && used[i] }
	for i, l := range lines {
		if !isUsed(i) && l.Kind == timeline.KindSubaction && l.RefID != "" && l.RefID == refID {
			return i
		}
	}
	want := textfilter.NormalizeLine(label)
	if want == "" {
		return -1
	}
	for i, l := range lines {
		if isUsed(i) || l.Depth == 0 {
			continue
		}
		if textfilter.NormalizeLine(l.Text) == want {
			return i
		}
	}
	return -1
}

// endOfChildren returns the index just past the lines nested under lines[idx],
// so repeated splices under one placeholder keep trace order.
func endOfChildren(lines []timeline.Descriptor, idx int) int {
	i := idx + 1
	for i < len(lines) && lines[i].Depth > lines[idx].Depth {
		i++
	}
	return i
}
