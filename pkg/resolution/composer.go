package resolution

import (
	"log/slog"
	"sort"

	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/diff"
	"github.com/jwebster45206/resolution-engine/pkg/render"
	"github.com/jwebster45206/resolution-engine/pkg/snapshot"
	"github.com/jwebster45206/resolution-engine/pkg/subaction"
	"github.com/jwebster45206/resolution-engine/pkg/textfilter"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

// DefaultCostLabel heads the cost block inserted under the headline.
const DefaultCostLabel = "💲 Action cost"

// Registry is everything the composer needs from the content registry.
// *content.Registry satisfies it.
type Registry interface {
	diff.Context
	subaction.ActionLookup
}

// Options tune the composer.
type Options struct {
	// Keys limits the resources compared; nil compares all.
	Keys      []string
	Unmatched subaction.UnmatchedPolicy
	CostLabel string
}

// Input is everything known about one executed action or phase step.
type Input struct {
	Player     *Player
	Action     *Action
	ActionID   string
	Source     Source
	ActorLabel string

	// Lines are the resolved content lines; the first is the headline.
	Lines  []timeline.Descriptor
	Traces []subaction.Trace
	Before snapshot.Snapshot
	After  snapshot.Snapshot
	Effect *diff.Effect
	Costs  map[string]float64

	RequireAcknowledgement bool
}

// Composer turns an Input into a Resolution. It holds no per-call state and
// is safe for concurrent use.
type Composer struct {
	registry Registry
	opts     Options
	logger   *slog.Logger
}

// NewComposer creates a composer. A nil logger disables logging.
func NewComposer(registry Registry, opts Options, logger *slog.Logger) *Composer {
	if opts.CostLabel == "" {
		opts.CostLabel = DefaultCostLabel
	}
	if opts.Unmatched == "" {
		opts.Unmatched = subaction.UnmatchedDiscard
	}
	return &Composer{registry: registry, opts: opts, logger: logger}
}

// Compose builds one finalized resolution.
func (c *Composer) Compose(in Input) Resolution {
	action := c.resolveAction(in)

	messages := timeline.Normalize(in.Lines)
	if len(messages) == 0 {
		messages = []timeline.Descriptor{{Text: fallbackHeadline(action, in.Source), Depth: 0, Kind: timeline.KindHeadline}}
	}
	messages = c.withCosts(messages, in.Costs)

	integrator := subaction.Integrator{
		Actions:   c.registry,
		Context:   c.registry,
		Keys:      c.opts.Keys,
		Unmatched: c.opts.Unmatched,
		Logger:    c.logger,
	}
	messages, nested := integrator.Integrate(in.Traces, messages)

	res := diff.Diff(in.Before, in.After, in.Effect, c.registry, c.opts.Keys)

	texts := timeline.Texts(messages)
	summaries := textfilter.FilterSummaries(res.Summaries, texts, nested)
	changes := textfilter.FilterChanges(res.Changes, textfilter.AllowedSet(res.Changes, texts, nested))

	lines, variant := render.Build(messages, changes)
	tree := timeline.BuildTree(lines)
	items := tree.Items()
	visible := visibleItems(tree)

	if c.logger != nil {
		c.logger.Debug("Composed resolution",
			"action_id", actionID(action),
			"variant", variant,
			"traces", len(in.Traces),
			"diff_changes", len(res.Changes),
			"shown_changes", len(changes))
	}

	return Resolution{
		Lines:                  render.PlainLines(items),
		VisibleLines:           render.PlainLines(visible),
		Timeline:               lines,
		VisibleTimeline:        rebased(visible),
		Records:                render.Records(items),
		Summaries:              summaries,
		Player:                 in.Player,
		Action:                 action,
		Source:                 in.Source,
		ActorLabel:             in.ActorLabel,
		Variant:                variant,
		RequireAcknowledgement: in.RequireAcknowledgement,
		IsComplete:             true,
	}
}

func (c *Composer) resolveAction(in Input) *Action {
	if in.Action != nil {
		a := *in.Action
		return &a
	}
	if in.ActionID == "" || c.registry == nil {
		return nil
	}
	def, ok := c.registry.Action(in.ActionID)
	if !ok {
		return &Action{ID: in.ActionID, Name: in.ActionID}
	}
	return &Action{ID: def.ID, Name: def.Name, Icon: def.Icon}
}

// withCosts inserts the cost header and one detail line per non-zero cost
// right after the headline.
func (c *Composer) withCosts(messages []timeline.Descriptor, costs map[string]float64) []timeline.Descriptor {
	var block []timeline.Descriptor
	for _, key := range c.costKeys(costs) {
		amount := costs[key]
		if diff.IsZero(amount) {
			continue
		}
		label := key
		icon := ""
		if c.registry != nil {
			if m, ok := c.registry.Lookup(content.CategoryResource, key); ok {
				label, icon = m.Label, m.Icon
			}
		}
		block = append(block, timeline.Descriptor{
			Text:  diff.Label(icon, label) + " " + diff.FormatSigned(-amount),
			Depth: 2,
			Kind:  timeline.KindCostDetail,
		})
	}
	if len(block) == 0 {
		return messages
	}

	out := make([]timeline.Descriptor, 0, len(messages)+len(block)+1)
	out = append(out, messages[0])
	out = append(out, timeline.Descriptor{Text: c.opts.CostLabel, Depth: 1, Kind: timeline.KindCost})
	out = append(out, block...)
	return append(out, messages[1:]...)
}

func (c *Composer) costKeys(costs map[string]float64) []string {
	keys := make([]string, 0, len(costs))
	seen := make(map[string]bool, len(costs))
	if c.registry != nil {
		for _, k := range c.registry.Order(content.CategoryResource) {
			if _, ok := costs[k]; ok {
				keys = append(keys, k)
				seen[k] = true
			}
		}
	}
	var rest []string
	for k := range costs {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// visibleItems is everything under the headline, re-baselined so it can be
// shown beneath a resolution title.
func visibleItems(tree timeline.Tree) []timeline.Item {
	if len(tree.Roots) == 0 {
		return nil
	}
	section := append([]int(nil), tree.Nodes[tree.Roots[0]].Children...)
	section = append(section, tree.Roots[1:]...)
	return tree.CollectItems(section, tree.FindSectionBaseDepth(section))
}

func rebased(items []timeline.Item) []timeline.Descriptor {
	out := make([]timeline.Descriptor, 0, len(items))
	for _, it := range items {
		d := it.Descriptor
		d.Depth = it.Indent
		out = append(out, d)
	}
	return out
}

func fallbackHeadline(action *Action, source Source) string {
	if action != nil {
		return diff.Label(action.Icon, action.Name)
	}
	if title := source.Title(); title != "" {
		return title
	}
	if source.Kind == SourcePhase {
		return "Phase"
	}
	return "Action"
}

func actionID(a *Action) string {
	if a == nil {
		return ""
	}
	return a.ID
}
