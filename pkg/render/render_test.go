package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/resolution-engine/pkg/diff"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

func TestMarker(t *testing.T) {
	assert.Equal(t, "", Marker(0))
	assert.Equal(t, PrimaryMarker, Marker(1))
	assert.Equal(t, NestedMarker, Marker(2))
	assert.Equal(t, NestedMarker, Marker(5))
}

func sampleItems() []timeline.Item {
	tree := timeline.BuildTree([]timeline.Descriptor{
		{Text: "🚜 Plow", Depth: 0, Kind: timeline.KindHeadline},
		{Text: "🗺️ Expand", Depth: 1, Kind: timeline.KindSubaction},
		{Text: "🗺️ New Land", Depth: 2, Kind: timeline.KindEffect},
		{Text: "🪙 Gold -2 (10→8)", Depth: 1, Kind: timeline.KindEffect},
	})
	return tree.Items()
}

func TestPlainLines(t *testing.T) {
	assert.Equal(t, []string{
		"🚜 Plow",
		"  • 🗺️ Expand",
		"    ↳ 🗺️ New Land",
		"  • 🪙 Gold -2 (10→8)",
	}, PlainLines(sampleItems()))
}

func TestRecords(t *testing.T) {
	records := Records(sampleItems())
	require.Len(t, records, 4)

	assert.Equal(t, Record{Key: "0", Text: "🚜 Plow", Kind: timeline.KindHeadline}, records[0])
	assert.Equal(t, PrimaryMarker, records[1].Marker)
	assert.Equal(t, timeline.KindSubaction, records[1].Kind)
	assert.Equal(t, NestedMarker, records[2].Marker)
	assert.Equal(t, 2, records[2].Indent)
	assert.Equal(t, "0.0.0", records[2].Key)
	assert.Equal(t, "0.1", records[3].Key)
}

func TestWrap(t *testing.T) {
	lines := []string{
		"Headline",
		"  • one two three four five six seven eight nine ten eleven twelve",
	}
	wrapped := Wrap(lines, 24)

	require.Greater(t, len(wrapped), 2)
	assert.Equal(t, "Headline", wrapped[0])
	assert.True(t, strings.HasPrefix(wrapped[1], "  • one"))
	for _, w := range wrapped[2:] {
		assert.True(t, strings.HasPrefix(w, "    "), "continuation %q should align under text", w)
	}

	assert.Equal(t, lines, Wrap(lines, 0))
}

func TestSelectVariant(t *testing.T) {
	v, i := SelectVariant([]diff.Change{{Summary: "🪙 Gold +1 (1→2)"}})
	assert.Equal(t, VariantDefault, v)
	assert.Equal(t, -1, i)

	v, i = SelectVariant([]diff.Change{{Summary: "🪙 Gold +1 (1→2)"}, {Summary: "Developed 🏠 House"}})
	assert.Equal(t, VariantDevelop, v)
	assert.Equal(t, 1, i)
}

func TestBuild_Default(t *testing.T) {
	messages := timeline.FromText("🚜 Plow", "🌱 Prepare the fields")
	changes := []diff.Change{
		{Summary: "🪙 Gold +5 (10→15)", Children: []diff.Change{{Summary: "🪙+2 from 🌾"}}},
	}

	got, variant := Build(messages, changes)
	assert.Equal(t, VariantDefault, variant)
	assert.Equal(t, []timeline.Descriptor{
		{Text: "🚜 Plow", Depth: 0, Kind: timeline.KindHeadline},
		{Text: "🌱 Prepare the fields", Depth: 1, Kind: timeline.KindEffect},
		{Text: "🪙 Gold +5 (10→15)", Depth: 1, Kind: timeline.KindEffect},
		{Text: "🪙+2 from 🌾", Depth: 2, Kind: timeline.KindEffect},
	}, got)
}

func TestBuild_DevelopScenario(t *testing.T) {
	messages := timeline.FromText("🏗️ Develop")
	changes := []diff.Change{
		{Summary: "Developed 🗼 Watchtower"},
		{Summary: "🛡️ Fortification Strength +2 (0→2)"},
		{Summary: "🌀 Absorption +50% (0%→50%)"},
	}

	got, variant := Build(messages, changes)
	require.Equal(t, VariantDevelop, variant)

	assert.Equal(t, []timeline.Descriptor{
		{Text: "Developed 🗼 Watchtower", Depth: 0, Kind: timeline.KindHeadline},
		{Text: "🛡️ Fortification Strength +2 (0→2)", Depth: 1, Kind: timeline.KindEffect},
		{Text: "🌀 Absorption +50% (0%→50%)", Depth: 1, Kind: timeline.KindEffect},
	}, got)

	tree := timeline.BuildTree(got)
	require.Len(t, tree.Roots, 1)
	assert.Len(t, tree.Nodes[tree.Roots[0]].Children, 2)

	counts := map[string]int{}
	for _, d := range got {
		counts[d.Text]++
	}
	for text, n := range counts {
		assert.Equal(t, 1, n, "%q should appear once", text)
	}
}

func TestDevelopTimeline_KeepsLaterMessages(t *testing.T) {
	messages := []timeline.Descriptor{
		{Text: "🏗️ Develop", Depth: 0, Kind: timeline.KindHeadline},
		{Text: "💲 Action cost", Depth: 1, Kind: timeline.KindCost},
		{Text: "🪙 Gold -3", Depth: 2, Kind: timeline.KindCostDetail},
	}
	changes := []diff.Change{{Summary: "🛡️ Fortification Strength +2 (0→2)"}, {Summary: "Developed 🏠 House"}}

	got := DevelopTimeline(messages, changes, 1)
	assert.Equal(t, []string{
		"Developed 🏠 House",
		"💲 Action cost",
		"🪙 Gold -3",
		"🛡️ Fortification Strength +2 (0→2)",
	}, timeline.Texts(got))

	assert.Equal(t, DefaultTimeline(messages, changes), DevelopTimeline(messages, changes, 7))
}
