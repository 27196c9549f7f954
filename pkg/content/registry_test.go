package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
resources:
  - key: gold
    label: Gold
    icon: "🪙"
  - key: ap
    label: Action Points
    icon: "⚡"
stats:
  - key: absorption
    label: Absorption
    icon: "🌀"
    percent: true
    rounding: Down
  - key: fortification
    label: Fortification Strength
    icon: "🛡️"
developments:
  - key: watchtower
    label: Watchtower
    icon: "🗼"
land:
  label: Land
  icon: "🗺️"
actions:
  - id: plow
    name: Plow
    icon: "🚜"
  - id: till
    name: Till
    icon: "🧑‍🌾"
    system: true
`

func TestParseAndNew(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	r, err := New(c)
	require.NoError(t, err)

	gold, ok := r.Lookup(CategoryResource, "gold")
	require.True(t, ok)
	assert.Equal(t, "Gold", gold.Label)
	assert.Equal(t, "🪙", gold.Icon)
	assert.Equal(t, RoundNearest, gold.Rounding)

	abs, ok := r.Lookup(CategoryStat, "absorption")
	require.True(t, ok)
	assert.True(t, abs.DisplayAsPercent)
	assert.Equal(t, RoundDown, abs.Rounding)

	assert.Equal(t, []string{"gold", "ap"}, r.ResourceKeys())
	assert.Equal(t, []string{"absorption", "fortification"}, r.Order(CategoryStat))

	land, ok := r.Lookup(CategoryLand, "A-L3")
	require.True(t, ok)
	assert.Equal(t, "🗺️", land.Icon)

	slot, ok := r.Lookup(CategorySlot, "")
	require.True(t, ok)
	assert.Equal(t, "Development Slot", slot.Label)

	_, ok = r.Lookup(CategoryBuilding, "castle")
	assert.False(t, ok)

	till, ok := r.Action("till")
	require.True(t, ok)
	assert.True(t, till.System)
	assert.Equal(t, till.Label()+" (automatic)", till.SubactionLabel())
	assert.Equal(t, "🚜 Plow", mustAction(t, r, "plow").Label())
	assert.Equal(t, "🚜 Plow", mustAction(t, r, "plow").SubactionLabel())
}

func mustAction(t *testing.T, r *Registry, id string) Action {
	t.Helper()
	a, ok := r.Action(id)
	require.True(t, ok, "action %s", id)
	return a
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		errPart string
	}{
		{
			name:    "duplicate resource",
			catalog: Catalog{Resources: []Meta{{Key: "gold"}, {Key: "gold"}}},
			errPart: "duplicate resource key",
		},
		{
			name:    "blank stat key",
			catalog: Catalog{Stats: []Meta{{Key: "  "}}},
			errPart: "blank key",
		},
		{
			name:    "blank action id",
			catalog: Catalog{Actions: []Action{{Name: "Nothing"}}},
			errPart: "blank id",
		},
		{
			name:    "duplicate action",
			catalog: Catalog{Actions: []Action{{ID: "plow"}, {ID: "plow"}}},
			errPart: "duplicate action id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.catalog)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	r, err := New(Catalog{
		Resources: []Meta{{Key: "gold"}},
		Actions:   []Action{{ID: "expand"}},
	})
	require.NoError(t, err)

	gold, _ := r.Lookup(CategoryResource, "gold")
	assert.Equal(t, "gold", gold.Label)
	assert.Equal(t, "expand", mustAction(t, r, "expand").Name)

	land, _ := r.Lookup(CategoryLand, "x")
	assert.Equal(t, "Land", land.Label)
}

func TestParse_BadRounding(t *testing.T) {
	_, err := Parse([]byte("stats:\n  - key: x\n    rounding: sideways\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rounding mode")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, r.ResourceKeys(), 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
