package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/game"
)

func TestDefaultFurniture(t *testing.T) {
	f := DefaultFurniture()
	require.Len(t, f.Items(), 10)

	key, ok := f.Lookup(game.CapstoneItem)
	require.True(t, ok)
	assert.Equal(t, 2000, key.Cost)

	lamp, ok := f.Lookup("ice-lamp")
	require.True(t, ok)
	assert.Equal(t, 200, lamp.Cost)
	assert.Equal(t, "tundra", lamp.Category)

	_, ok = f.Lookup("hot-tub")
	assert.False(t, ok)

	assert.Len(t, f.ByCategory("sahara"), 3)
}

func TestNewFurnitureRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"missing id", []Item{{Name: "x", Cost: 1}}},
		{"negative cost", []Item{{ID: "x", Cost: -1}}},
		{"duplicate", []Item{{ID: "x", Cost: 1}, {ID: "x", Cost: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFurniture(tt.items)
			assert.Error(t, err)
		})
	}
}

func TestLoadFurniture(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		f, err := LoadFurniture("")
		require.NoError(t, err)
		assert.Len(t, f.Items(), 10)
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		f, err := LoadFurniture(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Len(t, f.Items(), 10)
	})

	t.Run("yaml file replaces catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := "items:\n  - id: beanbag\n    name: Bean Bag\n    cost: 75\n    category: savanna\n  - id: penthouse-key\n    name: Penthouse Key\n    cost: 1000\n    category: tundra\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		f, err := LoadFurniture(path)
		require.NoError(t, err)
		require.Len(t, f.Items(), 2)
		bag, ok := f.Lookup("beanbag")
		require.True(t, ok)
		assert.Equal(t, 75, bag.Cost)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("items: [::"), 0o644))
		_, err := LoadFurniture(path)
		assert.Error(t, err)
	})
}

func TestRegions(t *testing.T) {
	assert.Len(t, Regions(), 9)

	r, ok := LookupRegion("tundratown")
	require.True(t, ok)
	assert.Equal(t, "Tundratown", r.Name)

	assert.Len(t, UnlockedRegions(0), 9)
	_, ok = NextRegion(0)
	assert.False(t, ok)
}

func TestCitizenRankFor(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "newcomer"},
		{99, "newcomer"},
		{100, "resident"},
		{1499, "local-hero"},
		{5000, "mayor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CitizenRankFor(tt.minutes).ID, "minutes=%d", tt.minutes)
	}
}
