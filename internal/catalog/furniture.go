package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/metrofocus/internal/game"
)

// Item is a furniture catalog entry.
type Item struct {
	ID        game.ItemID `yaml:"id"`
	Name      string      `yaml:"name"`
	Cost      int         `yaml:"cost"`
	Category  string      `yaml:"category"`
	Emoji     string      `yaml:"emoji,omitempty"`
	Placement string      `yaml:"placement,omitempty"`
}

// Furniture is a read-only set of purchasable items.
type Furniture struct {
	items []Item
	byID  map[game.ItemID]Item
}

var defaultItems = []Item{
	{ID: "ice-lamp", Name: "Ice Crystal Lamp", Cost: 200, Category: "tundra", Emoji: "💎"},
	{ID: "polar-rug", Name: "Polar Bear Rug", Cost: 350, Category: "tundra", Emoji: "🐻‍❄️"},
	{ID: "snow-globe", Name: "Snow Globe", Cost: 150, Category: "tundra", Emoji: "🔮"},
	{ID: "vine-plant", Name: "Hanging Vines", Cost: 180, Category: "rainforest", Emoji: "🌿"},
	{ID: "waterfall", Name: "Mini Waterfall", Cost: 400, Category: "rainforest", Emoji: "💧"},
	{ID: "parrot-perch", Name: "Parrot Perch", Cost: 250, Category: "rainforest", Emoji: "🦜"},
	{ID: "cactus-lamp", Name: "Neon Cactus", Cost: 220, Category: "sahara", Emoji: "🌵"},
	{ID: "sand-art", Name: "Sand Art Display", Cost: 300, Category: "sahara", Emoji: "🏜️"},
	{ID: "camel-statue", Name: "Golden Camel", Cost: 500, Category: "sahara", Emoji: "🐪"},
	{ID: game.CapstoneItem, Name: "Penthouse Key", Cost: 2000, Category: "tundra", Emoji: "🗝️", Placement: "door"},
}

// DefaultFurniture returns the built-in furniture catalog.
func DefaultFurniture() *Furniture {
	f, _ := NewFurniture(defaultItems)
	return f
}

// NewFurniture validates items and builds a catalog.
func NewFurniture(items []Item) (*Furniture, error) {
	f := &Furniture{
		items: make([]Item, 0, len(items)),
		byID:  make(map[game.ItemID]Item, len(items)),
	}
	for i, it := range items {
		it.ID = game.ItemID(strings.TrimSpace(string(it.ID)))
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: id is required", i)
		}
		if it.Cost < 0 {
			return nil, fmt.Errorf("item %q: cost must be non-negative", it.ID)
		}
		if _, dup := f.byID[it.ID]; dup {
			return nil, fmt.Errorf("item %q: duplicate id", it.ID)
		}
		f.items = append(f.items, it)
		f.byID[it.ID] = it
	}
	return f, nil
}

// Lookup returns the item with id.
func (f *Furniture) Lookup(id game.ItemID) (Item, bool) {
	it, ok := f.byID[id]
	return it, ok
}

// Items returns every item in catalog order.
func (f *Furniture) Items() []Item {
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

// ByCategory returns the items tagged with category.
func (f *Furniture) ByCategory(category string) []Item {
	var out []Item
	for _, it := range f.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

type furnitureFile struct {
	Items []Item `yaml:"items"`
}

// LoadFurniture reads a YAML catalog from path. An empty path or a missing
// file yields the default catalog.
func LoadFurniture(path string) (*Furniture, error) {
	if path == "" {
		return DefaultFurniture(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFurniture(), nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file furnitureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, errors.New("catalog file has no items")
	}
	return NewFurniture(file.Items)
}
