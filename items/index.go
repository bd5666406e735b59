// Package items is a searchable catalog of market item names.
package items

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

//go:embed catalog.json
var defaultCatalog []byte

// Item is a catalog entry.
type Item struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MainCategory int64  `json:"main_category"`
}

// Index matches item names against search terms.
type Index struct {
	items []Item
	names []string
	byID  map[int64]Item
}

// New builds an index over items, keeping the given order for equal-ranked matches.
func New(items []Item) *Index {
	ix := &Index{
		items: items,
		names: make([]string, len(items)),
		byID:  make(map[int64]Item, len(items)),
	}
	for i, it := range items {
		ix.names[i] = it.Name
		if _, ok := ix.byID[it.ID]; !ok {
			ix.byID[it.ID] = it
		}
	}
	return ix
}

// Parse builds an index from a JSON array of items.
func Parse(data []byte) (*Index, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode item catalog: %w", err)
	}
	return New(items), nil
}

// Load reads the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Index, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item catalog: %w", err)
	}
	return Parse(data)
}

// Len returns the number of catalog entries.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Lookup returns the first catalog entry with the given ID.
func (ix *Index) Lookup(id int64) (Item, bool) {
	it, ok := ix.byID[id]
	return it, ok
}

// Match returns up to limit items whose names fuzzily contain query, best first.
// A blank query or a non-positive limit matches nothing.
func (ix *Index) Match(query string, limit int) []Item {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	matches := fuzzy.RankFindNormalizedFold(query, ix.names)
	sort.Stable(matches)

	out := make([]Item, 0, min(limit, len(matches)))
	for _, match := range matches {
		if len(out) >= limit {
			break
		}
		out = append(out, ix.items[match.OriginalIndex])
	}
	return out
}
