package catalog

import (
	"fmt"
	"sort"

	"github.com/cinewise/moviedex/internal/domain"
)

// Item is one catalog entry (immutable value object).
type Item struct {
	id    string
	title string
	index int
}

// ID returns the external movie identifier.
func (i *Item) ID() string { return i.id }

// Title returns the catalog title.
func (i *Item) Title() string { return i.title }

// Index returns the matrix row/column position.
func (i *Item) Index() int { return i.index }

// Neighbor pairs an item with its similarity score to the query item.
type Neighbor struct {
	Item  Item
	Score float64
}

// Catalog is the immutable in-memory similarity snapshot: the item table,
// an exact-match title index, and a square similarity matrix aligned with
// item positions. Built once at startup, read-only afterwards, safe for
// concurrent use.
type Catalog struct {
	items   []Item
	byTitle map[string]int
	matrix  [][]float64
}

// New validates the snapshot and builds the catalog.
// ids and titles are parallel slices; the matrix must be square with one
// row per item. When a title occurs more than once, the first occurrence
// wins exact-match lookups.
func New(ids, titles []string, matrix [][]float64) (*Catalog, error) {
	if len(ids) != len(titles) {
		return nil, fmt.Errorf("%w: %d ids but %d titles", domain.ErrCatalogInvalid, len(ids), len(titles))
	}
	n := len(ids)
	if n == 0 {
		return nil, fmt.Errorf("%w: catalog has no items", domain.ErrCatalogInvalid)
	}
	if len(matrix) != n {
		return nil, fmt.Errorf("%w: %d items but %d matrix rows", domain.ErrCatalogInvalid, n, len(matrix))
	}
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("%w: matrix row %d has %d columns, want %d", domain.ErrCatalogInvalid, i, len(row), n)
		}
	}

	items := make([]Item, n)
	byTitle := make(map[string]int, n)
	for i := range ids {
		if ids[i] == "" {
			return nil, fmt.Errorf("%w: item %d has an empty id", domain.ErrCatalogInvalid, i)
		}
		if titles[i] == "" {
			return nil, fmt.Errorf("%w: item %d has an empty title", domain.ErrCatalogInvalid, i)
		}
		items[i] = Item{id: ids[i], title: titles[i], index: i}
		if _, seen := byTitle[titles[i]]; !seen {
			byTitle[titles[i]] = i
		}
	}

	return &Catalog{items: items, byTitle: byTitle, matrix: matrix}, nil
}

// Len returns the number of catalog items.
func (c *Catalog) Len() int { return len(c.items) }

// Titles returns all catalog titles in index order.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.items))
	for i := range c.items {
		out[i] = c.items[i].title
	}
	return out
}

// Lookup resolves a title to its catalog item. The match is exact and
// case-sensitive.
func (c *Catalog) Lookup(title string) (Item, bool) {
	idx, ok := c.byTitle[title]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Neighbors returns up to k items most similar to the given title, ordered
// by score descending. Equal scores keep ascending index order. The query
// item itself is never included (by index, so a duplicate title at another
// index stays eligible). An unknown title yields ErrTitleNotFound.
func (c *Catalog) Neighbors(title string, k int) ([]Neighbor, error) {
	idx, ok := c.byTitle[title]
	if !ok {
		return nil, domain.NewTitleNotFound(title)
	}

	row := c.matrix[idx]
	cands := make([]Neighbor, 0, len(c.items)-1)
	for i := range c.items {
		if i == idx {
			continue
		}
		cands = append(cands, Neighbor{Item: c.items[i], Score: row[i]})
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].Score > cands[b].Score })

	if k < 0 {
		k = 0
	}
	if k > len(cands) {
		k = len(cands)
	}
	return cands[:k], nil
}
