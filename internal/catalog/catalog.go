// Package catalog holds the immutable checklist registry: categories with their
// criticality and weighting coefficient, each owning an ordered list of items.
package catalog

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dotcommander/auditscore/internal/types"
)

// Item is a single audit question.
type Item struct {
	ID       string
	Question string
	Guidance string
}

// Category groups items under one criticality tier and coefficient.
type Category struct {
	Ordinal     int
	Name        string
	Criticality types.Criticality
	Coefficient float64
	Items       []Item
}

// Title renders the numbered heading, e.g. "1. FOOD SAFETY".
func (c Category) Title() string {
	return fmt.Sprintf("%d. %s", c.Ordinal, c.Name)
}

// Catalog is an immutable, validated checklist. The zero value is empty but usable.
type Catalog struct {
	categories []Category
	index      map[string]position
	items      int
}

type position struct {
	category int
	item     int
}

var titlePattern = regexp.MustCompile(`^\s*(\d+)\s*[.):-]\s*(\S.*?)\s*$`)

// SplitTitle separates a leading ordinal from a category heading.
// "1. SÉCURITÉ DES ALIMENTS" yields (1, "SÉCURITÉ DES ALIMENTS", true).
func SplitTitle(title string) (int, string, bool) {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return 0, strings.TrimSpace(title), false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, strings.TrimSpace(title), false
	}
	return n, m[2], true
}

// New validates the definitions and builds a catalog. Inputs are copied; later
// changes to defs do not affect the catalog.
//
// Categories without an ordinal take it from a "N. " prefix on the name when
// present, otherwise from their 1-based position. Names of categories with an
// explicit ordinal are kept as given.
func New(defs []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(defs)),
		index:      make(map[string]position),
	}

	for ci, def := range defs {
		cat := def
		cat.Items = slices.Clone(def.Items)
		cat.Name = strings.TrimSpace(cat.Name)

		if cat.Ordinal == 0 {
			if n, name, ok := SplitTitle(cat.Name); ok {
				cat.Name = name
				cat.Ordinal = n
			}
		}
		if cat.Ordinal == 0 {
			cat.Ordinal = ci + 1
		}

		if cat.Name == "" {
			return nil, malformed("", "", "category #%d has no name", ci+1)
		}
		if !cat.Criticality.Valid() {
			return nil, malformed(cat.Name, "", "unknown criticality %q", cat.Criticality)
		}
		if !(cat.Coefficient > 0) || math.IsInf(cat.Coefficient, 0) {
			return nil, malformed(cat.Name, "", "coefficient must be positive and finite, got %v", cat.Coefficient)
		}
		if len(cat.Items) == 0 {
			return nil, malformed(cat.Name, "", "category has no items")
		}

		for ii, item := range cat.Items {
			id := strings.TrimSpace(item.ID)
			if id == "" {
				return nil, malformed(cat.Name, "", "item #%d has no identifier", ii+1)
			}
			if prev, dup := c.index[id]; dup {
				return nil, malformed(cat.Name, id, "duplicate item identifier (first defined in %q)",
					c.categories[prev.category].Name)
			}
			cat.Items[ii].ID = id
			c.index[id] = position{category: ci, item: ii}
		}

		c.items += len(cat.Items)
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// Categories returns the categories in canonical order. The result is a copy.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat
		out[i].Items = slices.Clone(cat.Items)
	}
	return out
}

// Category returns the i-th category in canonical order.
func (c *Catalog) Category(i int) Category {
	cat := c.categories[i]
	cat.Items = slices.Clone(cat.Items)
	return cat
}

// NumCategories returns the number of categories.
func (c *Catalog) NumCategories() int {
	return len(c.categories)
}

// Items returns every item in canonical order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, c.items)
	for _, cat := range c.categories {
		out = append(out, cat.Items...)
	}
	return out
}

// Len returns the total number of items.
func (c *Catalog) Len() int {
	return c.items
}

// Lookup returns the item with the given identifier and its owning category.
func (c *Catalog) Lookup(id string) (Category, Item, bool) {
	pos, ok := c.index[id]
	if !ok {
		return Category{}, Item{}, false
	}
	cat := c.Category(pos.category)
	return cat, cat.Items[pos.item], true
}

// Coefficient returns the weighting applied to the given item.
func (c *Catalog) Coefficient(id string) (float64, bool) {
	pos, ok := c.index[id]
	if !ok {
		return 0, false
	}
	return c.categories[pos.category].Coefficient, true
}
