// Package catalog holds the hand-maintained lookup tables mapping survey
// display names to warehouse identifiers. The tables are configuration, not
// logic: they ship embedded and load once at startup with a strict decoder
// so a typo'd key fails the run instead of silently passing through.
package catalog

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Catalog maps store and product display names to stable identifiers and
// fixes the matrix column order.
type Catalog struct {
	Stores   map[string]int    `yaml:"stores"`
	Products map[string]string `yaml:"products"`
	Columns  []string          `yaml:"columns"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse decodes catalog YAML. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Stores) == 0 {
		return fmt.Errorf("stores table is empty")
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("products table is empty")
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("column order is empty")
	}

	// Store ids must be unique: the table is an injective lookup.
	byID := make(map[int]string, len(c.Stores))
	for name, id := range c.Stores {
		if other, dup := byID[id]; dup {
			return fmt.Errorf("store id %d assigned to both %q and %q", id, other, name)
		}
		byID[id] = name
	}

	// Every product code must have a column, and column codes must be known.
	colSet := make(map[string]struct{}, len(c.Columns))
	for i, code := range c.Columns {
		if _, dup := colSet[code]; dup {
			return fmt.Errorf("duplicate column %q at position %d", code, i)
		}
		colSet[code] = struct{}{}
	}
	codeSet := make(map[string]struct{}, len(c.Products))
	for alias, code := range c.Products {
		codeSet[code] = struct{}{}
		if _, ok := colSet[code]; !ok {
			return fmt.Errorf("product %q maps to code %q with no column", alias, code)
		}
	}
	for _, code := range c.Columns {
		if _, ok := codeSet[code]; !ok {
			return fmt.Errorf("column %q has no product alias", code)
		}
	}

	return nil
}

// MapStore resolves a store display name to its numeric id rendered as a
// string key. Unmapped names pass through unchanged; ok reports whether the
// name was in the table so callers can surface catalog drift.
func (c *Catalog) MapStore(name string) (key string, ok bool) {
	if id, found := c.Stores[name]; found {
		return strconv.Itoa(id), true
	}
	return name, false
}

// MapProduct resolves a product display name to its code, pass-through on
// miss like MapStore.
func (c *Catalog) MapProduct(name string) (code string, ok bool) {
	if code, found := c.Products[name]; found {
		return code, true
	}
	return name, false
}

// ColumnOrder returns the fixed product-code column order.
func (c *Catalog) ColumnOrder() []string {
	out := make([]string, len(c.Columns))
	copy(out, c.Columns)
	return out
}

// StoreNames returns the known store names sorted by id, for listing.
func (c *Catalog) StoreNames() []string {
	names := make([]string, 0, len(c.Stores))
	for name := range c.Stores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return c.Stores[names[i]] < c.Stores[names[j]]
	})
	return names
}

// ProductAliases returns the known product display names sorted by the code
// they map to, then alphabetically.
func (c *Catalog) ProductAliases() []string {
	aliases := make([]string, 0, len(c.Products))
	for alias := range c.Products {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		ci, cj := c.Products[aliases[i]], c.Products[aliases[j]]
		if ci != cj {
			return ci < cj
		}
		return aliases[i] < aliases[j]
	})
	return aliases
}
