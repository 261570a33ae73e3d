package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"storefront/internal/configurator"
	"storefront/internal/logger"
)

var configuratorTypes = map[string]int{
	"":          configurator.TypeStandard,
	"standard":  configurator.TypeStandard,
	"selection": configurator.TypeSelection,
	"picture":   configurator.TypePicture,
}

var translatableFields = map[string][]string{
	ObjectGroup:    {"name", "description"},
	ObjectOption:   {"name"},
	ObjectCategory: {"name", "external"},
	ObjectMedia:    {"description"},
}

// Load reads and validates a catalog file.
func Load(path string) (*Document, error) {
	logger.LogInfo("Loading catalog from %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	logger.LogInfo("Loaded catalog: %d shops, %d categories, %d groups, %d products, %d translations",
		len(doc.Shops), len(doc.Categories), len(doc.Groups), len(doc.Products), len(doc.Translations))
	return doc, nil
}

// Parse decodes a YAML (or JSON) catalog and validates it.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ConfiguratorType maps the type name used in catalog files to its stored value.
func ConfiguratorType(name string) (int, error) {
	t, ok := configuratorTypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown configurator type %q", name)
	}
	return t, nil
}

// ProductOptions returns the option ids making up a product's configurator set:
// the explicit list when given, otherwise every option its variants use.
func (p ProductItem) ProductOptions() []int {
	if len(p.Options) > 0 {
		return p.Options
	}

	seen := make(map[int]bool)
	var out []int
	for _, v := range p.Variants {
		for _, id := range v.Options {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Validate checks referential integrity of the whole document. All problems
// are reported together.
func (d *Document) Validate() error {
	var errs []error
	addErr := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	categories := make(map[int]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID <= 0 || categories[c.ID] {
			addErr("category %d: id must be positive and unique", c.ID)
		}
		categories[c.ID] = true
		if strings.TrimSpace(c.Name) == "" {
			addErr("category %d: name is required", c.ID)
		}
	}
	for _, c := range d.Categories {
		if c.ParentID != 0 && !categories[c.ParentID] {
			addErr("category %d: unknown parent %d", c.ID, c.ParentID)
		}
		if c.ParentID == c.ID {
			addErr("category %d: cannot be its own parent", c.ID)
		}
	}

	shops := make(map[int]bool, len(d.Shops))
	for _, s := range d.Shops {
		if s.ID <= 0 || shops[s.ID] {
			addErr("shop %d: id must be positive and unique", s.ID)
		}
		shops[s.ID] = true
		if s.Locale == "" {
			addErr("shop %d: locale is required", s.ID)
		}
		if !categories[s.CategoryID] {
			addErr("shop %d: unknown root category %d", s.ID, s.CategoryID)
		}
	}

	// option id -> group id; an option must live in exactly one group
	optionGroup := make(map[int]int)
	groups := make(map[int]bool, len(d.Groups))
	for _, g := range d.Groups {
		if g.ID <= 0 || groups[g.ID] {
			addErr("group %d: id must be positive and unique", g.ID)
		}
		groups[g.ID] = true
		for _, o := range g.Options {
			if o.ID <= 0 {
				addErr("group %d: option id %d must be positive", g.ID, o.ID)
			}
			if other, dup := optionGroup[o.ID]; dup {
				addErr("option %d: listed in groups %d and %d", o.ID, other, g.ID)
			}
			optionGroup[o.ID] = g.ID
		}
	}

	products := make(map[int]bool, len(d.Products))
	numbers := make(map[string]bool)
	variants := make(map[int]bool)
	for _, p := range d.Products {
		if p.ID <= 0 || products[p.ID] {
			addErr("product %d: id must be positive and unique", p.ID)
		}
		products[p.ID] = true
		if _, err := ConfiguratorType(p.Type); err != nil {
			addErr("product %d: %v", p.ID, err)
		}

		productOptions := make(map[int]bool)
		productGroups := make(map[int]bool)
		for _, id := range p.ProductOptions() {
			g, ok := optionGroup[id]
			if !ok {
				addErr("product %d: unknown option %d", p.ID, id)
				continue
			}
			productOptions[id] = true
			productGroups[g] = true
		}

		for _, v := range p.Variants {
			if v.ID <= 0 || variants[v.ID] {
				addErr("product %d: variant id %d must be positive and unique", p.ID, v.ID)
			}
			variants[v.ID] = true
			if v.Number == "" || numbers[v.Number] {
				addErr("product %d: variant number %q must be set and unique", p.ID, v.Number)
			}
			numbers[v.Number] = true

			used := make(map[int]bool)
			for _, id := range v.Options {
				if !productOptions[id] {
					addErr("variant %s: option %d is not part of product %d", v.Number, id, p.ID)
					continue
				}
				g := optionGroup[id]
				if used[g] {
					addErr("variant %s: two options from group %d", v.Number, g)
				}
				used[g] = true
			}
			if len(used) != len(productGroups) && len(v.Options) == len(used) {
				addErr("variant %s: must pick one option from each of the product's %d groups", v.Number, len(productGroups))
			}
		}

		for _, m := range p.Media {
			if !productOptions[m.Option] {
				addErr("product %d: media %d references option %d outside the configurator", p.ID, m.ID, m.Option)
			}
			if m.Path == "" {
				addErr("product %d: media %d has no path", p.ID, m.ID)
			}
		}
	}

	for i, t := range d.Translations {
		fields, ok := translatableFields[t.Type]
		if !ok {
			addErr("translation %d: unknown object type %q", i, t.Type)
			continue
		}
		if t.Locale == "" {
			addErr("translation %d: locale is required", i)
		}
		known := false
		for _, f := range fields {
			known = known || f == t.Field
		}
		if !known {
			addErr("translation %d: field %q cannot be translated on %s", i, t.Field, t.Type)
		}
	}

	return errors.Join(errs...)
}
