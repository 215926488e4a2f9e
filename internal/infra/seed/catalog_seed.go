// internal/infra/seed/catalog_seed.go
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tisoftshake/softshake/internal/domain/catalog"
)

var ErrInvalidSeed = errors.New("seed: invalid catalog file")

// File is the YAML layout of a catalog seed.
//
//	categories:
//	  - id: acai
//	    name: Açaí
//	    rule: topping-limited
//	    products:
//	      - id: acai-500
//	        name: Açaí 500ml
//	        price: "18.00"
//	        options:
//	          - { name: Leite Ninho, kind: topping, price: "2.00" }
//	groups:
//	  acai-toppings:
//	    - { name: Granola, kind: topping, price: "1.50" }
type File struct {
	Categories []CategorySeed          `yaml:"categories"`
	Groups     map[string][]OptionSeed `yaml:"groups"`
}

type CategorySeed struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Slug      string        `yaml:"slug"`
	Rule      string        `yaml:"rule"`
	SortOrder int           `yaml:"sortOrder"`
	Products  []ProductSeed `yaml:"products"`
}

type ProductSeed struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Price       string       `yaml:"price"`
	ImageURL    string       `yaml:"imageUrl"`
	Size        string       `yaml:"size"`
	InStock     *bool        `yaml:"inStock"`
	Options     []OptionSeed `yaml:"options"`
}

type OptionSeed struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Price   string `yaml:"price"`
	InStock *bool  `yaml:"inStock"`
}

// Counts reports how many documents Apply wrote.
type Counts struct {
	Categories int
	Products   int
	Options    int
}

// LoadFile reads and parses a seed file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, errors.Join(ErrInvalidSeed, err)
	}
	return f, nil
}

// Apply writes categories, products and options through w.
// Seeds with ids are idempotent: re-running replaces the same documents.
func Apply(ctx context.Context, w catalog.Writer, f File) (Counts, error) {
	var n Counts

	for _, cs := range f.Categories {
		cat, err := w.SaveCategory(ctx, catalog.Category{
			ID:        strings.TrimSpace(cs.ID),
			Name:      strings.TrimSpace(cs.Name),
			Slug:      slugOr(cs.Slug, cs.ID, cs.Name),
			Rule:      catalog.ParseRule(cs.Rule),
			SortOrder: cs.SortOrder,
		})
		if err != nil {
			return n, fmt.Errorf("seed: category %q: %w", cs.Name, err)
		}
		n.Categories++

		for _, ps := range cs.Products {
			p, err := ps.toProduct(cat.ID)
			if err != nil {
				return n, err
			}
			saved, err := w.SaveProduct(ctx, p)
			if err != nil {
				return n, fmt.Errorf("seed: product %q: %w", ps.Name, err)
			}
			n.Products++

			for _, opt := range ps.Options {
				o, err := opt.toOption()
				if err != nil {
					return n, err
				}
				o.ProductID = saved.ID
				if err := o.Validate(); err != nil {
					return n, fmt.Errorf("seed: option %q of %q: %w", opt.Name, ps.Name, err)
				}
				if _, err := w.SaveOption(ctx, o); err != nil {
					return n, fmt.Errorf("seed: option %q of %q: %w", opt.Name, ps.Name, err)
				}
				n.Options++
			}
		}
	}

	for group, opts := range f.Groups {
		for _, opt := range opts {
			o, err := opt.toOption()
			if err != nil {
				return n, err
			}
			o.Group = strings.TrimSpace(group)
			if err := o.Validate(); err != nil {
				return n, fmt.Errorf("seed: option %q of group %q: %w", opt.Name, group, err)
			}
			if _, err := w.SaveOption(ctx, o); err != nil {
				return n, fmt.Errorf("seed: option %q of group %q: %w", opt.Name, group, err)
			}
			n.Options++
		}
	}
	return n, nil
}

func (ps ProductSeed) toProduct(categoryID string) (catalog.Product, error) {
	price, err := parsePrice(ps.Price)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("seed: product %q: %w", ps.Name, err)
	}
	size := catalog.SizeToken(strings.TrimSpace(ps.Size))
	if size == catalog.SizeNone {
		// legacy catalogs only carry the size in the name
		size = catalog.ParseSizeToken(ps.Name)
	}
	p := catalog.Product{
		ID:          strings.TrimSpace(ps.ID),
		Name:        strings.TrimSpace(ps.Name),
		Description: strings.TrimSpace(ps.Description),
		Price:       price,
		ImageURL:    strings.TrimSpace(ps.ImageURL),
		CategoryID:  categoryID,
		InStock:     boolOr(ps.InStock, true),
		Size:        size,
	}
	if err := p.Validate(); err != nil {
		return catalog.Product{}, fmt.Errorf("seed: product %q: %w", ps.Name, err)
	}
	return p, nil
}

func (s OptionSeed) toOption() (catalog.Option, error) {
	price, err := parsePrice(s.Price)
	if err != nil {
		return catalog.Option{}, fmt.Errorf("seed: option %q: %w", s.Name, err)
	}
	return catalog.Option{
		ID:      strings.TrimSpace(s.ID),
		Name:    strings.TrimSpace(s.Name),
		Kind:    catalog.OptionKind(strings.ToLower(strings.TrimSpace(s.Kind))),
		Price:   price,
		InStock: boolOr(s.InStock, true),
	}, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Join(ErrInvalidSeed, err)
	}
	return d, nil
}

func slugOr(vals ...string) string {
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			return strings.Join(strings.Fields(v), "-")
		}
	}
	return ""
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
