// internal/adapters/out/memory/catalog_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tisoftshake/softshake/internal/domain/catalog"
)

// CatalogRepositoryMem implements catalog.Repository and catalog.Writer in process memory (dev / tests).
type CatalogRepositoryMem struct {
	mu         sync.RWMutex
	categories map[string]catalog.Category
	products   map[string]catalog.Product
	options    map[string]catalog.Option
}

func NewCatalogRepositoryMem() *CatalogRepositoryMem {
	return &CatalogRepositoryMem{
		categories: map[string]catalog.Category{},
		products:   map[string]catalog.Product{},
		options:    map[string]catalog.Option{},
	}
}

// ========================
// Reads
// ========================

func (r *CatalogRepositoryMem) ListCategories(_ context.Context) ([]catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CatalogRepositoryMem) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[strings.TrimSpace(id)]
	if !ok {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return c, nil
}

func (r *CatalogRepositoryMem) GetCategoryBySlug(_ context.Context, slug string) (catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slug = strings.TrimSpace(slug)
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return catalog.Category{}, catalog.ErrNotFound
}

func (r *CatalogRepositoryMem) ListProducts(_ context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []catalog.Product{}
	for _, p := range r.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepositoryMem) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[strings.TrimSpace(id)]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (r *CatalogRepositoryMem) ListOptions(_ context.Context, ref catalog.OptionRef) ([]catalog.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []catalog.Option{}
	if ref.IsZero() {
		return out, nil
	}
	for _, o := range r.options {
		if ref.ProductID != "" && o.ProductID != ref.ProductID {
			continue
		}
		if ref.Group != "" && o.Group != ref.Group {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepositoryMem) GetOption(_ context.Context, id string) (catalog.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.options[strings.TrimSpace(id)]
	if !ok {
		return catalog.Option{}, catalog.ErrNotFound
	}
	return o, nil
}

// ========================
// Writes
// ========================

func (r *CatalogRepositoryMem) SaveProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if prev, ok := r.products[p.ID]; ok && p.CreatedAt.IsZero() {
		p.CreatedAt = prev.CreatedAt
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *CatalogRepositoryMem) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *CatalogRepositoryMem) SetProductStock(_ context.Context, id string, inStock bool) error {
	return r.updateProduct(id, func(p *catalog.Product) { p.InStock = inStock })
}

func (r *CatalogRepositoryMem) SetProductImage(_ context.Context, id string, imageURL string) error {
	return r.updateProduct(id, func(p *catalog.Product) { p.ImageURL = imageURL })
}

func (r *CatalogRepositoryMem) SaveOption(_ context.Context, o catalog.Option) (catalog.Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.options[o.ID] = o
	return o, nil
}

func (r *CatalogRepositoryMem) DeleteOption(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.options[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.options, id)
	return nil
}

func (r *CatalogRepositoryMem) SetOptionStock(_ context.Context, id string, inStock bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.options[id]
	if !ok {
		return catalog.ErrNotFound
	}
	o.InStock = inStock
	r.options[id] = o
	return nil
}

func (r *CatalogRepositoryMem) SaveCategory(_ context.Context, c catalog.Category) (catalog.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *CatalogRepositoryMem) updateProduct(id string, fn func(p *catalog.Product)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	fn(&p)
	r.products[id] = p
	return nil
}
