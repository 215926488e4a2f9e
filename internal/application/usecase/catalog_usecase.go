// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
)

// CategoryList is a read that may have failed softly.
// Unavailable tells the client to offer a retry.
type CategoryList struct {
	Items       []catalog.Category `json:"items"`
	Unavailable bool               `json:"unavailable"`
}

type ProductList struct {
	Items       []catalog.Product `json:"items"`
	Unavailable bool              `json:"unavailable"`
}

// CatalogUsecase serves the storefront catalog.
type CatalogUsecase struct {
	repo catalog.Repository
}

func NewCatalogUsecase(repo catalog.Repository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

// ListCategories returns categories by SortOrder, then name.
func (u *CatalogUsecase) ListCategories(ctx context.Context) CategoryList {
	cats, err := u.repo.ListCategories(ctx)
	if err != nil {
		log.Printf("[catalog_uc] WARN: list categories failed: %v", err)
		return CategoryList{Items: []catalog.Category{}, Unavailable: true}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})
	if cats == nil {
		cats = []catalog.Category{}
	}
	return CategoryList{Items: cats}
}

// ListProducts lists products, optionally narrowed by category slug.
// An unknown slug yields an empty, available list.
func (u *CatalogUsecase) ListProducts(ctx context.Context, categorySlug string) ProductList {
	f := catalog.ProductFilter{}

	if slug := strings.TrimSpace(categorySlug); slug != "" {
		cat, err := u.repo.GetCategoryBySlug(ctx, slug)
		if errors.Is(err, catalog.ErrNotFound) {
			return ProductList{Items: []catalog.Product{}}
		}
		if err != nil {
			log.Printf("[catalog_uc] WARN: category lookup failed slug=%q: %v", slug, err)
			return ProductList{Items: []catalog.Product{}, Unavailable: true}
		}
		f.CategoryID = cat.ID
	}

	items, err := u.repo.ListProducts(ctx, f)
	if err != nil {
		log.Printf("[catalog_uc] WARN: list products failed: %v", err)
		return ProductList{Items: []catalog.Product{}, Unavailable: true}
	}
	if items == nil {
		items = []catalog.Product{}
	}
	return ProductList{Items: items}
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return u.repo.GetProduct(ctx, strings.TrimSpace(id))
}
