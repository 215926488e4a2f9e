// internal/adapters/out/firestore/catalog_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
)

// CatalogRepositoryFS implements catalog.Repository and catalog.Writer.
//
// Collections:
//   - categories: name, slug, rule, sortOrder
//   - products: name, description, price, imageUrl, categoryId, inStock, size, createdAt, updatedAt
//   - product_variations: name, price, inStock, kind, productId | group
type CatalogRepositoryFS struct {
	Client *firestore.Client
}

func NewCatalogRepositoryFS(client *firestore.Client) *CatalogRepositoryFS {
	return &CatalogRepositoryFS{Client: client}
}

const (
	categoriesCollection = "categories"
	productsCollection   = "products"
	optionsCollection    = "product_variations"
)

func (r *CatalogRepositoryFS) categories() *firestore.CollectionRef {
	return r.Client.Collection(categoriesCollection)
}
func (r *CatalogRepositoryFS) products() *firestore.CollectionRef {
	return r.Client.Collection(productsCollection)
}
func (r *CatalogRepositoryFS) options() *firestore.CollectionRef {
	return r.Client.Collection(optionsCollection)
}

// ========================
// Read side
// ========================

func (r *CatalogRepositoryFS) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	it := r.categories().OrderBy("sortOrder", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []catalog.Category{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, categoryFromData(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

func (r *CatalogRepositoryFS) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	if r == nil || r.Client == nil {
		return catalog.Category{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Category{}, catalog.ErrNotFound
	}
	snap, err := r.categories().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.Category{}, catalog.ErrNotFound
		}
		return catalog.Category{}, err
	}
	return categoryFromData(snap.Ref.ID, snap.Data()), nil
}

func (r *CatalogRepositoryFS) GetCategoryBySlug(ctx context.Context, slug string) (catalog.Category, error) {
	if r == nil || r.Client == nil {
		return catalog.Category{}, errNilClient
	}
	it := r.categories().Where("slug", "==", strings.TrimSpace(slug)).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return catalog.Category{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Category{}, err
	}
	return categoryFromData(snap.Ref.ID, snap.Data()), nil
}

// ListProducts orders by name in memory so no composite index is needed.
func (r *CatalogRepositoryFS) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	q := r.products().Query
	if cid := strings.TrimSpace(f.CategoryID); cid != "" {
		q = q.Where("categoryId", "==", cid)
	}
	if f.InStockOnly {
		q = q.Where("inStock", "==", true)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	out := []catalog.Product{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, productFromData(snap.Ref.ID, snap.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepositoryFS) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if r == nil || r.Client == nil {
		return catalog.Product{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Product{}, catalog.ErrNotFound
	}
	snap, err := r.products().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return productFromData(snap.Ref.ID, snap.Data()), nil
}

func (r *CatalogRepositoryFS) ListOptions(ctx context.Context, ref catalog.OptionRef) ([]catalog.Option, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	if ref.IsZero() {
		return []catalog.Option{}, nil
	}

	q := r.options().Query
	if pid := strings.TrimSpace(ref.ProductID); pid != "" {
		q = q.Where("productId", "==", pid)
	} else {
		q = q.Where("group", "==", strings.TrimSpace(ref.Group))
	}

	it := q.Documents(ctx)
	defer it.Stop()

	out := []catalog.Option{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, optionFromData(snap.Ref.ID, snap.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepositoryFS) GetOption(ctx context.Context, id string) (catalog.Option, error) {
	if r == nil || r.Client == nil {
		return catalog.Option{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Option{}, catalog.ErrNotFound
	}
	snap, err := r.options().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.Option{}, catalog.ErrNotFound
		}
		return catalog.Option{}, err
	}
	return optionFromData(snap.Ref.ID, snap.Data()), nil
}

// ========================
// Write side
// ========================

// SaveProduct keeps createdAt of an existing document.
func (r *CatalogRepositoryFS) SaveProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if r == nil || r.Client == nil {
		return catalog.Product{}, errNilClient
	}

	var ref *firestore.DocumentRef
	if id := strings.TrimSpace(p.ID); id == "" {
		ref = r.products().NewDoc()
	} else {
		ref = r.products().Doc(id)
	}
	p.ID = ref.ID

	data := productToData(p)
	if p.CreatedAt.IsZero() {
		delete(data, "createdAt")
	}
	if _, err := ref.Set(ctx, data, firestore.MergeAll); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (r *CatalogRepositoryFS) DeleteProduct(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	ref := r.products().Doc(strings.TrimSpace(id))
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *CatalogRepositoryFS) SetProductStock(ctx context.Context, id string, inStock bool) error {
	return r.update(ctx, r.products(), id, []firestore.Update{
		{Path: "inStock", Value: inStock},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
}

func (r *CatalogRepositoryFS) SetProductImage(ctx context.Context, id, imageURL string) error {
	return r.update(ctx, r.products(), id, []firestore.Update{
		{Path: "imageUrl", Value: strings.TrimSpace(imageURL)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
}

func (r *CatalogRepositoryFS) SaveOption(ctx context.Context, o catalog.Option) (catalog.Option, error) {
	if r == nil || r.Client == nil {
		return catalog.Option{}, errNilClient
	}
	var ref *firestore.DocumentRef
	if id := strings.TrimSpace(o.ID); id == "" {
		ref = r.options().NewDoc()
	} else {
		ref = r.options().Doc(id)
	}
	o.ID = ref.ID
	if _, err := ref.Set(ctx, optionToData(o)); err != nil {
		return catalog.Option{}, err
	}
	return o, nil
}

func (r *CatalogRepositoryFS) DeleteOption(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	if _, err := r.options().Doc(strings.TrimSpace(id)).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *CatalogRepositoryFS) SetOptionStock(ctx context.Context, id string, inStock bool) error {
	return r.update(ctx, r.options(), id, []firestore.Update{{Path: "inStock", Value: inStock}})
}

func (r *CatalogRepositoryFS) SaveCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if r == nil || r.Client == nil {
		return catalog.Category{}, errNilClient
	}
	var ref *firestore.DocumentRef
	if id := strings.TrimSpace(c.ID); id == "" {
		ref = r.categories().NewDoc()
	} else {
		ref = r.categories().Doc(id)
	}
	c.ID = ref.ID
	if _, err := ref.Set(ctx, map[string]any{
		"name":      c.Name,
		"slug":      c.Slug,
		"rule":      string(c.Rule),
		"sortOrder": c.SortOrder,
	}); err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (r *CatalogRepositoryFS) update(ctx context.Context, col *firestore.CollectionRef, id string, ups []firestore.Update) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.ErrNotFound
	}
	if _, err := col.Doc(id).Update(ctx, ups); err != nil {
		if status.Code(err) == codes.NotFound {
			return catalog.ErrNotFound
		}
		return err
	}
	return nil
}

// ========================
// Mapping
// ========================

func categoryFromData(id string, m map[string]any) catalog.Category {
	return catalog.Category{
		ID:        id,
		Name:      asString(m["name"]),
		Slug:      asString(m["slug"]),
		Rule:      catalog.ParseRule(asString(m["rule"])),
		SortOrder: asInt(m["sortOrder"]),
	}
}

func productFromData(id string, m map[string]any) catalog.Product {
	p := catalog.Product{
		ID:          id,
		Name:        asString(m["name"]),
		Description: asString(m["description"]),
		Price:       asDecimal(m["price"]),
		ImageURL:    asString(m["imageUrl"]),
		CategoryID:  asString(m["categoryId"]),
		InStock:     asBool(m["inStock"]),
		Size:        catalog.SizeToken(asString(m["size"])),
	}
	if p.Size == catalog.SizeNone {
		p.Size = catalog.ParseSizeToken(p.Name)
	}
	if t, ok := asTime(m["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := asTime(m["updatedAt"]); ok {
		p.UpdatedAt = t
	}
	return p
}

func productToData(p catalog.Product) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       money(p.Price),
		"imageUrl":    p.ImageURL,
		"categoryId":  p.CategoryID,
		"inStock":     p.InStock,
		"size":        string(p.Size),
		"createdAt":   p.CreatedAt.UTC(),
		"updatedAt":   p.UpdatedAt.UTC(),
	}
}

func optionFromData(id string, m map[string]any) catalog.Option {
	return catalog.Option{
		ID:        id,
		Name:      asString(m["name"]),
		Price:     asDecimal(m["price"]),
		InStock:   asBool(m["inStock"]),
		Kind:      catalog.OptionKind(asString(m["kind"])),
		ProductID: asString(m["productId"]),
		Group:     asString(m["group"]),
	}
}

func optionToData(o catalog.Option) map[string]any {
	m := map[string]any{
		"name":    o.Name,
		"price":   money(o.Price),
		"inStock": o.InStock,
		"kind":    string(o.Kind),
	}
	if o.ProductID != "" {
		m["productId"] = o.ProductID
	}
	if o.Group != "" {
		m["group"] = o.Group
	}
	return m
}
