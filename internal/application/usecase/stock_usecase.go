// internal/application/usecase/stock_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

var (
	ErrStockIDEmpty      = errors.New("stock: id is empty")
	ErrImageStoreMissing = errors.New("stock: image store is not configured")
	ErrUnsupportedImage  = errors.New("stock: unsupported image type")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// StockUsecase is the admin side of the catalog.
// Every successful write emits a products_changed signal.
type StockUsecase struct {
	reader catalog.Repository
	writer catalog.Writer
	images ObjectStore
	feed   notifdom.Publisher
	clock  Clock
}

func NewStockUsecase(reader catalog.Repository, writer catalog.Writer) *StockUsecase {
	return &StockUsecase{reader: reader, writer: writer, clock: systemClock{}}
}

func (u *StockUsecase) WithImageStore(s ObjectStore) *StockUsecase {
	u.images = s
	return u
}

func (u *StockUsecase) WithPublisher(p notifdom.Publisher) *StockUsecase {
	u.feed = p
	return u
}

func (u *StockUsecase) WithClock(c Clock) *StockUsecase {
	if c != nil {
		u.clock = c
	}
	return u
}

// ============================================================
// Products
// ============================================================

// ListProducts returns every product including out-of-stock ones.
func (u *StockUsecase) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return u.reader.ListProducts(ctx, catalog.ProductFilter{})
}

// SaveProduct creates (empty ID) or replaces a product.
func (u *StockUsecase) SaveProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.CategoryID = strings.TrimSpace(p.CategoryID)
	if p.Size == catalog.SizeNone {
		p.Size = catalog.ParseSizeToken(p.Name)
	}
	if err := p.Validate(); err != nil {
		return catalog.Product{}, err
	}

	now := u.clock.Now().UTC()
	if p.ID == "" {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	saved, err := u.writer.SaveProduct(ctx, p)
	if err != nil {
		return catalog.Product{}, err
	}
	u.changed(ctx)
	return saved, nil
}

func (u *StockUsecase) DeleteProduct(ctx context.Context, id string) error {
	return u.write(ctx, id, func(id string) error { return u.writer.DeleteProduct(ctx, id) })
}

func (u *StockUsecase) SetProductStock(ctx context.Context, id string, inStock bool) error {
	return u.write(ctx, id, func(id string) error { return u.writer.SetProductStock(ctx, id, inStock) })
}

// UploadProductImage stores the image and points the product at its public URL.
func (u *StockUsecase) UploadProductImage(ctx context.Context, id, contentType string, r io.Reader) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrStockIDEmpty
	}
	if u.images == nil {
		return "", ErrImageStoreMissing
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExt[ct]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if _, err := u.reader.GetProduct(ctx, id); err != nil {
		return "", err
	}

	name := path.Join("products", fmt.Sprintf("%s-%d%s", id, u.clock.Now().UnixMilli(), ext))
	url, err := u.images.Put(ctx, name, ct, r)
	if err != nil {
		return "", fmt.Errorf("stock: upload image: %w", err)
	}
	if err := u.writer.SetProductImage(ctx, id, url); err != nil {
		return "", err
	}
	u.changed(ctx)
	return url, nil
}

// ============================================================
// Options
// ============================================================

// ListOptions returns a product's own options (variations, flavors, fillings).
func (u *StockUsecase) ListOptions(ctx context.Context, productID string) ([]catalog.Option, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrStockIDEmpty
	}
	return u.reader.ListOptions(ctx, catalog.ProductOptions(productID))
}

// ListGroup returns a shop-wide option group (e.g. açaí toppings).
func (u *StockUsecase) ListGroup(ctx context.Context, group string) ([]catalog.Option, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, ErrStockIDEmpty
	}
	return u.reader.ListOptions(ctx, catalog.GroupOptions(group))
}

func (u *StockUsecase) SaveOption(ctx context.Context, o catalog.Option) (catalog.Option, error) {
	o.ID = strings.TrimSpace(o.ID)
	o.Name = strings.TrimSpace(o.Name)
	o.ProductID = strings.TrimSpace(o.ProductID)
	o.Group = strings.TrimSpace(o.Group)
	if err := o.Validate(); err != nil {
		return catalog.Option{}, err
	}
	saved, err := u.writer.SaveOption(ctx, o)
	if err != nil {
		return catalog.Option{}, err
	}
	u.changed(ctx)
	return saved, nil
}

func (u *StockUsecase) DeleteOption(ctx context.Context, id string) error {
	return u.write(ctx, id, func(id string) error { return u.writer.DeleteOption(ctx, id) })
}

func (u *StockUsecase) SetOptionStock(ctx context.Context, id string, inStock bool) error {
	return u.write(ctx, id, func(id string) error { return u.writer.SetOptionStock(ctx, id, inStock) })
}

// ============================================================
// Helpers
// ============================================================

func (u *StockUsecase) write(ctx context.Context, id string, fn func(id string) error) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrStockIDEmpty
	}
	if err := fn(id); err != nil {
		return err
	}
	u.changed(ctx)
	return nil
}

func (u *StockUsecase) changed(ctx context.Context) {
	publish(ctx, u.feed, notifdom.ProductsChanged, u.clock.Now(), "stock_uc")
	log.Printf("[stock_uc] catalog changed")
}
