// internal/domain/catalog/repository_port.go
package catalog

import "context"

// Repository is the read side of the catalog.
// Stock flags must be current as of the call; callers do not cache across requests.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)

	// GetCategory returns ErrNotFound when absent.
	GetCategory(ctx context.Context, id string) (Category, error)

	// GetCategoryBySlug returns ErrNotFound when absent.
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)

	ListProducts(ctx context.Context, f ProductFilter) ([]Product, error)

	// GetProduct returns ErrNotFound when absent.
	GetProduct(ctx context.Context, id string) (Product, error)

	// ListOptions returns the options owned by ref, ordered by name.
	ListOptions(ctx context.Context, ref OptionRef) ([]Option, error)

	// GetOption returns ErrNotFound when absent.
	GetOption(ctx context.Context, id string) (Option, error)
}

// Writer is the admin side of the catalog (stock management).
type Writer interface {
	// SaveProduct creates (empty ID) or replaces a product and returns it with its ID.
	SaveProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetProductStock(ctx context.Context, id string, inStock bool) error
	SetProductImage(ctx context.Context, id string, imageURL string) error

	SaveOption(ctx context.Context, o Option) (Option, error)
	DeleteOption(ctx context.Context, id string) error
	SetOptionStock(ctx context.Context, id string, inStock bool) error

	SaveCategory(ctx context.Context, c Category) (Category, error)
}
