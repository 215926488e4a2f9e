// internal/adapters/in/http/storefront/router.go
package storefront

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Deps is the customer-facing handler set.
type Deps struct {
	Categories http.Handler
	Products   http.Handler
	Carts      http.Handler
	Orders     http.Handler
}

// mountSafe mounts h at pattern. A nil h is logged and answers 404.
func mountSafe(r chi.Router, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[storefront.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	r.Mount(pattern, h)
}

// Register mounts the storefront routes under /api.
func Register(r chi.Router, deps Deps) {
	if r == nil {
		return
	}
	r.Route("/api", func(r chi.Router) {
		mountSafe(r, "/categories", deps.Categories, "Categories")
		mountSafe(r, "/products", deps.Products, "Products")
		mountSafe(r, "/carts", deps.Carts, "Carts")
		mountSafe(r, "/orders", deps.Orders, "Orders")
	})
}
