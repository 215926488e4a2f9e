// internal/adapters/in/http/admin/router.go
package admin

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Deps is the shop-admin handler set.
type Deps struct {
	Orders   http.Handler
	Products http.Handler
	Options  http.Handler
	Reports  http.Handler
	Feed     http.Handler
	MailTest http.Handler
}

func mountSafe(r chi.Router, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[admin.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	r.Mount(pattern, h)
}

// Register mounts the admin routes under /admin.
func Register(r chi.Router, deps Deps) {
	if r == nil {
		return
	}
	r.Route("/admin", func(r chi.Router) {
		mountSafe(r, "/orders", deps.Orders, "Orders")
		mountSafe(r, "/products", deps.Products, "Products")
		mountSafe(r, "/options", deps.Options, "Options")
		mountSafe(r, "/reports", deps.Reports, "Reports")
		mountSafe(r, "/ws", deps.Feed, "Feed")
		mountSafe(r, "/mail/test", deps.MailTest, "MailTest")
	})
}
