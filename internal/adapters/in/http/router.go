// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tisoftshake/softshake/internal/adapters/in/http/admin"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/middleware"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/storefront"
)

// RouterDeps collects the handler sets injected from the DI container.
type RouterDeps struct {
	Storefront     storefront.Deps
	Admin          admin.Deps
	AllowedOrigins string
}

// NewRouter builds the chi router with the shared middleware chain.
// CORS sits outside Recover so panics still get CORS headers.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recover)

	// Health check (always on)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	storefront.Register(r, deps.Storefront)
	admin.Register(r, deps.Admin)

	return otelhttp.NewHandler(r, "softshake-http",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)
}
