// internal/platform/di/storefront/register.go
package storefront

import (
	"encoding/json"
	"net/http"
	"strings"

	httpin "github.com/tisoftshake/softshake/internal/adapters/in/http"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/admin"
	adminHandler "github.com/tisoftshake/softshake/internal/adapters/in/http/admin/handler"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/storefront"
	storefrontHandler "github.com/tisoftshake/softshake/internal/adapters/in/http/storefront/handler"
)

// notImplemented returns a non-nil handler (so deps are never nil) for endpoints
// that are not wired yet.
func notImplemented(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "not_implemented",
			"name":  name,
		})
	})
}

// NewHandler constructs every handler and returns the root router.
// Pure DI: no method/path branching here.
func NewHandler(cont *Container) http.Handler {
	sfDeps := storefront.Deps{
		Categories: notImplemented("Categories"),
		Products:   notImplemented("Products"),
		Carts:      notImplemented("Carts"),
		Orders:     notImplemented("Orders"),
	}
	adDeps := admin.Deps{
		Orders:   notImplemented("AdminOrders"),
		Products: notImplemented("AdminProducts"),
		Options:  notImplemented("AdminOptions"),
		Reports:  notImplemented("AdminReports"),
		Feed:     notImplemented("AdminFeed"),
		MailTest: notImplemented("AdminMailTest"),
	}
	origins := ""

	if cont != nil {
		if cont.CatalogUC != nil {
			sfDeps.Categories = storefrontHandler.NewCategoryHandler(cont.CatalogUC)
			if cont.CustomizationUC != nil {
				sfDeps.Products = storefrontHandler.NewProductHandler(cont.CatalogUC, cont.CustomizationUC)
			}
		}
		if cont.CartUC != nil && cont.OrderUC != nil {
			sfDeps.Carts = storefrontHandler.NewCartHandler(cont.CartUC, cont.OrderUC)
		}
		if cont.OrderUC != nil {
			sfDeps.Orders = storefrontHandler.NewOrderHandler(cont.OrderUC)
			adDeps.Orders = adminHandler.NewOrderHandler(cont.OrderUC)
		}
		if cont.StockUC != nil {
			adDeps.Products = adminHandler.NewProductHandler(cont.StockUC)
			adDeps.Options = adminHandler.NewOptionHandler(cont.StockUC)
		}
		if cont.ReportUC != nil {
			adDeps.Reports = adminHandler.NewReportHandler(cont.ReportUC)
		}
		if cont.Mailer != nil {
			adDeps.MailTest = adminHandler.NewMailTestHandler(cont.Mailer)
		}
		if cont.Infra != nil {
			origins = strings.Join(cont.Infra.Settings.AllowedOrigins, ",")
			if cont.Feed != nil {
				adDeps.Feed = adminHandler.NewFeedHandler(cont.Feed, cont.Infra.Settings.AllowedOrigins)
			}
		}
	}

	return httpin.NewRouter(httpin.RouterDeps{
		Storefront:     sfDeps,
		Admin:          adDeps,
		AllowedOrigins: origins,
	})
}
