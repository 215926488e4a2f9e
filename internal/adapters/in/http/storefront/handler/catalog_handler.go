// internal/adapters/in/http/storefront/handler/catalog_handler.go
package storefrontHandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
)

// CategoryHandler serves GET /api/categories.
type CategoryHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCategoryHandler(uc *usecase.CatalogUsecase) http.Handler {
	h := &CategoryHandler{uc: uc}
	r := chi.NewRouter()
	r.Get("/", h.list)
	return r
}

// Read failures still answer 200 with "unavailable": true so the page can offer a retry.
func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, presenter.CategoryList(h.uc.ListCategories(r.Context())))
}

// ProductHandler serves the product list, product detail and the customization wizard.
//
//	GET  /api/products?category=slug
//	GET  /api/products/{id}
//	GET  /api/products/{id}/customization
//	POST /api/products/{id}/customization/preview
type ProductHandler struct {
	catalog *usecase.CatalogUsecase
	custom  *usecase.CustomizationUsecase
}

func NewProductHandler(catalogUC *usecase.CatalogUsecase, customUC *usecase.CustomizationUsecase) http.Handler {
	h := &ProductHandler{catalog: catalogUC, custom: customUC}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/customization", h.describe)
	r.Post("/{id}/customization/preview", h.preview)
	return r
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	l := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	common.WriteJSON(w, http.StatusOK, presenter.ProductList(l))
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "storefront.product", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Product(p))
}
