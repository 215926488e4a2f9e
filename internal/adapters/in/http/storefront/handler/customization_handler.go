// internal/adapters/in/http/storefront/handler/customization_handler.go
package storefrontHandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	"github.com/tisoftshake/softshake/internal/domain/customization"
)

type previewRequest struct {
	Selection       customization.Selection `json:"selection"`
	RequireCustomer bool                    `json:"requireCustomer"`
}

func (h *ProductHandler) describe(w http.ResponseWriter, r *http.Request) {
	v, err := h.custom.Describe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "storefront.customization", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.View(v))
}

// preview replays a partial selection. Picks past a step's limit are dropped, not rejected.
func (h *ProductHandler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "storefront.customization", err)
		return
	}
	v, err := h.custom.Preview(r.Context(), chi.URLParam(r, "id"), req.Selection, req.RequireCustomer)
	if err != nil {
		common.WriteError(w, "storefront.customization", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.View(v))
}
