// internal/adapters/in/http/admin/handler/option_handler.go
package adminHandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
)

// OptionHandler serves options by id and the shop-wide option groups.
//
//	GET    /admin/options?group=acai-toppings
//	POST   /admin/options                   group option (e.g. a new açaí topping)
//	PUT    /admin/options/{id}
//	DELETE /admin/options/{id}
//	PATCH  /admin/options/{id}/stock
type OptionHandler struct {
	uc *usecase.StockUsecase
}

func NewOptionHandler(uc *usecase.StockUsecase) http.Handler {
	h := &OptionHandler{uc: uc}
	r := chi.NewRouter()
	r.Get("/", h.listGroup)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/stock", h.setStock)
	return r
}

type optionRequest struct {
	Name      string             `json:"name"`
	Price     decimal.Decimal    `json:"price"`
	InStock   *bool              `json:"inStock"`
	Kind      catalog.OptionKind `json:"kind"`
	ProductID string             `json:"productId"`
	Group     string             `json:"group"`
}

func (req optionRequest) option(id string) catalog.Option {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return catalog.Option{
		ID:        id,
		Name:      req.Name,
		Price:     req.Price,
		InStock:   inStock,
		Kind:      catalog.OptionKind(strings.ToLower(strings.TrimSpace(string(req.Kind)))),
		ProductID: req.ProductID,
		Group:     req.Group,
	}
}

func (h *OptionHandler) listGroup(w http.ResponseWriter, r *http.Request) {
	opts, err := h.uc.ListGroup(r.Context(), r.URL.Query().Get("group"))
	if err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Options(opts))
}

func (h *OptionHandler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated)
}

func (h *OptionHandler) update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *OptionHandler) save(w http.ResponseWriter, r *http.Request, id string, code int) {
	var req optionRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	saved, err := h.uc.SaveOption(r.Context(), req.option(id))
	if err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	common.WriteJSON(w, code, presenter.Option(saved))
}

func (h *OptionHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteOption(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OptionHandler) setStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	inStock, err := req.value()
	if err == nil {
		err = h.uc.SetOptionStock(r.Context(), chi.URLParam(r, "id"), inStock)
	}
	if err != nil {
		common.WriteError(w, "admin.option", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"id": chi.URLParam(r, "id"), "inStock": inStock})
}
