// internal/adapters/in/http/admin/handler/order_handler.go
package adminHandler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
)

// OrderHandler serves the order board.
//
//	GET  /admin/orders?status=&q=&limit=
//	GET  /admin/orders/{id}
//	POST /admin/orders/{id}/advance
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	h := &OrderHandler{uc: uc}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/advance", h.advance)
	return r
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	board, err := h.uc.List(r.Context(), usecase.ListOrdersInput{
		Status: q.Get("status"),
		Query:  q.Get("q"),
		Limit:  parseIntDefault(q.Get("limit"), 0),
	})
	if err != nil {
		common.WriteError(w, "admin.order", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.OrderBoard(board))
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "admin.order", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Order(o))
}

// advance moves the order one status forward; completed orders come back unchanged.
func (h *OrderHandler) advance(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "admin.order", err)
		return
	}
	log.Printf("[admin.order] advance id=%s status=%s", o.ID, o.Status)
	common.WriteJSON(w, http.StatusOK, presenter.Order(o))
}
