// internal/adapters/in/http/storefront/handler/checkout_handler.go
package storefrontHandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
)

// checkout submits the cart as an order. The cart is kept when the order write fails (502).
func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var form orderdom.Form
	if err := common.DecodeJSON(w, r, &form); err != nil {
		common.WriteError(w, "storefront.checkout", err)
		return
	}

	cartID := chi.URLParam(r, "cartId")
	o, err := h.orders.Submit(r.Context(), cartID, form)
	if err != nil {
		common.WriteError(w, "storefront.checkout", err)
		return
	}
	logCheckout(cartID, o.CustomerPhone, o.ID)
	common.WriteJSON(w, http.StatusCreated, presenter.Order(o))
}

// OrderHandler serves GET /api/orders/{id} for the confirmation page.
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	h := &OrderHandler{uc: uc}
	r := chi.NewRouter()
	r.Get("/{id}", h.get)
	return r
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "storefront.order", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Order(o))
}
