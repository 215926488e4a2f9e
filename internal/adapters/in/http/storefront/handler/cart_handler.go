// internal/adapters/in/http/storefront/handler/cart_handler.go
package storefrontHandler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
)

// CartHandler serves the session cart and checkout.
//
//	POST   /api/carts                          new session id
//	GET    /api/carts/{cartId}?deliveryType=   cart + totals
//	DELETE /api/carts/{cartId}                 clear
//	POST   /api/carts/{cartId}/items           add configured product
//	PATCH  /api/carts/{cartId}/items/{productId}
//	DELETE /api/carts/{cartId}/items/{productId}
//	PATCH  /api/carts/{cartId}/lines/{key}
//	DELETE /api/carts/{cartId}/lines/{key}
//	POST   /api/carts/{cartId}/checkout
type CartHandler struct {
	uc     *usecase.CartUsecase
	orders *usecase.OrderUsecase
}

func NewCartHandler(uc *usecase.CartUsecase, orders *usecase.OrderUsecase) http.Handler {
	h := &CartHandler{uc: uc, orders: orders}
	r := chi.NewRouter()
	r.Post("/", h.newSession)
	r.Route("/{cartId}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.addItem)
		r.Patch("/items/{productId}", h.updateQuantity)
		r.Delete("/items/{productId}", h.removeItem)
		r.Patch("/lines/{key}", h.updateLineQuantity)
		r.Delete("/lines/{key}", h.removeLine)
		r.Post("/checkout", h.checkout)
	})
	return r
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) newSession(w http.ResponseWriter, r *http.Request) {
	id := h.uc.NewSessionID()
	w.Header().Set("X-Cart-Id", id)
	common.WriteJSON(w, http.StatusCreated, map[string]string{"cartId": id})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.Clear(r.Context(), cartID)
	})
}

// addItem rejects an invalid selection with 400 and leaves the cart untouched.
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddItemInput
	if err := common.DecodeJSON(w, r, &in); err != nil {
		common.WriteError(w, "storefront.cart", err)
		return
	}
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.AddItem(r.Context(), cartID, in)
	})
}

// updateQuantity is a no-op for quantities below 1.
func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "storefront.cart", err)
		return
	}
	productID := chi.URLParam(r, "productId")
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.UpdateQuantity(r.Context(), cartID, productID, req.Quantity)
	})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.RemoveItem(r.Context(), cartID, productID)
	})
}

func (h *CartHandler) updateLineQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "storefront.cart", err)
		return
	}
	key := chi.URLParam(r, "key")
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.UpdateLineQuantity(r.Context(), cartID, key, req.Quantity)
	})
}

func (h *CartHandler) removeLine(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	h.mutate(w, r, func(cartID string) (*cartdom.Cart, error) {
		return h.uc.RemoveLine(r.Context(), cartID, key)
	})
}

// -------------------------
// helpers
// -------------------------

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(cartID string) (*cartdom.Cart, error)) {
	if _, err := fn(chi.URLParam(r, "cartId")); err != nil {
		common.WriteError(w, "storefront.cart", err)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// respond re-reads the cart so totals follow the requested delivery type.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, code int) {
	cartID := chi.URLParam(r, "cartId")
	v, err := h.uc.View(r.Context(), cartID, r.URL.Query().Get("deliveryType"))
	if err != nil {
		common.WriteError(w, "storefront.cart", err)
		return
	}
	common.WriteJSON(w, code, presenter.Cart(v))
}

func logCheckout(cartID, phone, orderID string) {
	log.Printf("[storefront.cart] checkout ok cart=%s phone=%s order=%s", presenter.Number(cartID), common.MaskPhone(phone), orderID)
}
