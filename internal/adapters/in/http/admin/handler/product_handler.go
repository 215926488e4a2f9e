// internal/adapters/in/http/admin/handler/product_handler.go
package adminHandler

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
)

// MaxImageBytes caps product image uploads.
const MaxImageBytes = 8 << 20

// ProductHandler serves stock management of products and their own options.
//
//	GET    /admin/products
//	POST   /admin/products
//	PUT    /admin/products/{id}
//	DELETE /admin/products/{id}
//	PATCH  /admin/products/{id}/stock
//	POST   /admin/products/{id}/image      multipart "file"
//	GET    /admin/products/{id}/options
//	POST   /admin/products/{id}/options
type ProductHandler struct {
	uc *usecase.StockUsecase
}

func NewProductHandler(uc *usecase.StockUsecase) http.Handler {
	h := &ProductHandler{uc: uc}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", h.update)
		r.Delete("/", h.delete)
		r.Patch("/stock", h.setStock)
		r.Post("/image", h.uploadImage)
		r.Get("/options", h.listOptions)
		r.Post("/options", h.createOption)
	})
	return r
}

type productRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	CategoryID  string            `json:"categoryId"`
	InStock     *bool             `json:"inStock"`
	Size        catalog.SizeToken `json:"size"`
}

func (req productRequest) product(id string) catalog.Product {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return catalog.Product{
		ID:          id,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CategoryID:  req.CategoryID,
		InStock:     inStock,
		Size:        req.Size,
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.ListProducts(r.Context())
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Products(ps))
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *ProductHandler) save(w http.ResponseWriter, r *http.Request, id string, code int) {
	var req productRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	saved, err := h.uc.SaveProduct(r.Context(), req.product(id))
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, code, presenter.Product(saved))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) setStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	inStock, err := req.value()
	if err == nil {
		err = h.uc.SetProductStock(r.Context(), chi.URLParam(r, "id"), inStock)
	}
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"id": chi.URLParam(r, "id"), "inStock": inStock})
}

// uploadImage takes the image from the multipart "file" part. The content type comes
// from the part header, or is sniffed when the client sent none.
func (h *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, "admin.product", fmt.Errorf("%w: file part: %v", common.ErrBadRequest, err))
		return
	}
	defer file.Close()

	br := bufio.NewReader(file)
	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		head, _ := br.Peek(512)
		ct = http.DetectContentType(head)
	}

	url, err := h.uc.UploadProductImage(r.Context(), chi.URLParam(r, "id"), ct, br)
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

func (h *ProductHandler) listOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.uc.ListOptions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Options(opts))
}

func (h *ProductHandler) createOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	o := req.option("")
	o.ProductID = chi.URLParam(r, "id")
	o.Group = ""

	saved, err := h.uc.SaveOption(r.Context(), o)
	if err != nil {
		common.WriteError(w, "admin.product", err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, presenter.Option(saved))
}
