// internal/adapters/in/http/handlers/common/common_handler.go
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ------------------------------
// Writers
// ------------------------------

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// MethodNotAllowed writes 405 response.
func MethodNotAllowed(w http.ResponseWriter) {
	WriteJSON(w, http.StatusMethodNotAllowed, ErrorBody{Error: "method_not_allowed"})
}

func NotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, ErrorBody{Error: "not_found"})
}

func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: strings.TrimSpace(msg)})
}

// WriteError maps a usecase/domain error to its HTTP status.
// 5xx bodies never carry the underlying error text.
func WriteError(w http.ResponseWriter, tag string, err error) {
	code := StatusOf(err)
	body := ErrorBody{Error: err.Error()}

	var ve *customization.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}

	switch {
	case code >= http.StatusInternalServerError:
		log.Printf("[%s] ERROR: status=%d err=%v", tag, code, err)
		body = ErrorBody{Error: strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_"))}
	case code == http.StatusConflict:
		log.Printf("[%s] WARN: conflict: %v", tag, err)
	}
	WriteJSON(w, code, body)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case isAny(err,
		customization.ErrInvalidSelection,
		customization.ErrWrongStep,
		customization.ErrClosed,
		usecase.ErrProductIDEmpty,
		usecase.ErrCartInvalidArgument,
		usecase.ErrCartEmpty,
		usecase.ErrOrderIDEmpty,
		usecase.ErrStockIDEmpty,
		usecase.ErrUnsupportedImage,
		cartdom.ErrInvalidCart,
		catalog.ErrInvalidProduct,
		catalog.ErrInvalidOption,
		orderdom.ErrInvalidForm,
		orderdom.ErrInvalidItems,
		orderdom.ErrInvalidStatus,
		pricing.ErrInvalidDeliveryType,
		reportdom.ErrInvalidPeriod,
		ErrBadRequest,
	):
		return http.StatusBadRequest

	case isAny(err, catalog.ErrNotFound, orderdom.ErrNotFound, reportdom.ErrNotFound):
		return http.StatusNotFound

	case isAny(err, usecase.ErrProductUnavailable, orderdom.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, usecase.ErrSubmitFailed):
		return http.StatusBadGateway

	case errors.Is(err, usecase.ErrImageStoreMissing):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// ------------------------------
// Readers
// ------------------------------

// ErrBadRequest wraps malformed request input (body, path or query).
var ErrBadRequest = errors.New("http: bad request")

// DecodeJSON reads a single JSON object from the body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json: %v", ErrBadRequest, err)
	}
	return nil
}

// MaskPhone keeps the last four digits for logs.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}
