// cmd/storefront/swap_handler.go
package main

import (
	"net/http"
	"sync/atomic"
)

// swapHandler serves the most recently Set handler (404 before the first Set).
type swapHandler struct {
	cur atomic.Pointer[http.Handler]
}

func (s *swapHandler) Set(h http.Handler) {
	if h == nil {
		return
	}
	s.cur.Store(&h)
}

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := s.cur.Load(); p != nil {
		(*p).ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}
