// internal/adapters/in/http/middleware/request_log.go
package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog writes one line per request. Query strings are left out (they may carry phones).
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("[http] %s %s status=%d bytes=%d elapsed=%s reqId=%s",
			r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start), chimw.GetReqID(r.Context()))
	})
}
