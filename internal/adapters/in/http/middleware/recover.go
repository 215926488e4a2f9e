// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const panicBody = `{"error":"internal_server_error"}`

// Recover turns a handler panic into a JSON 500.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("[recover] PANIC reqId=%s %s %s: %v\n%s",
				chimw.GetReqID(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())

			h := w.Header()
			h.Del("Content-Length")
			h.Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(panicBody))
		}()

		next.ServeHTTP(w, r)
	})
}
