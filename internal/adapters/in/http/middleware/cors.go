// internal/adapters/in/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins is used when ALLOWED_ORIGINS is empty (local dev front).
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// CORS allows the storefront and admin fronts. origins is a comma separated list;
// "*" allows any origin.
func CORS(origins string) func(http.Handler) http.Handler {
	allowed := ParseOrigins(origins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Cart-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Cart-Id"},
		AllowCredentials: false,
		MaxAge:           600,
	})
}

func ParseOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return DefaultAllowedOrigins
	}
	return out
}
