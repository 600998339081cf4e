package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AdminTokenHeader carries the dashboard token on admin API requests.
const AdminTokenHeader = "X-Admin-Token"

// RequireToken guards routes behind a static token carried in the
// X-Admin-Token header. An empty configured token disables the routes
// entirely rather than leaving them open.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			got := strings.TrimSpace(r.Header.Get(AdminTokenHeader))
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultStack applies the default middleware stack to a router.
func DefaultStack(r chi.Router) {
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
}
