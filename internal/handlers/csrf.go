package handlers

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.blogger/internal/boot"
)

const csrfFieldName = "csrf_token"

// CSRF rejects state-changing requests that do not carry the token rendered
// into every form.
func CSRF(config *boot.Config) echo.MiddlewareFunc {
	key := sha256.Sum256([]byte(config.Session.Key + "csrf"))
	protect := echo.WrapMiddleware(csrf.Protect(key[:],
		csrf.Secure(config.IsProduction()),
		csrf.Path("/"),
		csrf.FieldName(csrfFieldName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
		})),
	))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := protect(next)
		return func(c echo.Context) error {
			if !config.IsProduction() {
				// development serves plain http, so there is no TLS referer to check
				c.SetRequest(csrf.PlaintextHTTPRequest(c.Request()))
			}
			return h(c)
		}
	}
}
