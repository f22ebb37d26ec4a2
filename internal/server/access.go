package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AccessFilter rejects requests for dotfiles (except /.well-known) and for
// any path mentioning one of the blocked names.
func AccessFilter(blocked []string) echo.MiddlewareFunc {
	names := make([]string, 0, len(blocked)+1)
	for _, b := range blocked {
		if b = strings.TrimSpace(b); b != "" {
			names = append(names, strings.ToLower(b))
		}
	}
	names = append(names, ".env")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if denied(c.Request().URL.Path, names) {
				return c.JSON(http.StatusForbidden, errorBody{Error: "Forbidden"})
			}
			return next(c)
		}
	}
}

func denied(path string, names []string) bool {
	lower := strings.ToLower(path)
	for _, seg := range strings.Split(lower, "/") {
		if strings.HasPrefix(seg, ".") && seg != ".well-known" {
			return true
		}
	}
	for _, n := range names {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// clientID keys per-client state on the first X-Forwarded-For hop.
func clientID(r *http.Request) string {
	fwd := r.Header.Get("X-Forwarded-For")
	if first, _, _ := strings.Cut(fwd, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	return "anonymous"
}
