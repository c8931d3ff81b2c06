// Package route holds request path helpers shared by the web and admin
// services.
package route

import (
	"net/http"
	"strings"

	"github.com/louisbranch/launchpad/internal/platform/i18n"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
)

// RedirectTrailingSlash canonicalizes request paths by stripping trailing "/"
// characters. The redirect target keeps the request locale prefix and query.
//
// It returns true when a redirect was written.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}

	originalPath := r.URL.Path
	canonical := strings.TrimRight(originalPath, "/")
	if canonical == "" {
		canonical = "/"
	}
	if canonical == originalPath {
		return false
	}

	target := i18n.LocalizePath(i18nhttp.Locale(r.Context()), canonical)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// Localized returns p under the request locale prefix.
func Localized(r *http.Request, p string) string {
	return i18n.LocalizePath(i18nhttp.Locale(r.Context()), p)
}
