// Package i18nhttp resolves the request locale and serves locale-prefixed
// routes.
package i18nhttp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/louisbranch/launchpad/internal/platform/i18n"
)

const (
	// LocaleCookieName stores the user's language preference.
	LocaleCookieName = "NEXT_LOCALE"
	// LocaleParam is the form field used by the locale switcher.
	LocaleParam = "locale"
)

type localeKey struct{}

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Locale string
	Label  string
	Active bool
	Href   string
}

// ResolveLocale determines the locale for r: path prefix, then cookie, then
// Accept-Language, then the default locale.
func ResolveLocale(r *http.Request) string {
	if r == nil {
		return i18n.DefaultLocale
	}
	if locale, _, prefixed := i18n.SplitPath(r.URL.Path); prefixed {
		return locale
	}
	if cookie, err := r.Cookie(LocaleCookieName); err == nil {
		if locale, ok := i18n.ParseLocale(cookie.Value); ok {
			return locale
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return i18n.MatchTags(tags)
		}
	}
	return i18n.DefaultLocale
}

// SetLocaleCookie persists the selected locale on the response.
func SetLocaleCookie(w http.ResponseWriter, locale string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LocaleCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// WithLocale stores locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// Locale returns the locale stored by Middleware, or the default locale.
func Locale(ctx context.Context) string {
	if ctx != nil {
		if locale, ok := ctx.Value(localeKey{}).(string); ok && locale != "" {
			return locale
		}
	}
	return i18n.DefaultLocale
}

// Translator returns a translator for the request locale.
func Translator(ctx context.Context) i18n.Translator {
	return i18n.NewTranslator(Locale(ctx))
}

// Middleware resolves the request locale and strips a locale prefix before
// routing, so handlers register unprefixed patterns only. A default-locale
// prefix such as /en/dashboard redirects to /dashboard. A prefixed locale is
// persisted in the cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale, rest, prefixed := i18n.SplitPath(r.URL.Path)
		if prefixed && locale == i18n.DefaultLocale {
			SetLocaleCookie(w, locale)
			target := rest
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		if !prefixed {
			locale = ResolveLocale(r)
		} else {
			SetLocaleCookie(w, locale)
		}

		ctx := WithLocale(r.Context(), locale)
		routed := r.Clone(ctx)
		if prefixed {
			routed.URL.Path = rest
			routed.URL.RawPath = ""
		}
		next.ServeHTTP(w, routed)
	})
}

// SwitchHandler handles the locale switcher form: it stores the chosen
// locale and redirects to the localized version of the "path" field.
func SwitchHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		locale, ok := i18n.ParseLocale(r.Form.Get(LocaleParam))
		if !ok {
			http.Error(w, "unsupported locale", http.StatusBadRequest)
			return
		}
		_, rest, _ := i18n.SplitPath(safePath(r.Form.Get("path")))
		SetLocaleCookie(w, locale)
		http.Redirect(w, r, i18n.LocalizePath(locale, rest), http.StatusSeeOther)
	})
}

// BuildLanguageOptions lists supported locales for a switcher rendered on
// path (an unprefixed path), marking activeLocale.
func BuildLanguageOptions(activeLocale, path string, labelFor func(locale string) string) []LanguageOption {
	locales := i18n.Locales()
	options := make([]LanguageOption, 0, len(locales))
	for _, locale := range locales {
		label := locale
		if labelFor != nil {
			if resolved := strings.TrimSpace(labelFor(locale)); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{
			Locale: locale,
			Label:  label,
			Active: locale == activeLocale,
			Href:   i18n.LocalizePath(locale, path),
		})
	}
	return options
}

// safePath keeps redirects on this host.
func safePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}
