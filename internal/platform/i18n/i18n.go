// Package i18n defines the supported locales, locale-prefixed paths, and
// message lookup over the embedded catalogs.
//
// Routing uses an "as-needed" prefix: the default locale is served without a
// prefix and every other locale lives under /<locale>/.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/launchpad/internal/platform/i18n/catalog"
)

// Supported locales.
const (
	DefaultLocale = catalog.BaseLocale
	French        = "fr"
)

var (
	supportedLocales = []string{DefaultLocale, French}
	supportedTags    = []language.Tag{language.English, language.French}
	matcher          = language.NewMatcher(supportedTags)
)

// Locales returns the supported locales, default first.
func Locales() []string {
	return append([]string(nil), supportedLocales...)
}

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// IsSupported reports whether locale is exactly one of the supported locales.
func IsSupported(locale string) bool {
	for _, supported := range supportedLocales {
		if locale == supported {
			return true
		}
	}
	return false
}

// ParseLocale maps a language tag such as "fr-CA" onto a supported locale.
func ParseLocale(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if IsSupported(base.String()) {
		return base.String(), true
	}
	return "", false
}

// MatchTags picks the best supported locale for a preference list.
func MatchTags(tags []language.Tag) string {
	if len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[index]
}

// SplitPath separates a leading locale segment from p. Paths without a
// supported locale prefix resolve to the default locale with prefixed false.
func SplitPath(p string) (locale string, rest string, prefixed bool) {
	if p == "" {
		p = "/"
	}
	trimmed := strings.TrimPrefix(p, "/")
	segment, remainder, hasSlash := strings.Cut(trimmed, "/")
	if !IsSupported(segment) {
		return DefaultLocale, p, false
	}
	if !hasSlash || remainder == "" {
		return segment, "/", true
	}
	return segment, "/" + remainder, true
}

// LocalizePath prefixes an unprefixed path for locale. The default locale
// stays unprefixed.
func LocalizePath(locale, p string) string {
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if locale == DefaultLocale || !IsSupported(locale) {
		return p
	}
	if p == "/" {
		return "/" + locale
	}
	return "/" + locale + p
}

// Translator formats catalog messages for one locale.
type Translator struct {
	locale  string
	printer *message.Printer
	base    *message.Printer
	bundle  *catalog.Bundle
}

// NewTranslator returns a Translator for locale, falling back to the default
// locale for unsupported values.
func NewTranslator(locale string) Translator {
	if !IsSupported(locale) {
		locale = DefaultLocale
	}
	return Translator{
		locale:  locale,
		printer: message.NewPrinter(language.Make(locale)),
		base:    message.NewPrinter(DefaultTag()),
		bundle:  catalog.Default(),
	}
}

// Locale returns the translator locale.
func (t Translator) Locale() string {
	if t.locale == "" {
		return DefaultLocale
	}
	return t.locale
}

// T formats the message stored under key ("Namespace.key"). Keys missing
// from the locale use the default locale; keys missing everywhere render as
// the key itself.
func (t Translator) T(key string, args ...any) string {
	if t.printer == nil {
		t = NewTranslator(t.locale)
	}
	switch {
	case t.bundle.Defines(t.locale, key):
		return t.printer.Sprintf(key, args...)
	case t.bundle.Defines(DefaultLocale, key):
		return t.base.Sprintf(key, args...)
	default:
		return key
	}
}

// Namespace returns a lookup bound to one catalog namespace.
func (t Translator) Namespace(namespace string) func(key string, args ...any) string {
	return func(key string, args ...any) string {
		return t.T(catalog.Key(namespace, key), args...)
	}
}

// Raw returns the unformatted template for key with default-locale fallback.
func (t Translator) Raw(key string) string {
	if value, ok := catalog.Default().Message(t.Locale(), key); ok {
		return value
	}
	return key
}
