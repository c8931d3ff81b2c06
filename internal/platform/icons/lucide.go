package icons

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

const (
	lucideSymbolPrefix = "lucide-"
	fallbackLucide     = "info"
	// SpritePath is where services mount SpriteHandler.
	SpritePath = "/static/icons.svg"
)

// LucideName returns the Lucide icon name for name.
func LucideName(name Name) (string, bool) {
	def, ok := byName[name]
	return def.Lucide, ok
}

// LucideNameOrDefault provides a stable Lucide name even when name is unknown.
func LucideNameOrDefault(name Name) string {
	if lucide, ok := LucideName(name); ok {
		return lucide
	}
	return fallbackLucide
}

// LucideSymbolID returns the sprite symbol ID for a Lucide icon name.
func LucideSymbolID(lucide string) string {
	return lucideSymbolPrefix + lucide
}

// Icon renders name as a sprite reference. Extra classes are appended to the
// base "icon" class.
func Icon(name Name, class string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		classes := "icon"
		if class != "" {
			classes += " " + class
		}
		_, err := fmt.Fprintf(w,
			`<svg class="%s" width="24" height="24" aria-hidden="true" focusable="false"><use href="%s#%s"></use></svg>`,
			html.EscapeString(classes),
			SpritePath,
			html.EscapeString(LucideSymbolID(LucideNameOrDefault(name))),
		)
		return err
	})
}

// SpriteHandler serves the SVG sprite.
func SpriteHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.WriteString(w, LucideSprite())
	})
}

// LucideSprite returns the SVG sprite markup for the registered icons that
// have symbol data.
func LucideSprite() string {
	return lucideSprite
}
