package templates

import (
	"context"
	"strconv"
	"time"

	"github.com/louisbranch/launchpad/internal/platform/i18n"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/platform/icons"
)

// NavEntry is a navigation link before localization. Key is looked up in
// the RootLayout namespace.
type NavEntry struct {
	Key  string
	Path string
	Icon icons.Name
}

// ChromeInput describes the page being rendered.
type ChromeInput struct {
	// Path is the unprefixed request path.
	Path         string
	Title        string
	Description  string
	Nav          []NavEntry
	SwitchAction string
	Now          time.Time
}

// NewLayoutOptions localizes navigation, switcher and footer for the locale
// stored on ctx.
func NewLayoutOptions(ctx context.Context, in ChromeInput) LayoutOptions {
	tr := i18nhttp.Translator(ctx)
	locale := tr.Locale()
	root := tr.Namespace("RootLayout")
	switcher := tr.Namespace("LocaleSwitcher")

	nav := make([]NavLink, 0, len(in.Nav))
	for _, entry := range in.Nav {
		nav = append(nav, NavLink{
			Label:  root(entry.Key),
			Href:   i18n.LocalizePath(locale, entry.Path),
			Icon:   entry.Icon,
			Active: entry.Path == in.Path,
		})
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	opts := LayoutOptions{
		Title:       in.Title,
		Description: in.Description,
		Lang:        locale,
		Nav:         nav,
		Footer:      root("footer", strconv.Itoa(now.Year())),
	}
	if in.SwitchAction != "" {
		opts.Switcher = LocaleSwitcherOptions{
			Action:      in.SwitchAction,
			Path:        in.Path,
			Label:       switcher("change_language"),
			SubmitLabel: switcher("submit"),
			Options: i18nhttp.BuildLanguageOptions(locale, in.Path, func(option string) string {
				return switcher(option)
			}),
		}
	}
	return opts
}
