package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
	"github.com/louisbranch/launchpad/internal/services/web/routepath"
)

var navEntries = []templates.NavEntry{
	{Key: "home_link", Path: routepath.Root, Icon: icons.Home},
	{Key: "monitoring_link", Path: routepath.Monitoring, Icon: icons.Settings},
}

// renderPage wraps body in the localized site chrome.
func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, title, description string, body templ.Component) {
	opts := templates.NewLayoutOptions(r.Context(), templates.ChromeInput{
		Path:         r.URL.Path,
		Title:        title,
		Description:  description,
		Nav:          navEntries,
		SwitchAction: routepath.LocaleSwitch,
		Now:          h.now(),
	})
	opts.Stylesheets = []string{routepath.Stylesheet}
	opts.Body = body
	if err := httpx.WriteComponent(w, r, status, templates.Layout(opts)); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render page")
	}
}
