package admin

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/services/admin/routepath"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
)

var navEntries = []templates.NavEntry{
	{Key: "home_link", Path: routepath.Root, Icon: icons.Home},
	{Key: "dashboard_link", Path: routepath.Dashboard, Icon: icons.Settings},
}

func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	opts := templates.NewLayoutOptions(r.Context(), templates.ChromeInput{
		Path:         r.URL.Path,
		Title:        title,
		Nav:          navEntries,
		SwitchAction: routepath.LocaleSwitch,
		Now:          h.clock.Now(),
	})
	opts.Body = body
	if err := httpx.WriteComponent(w, r, status, templates.Layout(opts)); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render page")
	}
}
