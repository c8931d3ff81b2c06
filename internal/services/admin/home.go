package admin

import (
	"net/http"

	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/services/admin/routepath"
	"github.com/louisbranch/launchpad/internal/services/shared/route"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
)

func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.MethodNotAllowed("GET, HEAD")(w, r)
		return
	}
	if route.RedirectTrailingSlash(w, r) {
		return
	}
	if r.URL.Path != routepath.Root {
		http.NotFound(w, r)
		return
	}

	t := i18nhttp.Translator(r.Context()).Namespace("Index")
	body := templates.Stack(
		templates.Heading(t("heading")),
		templates.Paragraph(t("meta_description")),
	)
	h.renderPage(w, r, http.StatusOK, t("meta_title"), body)
}
