package web

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/services/shared/route"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
	"github.com/louisbranch/launchpad/internal/services/web/routepath"
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
		stylesReady(t("styles_ready")),
	)
	h.renderPage(w, r, http.StatusOK, t("meta_title"), t("meta_description"), body)
}

func stylesReady(label string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="styles-ready">`+templ.EscapeString(label)+`</div>`)
		return err
	})
}
