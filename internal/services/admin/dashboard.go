package admin

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	apperrors "github.com/louisbranch/launchpad/internal/platform/errors"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/timefmt"
	"github.com/louisbranch/launchpad/internal/platform/timeouts"
	"github.com/louisbranch/launchpad/internal/services/admin/routepath"
	"github.com/louisbranch/launchpad/internal/services/admin/storage"
	"github.com/louisbranch/launchpad/internal/services/shared/route"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
)

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.MethodNotAllowed("GET, HEAD")(w, r)
		return
	}
	if route.RedirectTrailingSlash(w, r) {
		return
	}
	if r.URL.Path != routepath.Dashboard {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	locale := i18nhttp.Locale(ctx)
	counter, err := loadCounter(ctx, h.store, storage.DefaultCounter)
	if err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("load counter")
		httpx.WriteError(w, err, locale)
		return
	}

	tr := i18nhttp.Translator(ctx)
	t := tr.Namespace("Dashboard")
	root := tr.Namespace("RootLayout")
	body := templates.Stack(
		templates.Breadcrumbs([]templates.BreadcrumbItem{
			{Label: root("home_link"), URL: route.Localized(r, routepath.Root)},
			{Label: root("dashboard_link")},
		}),
		templates.Heading(t("heading")),
		h.counterPanel(r, counter),
		h.upstreamPanel(ctx),
	)
	h.renderPage(w, r, http.StatusOK, t("meta_title"), body)
}

func (h *handler) counterPanel(r *http.Request, counter storage.Counter) templ.Component {
	ctx := r.Context()
	t := i18nhttp.Translator(ctx).Namespace("Dashboard")
	locale := i18nhttp.Locale(ctx)
	updated := t("counter_never_updated")
	if !counter.UpdatedAt.IsZero() {
		// Zone was validated when the handler was built.
		at, _ := timefmt.In(counter.UpdatedAt, h.timeZone)
		updated = t("counter_updated", timefmt.Relative(counter.UpdatedAt, h.clock.Now(), locale), timefmt.LongDate(at, locale))
	}
	return templates.Stack(
		sectionHeading(t("counter_heading")),
		templates.Paragraph(t("counter_value", counter.Value)),
		templates.Paragraph(updated),
		templates.PostForm(route.Localized(r, routepath.DashboardCounter),
			templates.Button(templates.ButtonOptions{Label: t("increment"), Name: "op", Value: string(opIncrement), Icon: icons.Plus}),
			templates.Button(templates.ButtonOptions{Label: t("decrement"), Name: "op", Value: string(opDecrement), Icon: icons.Minus}),
			templates.Button(templates.ButtonOptions{Label: t("reset"), Name: "op", Value: string(opReset), Icon: icons.Reset, Variant: templates.ButtonDanger}),
		),
	)
}

// upstreamHealth is the body of the upstream health route.
type upstreamHealth struct {
	Status string `json:"status"`
}

// upstreamPanel probes the API health route once, without retries.
func (h *handler) upstreamPanel(ctx context.Context) templ.Component {
	t := i18nhttp.Translator(ctx).Namespace("Dashboard")
	heading := sectionHeading(t("upstream_heading"))
	if h.upstream == nil {
		return templates.Stack(heading, templates.Paragraph(t("upstream_unconfigured")))
	}

	started := h.clock.Now()
	health, err := apiclient.Get[upstreamHealth](ctx, h.upstream, routepath.UpstreamHealth)
	if err != nil {
		message := err.Error()
		if apiErr, ok := apiclient.AsError(err); ok {
			message = apiErr.Message
		}
		return templates.Stack(heading, templates.Alert(false, t("upstream_failed", message)))
	}
	if health.Status != "" && health.Status != "ok" {
		return templates.Stack(heading, templates.Alert(false, t("upstream_failed", health.Status)))
	}
	elapsed := h.clock.Now().Sub(started)
	return templates.Stack(heading, templates.Alert(true, t("upstream_ok", timefmt.Duration(elapsed))))
}

func (h *handler) handleCounter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(http.MethodPost)(w, r)
		return
	}
	locale := i18nhttp.Locale(r.Context())
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse counter form", err), locale)
		return
	}
	op, err := parseCounterOp(r.PostForm.Get("op"))
	if err != nil {
		httpx.WriteError(w, err, locale)
		return
	}

	counter, err := applyCounterOp(r.Context(), h.store, storage.DefaultCounter, op, h.clock.Now())
	if err != nil {
		logging.FromRequest(r).Error().Err(err).Str("op", string(op)).Msg("update counter")
		httpx.WriteError(w, err, locale)
		return
	}
	h.metrics.operations.WithLabelValues(string(op)).Inc()
	h.settle.Call(counter)
	httpx.WriteRedirect(w, r, route.Localized(r, routepath.Dashboard))
}

// counterSettled publishes the counter once updates stop arriving.
func (h *handler) counterSettled(counter storage.Counter) {
	h.metrics.value.Set(float64(counter.Value))
	h.logger.Info().Str("counter", counter.Name).Int64("value", counter.Value).Msg("counter settled")
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.MethodNotAllowed("GET, HEAD")(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.UpstreamProbe)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logging.FromRequest(r).Warn().Err(err).Msg("store ping")
		_ = httpx.WriteJSONError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func sectionHeading(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h2 class="section-heading">`+templ.EscapeString(title)+`</h2>`)
		return err
	})
}
