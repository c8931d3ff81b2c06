package web

import (
	"context"
	"errors"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	apperrors "github.com/louisbranch/launchpad/internal/platform/errors"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/monitoring"
	"github.com/louisbranch/launchpad/internal/services/shared/route"
	"github.com/louisbranch/launchpad/internal/services/shared/templates"
	"github.com/louisbranch/launchpad/internal/services/web/routepath"
	"github.com/rs/zerolog"
)

// Monitoring page actions, posted in the "action" form field.
const (
	actionClient      = "client"
	actionPanic       = "panic"
	actionConsole     = "console"
	actionAPI         = "api"
	actionServer      = "server"
	actionMessage     = "message"
	actionBreadcrumb  = "breadcrumb"
	actionUser        = "user"
	actionTags        = "tags"
	actionPerformance = "performance"
)

type monitoringSection struct {
	key     string
	actions []string
}

var monitoringSections = []monitoringSection{
	{key: "section_client", actions: []string{actionClient, actionPanic, actionConsole}},
	{key: "section_server", actions: []string{actionAPI, actionServer}},
	{key: "section_context", actions: []string{actionMessage, actionBreadcrumb, actionUser, actionTags}},
	{key: "section_performance", actions: []string{actionPerformance}},
}

// TestUser is attached by the "user" action.
var TestUser = monitoring.User{ID: "test-user-123", Username: "test-user", Email: "test@example.com"}

type actionResult struct {
	action  string
	message string
	success bool
}

func (h *handler) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	if route.RedirectTrailingSlash(w, r) {
		return
	}
	if r.URL.Path != routepath.Monitoring {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.renderMonitoring(w, r, http.StatusOK, nil)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse monitoring form", err), i18nhttp.Locale(r.Context()))
			return
		}
		result, err := h.runAction(r.Context(), r.PostForm.Get("action"))
		if err != nil {
			logging.FromRequest(r).Warn().Err(err).Msg("monitoring action rejected")
			h.renderMonitoring(w, r, apperrors.HTTPStatus(err), &actionResult{
				message: apperrors.Localize(err, i18nhttp.Locale(r.Context())),
			})
			return
		}
		h.renderMonitoring(w, r, http.StatusOK, result)
	default:
		httpx.MethodNotAllowed("GET, HEAD, POST")(w, r)
	}
}

// runAction performs one monitoring probe. Scope changes (breadcrumb, user,
// tags) go to the process hub so later events carry them.
func (h *handler) runAction(ctx context.Context, action string) (*actionResult, error) {
	t := i18nhttp.Translator(ctx).Namespace("Monitoring")
	done := func(key string, args ...any) *actionResult {
		return &actionResult{action: action, message: t(key, args...), success: true}
	}

	switch action {
	case actionClient:
		h.monitor.CaptureException(ctx, errors.New("This is a test client-side error for monitoring"))
		return done("status_client"), nil
	case actionPanic:
		// Left to the monitoring middleware, which captures and answers 500.
		panic(errors.New("Test unhandled panic from the monitoring page"))
	case actionConsole:
		zerolog.Ctx(ctx).Error().Msg("Test console error for monitoring")
		h.monitor.CaptureMessage(ctx, "Test console error message", monitoring.LevelError)
		return done("status_console"), nil
	case actionMessage:
		h.monitor.CaptureMessage(ctx, "This is a test message from the monitoring test page", monitoring.LevelInfo)
		return done("status_message"), nil
	case actionBreadcrumb:
		h.monitor.AddBreadcrumb(context.Background(), "test", "User clicked breadcrumb test button", nil)
		return done("status_breadcrumb"), nil
	case actionUser:
		h.monitor.SetUser(context.Background(), TestUser)
		return done("status_user"), nil
	case actionTags:
		h.monitor.SetTag(context.Background(), "test-page", "monitoring-debug")
		h.monitor.SetTag(context.Background(), "test-type", "manual")
		return done("status_tags"), nil
	case actionPerformance:
		_, finish := h.monitor.StartSpan(ctx, "test", "test-operation")
		finish()
		return done("status_performance"), nil
	case actionAPI:
		return h.probeTestRoute(ctx, action, failureError), nil
	case actionServer:
		return h.probeTestRoute(ctx, action, failureServerError), nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeMonitoringUnknownAction, "unknown monitoring action", map[string]string{"Action": action})
	}
}

// probeTestRoute calls the test route once. A failed call is the expected
// outcome and is captured like any client error.
func (h *handler) probeTestRoute(ctx context.Context, action, kind string) *actionResult {
	t := i18nhttp.Translator(ctx).Namespace("Monitoring")
	resp, err := h.api.Do(ctx, apiclient.Request{Path: routepath.TestMonitoring(kind)})
	if err != nil {
		h.monitor.CaptureException(ctx, err)
		message := err.Error()
		if apiErr, ok := apiclient.AsError(err); ok {
			message = apiErr.Message
		}
		return &actionResult{action: action, message: t("status_api_error", message), success: true}
	}
	var payload testMonitoringResponse
	if err := resp.Decode(&payload); err != nil {
		return &actionResult{action: action, message: t("status_api_error", err.Error()), success: false}
	}
	return &actionResult{action: action, message: t("status_api_ok", payload.Message), success: true}
}

func (h *handler) renderMonitoring(w http.ResponseWriter, r *http.Request, status int, result *actionResult) {
	t := i18nhttp.Translator(r.Context()).Namespace("Monitoring")
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := templates.Heading(t("heading")).Render(ctx, out); err != nil {
			return err
		}
		if err := templates.Paragraph(t("intro")).Render(ctx, out); err != nil {
			return err
		}
		note := t("dsn_note")
		if !h.monitor.Enabled() {
			note = t("disabled_note")
		}
		if _, err := io.WriteString(out, `<div class="note"><p class="text-sm">`+html.EscapeString(note)+`</p></div>`); err != nil {
			return err
		}
		if result != nil && result.action == "" {
			if err := templates.Alert(false, result.message).Render(ctx, out); err != nil {
				return err
			}
		}
		action := route.Localized(r, routepath.Monitoring)
		for _, section := range monitoringSections {
			if err := renderSection(ctx, out, t, action, section, result); err != nil {
				return err
			}
		}
		return nil
	})
	h.renderPage(w, r, status, t("meta_title"), t("intro"), body)
}

func renderSection(ctx context.Context, w io.Writer, t func(string, ...any) string, formAction string, section monitoringSection, result *actionResult) error {
	if _, err := io.WriteString(w, `<section class="card"><h2>`+html.EscapeString(t(section.key))+`</h2>`); err != nil {
		return err
	}
	for _, action := range section.actions {
		variant := templates.ButtonDanger
		if section.key != "section_client" && section.key != "section_server" {
			variant = templates.ButtonPrimary
		}
		button := templates.Button(templates.ButtonOptions{
			Label:   t("action_" + action),
			Name:    "action",
			Value:   action,
			Variant: variant,
			Icon:    actionIcon(action),
		})
		if err := templates.PostForm(formAction, button).Render(ctx, w); err != nil {
			return err
		}
		if result != nil && result.action == action {
			if err := templates.Alert(result.success, result.message).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<p class="help">`+html.EscapeString(t("action_"+action+"_help"))+`</p>`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</section>`)
	return err
}

func actionIcon(action string) icons.Name {
	switch action {
	case actionClient, actionPanic, actionConsole, actionAPI, actionServer:
		return icons.AlertCircle
	case actionPerformance:
		return icons.Spinner
	default:
		return icons.Info
	}
}
