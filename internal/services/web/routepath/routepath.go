// Package routepath stores canonical HTTP paths for the web service.
//
// Page paths are unprefixed; i18nhttp.Middleware strips a locale prefix
// before routing.
package routepath

import (
	"net/url"

	"github.com/louisbranch/launchpad/internal/platform/icons"
)

const (
	Root         = "/"
	Monitoring   = "/debug/monitoring"
	LocaleSwitch = "/locale"
)

const (
	APIPrefix         = "/api/"
	APIHealth         = "/api/health"
	APITestMonitoring = "/api/test-monitoring"
	Metrics           = "/metrics"
)

const (
	StaticPrefix = "/static/"
	Stylesheet   = "/static/app.css"
	IconSprite   = icons.SpritePath
)

// TestMonitoring returns the test route for a failure type ("error",
// "server-error", or empty for success).
func TestMonitoring(kind string) string {
	if kind == "" {
		return APITestMonitoring
	}
	return APITestMonitoring + "?" + url.Values{"type": {kind}}.Encode()
}
