// Package routepath stores canonical HTTP paths for the admin service.
package routepath

import "github.com/louisbranch/launchpad/internal/platform/icons"

const (
	Root             = "/"
	Dashboard        = "/dashboard"
	DashboardCounter = "/dashboard/counter"
	LocaleSwitch     = "/locale"
)

const (
	APIHealth = "/api/health"
	Metrics   = "/metrics"
)

const (
	IconSprite = icons.SpritePath
)

// UpstreamHealth is the upstream API route probed by the dashboard,
// relative to the API base URL.
const UpstreamHealth = "health"
