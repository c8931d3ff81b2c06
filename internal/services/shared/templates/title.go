package templates

import (
	"strings"

	"github.com/louisbranch/launchpad/internal/platform/branding"
)

// ComposePageTitle appends the product name to title unless it already
// carries it.
func ComposePageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return branding.AppName
	}
	if strings.HasSuffix(title, " | "+branding.AppName) || title == branding.AppName {
		return title
	}
	if trimmed, ok := strings.CutSuffix(title, " - "+branding.AppName); ok {
		return trimmed + " | " + branding.AppName
	}
	return title + " | " + branding.AppName
}

// pageHeadingFromTitle strips the product suffix from a composed title.
func pageHeadingFromTitle(title, appName string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " - "} {
		if trimmed, ok := strings.CutSuffix(title, sep+appName); ok {
			return strings.TrimSpace(trimmed)
		}
	}
	return title
}
