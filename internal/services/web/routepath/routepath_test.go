package routepath

import "testing"

func TestRouteConstants(t *testing.T) {
	t.Parallel()

	if Root != "/" {
		t.Fatalf("Root = %q", Root)
	}
	if Monitoring != "/debug/monitoring" {
		t.Fatalf("Monitoring = %q", Monitoring)
	}
	if IconSprite != "/static/icons.svg" {
		t.Fatalf("IconSprite = %q", IconSprite)
	}
}

func TestTestMonitoring(t *testing.T) {
	t.Parallel()

	if got := TestMonitoring(""); got != "/api/test-monitoring" {
		t.Fatalf("TestMonitoring(\"\") = %q", got)
	}
	if got := TestMonitoring("server-error"); got != "/api/test-monitoring?type=server-error" {
		t.Fatalf("TestMonitoring(server-error) = %q", got)
	}
}
