package routepath

import "testing"

func TestRouteConstants(t *testing.T) {
	t.Parallel()

	if Dashboard != "/dashboard" {
		t.Fatalf("Dashboard = %q", Dashboard)
	}
	if DashboardCounter != Dashboard+"/counter" {
		t.Fatalf("DashboardCounter = %q", DashboardCounter)
	}
	if UpstreamHealth != "health" {
		t.Fatalf("UpstreamHealth = %q", UpstreamHealth)
	}
}
