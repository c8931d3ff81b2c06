package route

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
)

func TestRedirectTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		locale   string
		wantOK   bool
		wantCode int
		wantLoc  string
	}{
		{name: "no trailing slash", path: "/dashboard", wantOK: false, wantCode: 200},
		{name: "trailing slash", path: "/dashboard/", wantOK: true, wantCode: http.StatusMovedPermanently, wantLoc: "/dashboard"},
		{name: "query kept", path: "/debug/monitoring/?status=ok", wantOK: true, wantCode: http.StatusMovedPermanently, wantLoc: "/debug/monitoring?status=ok"},
		{name: "french locale keeps prefix", path: "/dashboard//", locale: "fr", wantOK: true, wantCode: http.StatusMovedPermanently, wantLoc: "/fr/dashboard"},
		{name: "root path", path: "/", wantOK: false, wantCode: 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.locale != "" {
				req = req.WithContext(i18nhttp.WithLocale(req.Context(), tc.locale))
			}
			rec := httptest.NewRecorder()

			got := RedirectTrailingSlash(rec, req)
			if got != tc.wantOK {
				t.Fatalf("RedirectTrailingSlash = %v, want %v", got, tc.wantOK)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if got {
				if loc := rec.Header().Get("Location"); loc != tc.wantLoc {
					t.Fatalf("location = %q, want %q", loc, tc.wantLoc)
				}
			}
		})
	}
}

func TestLocalized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := Localized(req, "/dashboard"); got != "/dashboard" {
		t.Fatalf("Localized = %q", got)
	}
	req = req.WithContext(i18nhttp.WithLocale(req.Context(), "fr"))
	if got := Localized(req, "/dashboard"); got != "/fr/dashboard" {
		t.Fatalf("Localized = %q", got)
	}
}
