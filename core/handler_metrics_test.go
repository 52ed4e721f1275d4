package core

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/margdarshak/margdarshak/db/mock"
	"github.com/margdarshak/margdarshak/topk"
)

func newMetricsApp(activated bool, allowedIPs []string) *App {
	app := newTestApp(&mock.Db{})

	cfg := testConfig()
	cfg.Metrics.Activated = activated
	cfg.Metrics.AllowedIPs = allowedIPs
	app.ConfigProvider().Update(cfg)

	sketch := topk.New(cfg.Metrics.SketchK, cfg.Metrics.SketchWindowSize, 100)
	sketch.Incr("GET /api/auth/profile")
	sketch.Incr("GET /api/auth/profile")
	sketch.Incr("POST /api/auth/login")
	app.SetMetricsSketch(sketch)

	return app
}

func TestMetricsHandler(t *testing.T) {
	testCases := []struct {
		name       string
		activated  bool
		allowedIPs []string
		remoteAddr string
		wantStatus int
	}{
		{
			name:       "deactivated looks like missing",
			activated:  false,
			allowedIPs: []string{"192.0.2.1"},
			remoteAddr: "192.0.2.1:1234",
			wantStatus: 404,
		},
		{
			name:       "ip not allowed",
			activated:  true,
			allowedIPs: []string{"192.0.2.1"},
			remoteAddr: "198.51.100.7:1234",
			wantStatus: 404,
		},
		{
			name:       "empty allow list rejects everyone",
			activated:  true,
			remoteAddr: "192.0.2.1:1234",
			wantStatus: 404,
		},
		{
			name:       "allowed ip",
			activated:  true,
			allowedIPs: []string{"192.0.2.1"},
			remoteAddr: "192.0.2.1:1234",
			wantStatus: 200,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newMetricsApp(tc.activated, tc.allowedIPs)

			req := httptest.NewRequest("GET", "/metrics", nil)
			req.RemoteAddr = tc.remoteAddr
			rr := httptest.NewRecorder()

			app.MetricsHandler(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantStatus == 200 && !strings.Contains(rr.Body.String(), "GET /api/auth/profile") {
				t.Errorf("body = %s, want top endpoint present", rr.Body.String())
			}
		})
	}
}

func TestMetricsHandler_ProxyHeader(t *testing.T) {
	app := newMetricsApp(true, []string{"203.0.113.9"})

	cfg := app.Config()
	cfg.Server.ClientIpProxyHeader = "X-Forwarded-For"
	app.ConfigProvider().Update(cfg)

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rr := httptest.NewRecorder()

	app.MetricsHandler(rr, req)

	if rr.Code != 200 {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
