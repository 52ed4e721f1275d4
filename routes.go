package margdarshak

import (
	"net/http"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/core"
)

func route(cfg *config.Config, app *core.App) {
	r := app.Router()

	// --- public api ---
	r.HandleFunc("POST /api/auth/register", app.RegisterHandler)
	r.HandleFunc("POST /api/auth/verify-otp", app.VerifyOtpHandler)
	r.HandleFunc("POST /api/auth/login", app.LoginHandler)

	// --- authenticated api ---
	r.Handle("GET /api/auth/profile", app.RequireAuth(http.HandlerFunc(app.GetProfileHandler)))
	r.Handle("GET /api/auth/me", app.RequireAuth(http.HandlerFunc(app.GetProfileHandler)))
	r.Handle("PUT /api/auth/profile", app.RequireAuth(http.HandlerFunc(app.UpdateProfileHandler)))

	r.Handle("POST /api/orders", app.RequireAuth(http.HandlerFunc(app.CreateOrderHandler)))
	r.Handle("GET /api/orders", app.RequireAuth(http.HandlerFunc(app.ListOrdersHandler)))

	r.Handle("GET /api/geo/search", app.RequireAuth(http.HandlerFunc(app.GeoSearchHandler)))
	r.Handle("GET /api/geo/reverse", app.RequireAuth(http.HandlerFunc(app.GeoReverseHandler)))
	r.Handle("GET /api/geo/places", app.RequireAuth(http.HandlerFunc(app.GeoPlacesHandler)))
	r.Handle("POST /api/geo/route", app.RequireAuth(http.HandlerFunc(app.GeoRouteHandler)))

	// --- static and operational ---
	r.HandleFunc("GET /uploads/*filepath", app.ServeAvatarHandler)
	r.HandleFunc("GET "+cfg.Metrics.Endpoint, app.MetricsHandler)
}
