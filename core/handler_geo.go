package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/margdarshak/margdarshak/geo"
)

// writeGeoResult passes an upstream JSON body through unchanged.
func writeGeoResult(w http.ResponseWriter, body []byte) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// writeGeoError maps geo client failures to responses. Upstream failures
// answer 502; anything else is a local fault.
func (a *App) writeGeoError(w http.ResponseWriter, err error) {
	if errors.Is(err, geo.ErrUpstream) {
		writeJsonError(w, errorUpstream)
		return
	}
	a.Logger().Error("geo request failed", "error", err)
	writeJsonError(w, errorServiceUnavailable)
}

func parseCoord(s string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, errors.New("coordinate out of range")
	}
	return v, nil
}

// GeoSearchHandler forward-geocodes a free-form query.
// Endpoint: GET /api/geo/search?q=...
// Authenticated: Yes
func (a *App) GeoSearchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	body, err := a.Geo().Search(r.Context(), query)
	if err != nil {
		a.writeGeoError(w, err)
		return
	}
	writeGeoResult(w, body)
}

// GeoReverseHandler reverse-geocodes a coordinate pair.
// Endpoint: GET /api/geo/reverse?lat=...&lon=...
// Authenticated: Yes
func (a *App) GeoReverseHandler(w http.ResponseWriter, r *http.Request) {
	lat, errLat := parseCoord(r.URL.Query().Get("lat"), -90, 90)
	lon, errLon := parseCoord(r.URL.Query().Get("lon"), -180, 180)
	if errLat != nil || errLon != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	body, err := a.Geo().Reverse(r.Context(), lat, lon)
	if err != nil {
		a.writeGeoError(w, err)
		return
	}
	writeGeoResult(w, body)
}

// GeoPlacesHandler finds nearby places of a supported kind.
// Endpoint: GET /api/geo/places?kind=...&lat=...&lon=...&radius=...
// Authenticated: Yes
func (a *App) GeoPlacesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := q.Get("kind")
	if !geo.ValidPlaceKind(kind) {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	lat, errLat := parseCoord(q.Get("lat"), -90, 90)
	lon, errLon := parseCoord(q.Get("lon"), -180, 180)
	if errLat != nil || errLon != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	radius := 0
	if s := q.Get("radius"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeJsonError(w, errorInvalidRequest)
			return
		}
		radius = v
	}

	body, err := a.Geo().Places(r.Context(), kind, lat, lon, radius)
	if err != nil {
		a.writeGeoError(w, err)
		return
	}
	writeGeoResult(w, body)
}

// GeoRouteHandler computes a driving route through the given coordinates.
// Endpoint: POST /api/geo/route
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) GeoRouteHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Coordinates [][2]float64 `json:"coordinates"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if len(req.Coordinates) < 2 {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	body, err := a.Geo().Route(r.Context(), req.Coordinates)
	if err != nil {
		a.writeGeoError(w, err)
		return
	}
	writeGeoResult(w, body)
}
