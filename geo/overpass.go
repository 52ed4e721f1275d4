package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Place kinds the Overpass proxy accepts.
const (
	PlaceKindCharging = "charging"
	PlaceKindParking  = "parking"
	PlaceKindMechanic = "mechanic"
)

// overpassSelectors maps a place kind to its OpenStreetMap tag filter.
var overpassSelectors = map[string]string{
	PlaceKindCharging: `node["amenity"="charging_station"]`,
	PlaceKindParking:  `node["amenity"="parking"]`,
	PlaceKindMechanic: `node["shop"="car_repair"]`,
}

// ValidPlaceKind reports whether kind is a supported place category.
func ValidPlaceKind(kind string) bool {
	_, ok := overpassSelectors[kind]
	return ok
}

// Places finds points of interest of the given kind around a coordinate
// via the Overpass API. radius is in meters.
func (c *Client) Places(ctx context.Context, kind string, lat, lon float64, radius int) (json.RawMessage, error) {
	selector, ok := overpassSelectors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown place kind: %s", kind)
	}
	if radius <= 0 {
		radius = 5000
	}

	query := fmt.Sprintf(`[out:json][timeout:25];%s(around:%d,%f,%f);out body;`,
		selector, radius, lat, lon)

	endpoint := c.configProvider.Get().Geo.OverpassURL
	form := url.Values{}
	form.Set("data", query)
	encoded := form.Encode()

	cacheKey := fmt.Sprintf("overpass-%s:%f,%f,%d", kind, lat, lon, radius)
	body, err := c.do(ctx, cacheKey, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
