package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Search forward-geocodes a free-form query via Nominatim.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	base := c.configProvider.Get().Geo.NominatimURL

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "10")
	endpoint := fmt.Sprintf("%s/search?%s", base, params.Encode())

	body, err := c.do(ctx, "nominatim-search:"+query, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Reverse resolves coordinates to an address via Nominatim.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	base := c.configProvider.Get().Geo.NominatimURL

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("format", "json")
	endpoint := fmt.Sprintf("%s/reverse?%s", base, params.Encode())

	cacheKey := fmt.Sprintf("nominatim-reverse:%f,%f", lat, lon)
	body, err := c.do(ctx, cacheKey, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
