package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Route requests driving directions between the given coordinates from
// OpenRouteService. Coordinates are [lon, lat] pairs, in visiting order.
func (c *Client) Route(ctx context.Context, coordinates [][2]float64) (json.RawMessage, error) {
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("route requires at least two coordinates")
	}

	cfg := c.configProvider.Get().Geo

	reqBody, err := json.Marshal(map[string]any{"coordinates": coordinates})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/driving-car/geojson", cfg.OrsURL)

	body, err := c.do(ctx, "ors-route:"+string(reqBody), func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", cfg.OrsApiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
