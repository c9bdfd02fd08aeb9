package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rollcall-hq/rollcall/pkg/config"
)

// Client resolves a coordinate pair to an address.
type Client interface {
	// ReverseGeocode returns the address for the coordinates, or an error.
	// Callers treat errors as "no address available".
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// HTTPClient implements Client against a Nominatim-compatible reverse
// geocoding endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates an HTTPClient from the geocode configuration.
func NewHTTPClient(cfg config.GeocodeConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		},
	}
}

// reverseResponse is the subset of the upstream response the client reads.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode calls GET {base}/reverse?lat=..&lon=..&format=json and
// returns the display name.
func (c *HTTPClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%.6f", lat))
	query.Set("lon", fmt.Sprintf("%.6f", lng))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("geocode request: status %d: %s", resp.StatusCode, body)
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}
	return decoded.DisplayName, nil
}
