package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

// Geocoder resolves addresses through the Google Geocoding JSON API.
type Geocoder struct {
	endpoint string
	apiKey   string
	http     *http.Client
	throttle *utils.Throttle
}

// NewGeocoder creates a Geocoder. An empty apiKey is allowed: every call then
// fails with models.ErrMissingCredential without touching the network.
func NewGeocoder(endpoint, apiKey string, timeout time.Duration, throttle *utils.Throttle) *Geocoder {
	return &Geocoder{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		throttle: throttle,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the coordinates of the first result for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if g.apiKey == "" {
		return 0, 0, models.ErrMissingCredential
	}
	if err := g.throttle.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("throttle: %w", err)
	}

	u, err := url.Parse(g.endpoint)
	if err != nil {
		return 0, 0, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("new request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("do request: %w", redact(err, g.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("decode response: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		if body.ErrorMessage != "" {
			return 0, 0, fmt.Errorf("%w: %s (%s)", models.ErrGeocodeNoMatch, body.Status, body.ErrorMessage)
		}
		return 0, 0, fmt.Errorf("%w: %s", models.ErrGeocodeNoMatch, body.Status)
	}

	loc := body.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// redact keeps the API key out of transport errors, which quote the URL.
func redact(err error, key string) error {
	if uerr, ok := err.(*url.Error); ok {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			q := u.Query()
			if q.Get("key") == key {
				q.Set("key", "REDACTED")
				u.RawQuery = q.Encode()
				return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
			}
		}
	}
	return err
}
