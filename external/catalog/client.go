package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"caregrid-listings/services"
)

const (
	clinicsPath = "/api/clinics"
	userAgent   = "CareGrid-Listings-Manager/1.0"
)

// Client talks to the catalog HTTP API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

var _ services.CatalogClient = (*Client)(nil)

// NewClient targets {apiBase}/api/clinics. token may be empty.
func NewClient(apiBase, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(apiBase, "/") + clinicsPath,
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}
}

// PostClinic sends one clinic and returns the response status code.
// Classifying the status is left to the caller.
func (c *Client) PostClinic(ctx context.Context, payload services.CatalogPayload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}

	// Drain so the connection can be reused for the next clinic.
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		return resp.StatusCode, fmt.Errorf("close response body: %w", err)
	}

	return resp.StatusCode, nil
}
