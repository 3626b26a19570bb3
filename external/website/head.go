package website

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"caregrid-listings/models"
)

const userAgent = "CareGrid-Listings-Manager/1.0"

// HeadChecker checks reachability with a single HEAD request.
type HeadChecker struct {
	http *http.Client
}

func NewHeadChecker(timeout time.Duration) *HeadChecker {
	return &HeadChecker{http: &http.Client{Timeout: timeout}}
}

// Check returns models.ErrUnreachable (wrapped with the status) for any
// 4xx/5xx answer and a plain error when the request itself fails.
func (c *HeadChecker) Check(ctx context.Context, website string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, website, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: HTTP %d", models.ErrUnreachable, resp.StatusCode)
	}
	return nil
}
