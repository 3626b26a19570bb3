package website

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"caregrid-listings/models"
)

// BrowserChecker loads the website in headless Chrome and inspects the
// status of the main document. It serves sites that reject bare HEAD
// requests from non-browser clients.
type BrowserChecker struct {
	timeout       time.Duration
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewBrowserChecker launches one headless browser shared by every check.
// Close releases it.
func NewBrowserChecker(chromeBin string, timeout time.Duration) (*BrowserChecker, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// An empty Run starts the browser so later tabs share it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start: %w", err)
	}

	return &BrowserChecker{
		timeout:       timeout,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Check navigates to website in a fresh tab.
func (c *BrowserChecker) Check(ctx context.Context, website string) error {
	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(website))
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("navigate: no document response")
	}
	if resp.Status >= 400 {
		return fmt.Errorf("%w: HTTP %d", models.ErrUnreachable, resp.Status)
	}
	return nil
}

// Close shuts the browser down.
func (c *BrowserChecker) Close() {
	c.cancelBrowser()
	c.cancelAlloc()
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
