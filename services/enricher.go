package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// ReachabilityChecker verifies that a website answers without an error status.
type ReachabilityChecker interface {
	Check(ctx context.Context, website string) error
}

// Enricher adds coordinates and a reachability verdict to listings.
// Failures are recorded as notes and never abort the run.
type Enricher struct {
	geocoder    Geocoder
	checker     ReachabilityChecker
	demoDomains []string
	logger      *utils.Logger
}

// NewEnricher wires the collaborators. Either may be nil to disable that step.
func NewEnricher(geocoder Geocoder, checker ReachabilityChecker, demoDomains []string, logger *utils.Logger) *Enricher {
	domains := make([]string, 0, len(demoDomains))
	for _, d := range demoDomains {
		if d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), "."); d != "" {
			domains = append(domains, d)
		}
	}
	return &Enricher{geocoder: geocoder, checker: checker, demoDomains: domains, logger: logger}
}

// EnrichAll processes every listing that has not been merged away. It stops
// early only when ctx is cancelled.
func (e *Enricher) EnrichAll(ctx context.Context, listings []*models.Listing) error {
	done := 0
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("enricher: stopped after %d listings: %w", done, err)
		}
		if l.Status == models.StatusMergedDuplicate {
			continue
		}
		e.Enrich(ctx, l)
		done++
	}
	e.logger.Info("[enricher] Enriched %d listings", done)
	return nil
}

// Enrich geocodes the listing and checks its website.
func (e *Enricher) Enrich(ctx context.Context, l *models.Listing) {
	if l.Status == models.StatusMergedDuplicate {
		return
	}
	e.geocode(ctx, l)
	e.checkWebsite(ctx, l)
}

// GeocodeQuery builds "{address}, {city}, {postcode}, UK" from the non-empty parts.
func GeocodeQuery(l *models.Listing) string {
	var parts []string
	for _, p := range []string{l.Address, l.City, l.Postcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ") + ", UK"
}

func (e *Enricher) geocode(ctx context.Context, l *models.Listing) {
	if e.geocoder == nil {
		return
	}
	query := GeocodeQuery(l)
	if query == "" {
		return
	}

	lat, lng, err := e.geocoder.Geocode(ctx, query)
	switch {
	case err == nil:
		l.Latitude, l.Longitude = &lat, &lng
	case errors.Is(err, models.ErrMissingCredential):
		l.AddNote(models.NoteGeocodeSkipped, "No Google API key for geocoding")
	case errors.Is(err, models.ErrGeocodeNoMatch):
		l.AddNote(models.NoteGeocodeFailed, "Geocoding failed")
		e.logger.Debug("[enricher] geocode %q: %v", query, err)
	default:
		l.AddNote(models.NoteGeocodeError, fmt.Sprintf("Geocoding error: %v", err))
		e.logger.Warn("[enricher] geocode %q: %v", query, err)
	}
}

func (e *Enricher) checkWebsite(ctx context.Context, l *models.Listing) {
	if e.checker == nil || l.Website == "" {
		return
	}
	if e.IsDemoDomain(l.Website) {
		l.AddNote(models.NoteDemoDomain, "Demo domain - website check skipped")
		return
	}

	err := e.checker.Check(ctx, l.Website)
	switch {
	case err == nil:
		return
	case errors.Is(err, models.ErrUnreachable):
		l.AddNote(models.NoteWebsiteUnreachable, fmt.Sprintf("Website unreachable: %v", err))
	default:
		l.AddNote(models.NoteWebsiteCheckFailed, fmt.Sprintf("Website check failed: %v", err))
	}
	l.Downgrade()
	e.logger.Debug("[enricher] %s: %v", l.Website, err)
}

// IsDemoDomain reports whether the website host is, or is under, a demo domain.
func (e *Enricher) IsDemoDomain(website string) bool {
	u, err := url.Parse(website)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range e.demoDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
