package services

import (
	"context"
	"fmt"
	"net/http"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

// CatalogPayload is the body the catalog API accepts for a clinic: the
// listing without status, notes or internal ID, with category sent as type.
type CatalogPayload struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	City           string   `json:"city"`
	Address        string   `json:"address"`
	Postcode       string   `json:"postcode"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	Services       []string `json:"services"`
	Rating         float64  `json:"rating"`
	ReviewsCount   int      `json:"reviewsCount"`
	BookingLink    string   `json:"bookingLink"`
	LogoURL        string   `json:"logoUrl"`
	IsClaimed      bool     `json:"isClaimed"`
	Description    string   `json:"description"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	Tags           []string `json:"tags"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// NewCatalogPayload maps a listing onto the catalog API shape.
func NewCatalogPayload(l *models.Listing) CatalogPayload {
	return CatalogPayload{
		Name:           l.Name,
		Type:           l.Category,
		City:           l.City,
		Address:        l.Address,
		Postcode:       l.Postcode,
		Phone:          l.Phone,
		Website:        l.Website,
		Services:       l.Services,
		Rating:         l.Rating,
		ReviewsCount:   l.ReviewsCount,
		BookingLink:    l.BookingLink,
		LogoURL:        l.LogoURL,
		IsClaimed:      l.IsClaimed,
		Description:    l.Description,
		SEOTitle:       l.SEOTitle,
		SEODescription: l.SEODescription,
		Tags:           l.Tags,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
	}
}

// CatalogClient sends one payload and returns the HTTP status received.
type CatalogClient interface {
	PostClinic(ctx context.Context, payload CatalogPayload) (int, error)
}

// Publisher pushes READY listings to the catalog. It never retries.
type Publisher struct {
	client CatalogClient
	logger *utils.Logger
}

// NewPublisher wires the catalog client. A nil client means no endpoint is
// configured and every READY listing is reported as skipped.
func NewPublisher(client CatalogClient, logger *utils.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish posts every READY listing and tallies the outcomes. Per-listing
// failures are collected, never returned.
func (p *Publisher) Publish(ctx context.Context, listings []*models.Listing) *models.PublishResult {
	ready := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == models.StatusReady {
			ready = append(ready, l)
		}
	}

	result := &models.PublishResult{Failures: []models.PublishFailure{}}
	if p.client == nil {
		p.logger.Warn("[publisher] API_BASE not set - skipping API publishing")
		result.Skipped = len(ready)
		return result
	}

	for _, l := range ready {
		if err := ctx.Err(); err != nil {
			p.fail(result, l, err)
			continue
		}

		status, err := p.client.PostClinic(ctx, NewCatalogPayload(l))
		switch {
		case err != nil:
			p.fail(result, l, err)
		case status == http.StatusOK || status == http.StatusCreated:
			result.Published++
			p.logger.Info("[publisher] Published: %s", l.Name)
		case status == http.StatusConflict:
			result.Published++
			p.logger.Warn("[publisher] %s already in catalog, counted as published", l.Name)
		default:
			p.fail(result, l, fmt.Errorf("HTTP %d", status))
		}
	}

	p.logger.Info("[publisher] Published: %d | Failed: %d | Skipped: %d",
		result.Published, result.Failed, result.Skipped)
	return result
}

func (p *Publisher) fail(result *models.PublishResult, l *models.Listing, err error) {
	result.Failed++
	result.Failures = append(result.Failures, models.PublishFailure{Record: l.Name, Error: err.Error()})
	p.logger.Error("[publisher] Failed to publish %s: %v", l.Name, err)
}
