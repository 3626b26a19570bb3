package services

import (
	"context"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

// Pipeline runs the in-memory stages in order: clean, validate, deduplicate,
// enrich, generate SEO. Each stage completes over the whole set before the
// next one starts.
type Pipeline struct {
	cleaner   *Cleaner
	validator *Validator
	dedup     *Deduplicator
	enricher  *Enricher
	seo       *SEOWriter
	logger    *utils.Logger
}

// NewPipeline builds a pipeline. A nil enricher skips enrichment.
func NewPipeline(enricher *Enricher, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		cleaner:   NewCleaner(logger),
		validator: NewValidator(logger),
		dedup:     NewDeduplicator(logger),
		enricher:  enricher,
		seo:       NewSEOWriter(logger),
		logger:    logger,
	}
}

// Run processes raw rows into the final listing set. The only error is a
// cancelled context during enrichment; listings processed so far are returned.
func (p *Pipeline) Run(ctx context.Context, rows []models.RawRow) ([]*models.Listing, error) {
	p.logger.Info("[pipeline] Cleaning and standardizing %d records...", len(rows))
	listings := p.cleaner.CleanAll(rows)
	p.validator.CheckAll(listings)

	p.logger.Info("[pipeline] Deduplicating records...")
	listings = p.dedup.Deduplicate(listings)

	if p.enricher != nil {
		p.logger.Info("[pipeline] Enriching with geodata and checking websites...")
		if err := p.enricher.EnrichAll(ctx, listings); err != nil {
			return listings, err
		}
	} else {
		p.logger.Info("[pipeline] Enrichment disabled")
	}

	p.logger.Info("[pipeline] Generating SEO content...")
	p.seo.GenerateAll(listings)
	return listings, nil
}
