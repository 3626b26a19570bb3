package storage

import (
	"fmt"
	"path/filepath"

	"caregrid-listings/models"
)

const (
	AllFile    = "clinics_all.json"
	ReadyFile  = "clinics_ready.json"
	ReviewFile = "clinics_review.csv"
)

// OutputWriter partitions the final listing set by status into the three
// run artifacts. It never mutates listings.
type OutputWriter struct {
	dir    string
	all    ListingWriter
	ready  ListingWriter
	review ListingWriter
}

// NewOutputWriter targets the standard artifact names inside dir.
func NewOutputWriter(dir string) *OutputWriter {
	return &OutputWriter{
		dir:    dir,
		all:    NewJSONWriter(filepath.Join(dir, AllFile)),
		ready:  NewJSONWriter(filepath.Join(dir, ReadyFile)),
		review: NewCSVWriter(filepath.Join(dir, ReviewFile)),
	}
}

// Write emits all artifacts and returns the status histogram.
func (o *OutputWriter) Write(listings []*models.Listing) (*models.OutputSummary, error) {
	ready := make([]*models.Listing, 0, len(listings))
	review := make([]*models.Listing, 0)
	counts := make(map[models.Status]int)

	for _, l := range listings {
		counts[l.Status]++
		if l.Status == models.StatusReady {
			ready = append(ready, l)
		} else {
			review = append(review, l)
		}
	}

	if err := o.all.Write(listings); err != nil {
		return nil, fmt.Errorf("output: all listings: %w", err)
	}
	if err := o.ready.Write(ready); err != nil {
		return nil, fmt.Errorf("output: ready listings: %w", err)
	}
	if err := o.review.Write(review); err != nil {
		return nil, fmt.Errorf("output: review table: %w", err)
	}

	return &models.OutputSummary{
		Counts:     counts,
		AllPath:    filepath.Join(o.dir, AllFile),
		ReadyPath:  filepath.Join(o.dir, ReadyFile),
		ReviewPath: filepath.Join(o.dir, ReviewFile),
		Ready:      len(ready),
		Review:     len(review),
	}, nil
}
