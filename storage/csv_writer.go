package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"caregrid-listings/models"
)

// ReviewColumns is the header of the flat review export.
var ReviewColumns = []string{"name", "category", "city", "status", "notes"}

// CSVWriter writes the flat review table for listings that are not READY.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting path. Intermediate directories are
// created on Write.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write (re)creates the file with the header row followed by one row per listing.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(ReviewColumns); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, l := range listings {
		row := []string{
			l.Name,
			l.Category,
			l.City,
			string(l.Status),
			l.NotesText(),
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	return f.Close()
}
