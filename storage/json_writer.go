package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"caregrid-listings/models"
)

// JSONWriter writes listings as a single indented JSON array.
type JSONWriter struct {
	path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

func (w *JSONWriter) Write(listings []*models.Listing) error {
	if listings == nil {
		listings = []*models.Listing{}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal %d listings: %w", len(listings), err)
	}

	if err := os.WriteFile(w.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", w.path, err)
	}
	return nil
}

// ReadListings loads a file previously produced by JSONWriter.
func ReadListings(path string) ([]*models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputMissing, path, err)
	}

	var listings []*models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("json: decode %q: %w", path, err)
	}
	for _, l := range listings {
		if l.Status == "" {
			l.Status = models.StatusReady
		}
	}
	return listings, nil
}
