package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"caregrid-listings/models"
)

func sampleListings() []*models.Listing {
	ready := models.NewListing("1")
	ready.Name, ready.Category, ready.City = "ABC Clinic", "Dentist", "Leeds"

	review := models.NewListing("2")
	review.Name, review.Category, review.City = "Bolton Physio", "Physio", "Bolton"
	review.Status = models.StatusNeedsReview
	review.AddNote(models.NoteWebsiteUnreachable, "Website unreachable")

	blocked := models.NewListing("3")
	blocked.Name, blocked.Category = "No City", "GP"
	blocked.Status = models.StatusBlockedMissing
	blocked.AddNote(models.NoteMissingFields, "Missing required fields: city")
	blocked.AddNote(models.NoteGeocodeSkipped, "No Google API key for geocoding")

	merged := models.NewListing("4")
	merged.Name, merged.Category, merged.City = "ABC Clinic Ltd", "Dentist", "Leeds"
	merged.Status = models.StatusMergedDuplicate

	return []*models.Listing{ready, review, blocked, merged}
}

func TestOutputWriterPartitionsByStatus(t *testing.T) {
	dir := t.TempDir()
	listings := sampleListings()

	summary, err := NewOutputWriter(dir).Write(listings)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if summary.Ready != 1 || summary.Review != 3 {
		t.Errorf("ready/review: got %d/%d, want 1/3", summary.Ready, summary.Review)
	}
	for _, s := range models.Statuses {
		if summary.Counts[s] != 1 {
			t.Errorf("Counts[%s]: got %d, want 1", s, summary.Counts[s])
		}
	}

	var all []*models.Listing
	readJSONFile(t, filepath.Join(dir, AllFile), &all)
	if len(all) != 4 {
		t.Errorf("all: got %d listings, want 4", len(all))
	}

	var ready []*models.Listing
	readJSONFile(t, filepath.Join(dir, ReadyFile), &ready)
	if len(ready) != 1 || ready[0].Name != "ABC Clinic" {
		t.Errorf("ready: got %+v", ready)
	}

	f, err := os.Open(filepath.Join(dir, ReviewFile))
	if err != nil {
		t.Fatalf("open review csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read review csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("review rows: got %d, want header + 3", len(rows))
	}
	if strings.Join(rows[0], ",") != "name,category,city,status,notes" {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[2][3] != "BLOCKED_MISSING_DATA" {
		t.Errorf("status column: got %q", rows[2][3])
	}
	if rows[2][4] != "Missing required fields: city; No Google API key for geocoding" {
		t.Errorf("notes column: got %q", rows[2][4])
	}
}

func TestOutputWriterDoesNotMutate(t *testing.T) {
	listings := sampleListings()
	before, _ := json.Marshal(listings)

	if _, err := NewOutputWriter(t.TempDir()).Write(listings); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	after, _ := json.Marshal(listings)
	if string(before) != string(after) {
		t.Error("output writer must not mutate listings")
	}
}

func TestReadListingsRoundTripsReadyFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewOutputWriter(dir).Write(sampleListings()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	got, err := ReadListings(filepath.Join(dir, ReadyFile))
	if err != nil {
		t.Fatalf("ReadListings returned error: %v", err)
	}
	if len(got) != 1 || got[0].Status != models.StatusReady {
		t.Errorf("ReadListings: got %+v", got)
	}
}

func readJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}
