package services

import (
	"bytes"
	"strings"
	"testing"

	"caregrid-listings/models"
)

func TestInsightGenerate(t *testing.T) {
	lat, lng := 53.8, -1.5

	a := named("A", models.StatusReady)
	a.Latitude, a.Longitude = &lat, &lng
	b := named("B", models.StatusNeedsReview)
	b.City = "Manchester"
	c := named("C", models.StatusBlockedMissing)
	c.City = ""
	c.Category = models.CategoryGP
	d := named("D", models.StatusMergedDuplicate)
	d.Latitude, d.Longitude = &lat, &lng

	s := NewInsightService(newTestLogger())
	r := s.Generate(5, []*models.Listing{d, a, b, c})

	if r.TotalProcessed != 5 || r.TotalOutput != 4 {
		t.Errorf("totals = %d/%d; want 5/4", r.TotalProcessed, r.TotalOutput)
	}
	if r.Geocoded != 1 {
		t.Errorf("Geocoded = %d; want 1 (merged listings excluded)", r.Geocoded)
	}
	for st, want := range map[models.Status]int{
		models.StatusReady:           1,
		models.StatusNeedsReview:     1,
		models.StatusBlockedMissing:  1,
		models.StatusMergedDuplicate: 1,
	} {
		if r.ByStatus[st] != want {
			t.Errorf("ByStatus[%s] = %d; want %d", st, r.ByStatus[st], want)
		}
	}
	if r.ByCategory[models.CategoryDentist] != 2 || r.ByCategory[models.CategoryGP] != 1 {
		t.Errorf("ByCategory = %v", r.ByCategory)
	}
	if r.ByCity["Leeds"] != 1 || r.ByCity["Manchester"] != 1 || len(r.ByCity) != 2 {
		t.Errorf("ByCity = %v", r.ByCity)
	}
	if r.FirstReady != a {
		t.Errorf("FirstReady = %v; want listing A", r.FirstReady)
	}
}

func TestInsightGenerateEmpty(t *testing.T) {
	s := NewInsightService(newTestLogger())
	r := s.Generate(0, nil)

	if r.TotalOutput != 0 || r.FirstReady != nil || len(r.ByCity) != 0 {
		t.Errorf("unexpected report for empty input: %+v", r)
	}
}

func TestInsightPrint(t *testing.T) {
	s := NewInsightService(newTestLogger())
	r := s.Generate(2, []*models.Listing{
		named("A", models.StatusReady),
		named("B", models.StatusNeedsReview),
	})

	var buf bytes.Buffer
	s.Print(&buf, r)
	out := buf.String()

	for _, want := range []string{"QA SUMMARY", "Total records processed", "READY", "BLOCKED_MISSING_DATA", "Dentist", "Leeds"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output missing %q", want)
		}
	}
}

func TestInsightPrintNoData(t *testing.T) {
	s := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	s.Print(&buf, s.Generate(0, nil))

	if strings.Count(buf.String(), "No data") != 2 {
		t.Errorf("expected No data for category and city, got:\n%s", buf.String())
	}
}

func TestPad(t *testing.T) {
	if got := pad("GP", 5); got != "GP   " {
		t.Errorf("pad(GP, 5) = %q", got)
	}
	if got := pad("東京", 6); got != "東京  " {
		t.Errorf("pad(東京, 6) = %q", got)
	}
}
