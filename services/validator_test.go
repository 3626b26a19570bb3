package services

import (
	"reflect"
	"strings"
	"testing"

	"caregrid-listings/models"
)

func completeListing() *models.Listing {
	l := models.NewListing("id-1")
	l.Name = "Leeds Dental Care"
	l.Category = models.CategoryDentist
	l.City = "Leeds"
	l.Postcode = "LS1 1AA"
	l.Phone = "+441134960000"
	return l
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(l *models.Listing)
		want   []string
	}{
		{"complete", func(l *models.Listing) {}, nil},
		{"no name", func(l *models.Listing) { l.Name = "" }, []string{"name"}},
		{"address instead of postcode", func(l *models.Listing) { l.Postcode = ""; l.Address = "1 Park Row" }, nil},
		{"website instead of phone", func(l *models.Listing) { l.Phone = ""; l.Website = "https://a.co.uk" }, nil},
		{"no contact", func(l *models.Listing) { l.Phone = "" }, []string{"website or phone"}},
		{"no city or location", func(l *models.Listing) { l.City = ""; l.Postcode = "" },
			[]string{"city", "address or postcode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := completeListing()
			tt.modify(l)
			if got := MissingFields(l); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestValidatorBlocksMissingCityAndLocation(t *testing.T) {
	v := NewValidator(newTestLogger())
	l := completeListing()
	l.City, l.Address, l.Postcode = "", "", ""

	v.Check(l)

	if l.Status != models.StatusBlockedMissing {
		t.Fatalf("Status = %s; want BLOCKED_MISSING_DATA", l.Status)
	}
	text := l.NotesText()
	if !strings.Contains(text, "city") || !strings.Contains(text, "address or postcode") {
		t.Errorf("notes %q should mention city and address or postcode", text)
	}
}

func TestValidatorOverridesNeedsReview(t *testing.T) {
	v := NewValidator(newTestLogger())
	l := completeListing()
	l.Status = models.StatusNeedsReview
	l.AddNote(models.NoteWebsiteInvalid, "Website URL appears invalid")
	l.Name = ""

	v.Check(l)

	if l.Status != models.StatusBlockedMissing {
		t.Errorf("Status = %s; want BLOCKED_MISSING_DATA", l.Status)
	}
	if len(l.Notes) != 2 {
		t.Errorf("existing notes must be kept, got %+v", l.Notes)
	}
}

func TestValidatorKeepsStatusWhenComplete(t *testing.T) {
	v := NewValidator(newTestLogger())

	ready := completeListing()
	review := completeListing()
	review.Status = models.StatusNeedsReview

	v.CheckAll([]*models.Listing{ready, review})

	if ready.Status != models.StatusReady {
		t.Errorf("ready.Status = %s; want READY", ready.Status)
	}
	if review.Status != models.StatusNeedsReview {
		t.Errorf("review.Status = %s; want NEEDS_REVIEW", review.Status)
	}
	if len(ready.Notes) != 0 {
		t.Errorf("complete listing got notes %+v", ready.Notes)
	}
}
