package models

import "strings"

// Status is the publish-readiness state of a clinic listing.
type Status string

const (
	StatusReady           Status = "READY"
	StatusNeedsReview     Status = "NEEDS_REVIEW"
	StatusBlockedMissing  Status = "BLOCKED_MISSING_DATA"
	StatusMergedDuplicate Status = "MERGED_DUPLICATE"
)

// Statuses lists every status in reporting order.
var Statuses = []Status{StatusReady, StatusNeedsReview, StatusBlockedMissing, StatusMergedDuplicate}

// Category values accepted by the catalog.
const (
	CategoryGP         = "GP"
	CategoryDentist    = "Dentist"
	CategoryPhysio     = "Physio"
	CategoryAesthetics = "Aesthetics"
	CategoryOther      = "Other"
)

// ValidCategories is the closed set a cleaned listing's category belongs to.
var ValidCategories = []string{CategoryGP, CategoryDentist, CategoryPhysio, CategoryAesthetics, CategoryOther}

// RawRow holds one unprocessed input row exactly as read from the source file.
// Keys are already case-folded with spaces replaced by underscores.
type RawRow struct {
	ID     string
	Line   int
	Fields map[string]string
}

// Get returns the first non-empty value found under any of the given keys.
func (r RawRow) Get(keys ...string) string {
	for _, k := range keys {
		if v := r.Fields[k]; v != "" {
			return v
		}
	}
	return ""
}

// Listing is a single clinic record moving through the pipeline.
type Listing struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
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
	Status         Status   `json:"status"`
	Notes          []Note   `json:"notes"`
}

// NewListing returns a listing with every field at its default and status READY.
func NewListing(id string) *Listing {
	return &Listing{
		ID:       id,
		Services: []string{},
		Tags:     []string{},
		Status:   StatusReady,
		Notes:    []Note{},
	}
}

// AddNote appends a diagnostic entry. Notes are never removed.
func (l *Listing) AddNote(code NoteCode, detail string) {
	l.Notes = append(l.Notes, Note{Code: code, Detail: detail})
}

// AddRefNote appends a diagnostic entry that points at another listing.
func (l *Listing) AddRefNote(code NoteCode, detail, ref string) {
	l.Notes = append(l.Notes, Note{Code: code, Detail: detail, Ref: ref})
}

// HasNote reports whether a note with the given code has been recorded.
func (l *Listing) HasNote(code NoteCode) bool {
	for _, n := range l.Notes {
		if n.Code == code {
			return true
		}
	}
	return false
}

// NotesText renders the notes the way the flat review export shows them.
func (l *Listing) NotesText() string {
	parts := make([]string, 0, len(l.Notes))
	for _, n := range l.Notes {
		parts = append(parts, n.Detail)
	}
	return strings.Join(parts, "; ")
}

// Downgrade moves a READY listing to NEEDS_REVIEW. Any other status is kept.
func (l *Listing) Downgrade() {
	if l.Status == StatusReady {
		l.Status = StatusNeedsReview
	}
}

// Publishable reports whether SEO content should be generated for the listing.
func (l *Listing) Publishable() bool {
	return l.Status == StatusReady || l.Status == StatusNeedsReview
}
