package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

const (
	// nameSimilarityThreshold must be exceeded (strictly) for a name match.
	nameSimilarityThreshold = 0.8
	// postcodeAreaLen is how many leading postcode characters define an area.
	postcodeAreaLen = 4
)

// Deduplicator folds duplicate listings into the earliest matching listing.
type Deduplicator struct {
	logger *utils.Logger
}

func NewDeduplicator(logger *utils.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Deduplicate scans listings in input order. For each listing not yet
// consumed, every later unconsumed listing that matches it is merged in and
// marked MERGED_DUPLICATE. The base is always the earliest listing; its
// empty fields are filled from duplicates in order. Every input listing
// appears exactly once in the result, each duplicate right before its base.
func (d *Deduplicator) Deduplicate(listings []*models.Listing) []*models.Listing {
	consumed := make(map[int]struct{})
	result := make([]*models.Listing, 0, len(listings))
	mergedTotal := 0

	for i, base := range listings {
		if _, done := consumed[i]; done {
			continue
		}

		var dups []int
		for j := i + 1; j < len(listings); j++ {
			if _, done := consumed[j]; done {
				continue
			}
			if IsDuplicate(base, listings[j]) {
				dups = append(dups, j)
				consumed[j] = struct{}{}
			}
		}

		for _, j := range dups {
			dup := listings[j]
			mergeInto(base, dup)
			dup.Status = models.StatusMergedDuplicate
			dup.AddRefNote(models.NoteMergedInto,
				fmt.Sprintf("Merged into record: %s", base.Name), base.ID)
			d.logger.Debug("[dedup] %q (row id %s) merged into %q", dup.Name, dup.ID, base.Name)
			result = append(result, dup)
		}

		if len(dups) > 0 {
			base.AddNote(models.NoteMergedCount, fmt.Sprintf("Merged %d duplicate(s)", len(dups)))
			mergedTotal += len(dups)
		}
		result = append(result, base)
	}

	d.logger.Info("[dedup] %d listings in, %d merged as duplicates", len(listings), mergedTotal)
	return result
}

// IsDuplicate reports whether two listings describe the same clinic: same
// website host, or a similar name within the same postcode area. The test
// is symmetric in its arguments.
func IsDuplicate(a, b *models.Listing) bool {
	if a.Website != "" && b.Website != "" {
		ha, hb := WebsiteHost(a.Website), WebsiteHost(b.Website)
		if ha != "" && ha == hb {
			return true
		}
	}

	if a.Name == "" || b.Name == "" {
		return false
	}
	areaA, areaB := postcodeArea(a.Postcode), postcodeArea(b.Postcode)
	if areaA == "" || areaA != areaB {
		return false
	}
	return NameSimilarity(a.Name, b.Name) > nameSimilarityThreshold
}

// NameSimilarity returns 1 - editDistance/maxLen over the lower-cased names,
// in the range 0..1.
func NameSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

func postcodeArea(postcode string) string {
	r := []rune(postcode)
	if len(r) > postcodeAreaLen {
		r = r[:postcodeAreaLen]
	}
	return string(r)
}

// mergeInto fills every empty base field from dup. Status, notes and
// identity always stay with the base.
func mergeInto(base, dup *models.Listing) {
	fillString(&base.Name, dup.Name)
	fillString(&base.Category, dup.Category)
	fillString(&base.City, dup.City)
	fillString(&base.Address, dup.Address)
	fillString(&base.Postcode, dup.Postcode)
	fillString(&base.Phone, dup.Phone)
	fillString(&base.Website, dup.Website)
	fillString(&base.BookingLink, dup.BookingLink)
	fillString(&base.LogoURL, dup.LogoURL)
	fillString(&base.Description, dup.Description)
	fillString(&base.SEOTitle, dup.SEOTitle)
	fillString(&base.SEODescription, dup.SEODescription)

	if len(base.Services) == 0 && len(dup.Services) > 0 {
		base.Services = append([]string{}, dup.Services...)
	}
	if len(base.Tags) == 0 && len(dup.Tags) > 0 {
		base.Tags = append([]string{}, dup.Tags...)
	}
	if base.Rating == 0 {
		base.Rating = dup.Rating
	}
	if base.ReviewsCount == 0 {
		base.ReviewsCount = dup.ReviewsCount
	}
	if !base.IsClaimed {
		base.IsClaimed = dup.IsClaimed
	}
	if base.Latitude == nil && dup.Latitude != nil {
		lat := *dup.Latitude
		base.Latitude = &lat
	}
	if base.Longitude == nil && dup.Longitude != nil {
		lng := *dup.Longitude
		base.Longitude = &lng
	}
}

func fillString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
