package services

import (
	"fmt"
	"strings"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

// Validator applies the required-field policy for publishing.
type Validator struct {
	logger *utils.Logger
}

func NewValidator(logger *utils.Logger) *Validator {
	return &Validator{logger: logger}
}

// MissingFields returns the labels of every required field the listing lacks.
func MissingFields(l *models.Listing) []string {
	var missing []string
	if l.Name == "" {
		missing = append(missing, "name")
	}
	if l.Category == "" {
		missing = append(missing, "category")
	}
	if l.City == "" {
		missing = append(missing, "city")
	}
	if l.Address == "" && l.Postcode == "" {
		missing = append(missing, "address or postcode")
	}
	if l.Website == "" && l.Phone == "" {
		missing = append(missing, "website or phone")
	}
	return missing
}

// Check blocks a listing that misses required data. A passing listing keeps
// whatever status it already had.
func (v *Validator) Check(l *models.Listing) {
	missing := MissingFields(l)
	if len(missing) == 0 {
		return
	}
	l.Status = models.StatusBlockedMissing
	l.AddNote(models.NoteMissingFields,
		fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
}

// CheckAll validates every listing in place.
func (v *Validator) CheckAll(listings []*models.Listing) {
	blocked := 0
	for _, l := range listings {
		v.Check(l)
		if l.Status == models.StatusBlockedMissing {
			blocked++
		}
	}
	v.logger.Info("[validator] %d of %d listings blocked for missing data", blocked, len(listings))
}
