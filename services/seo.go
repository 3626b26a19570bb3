package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

const (
	maxTitleLen       = 60
	maxDescriptionLen = 155
	ellipsis          = "..."
	maxIntroServices  = 3
	maxServiceTags    = 5
)

// SEOWriter generates catalog copy from a listing's current fields.
// Output depends only on those fields, so regeneration is idempotent.
type SEOWriter struct {
	logger *utils.Logger
}

func NewSEOWriter(logger *utils.Logger) *SEOWriter {
	return &SEOWriter{logger: logger}
}

// GenerateAll fills SEO fields on every READY or NEEDS_REVIEW listing.
func (s *SEOWriter) GenerateAll(listings []*models.Listing) {
	n := 0
	for _, l := range listings {
		if l.Publishable() {
			s.Generate(l)
			n++
		}
	}
	s.logger.Info("[seo] Generated content for %d listings", n)
}

// Generate writes description, title, meta description and tags. Blocked or
// merged listings are left untouched.
func (s *SEOWriter) Generate(l *models.Listing) {
	if !l.Publishable() {
		return
	}

	if l.Name != "" && l.Category != "" && l.City != "" {
		l.Description = Description(l)
		l.SEOTitle = Title(l.Category, l.City, l.Name)
		l.SEODescription = MetaDescription(l)
	}
	l.Tags = Tags(l)
}

// Description composes up to four sentences about the practice.
func Description(l *models.Listing) string {
	parts := []string{
		fmt.Sprintf("%s is a private %s practice located in %s.", l.Name, strings.ToLower(l.Category), l.City),
	}

	if len(l.Services) > 0 {
		shown := l.Services
		if len(shown) > maxIntroServices {
			shown = shown[:maxIntroServices]
		}
		sentence := "We offer " + strings.Join(shown, ", ")
		if len(l.Services) > maxIntroServices {
			sentence += " and other services"
		}
		parts = append(parts, sentence+".")
	}

	parts = append(parts, fmt.Sprintf(
		"Our experienced team provides high-quality private healthcare services to patients in %s and surrounding areas.", l.City))

	var contact []string
	if l.Website != "" {
		contact = append(contact, "visit our website")
	}
	if l.Phone != "" {
		contact = append(contact, "call us")
	}
	if len(contact) > 0 {
		parts = append(parts, fmt.Sprintf("To book an appointment, %s.", strings.Join(contact, " or ")))
	}

	return strings.Join(parts, " ")
}

// Title renders "{category} in {city} | {name}" in at most 60 characters,
// shortening the name first.
func Title(category, city, name string) string {
	prefix := fmt.Sprintf("%s in %s | ", category, city)
	full := prefix + name
	if utf8.RuneCountInString(full) <= maxTitleLen {
		return full
	}

	room := maxTitleLen - utf8.RuneCountInString(prefix)
	if room > len(ellipsis) {
		return prefix + truncate(name, room)
	}
	return truncate(full, maxTitleLen)
}

// MetaDescription renders the search snippet in at most 155 characters.
func MetaDescription(l *models.Listing) string {
	desc := fmt.Sprintf("Professional %s services at %s in %s. ", strings.ToLower(l.Category), l.Name, l.City)
	if len(l.Services) > 0 {
		desc += fmt.Sprintf("Specialising in %s. ", strings.ToLower(l.Services[0]))
	}
	desc += "Book your appointment today."
	return truncate(desc, maxDescriptionLen)
}

// Tags returns "private", city, category and up to five service slugs.
func Tags(l *models.Listing) []string {
	tags := []string{"private"}
	if l.City != "" {
		tags = append(tags, strings.ToLower(l.City))
	}
	if l.Category != "" {
		tags = append(tags, strings.ToLower(l.Category))
	}

	services := l.Services
	if len(services) > maxServiceTags {
		services = services[:maxServiceTags]
	}
	for _, svc := range services {
		tags = append(tags, strings.ReplaceAll(strings.ToLower(svc), " ", "-"))
	}
	return tags
}

// truncate cuts s to max characters, ending with an ellipsis when shortened.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}
