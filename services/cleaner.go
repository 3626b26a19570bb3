package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

var (
	// nonDigitRegexp strips everything but digits from phone numbers
	nonDigitRegexp = regexp.MustCompile(`\D`)
	// serviceSplitRegexp separates service lists on ";" or ","
	serviceSplitRegexp = regexp.MustCompile(`[;,]`)
	// postcodeRegexp matches a complete UK postcode, outward and inward parts
	postcodeRegexp = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s*\d[ABD-HJLNP-UW-Z]{2}$`)
)

// categoryAliases maps upper-cased raw categories to their canonical value.
var categoryAliases = map[string]string{
	"GP":               models.CategoryGP,
	"GENERAL PRACTICE": models.CategoryGP,
	"DOCTOR":           models.CategoryGP,
	"DENTIST":          models.CategoryDentist,
	"DENTAL":           models.CategoryDentist,
	"COSMETIC":         models.CategoryAesthetics,
}

// Cleaner transforms raw input rows into canonical listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanAll runs Clean over every row, preserving input order.
func (c *Cleaner) CleanAll(rows []models.RawRow) []*models.Listing {
	result := make([]*models.Listing, 0, len(rows))
	for _, r := range rows {
		result = append(result, c.Clean(r))
	}

	flagged := 0
	for _, l := range result {
		if len(l.Notes) > 0 {
			flagged++
		}
	}
	c.logger.Info("[cleaner] Cleaned %d rows (%d with notes)", len(result), flagged)
	return result
}

// Clean builds a listing from one raw row. It has no side effects: the same
// row always produces an identical listing.
func (c *Cleaner) Clean(r models.RawRow) *models.Listing {
	l := models.NewListing(r.ID)

	l.Name = cleanName(r.Get("name"))
	l.City = titleCase(strings.TrimSpace(r.Get("city")))
	l.Address = strings.TrimSpace(r.Get("address"))
	l.Postcode = strings.ToUpper(strings.TrimSpace(r.Get("postcode")))
	l.Services = splitServices(r.Get("services"))
	l.BookingLink = strings.TrimSpace(r.Get("bookinglink", "booking_link"))
	l.LogoURL = strings.TrimSpace(r.Get("logourl", "logo_url"))

	rawCategory := strings.TrimSpace(r.Get("category"))
	category, known := NormaliseCategory(rawCategory)
	l.Category = category
	switch {
	case rawCategory == "":
		l.AddNote(models.NoteCategoryMissing, "Category missing, defaulted to Other")
	case !known:
		l.AddNote(models.NoteCategoryMapped, fmt.Sprintf("Category '%s' mapped to Other", rawCategory))
	}

	if l.Postcode != "" && !postcodeRegexp.MatchString(l.Postcode) {
		l.AddNote(models.NotePostcodeUnrecognised, fmt.Sprintf("Postcode '%s' is not a recognised UK format", l.Postcode))
	}

	if raw := r.Get("phone"); raw != "" {
		phone, ok := NormalisePhone(raw)
		if !ok {
			l.AddNote(models.NotePhoneUnclear, "Phone format unclear")
		}
		l.Phone = phone
	}

	if raw := strings.TrimSpace(r.Get("website")); raw != "" {
		website, ok := NormaliseWebsite(raw)
		if !ok {
			l.AddNote(models.NoteWebsiteInvalid, "Website URL appears invalid")
			l.Status = models.StatusNeedsReview
		}
		l.Website = website
	}

	c.parseExtras(r, l)
	return l
}

// parseExtras reads the optional numeric/boolean columns. A value that does
// not parse leaves the default and is noted; status is never touched.
func (c *Cleaner) parseExtras(r models.RawRow, l *models.Listing) {
	if raw := r.Get("rating"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 5 {
			l.Rating = v
		} else {
			l.AddNote(models.NoteFieldUnparsable, fmt.Sprintf("Rating '%s' ignored", raw))
		}
	}

	if raw := r.Get("reviews_count", "reviewscount"); raw != "" {
		if v, err := strconv.Atoi(strings.ReplaceAll(raw, ",", "")); err == nil && v >= 0 {
			l.ReviewsCount = v
		} else {
			l.AddNote(models.NoteFieldUnparsable, fmt.Sprintf("Reviews count '%s' ignored", raw))
		}
	}

	if raw := r.Get("is_claimed", "isclaimed"); raw != "" {
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1":
			l.IsClaimed = true
		case "false", "no", "n", "0":
		default:
			l.AddNote(models.NoteFieldUnparsable, fmt.Sprintf("Claimed flag '%s' ignored", raw))
		}
	}
}

// NormaliseCategory maps any input onto one of the valid categories. The
// second return is false when the value was not recognised and fell back to Other.
func NormaliseCategory(raw string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return models.CategoryOther, false
	}

	if c, ok := categoryAliases[upper]; ok {
		return c, true
	}
	switch {
	case strings.HasPrefix(upper, "PHYSIO"):
		return models.CategoryPhysio, true
	case strings.HasPrefix(upper, "AESTHETIC"):
		return models.CategoryAesthetics, true
	}

	titled := titleCase(upper)
	for _, v := range models.ValidCategories {
		if titled == v {
			return v, true
		}
	}
	return models.CategoryOther, false
}

// NormalisePhone rewrites UK numbers into +44 form. When the digits do not
// fit a known shape the original input is returned with ok=false.
func NormalisePhone(raw string) (string, bool) {
	digits := nonDigitRegexp.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "0"):
		return "+44" + digits[1:], true
	case strings.HasPrefix(digits, "44"):
		return "+" + digits, true
	default:
		return raw, false
	}
}

// NormaliseWebsite adds an https scheme when none is present and reports
// whether the result has a plausible host (one containing a dot).
func NormaliseWebsite(raw string) (string, bool) {
	website := strings.TrimSpace(raw)
	lower := strings.ToLower(website)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		website = "https://" + website
	}

	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
		return website, false
	}
	return website, true
}

// WebsiteHost returns the lower-cased host of a stored website, or "".
func WebsiteHost(website string) string {
	if website == "" {
		return ""
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if isAllUpper(name) {
		return name
	}
	return titleCase(name)
}

// isAllUpper reports whether s has at least one letter and no lower-case ones.
// Such names are treated as intentional brand styling.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// titleCase upper-cases the first letter of each word and lower-cases the
// rest. Strings without letters come back unchanged.
func titleCase(s string) string {
	if s == "" || strings.IndexFunc(s, unicode.IsLetter) < 0 {
		return s
	}
	return cases.Title(language.BritishEnglish).String(s)
}

func splitServices(raw string) []string {
	services := []string{}
	for _, s := range serviceSplitRegexp.Split(raw, -1) {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	return services
}
