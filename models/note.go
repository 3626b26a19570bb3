package models

// NoteCode is a stable reason code for a diagnostic note.
type NoteCode string

const (
	NoteCategoryMapped       NoteCode = "category_mapped"
	NoteCategoryMissing      NoteCode = "category_missing"
	NotePhoneUnclear         NoteCode = "phone_unclear"
	NoteWebsiteInvalid       NoteCode = "website_invalid"
	NotePostcodeUnrecognised NoteCode = "postcode_unrecognised"
	NoteFieldUnparsable      NoteCode = "field_unparsable"
	NoteMissingFields        NoteCode = "missing_fields"
	NoteMergedInto           NoteCode = "merged_into"
	NoteMergedCount          NoteCode = "merged_count"
	NoteGeocodeSkipped       NoteCode = "geocode_skipped"
	NoteGeocodeFailed        NoteCode = "geocode_failed"
	NoteGeocodeError         NoteCode = "geocode_error"
	NoteDemoDomain           NoteCode = "demo_domain"
	NoteWebsiteUnreachable   NoteCode = "website_unreachable"
	NoteWebsiteCheckFailed   NoteCode = "website_check_failed"
)

// Note is one entry in a listing's append-only diagnostic log.
type Note struct {
	Code   NoteCode `json:"code"`
	Detail string   `json:"detail"`
	// Ref is the ID of a related listing, set on merge notes.
	Ref string `json:"ref,omitempty"`
}
