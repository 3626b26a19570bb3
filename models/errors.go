package models

import "errors"

// Collaborator errors. Enrichment turns these into listing notes.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrGeocodeNoMatch    = errors.New("geocoding returned no match")
	ErrUnreachable       = errors.New("website unreachable")
)
