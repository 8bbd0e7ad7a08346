// Package models defines the normalized record schema for harvested listings.
package models

import (
	"fmt"
	"strings"
)

// Record represents one business listing harvested from the directory feed.
// The capture timestamp is not part of the record; the output sink stamps
// each row at append time.
type Record struct {
	CompanyName string
	Phone       string
	Address     string
	URL         string
	Keyword     string
	Area        string
}

// RawFields carries the unvalidated field values pulled out of a page by
// an extraction strategy.
type RawFields struct {
	Name     string
	Phone    string
	Locality string
	Street   string
	URL      string
}

// MissingFieldError reports a raw listing missing a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("listing missing required field %q", e.Field)
}

// Normalize validates raw fields and builds a Record. The company name is
// required; everything else may be empty. The address is the locality
// followed directly by the street part, no separator, matching the
// upstream CSV format.
func Normalize(raw RawFields, keyword, area string) (*Record, error) {
	if strings.TrimSpace(raw.Name) == "" {
		return nil, &MissingFieldError{Field: "name"}
	}

	return &Record{
		CompanyName: raw.Name,
		Phone:       raw.Phone,
		Address:     raw.Locality + raw.Street,
		URL:         raw.URL,
		Keyword:     keyword,
		Area:        area,
	}, nil
}
