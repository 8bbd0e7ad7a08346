// Package extract turns raw result-page content into normalized records.
//
// The feed serves either an embedded JSON-LD listing block or plain
// rendered markup, sometimes switching between the two mid-harvest. The
// strategy is therefore chosen per page: structured when the block is
// present, DOM scraping otherwise. The two are never combined on one page.
package extract

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/harvestkit/townpage/models"
)

const structuredBlockSelector = `script[type="application/ld+json"]`

// ErrMalformedListing indicates a listing entry or container missing a
// required field, or a structured block that could not be parsed.
type ErrMalformedListing struct {
	Err error
}

func (e ErrMalformedListing) Error() string {
	return fmt.Errorf("malformed listing: %w", e.Err).Error()
}

func (e ErrMalformedListing) Unwrap() error {
	return e.Err
}

// ParseContent parses raw page content into a document usable by both
// strategy selection and extraction. Each page is parsed exactly once.
func ParseContent(content []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}
	return doc, nil
}

// HasStructuredBlock reports whether the page embeds a JSON-LD listing block.
func HasStructuredBlock(doc *goquery.Document) bool {
	return doc.Find(structuredBlockSelector).Length() > 0
}

// Extract pulls all listings out of one parsed page, choosing the
// structured strategy when the page embeds a JSON-LD block and falling
// back to DOM scraping otherwise. An empty result is not an error; the
// pagination controller interprets it as end-of-results.
func Extract(doc *goquery.Document, keyword, area string) ([]*models.Record, error) {
	if HasStructuredBlock(doc) {
		return Structured(doc, keyword, area)
	}
	return DOMScrape(doc, keyword, area)
}
