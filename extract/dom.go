package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/harvestkit/townpage/models"
)

// Listing cards appear in two zones with identical markup: the ranked
// results at the top and the remaining results below. goquery returns
// the union in document order, which keeps the feed's ordering.
const (
	listItemSelector = "#resultTop li.list-item, #resultBottom li.list-item"

	itemNameSelector    = "p.list-item__name a"
	itemPhoneSelector   = "p.list-item__tel"
	itemAddressSelector = "p.list-item__address"
)

// ResultsMarker is the element the rendered backend waits on before
// reading markup; either zone being present means results have loaded.
const ResultsMarker = "#resultTop, #resultBottom"

// DOMScrape extracts listings from rendered markup. A card without a
// company name fails the page rather than producing a blank record.
func DOMScrape(doc *goquery.Document, keyword, area string) ([]*models.Record, error) {
	var records []*models.Record
	var scrapeErr error

	doc.Find(listItemSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		name := card.Find(itemNameSelector)
		href, _ := name.Attr("href")

		record, err := models.Normalize(models.RawFields{
			Name:     strings.TrimSpace(name.Text()),
			Phone:    strings.TrimSpace(card.Find(itemPhoneSelector).Text()),
			Locality: strings.TrimSpace(card.Find(itemAddressSelector).Text()),
			URL:      href,
		}, keyword, area)
		if err != nil {
			scrapeErr = ErrMalformedListing{Err: fmt.Errorf("card %d: %w", i, err)}
			return false
		}
		records = append(records, record)
		return true
	})

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	return records, nil
}
