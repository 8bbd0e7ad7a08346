package extract

import (
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/harvestkit/townpage/models"
)

// itemList mirrors the schema.org ItemList block the feed embeds on
// structured pages.
type itemList struct {
	ItemListElement []struct {
		Item listItem `json:"item"`
	} `json:"itemListElement"`
}

type listItem struct {
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	URL       string `json:"url"`
	Address   struct {
		AddressLocality string `json:"addressLocality"`
		StreetAddress   string `json:"streetAddress"`
	} `json:"address"`
}

// Structured extracts listings from the page's JSON-LD block. Every entry
// must normalize to a valid record; one bad entry fails the whole page.
func Structured(doc *goquery.Document, keyword, area string) ([]*models.Record, error) {
	block := doc.Find(structuredBlockSelector).First()
	if block.Length() == 0 {
		return nil, ErrMalformedListing{Err: fmt.Errorf("no structured block in page")}
	}

	var list itemList
	if err := json.Unmarshal([]byte(block.Text()), &list); err != nil {
		return nil, ErrMalformedListing{Err: fmt.Errorf("decode structured block: %w", err)}
	}

	records := make([]*models.Record, 0, len(list.ItemListElement))
	for i, element := range list.ItemListElement {
		item := element.Item
		record, err := models.Normalize(models.RawFields{
			Name:     item.Name,
			Phone:    item.Telephone,
			Locality: item.Address.AddressLocality,
			Street:   item.Address.StreetAddress,
			URL:      item.URL,
		}, keyword, area)
		if err != nil {
			return nil, ErrMalformedListing{Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		records = append(records, record)
	}
	return records, nil
}
