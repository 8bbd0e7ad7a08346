package extract

import (
	"errors"
	"testing"
)

func TestDOMScrapeConcatenatesZonesInDocumentOrder(t *testing.T) {
	page := domPage(
		[]string{
			domCard("上位A社", "03-1111", "東京都港区1-1", "https://example.test/a"),
			domCard("上位B社", "03-2222", "東京都港区2-2", "https://example.test/b"),
		},
		[]string{
			domCard("下位C社", "", "東京都北区3-3", "https://example.test/c"),
		},
	)
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	records, err := DOMScrape(doc, "介護", "東京")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}

	wantNames := []string{"上位A社", "上位B社", "下位C社"}
	if len(records) != len(wantNames) {
		t.Fatalf("records = %d, want %d", len(records), len(wantNames))
	}
	for i, want := range wantNames {
		if records[i].CompanyName != want {
			t.Fatalf("records[%d].CompanyName = %q, want %q", i, records[i].CompanyName, want)
		}
	}

	first := records[0]
	if first.Phone != "03-1111" {
		t.Fatalf("phone = %q", first.Phone)
	}
	if first.Address != "東京都港区1-1" {
		t.Fatalf("address = %q", first.Address)
	}
	if first.URL != "https://example.test/a" {
		t.Fatalf("url = %q", first.URL)
	}
}

func TestDOMScrapeFailsOnNamelessCard(t *testing.T) {
	page := domPage([]string{
		domCard("A社", "03-1111", "東京都", "https://example.test/a"),
		domCard("", "03-2222", "東京都", "https://example.test/b"),
	}, nil)
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = DOMScrape(doc, "介護", "東京")
	var malformed ErrMalformedListing
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want ErrMalformedListing", err)
	}
}

func TestDOMScrapeAllowsEmptyOptionalFields(t *testing.T) {
	page := domPage([]string{domCard("A社", "", "", "")}, nil)
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	records, err := DOMScrape(doc, "介護", "東京")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Phone != "" || records[0].Address != "" {
		t.Fatalf("optional fields should stay empty, got %+v", records[0])
	}
}
