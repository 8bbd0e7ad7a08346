package extract

import (
	"errors"
	"testing"
)

func TestStructuredExtractsEntriesInOrder(t *testing.T) {
	page := structuredPage(
		ldEntry("株式会社A", "03-1111-1111", "東京都港区", "1-2-3", "https://example.test/a"),
		ldEntry("株式会社B", "", "東京都北区", "", ""),
	)
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	records, err := Structured(doc, "介護", "東京")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	first := records[0]
	if first.CompanyName != "株式会社A" {
		t.Fatalf("name = %q", first.CompanyName)
	}
	if first.Phone != "03-1111-1111" {
		t.Fatalf("phone = %q", first.Phone)
	}
	if first.Address != "東京都港区1-2-3" {
		t.Fatalf("address = %q", first.Address)
	}
	if first.URL != "https://example.test/a" {
		t.Fatalf("url = %q", first.URL)
	}
	if first.Keyword != "介護" || first.Area != "東京" {
		t.Fatalf("session echo = %q/%q", first.Keyword, first.Area)
	}

	second := records[1]
	if second.CompanyName != "株式会社B" {
		t.Fatalf("order not preserved, second = %q", second.CompanyName)
	}
	if second.Address != "東京都北区" {
		t.Fatalf("address with empty street = %q", second.Address)
	}
}

func TestStructuredFailsWholePageOnBadEntry(t *testing.T) {
	page := structuredPage(
		ldEntry("株式会社A", "", "東京都", "", ""),
		ldEntry("", "03-9999", "東京都", "", ""), // no name
	)
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	records, err := Structured(doc, "介護", "東京")
	if err == nil {
		t.Fatalf("expected error, got %d records", len(records))
	}
	var malformed ErrMalformedListing
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %T, want ErrMalformedListing", err)
	}
	if records != nil {
		t.Fatalf("a failed page must yield no records, got %d", len(records))
	}
}

func TestStructuredRejectsUndecodableBlock(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{not json</script></head><body></body></html>`
	doc, err := ParseContent([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = Structured(doc, "介護", "東京")
	var malformed ErrMalformedListing
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want ErrMalformedListing", err)
	}
}
