package models

import (
	"errors"
	"testing"
)

func TestNormalizeAddressConcatenation(t *testing.T) {
	tests := []struct {
		name     string
		locality string
		street   string
		want     string
	}{
		{name: "street empty", locality: "東京都港区", street: "", want: "東京都港区"},
		{name: "street present", locality: "東京都港区", street: "1-2-3", want: "東京都港区1-2-3"},
		{name: "both empty", locality: "", street: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Normalize(RawFields{
				Name:     "株式会社テスト",
				Locality: tt.locality,
				Street:   tt.street,
			}, "介護", "東京")
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if record.Address != tt.want {
				t.Fatalf("address = %q, want %q", record.Address, tt.want)
			}
		})
	}
}

func TestNormalizeRequiresName(t *testing.T) {
	tests := []struct {
		name    string
		rawName string
	}{
		{name: "empty", rawName: ""},
		{name: "whitespace only", rawName: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(RawFields{Name: tt.rawName}, "介護", "東京")
			if err == nil {
				t.Fatalf("expected error for name %q", tt.rawName)
			}
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("error = %T, want *MissingFieldError", err)
			}
			if missing.Field != "name" {
				t.Fatalf("missing field = %q, want %q", missing.Field, "name")
			}
		})
	}
}

func TestNormalizeEchoesSessionFields(t *testing.T) {
	record, err := Normalize(RawFields{
		Name:  "株式会社テスト",
		Phone: "03-1234-5678",
		URL:   "https://example.com/test",
	}, "介護", "大阪")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if record.Keyword != "介護" {
		t.Fatalf("keyword = %q, want %q", record.Keyword, "介護")
	}
	if record.Area != "大阪" {
		t.Fatalf("area = %q, want %q", record.Area, "大阪")
	}
	if record.Phone != "03-1234-5678" {
		t.Fatalf("phone = %q", record.Phone)
	}
	if record.URL != "https://example.com/test" {
		t.Fatalf("url = %q", record.URL)
	}
}
