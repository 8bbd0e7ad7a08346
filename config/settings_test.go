package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  "filename": "output/list.csv",
  "csv_file_encoding": "shift_jis",
  "uri": "https://example.test/search",
  "areas": [
    {"name": "kanto", "list": ["東京", "神奈川"]},
    {"name": "kansai", "list": ["大阪", "東京"]}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.Filename != "output/list.csv" {
		t.Fatalf("filename = %q", settings.Filename)
	}
	if settings.Encoding != "shift_jis" {
		t.Fatalf("encoding = %q", settings.Encoding)
	}

	// group order is preserved and duplicates are kept
	want := []string{"東京", "神奈川", "大阪", "東京"}
	if got := settings.FlattenAreas(); !reflect.DeepEqual(got, want) {
		t.Fatalf("areas = %v, want %v", got, want)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
