package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings is the static part of the configuration, loaded from a JSON
// file. Area groups are kept ordered; the harvest flattens them into a
// single list and preserves that order in the output.
type Settings struct {
	Filename   string      `json:"filename"`
	Encoding   string      `json:"csv_file_encoding"`
	URI        string      `json:"uri"`
	AreaGroups []AreaGroup `json:"areas"`
}

// AreaGroup is a named grouping of area names (e.g. a prefecture and
// its municipalities).
type AreaGroup struct {
	Name string   `json:"name"`
	List []string `json:"list"`
}

// LoadSettings reads and parses the settings file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return &s, nil
}

// FlattenAreas returns every group member as one ordered list.
// Duplicates are kept; each occurrence gets its own pagination pass.
func (s *Settings) FlattenAreas() []string {
	var areas []string
	for _, g := range s.AreaGroups {
		areas = append(areas, g.List...)
	}
	return areas
}
