package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"business-dedup/pkg/normalize"
)

// Tables carries normalization rule overrides. Deployments with regional
// naming conventions replace the built-in tables at startup; fields left
// empty keep the defaults.
type Tables struct {
	LegalSuffixes       []string          `yaml:"legal_suffixes"`
	StreetAbbreviations map[string]string `yaml:"street_abbreviations"`
}

// LoadTables reads a YAML rule file and applies it. Call before any
// comparison runs; the normalize tables are not safe to swap concurrently.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule tables: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing rule tables %s: %w", path, err)
	}

	t.Apply()
	return &t, nil
}

// Apply installs the non-empty tables into the normalize package.
func (t *Tables) Apply() {
	if len(t.LegalSuffixes) > 0 {
		suffixes := make(map[string]bool, len(t.LegalSuffixes))
		for _, s := range t.LegalSuffixes {
			suffixes[normalize.Name(s)] = true
		}
		normalize.LegalSuffixes = suffixes
	}
	if len(t.StreetAbbreviations) > 0 {
		abbrevs := make(map[string]string, len(t.StreetAbbreviations))
		for abbrev, full := range t.StreetAbbreviations {
			abbrevs[normalize.Name(abbrev)] = normalize.Name(full)
		}
		normalize.StreetAbbreviations = abbrevs
	}
}
