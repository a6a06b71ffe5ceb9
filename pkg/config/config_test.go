package config

import (
	"os"
	"path/filepath"
	"testing"

	"business-dedup/pkg/normalize"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DEDUP_THRESHOLD")
	os.Unsetenv("DEDUP_BATCH_SIZE")

	cfg := Load()
	if cfg.Threshold != 0.8 {
		t.Errorf("default threshold = %v, want 0.8", cfg.Threshold)
	}
	if cfg.BatchSize != 100 {
		t.Errorf("default batch size = %d, want 100", cfg.BatchSize)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("default log format = %q, want json", cfg.LogFormat)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	os.Setenv("DEDUP_THRESHOLD", "1.5")
	defer os.Unsetenv("DEDUP_THRESHOLD")

	cfg := Load()
	if cfg.Threshold != 0.8 {
		t.Errorf("out-of-range threshold kept: %v", cfg.Threshold)
	}
}

func TestLoadTables(t *testing.T) {
	origSuffixes := normalize.LegalSuffixes
	origAbbrevs := normalize.StreetAbbreviations
	defer func() {
		normalize.LegalSuffixes = origSuffixes
		normalize.StreetAbbreviations = origAbbrevs
	}()

	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := []byte("legal_suffixes:\n  - GmbH\n  - SARL\nstreet_abbreviations:\n  str: strasse\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables failed: %v", err)
	}
	if len(tables.LegalSuffixes) != 2 {
		t.Fatalf("got %d suffixes, want 2", len(tables.LegalSuffixes))
	}
	if !normalize.LegalSuffixes["gmbh"] {
		t.Error("gmbh not installed as legal suffix")
	}
	if normalize.StreetAbbreviations["str"] != "strasse" {
		t.Errorf("str maps to %q, want strasse", normalize.StreetAbbreviations["str"])
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	if _, err := LoadTables("/nonexistent/tables.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
