package merge

import (
	"reflect"
	"testing"

	"business-dedup/internal/models"
	apperrors "business-dedup/pkg/errors"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestPreservePrimaryKeepsPrimaryFields(t *testing.T) {
	primary := &models.BusinessRecord{
		ID:    "p",
		Name:  "Maple Leaf Catering",
		Phone: strPtr("4165551234"),
	}
	dup := &models.BusinessRecord{
		ID:    "d1",
		Name:  "Mapleleaf Catering Ltd",
		Phone: strPtr("9999999999"),
		Email: strPtr("info@mapleleaf.ca"),
	}

	merged, err := Merge(primary, []*models.BusinessRecord{dup}, models.StrategyPreservePrimary)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}

	if merged.Record.ID != "p" {
		t.Errorf("canonical id = %q, want p", merged.Record.ID)
	}
	if merged.Record.Name != "Maple Leaf Catering" {
		t.Errorf("primary name overwritten: %q", merged.Record.Name)
	}
	if *merged.Record.Phone != "4165551234" {
		t.Errorf("primary phone overwritten: %q", *merged.Record.Phone)
	}
	// Email was missing on the primary and must be filled from the duplicate.
	if merged.Record.Email == nil || *merged.Record.Email != "info@mapleleaf.ca" {
		t.Errorf("gap not filled: %v", merged.Record.Email)
	}
	if merged.Provenance[models.FieldEmail] != "d1" {
		t.Errorf("email provenance = %q, want d1", merged.Provenance[models.FieldEmail])
	}
	if merged.Provenance[models.FieldPhone] != "p" {
		t.Errorf("phone provenance = %q, want p", merged.Provenance[models.FieldPhone])
	}
}

func TestPreservePrimaryFillsInDuplicateOrder(t *testing.T) {
	primary := &models.BusinessRecord{ID: "p", Name: "Harbour Cafe"}
	d1 := &models.BusinessRecord{ID: "d1", Name: "Harbour Cafe", Email: strPtr("first@harbour.ca")}
	d2 := &models.BusinessRecord{ID: "d2", Name: "Harbour Cafe", Email: strPtr("second@harbour.ca")}

	merged, err := Merge(primary, []*models.BusinessRecord{d1, d2}, models.StrategyPreservePrimary)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if *merged.Record.Email != "first@harbour.ca" {
		t.Errorf("fill order violated: %q", *merged.Record.Email)
	}
}

func TestQualityPrefersHigherConfidence(t *testing.T) {
	// Record A has a bad email and low confidence; B is trusted.
	a := &models.BusinessRecord{
		ID:         "a",
		Name:       "Northern Supplies",
		Email:      strPtr("broken@@nowhere"),
		Confidence: floatPtr(0.3),
	}
	b := &models.BusinessRecord{
		ID:         "b",
		Name:       "Northern Supplies Inc",
		Email:      strPtr("orders@northernsupplies.ca"),
		Confidence: floatPtr(0.9),
	}

	merged, err := Merge(a, []*models.BusinessRecord{b}, models.StrategyQuality)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if *merged.Record.Email != "orders@northernsupplies.ca" {
		t.Errorf("email = %q, want the trusted record's value", *merged.Record.Email)
	}
	if merged.Provenance[models.FieldEmail] != "b" {
		t.Errorf("email provenance = %q, want b", merged.Provenance[models.FieldEmail])
	}
	if merged.Record.ID != "a" {
		t.Errorf("canonical id = %q, primary id must survive", merged.Record.ID)
	}
}

func TestQualityTieBreaksTowardLongerValue(t *testing.T) {
	a := &models.BusinessRecord{ID: "a", Name: "Acme", Confidence: floatPtr(0.5)}
	b := &models.BusinessRecord{ID: "b", Name: "Acme Industrial Holdings", Confidence: floatPtr(0.5)}

	merged, err := Merge(a, []*models.BusinessRecord{b}, models.StrategyQuality)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if merged.Record.Name != "Acme Industrial Holdings" {
		t.Errorf("name = %q, want longer value on tie", merged.Record.Name)
	}
}

func TestQualityNeverDropsLonelyField(t *testing.T) {
	a := &models.BusinessRecord{ID: "a", Name: "Acme", Confidence: floatPtr(0.9)}
	b := &models.BusinessRecord{ID: "b", Name: "Acme Ltd", Website: strPtr("https://acme.ca"), Confidence: floatPtr(0.2)}

	merged, err := Merge(a, []*models.BusinessRecord{b}, models.StrategyQuality)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if merged.Record.Website == nil || *merged.Record.Website != "https://acme.ca" {
		t.Errorf("only populated website dropped: %v", merged.Record.Website)
	}
}

func TestComprehensiveUnionsIndustryTags(t *testing.T) {
	a := &models.BusinessRecord{ID: "a", Name: "Acme", Industry: []string{"retail", "hardware"}}
	b := &models.BusinessRecord{ID: "b", Name: "Acme Ltd", Industry: []string{"hardware", "wholesale"}}

	merged, err := Merge(a, []*models.BusinessRecord{b}, models.StrategyComprehensive)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	want := []string{"hardware", "retail", "wholesale"}
	if !reflect.DeepEqual(merged.Record.Industry, want) {
		t.Errorf("industry = %v, want %v", merged.Record.Industry, want)
	}
}

func TestComprehensiveKeepsLongestDescription(t *testing.T) {
	a := &models.BusinessRecord{ID: "a", Name: "Acme", Description: strPtr("Hardware."), Confidence: floatPtr(0.9)}
	b := &models.BusinessRecord{ID: "b", Name: "Acme Ltd", Description: strPtr("Family-run hardware store since 1982."), Confidence: floatPtr(0.1)}

	merged, err := Merge(a, []*models.BusinessRecord{b}, models.StrategyComprehensive)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if *merged.Record.Description != "Family-run hardware store since 1982." {
		t.Errorf("description = %q", *merged.Record.Description)
	}
}

func TestMergeDeterministic(t *testing.T) {
	a := &models.BusinessRecord{ID: "a", Name: "Acme", Confidence: floatPtr(0.5)}
	dups := []*models.BusinessRecord{
		{ID: "b", Name: "Acme Ltd", Phone: strPtr("4165551234"), Confidence: floatPtr(0.5)},
		{ID: "c", Name: "Acme Inc", Phone: strPtr("4165559999"), Confidence: floatPtr(0.5)},
	}

	first, err := Merge(a, dups, models.StrategyQuality)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	second, err := Merge(a, dups, models.StrategyQuality)
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if !reflect.DeepEqual(first.Record, second.Record) {
		t.Errorf("same input produced different records:\n%+v\n%+v", first.Record, second.Record)
	}
	if !reflect.DeepEqual(first.Provenance, second.Provenance) {
		t.Errorf("same input produced different provenance:\n%v\n%v", first.Provenance, second.Provenance)
	}
}

func TestMergeValidation(t *testing.T) {
	valid := &models.BusinessRecord{ID: "a", Name: "Acme"}

	if _, err := Merge(nil, nil, models.StrategyQuality); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("nil primary: %+v", err)
	}
	if _, err := Merge(&models.BusinessRecord{Name: "No ID"}, nil, ""); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("primary without id: %+v", err)
	}
	if _, err := Merge(valid, []*models.BusinessRecord{{Name: "No ID"}}, ""); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("duplicate without id: %+v", err)
	}
	if _, err := Merge(valid, nil, "newest"); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("unknown strategy: %+v", err)
	}
}

func TestMergeMetadata(t *testing.T) {
	primary := &models.BusinessRecord{ID: "p", Name: "Acme"}
	dups := []*models.BusinessRecord{{ID: "d1", Name: "Acme Ltd"}, {ID: "d2", Name: "Acme Inc"}}

	merged, err := Merge(primary, dups, "")
	if err != nil {
		t.Fatalf("merge failed: %+v", err)
	}
	if merged.MergeID == "" {
		t.Error("merge id not assigned")
	}
	if merged.Strategy != models.StrategyPreservePrimary {
		t.Errorf("default strategy = %q", merged.Strategy)
	}
	want := []string{"p", "d1", "d2"}
	if !reflect.DeepEqual(merged.MergedFrom, want) {
		t.Errorf("mergedFrom = %v, want %v", merged.MergedFrom, want)
	}
	if merged.MergedAt.IsZero() {
		t.Error("mergedAt not set")
	}
}
