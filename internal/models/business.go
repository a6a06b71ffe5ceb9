package models

// BusinessRecord is the unit of deduplication: one business as described by a
// single source (registration, crawl, manual entry). Only ID and Name are
// required; everything else is optional and modeled as pointers so "absent"
// never collapses into "empty string".
type BusinessRecord struct {
	ID             string   `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	BusinessType   string   `json:"business_type,omitempty" db:"business_type"`
	BusinessNumber *string  `json:"business_number,omitempty" db:"business_number"`
	Phone          *string  `json:"phone,omitempty" db:"phone"`
	Email          *string  `json:"email,omitempty" db:"email"`
	Website        *string  `json:"website,omitempty" db:"website"`
	Address        *Address `json:"address,omitempty"`
	Description    *string  `json:"description,omitempty" db:"description"`
	Industry       []string `json:"industry,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty" db:"confidence"`
}

// Address holds the structured postal address of a business.
type Address struct {
	Street     string `json:"street,omitempty" db:"street"`
	City       string `json:"city,omitempty" db:"city"`
	Province   string `json:"province,omitempty" db:"province"`
	PostalCode string `json:"postal_code,omitempty" db:"postal_code"`
}

// Clone returns a deep copy. Comparison always runs on snapshots so a caller
// mutating its record mid-operation cannot corrupt results.
func (r BusinessRecord) Clone() BusinessRecord {
	out := r
	out.BusinessNumber = cloneStr(r.BusinessNumber)
	out.Phone = cloneStr(r.Phone)
	out.Email = cloneStr(r.Email)
	out.Website = cloneStr(r.Website)
	out.Description = cloneStr(r.Description)
	if r.Address != nil {
		a := *r.Address
		out.Address = &a
	}
	if r.Industry != nil {
		out.Industry = append([]string(nil), r.Industry...)
	}
	if r.Confidence != nil {
		c := *r.Confidence
		out.Confidence = &c
	}
	return out
}

// Completeness scores how much of the record is filled in, in [0,1].
// Used by the quality merge strategy as a fallback when no explicit
// confidence is present.
func (r BusinessRecord) Completeness() float64 {
	total := 8.0
	filled := 0.0
	if r.Name != "" {
		filled++
	}
	if hasStr(r.BusinessNumber) {
		filled++
	}
	if hasStr(r.Phone) {
		filled++
	}
	if hasStr(r.Email) {
		filled++
	}
	if hasStr(r.Website) {
		filled++
	}
	if r.Address != nil && (r.Address.Street != "" || r.Address.City != "") {
		filled++
	}
	if hasStr(r.Description) {
		filled++
	}
	if len(r.Industry) > 0 {
		filled++
	}
	return filled / total
}

// QualityScore is the record's prior confidence when present, otherwise its
// completeness.
func (r BusinessRecord) QualityScore() float64 {
	if r.Confidence != nil {
		return *r.Confidence
	}
	return r.Completeness()
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func hasStr(s *string) bool { return s != nil && *s != "" }
