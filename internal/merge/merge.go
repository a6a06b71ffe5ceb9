// Package merge collapses a duplicate cluster into one canonical record.
// Every strategy is deterministic for a given input order and records which
// source contributed each field.
package merge

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"business-dedup/internal/models"
	apperrors "business-dedup/pkg/errors"
)

// Merge applies the named strategy to a primary record and its duplicates.
// The canonical record keeps the primary's id under every strategy.
//
// Strategies never drop data: a field populated anywhere in the cluster is
// never empty in the result.
func Merge(primary *models.BusinessRecord, duplicates []*models.BusinessRecord, strategy string) (*models.MergedRecord, error) {
	const op = "merge"

	if primary == nil || primary.ID == "" {
		return nil, apperrors.NewValidation(op, "primary record missing id", nil)
	}
	for _, dup := range duplicates {
		if dup == nil || dup.ID == "" {
			return nil, apperrors.NewValidation(op, "duplicate record missing id", nil)
		}
	}
	if strategy == "" {
		strategy = models.StrategyPreservePrimary
	}

	var record models.BusinessRecord
	var provenance map[string]string
	switch strategy {
	case models.StrategyPreservePrimary:
		record, provenance = preservePrimary(primary, duplicates)
	case models.StrategyQuality:
		record, provenance = quality(primary, duplicates)
	case models.StrategyComprehensive:
		record, provenance = comprehensive(primary, duplicates)
	default:
		return nil, apperrors.NewValidation(op, "unknown merge strategy "+strategy, nil)
	}

	mergedFrom := make([]string, 0, len(duplicates)+1)
	mergedFrom = append(mergedFrom, primary.ID)
	for _, dup := range duplicates {
		mergedFrom = append(mergedFrom, dup.ID)
	}

	return &models.MergedRecord{
		MergeID:    uuid.NewString(),
		Record:     record,
		Provenance: provenance,
		MergedFrom: mergedFrom,
		Strategy:   strategy,
		MergedAt:   time.Now().UTC(),
	}, nil
}

// preservePrimary keeps every populated field of the primary and fills its
// gaps from the first duplicate that has the field, in duplicate order.
func preservePrimary(primary *models.BusinessRecord, duplicates []*models.BusinessRecord) (models.BusinessRecord, map[string]string) {
	out := primary.Clone()
	prov := make(map[string]string)
	stampOwned(&out, prov, primary.ID)

	for _, dup := range duplicates {
		if out.BusinessType == "" && dup.BusinessType != "" {
			out.BusinessType = dup.BusinessType
			prov[models.FieldBusinessType] = dup.ID
		}
		fillStr(&out.BusinessNumber, dup.BusinessNumber, prov, models.FieldBusinessNumber, dup.ID)
		fillStr(&out.Phone, dup.Phone, prov, models.FieldPhone, dup.ID)
		fillStr(&out.Email, dup.Email, prov, models.FieldEmail, dup.ID)
		fillStr(&out.Website, dup.Website, prov, models.FieldWebsite, dup.ID)
		fillStr(&out.Description, dup.Description, prov, models.FieldDescription, dup.ID)
		if out.Address == nil && dup.Address != nil {
			a := *dup.Address
			out.Address = &a
			prov[models.FieldAddress] = dup.ID
		}
		if len(out.Industry) == 0 && len(dup.Industry) > 0 {
			out.Industry = append([]string(nil), dup.Industry...)
			prov[models.FieldIndustry] = dup.ID
		}
		if out.Confidence == nil && dup.Confidence != nil {
			c := *dup.Confidence
			out.Confidence = &c
		}
	}
	return out, prov
}

// quality picks every field from the cluster member with the highest
// quality score among those that have the field. Ties break toward the
// longer value, then toward earlier position (primary first).
func quality(primary *models.BusinessRecord, duplicates []*models.BusinessRecord) (models.BusinessRecord, map[string]string) {
	members := clusterMembers(primary, duplicates)
	prov := make(map[string]string)

	out := primary.Clone()
	out.ID = primary.ID

	out.Name = pickString(members, prov, models.FieldName, func(r *models.BusinessRecord) string { return r.Name })
	out.BusinessType = pickString(members, prov, models.FieldBusinessType, func(r *models.BusinessRecord) string { return r.BusinessType })
	out.BusinessNumber = pickPtr(members, prov, models.FieldBusinessNumber, func(r *models.BusinessRecord) *string { return r.BusinessNumber })
	out.Phone = pickPtr(members, prov, models.FieldPhone, func(r *models.BusinessRecord) *string { return r.Phone })
	out.Email = pickPtr(members, prov, models.FieldEmail, func(r *models.BusinessRecord) *string { return r.Email })
	out.Website = pickPtr(members, prov, models.FieldWebsite, func(r *models.BusinessRecord) *string { return r.Website })
	out.Description = pickPtr(members, prov, models.FieldDescription, func(r *models.BusinessRecord) *string { return r.Description })
	out.Address = pickAddress(members, prov)
	out.Industry = pickIndustry(members, prov)
	out.Confidence = bestConfidence(members)
	return out, prov
}

// comprehensive starts from the quality result, then pulls in everything
// the cluster knows: industry tags are unioned and the longest description
// wins regardless of source quality.
func comprehensive(primary *models.BusinessRecord, duplicates []*models.BusinessRecord) (models.BusinessRecord, map[string]string) {
	out, prov := quality(primary, duplicates)
	members := clusterMembers(primary, duplicates)

	tags := make(map[string]bool)
	var contributors []string
	for _, m := range members {
		if len(m.Industry) == 0 {
			continue
		}
		contributors = append(contributors, m.ID)
		for _, tag := range m.Industry {
			tags[tag] = true
		}
	}
	if len(tags) > 0 {
		union := make([]string, 0, len(tags))
		for tag := range tags {
			union = append(union, tag)
		}
		sort.Strings(union)
		out.Industry = union
		prov[models.FieldIndustry] = strings.Join(contributors, ",")
	}

	for _, m := range members {
		if m.Description != nil && (out.Description == nil || len(*m.Description) > len(*out.Description)) {
			d := *m.Description
			out.Description = &d
			prov[models.FieldDescription] = m.ID
		}
	}
	return out, prov
}

func clusterMembers(primary *models.BusinessRecord, duplicates []*models.BusinessRecord) []*models.BusinessRecord {
	members := make([]*models.BusinessRecord, 0, len(duplicates)+1)
	members = append(members, primary)
	members = append(members, duplicates...)
	return members
}

// stampOwned records provenance for every field the primary already holds.
func stampOwned(rec *models.BusinessRecord, prov map[string]string, id string) {
	if rec.Name != "" {
		prov[models.FieldName] = id
	}
	if rec.BusinessType != "" {
		prov[models.FieldBusinessType] = id
	}
	for field, v := range map[string]*string{
		models.FieldBusinessNumber: rec.BusinessNumber,
		models.FieldPhone:          rec.Phone,
		models.FieldEmail:          rec.Email,
		models.FieldWebsite:        rec.Website,
		models.FieldDescription:    rec.Description,
	} {
		if v != nil && *v != "" {
			prov[field] = id
		}
	}
	if rec.Address != nil {
		prov[models.FieldAddress] = id
	}
	if len(rec.Industry) > 0 {
		prov[models.FieldIndustry] = id
	}
}

func fillStr(dst **string, src *string, prov map[string]string, field, id string) {
	if (*dst == nil || **dst == "") && src != nil && *src != "" {
		v := *src
		*dst = &v
		prov[field] = id
	}
}

func pickString(members []*models.BusinessRecord, prov map[string]string, field string, get func(*models.BusinessRecord) string) string {
	best := ""
	bestQ := -1.0
	for _, m := range members {
		v := get(m)
		if v == "" {
			continue
		}
		q := m.QualityScore()
		if q > bestQ || (q == bestQ && len(v) > len(best)) {
			best = v
			bestQ = q
			prov[field] = m.ID
		}
	}
	return best
}

func pickPtr(members []*models.BusinessRecord, prov map[string]string, field string, get func(*models.BusinessRecord) *string) *string {
	var best *string
	bestQ := -1.0
	for _, m := range members {
		v := get(m)
		if v == nil || *v == "" {
			continue
		}
		q := m.QualityScore()
		if q > bestQ || (q == bestQ && best != nil && len(*v) > len(*best)) {
			val := *v
			best = &val
			bestQ = q
			prov[field] = m.ID
		}
	}
	return best
}

func pickAddress(members []*models.BusinessRecord, prov map[string]string) *models.Address {
	var best *models.Address
	bestQ := -1.0
	for _, m := range members {
		if m.Address == nil {
			continue
		}
		q := m.QualityScore()
		if q > bestQ {
			a := *m.Address
			best = &a
			bestQ = q
			prov[models.FieldAddress] = m.ID
		}
	}
	return best
}

func pickIndustry(members []*models.BusinessRecord, prov map[string]string) []string {
	var best []string
	bestQ := -1.0
	for _, m := range members {
		if len(m.Industry) == 0 {
			continue
		}
		q := m.QualityScore()
		if q > bestQ || (q == bestQ && len(m.Industry) > len(best)) {
			best = append([]string(nil), m.Industry...)
			bestQ = q
			prov[models.FieldIndustry] = m.ID
		}
	}
	return best
}

func bestConfidence(members []*models.BusinessRecord) *float64 {
	var best *float64
	for _, m := range members {
		if m.Confidence == nil {
			continue
		}
		if best == nil || *m.Confidence > *best {
			c := *m.Confidence
			best = &c
		}
	}
	return best
}
