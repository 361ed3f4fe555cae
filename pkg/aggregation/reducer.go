package aggregation

import (
	"github.com/Ramsey-B/fern/pkg/fingerprint"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Field names used in selection provenance and conflict entries.
const (
	FieldOrgName     = "org_name"
	FieldProvince    = "province"
	FieldCity        = "city"
	FieldAddress     = "address"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldWebsite     = "website"
	FieldDescription = "description"
	FieldContactName = "primary_contact_name"
	FieldContactRole = "primary_contact_role"
	FieldEmail       = "primary_email"
	FieldPhone       = "primary_phone"
)

// scalarField describes how one scalar field is reduced: where its value
// comes from and which normalizer decides whether two candidates are the
// same value.
type scalarField struct {
	name      string
	get       func(models.SourceRecord) string
	normalize normalizers.Normalizer
}

var scalarFields = []scalarField{
	{FieldOrgName, func(r models.SourceRecord) string { return r.OrgName }, normalizers.NormalizeName},
	{FieldProvince, func(r models.SourceRecord) string { return r.Province }, normalizers.NormalizeProvince},
	{FieldCity, func(r models.SourceRecord) string { return r.City }, normalizers.NormalizeProvince},
	{FieldAddress, func(r models.SourceRecord) string { return r.Address }, lowerTrim},
	{FieldCategory, func(r models.SourceRecord) string { return r.Category }, lowerTrim},
	{FieldStatus, func(r models.SourceRecord) string { return r.Status }, lowerTrim},
	{FieldWebsite, func(r models.SourceRecord) string { return r.Website }, normalizers.NormalizeWebsite},
	{FieldDescription, func(r models.SourceRecord) string { return r.Description }, normalizers.Trim},
}

func lowerTrim(s string) string {
	return normalizers.ApplyChain(s, "lowercase", "trim")
}

// candidate is one distinct non-empty value for a field, tagged with the
// row that contributed it first.
type candidate struct {
	Value string
	Meta  RowMetadata
}

// FieldReducer collapses a ranked group of same-entity rows into one
// canonical record, recording provenance for every selected field and a
// conflict entry for every field that had competing values.
type FieldReducer struct {
	countryCode string
}

func NewFieldReducer(defaultCountryCode string) *FieldReducer {
	return &FieldReducer{countryCode: defaultCountryCode}
}

// Reduce expects rows already sorted by rank (best first). It never drops a
// candidate silently: losers appear either as contributors in provenance or
// as alternatives in a conflict entry.
func (fr *FieldReducer) Reduce(slug string, rows []rankedRow) (models.CanonicalRecord, []models.ConflictEntry) {
	record := models.CanonicalRecord{
		Slug:                slug,
		PrivacyBasis:        models.PrivacyBasis,
		SourceCount:         len(rows),
		SelectionProvenance: make(map[string]models.FieldProvenance),
	}

	top := rows[0].Meta
	record.SourcePriority = top.Priority
	record.QualityRank = top.Quality
	record.LastInteraction = top.LastInteraction
	record.IngestionIndex = top.Index
	record.RecordID = top.RecordID

	conflicts := make([]models.ConflictEntry, 0)

	for _, field := range scalarFields {
		candidates := collectScalar(rows, field.get, field.normalize)
		if len(candidates) == 0 {
			continue
		}
		setScalar(&record, field.name, candidates[0].Value)
		record.SelectionProvenance[field.name] = provenanceFor(field.name, candidates)
		if conflict, ok := conflictFor(field.name, candidates); ok {
			conflicts = append(conflicts, conflict)
		}
	}

	emails := collectList(rows, func(r models.SourceRecord) []string { return r.Emails }, normalizers.NormalizeEmail)
	phones := collectList(rows, func(r models.SourceRecord) []string { return r.Phones }, fr.canonicalPhone)
	names := collectList(rows, func(r models.SourceRecord) []string { return r.ContactNames }, normalizers.Trim)
	roles := collectList(rows, func(r models.SourceRecord) []string { return r.ContactRoles }, lowerTrim)

	// Name and role prefer the row that produced the winning email (then
	// phone), so the primary contact's details originate from one source row.
	if preferred, ok := preferredContactRow(emails, phones); ok {
		names = promoteFromRow(names, preferred)
		roles = promoteFromRow(roles, preferred)
	}

	record.AllEmails = values(emails)
	record.AllPhones = values(phones)
	record.AllNames = values(names)
	record.AllRoles = values(roles)

	record.PrimaryContact = models.Contact{
		Name:  first(record.AllNames),
		Role:  first(record.AllRoles),
		Email: first(record.AllEmails),
		Phone: first(record.AllPhones),
	}

	for _, contactField := range []struct {
		name       string
		candidates []candidate
	}{
		{FieldEmail, emails},
		{FieldPhone, phones},
		{FieldContactName, names},
		{FieldContactRole, roles},
	} {
		if len(contactField.candidates) == 0 {
			continue
		}
		record.SelectionProvenance[contactField.name] = provenanceFor(contactField.name, contactField.candidates)
		if conflict, ok := conflictFor(contactField.name, contactField.candidates); ok {
			conflicts = append(conflicts, conflict)
		}
	}

	// Hash the reconciled content only; derived scores and confidences are
	// recomputed each run and stay out of the fingerprint.
	record.Fingerprint = fingerprint.Generate(map[string]any{
		"slug":        record.Slug,
		"org_name":    record.OrgName,
		"province":    record.Province,
		"city":        record.City,
		"address":     record.Address,
		"category":    record.Category,
		"status":      record.Status,
		"website":     record.Website,
		"description": record.Description,
		"all_emails":  record.AllEmails,
		"all_phones":  record.AllPhones,
	})

	return record, conflicts
}

func (fr *FieldReducer) canonicalPhone(s string) string {
	return normalizers.CanonicalPhone(s, fr.countryCode)
}

// collectScalar walks rows in rank order and keeps the first occurrence of
// each distinct normalized value. The original (unnormalized) form is what
// gets selected; normalization only decides equality.
func collectScalar(rows []rankedRow, get func(models.SourceRecord) string, normalize normalizers.Normalizer) []candidate {
	seen := make(map[string]bool)
	candidates := make([]candidate, 0, len(rows))
	for _, row := range rows {
		raw := get(row.Record)
		norm := normalize(raw)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		candidates = append(candidates, candidate{Value: raw, Meta: row.Meta})
	}
	return candidates
}

// collectList flattens multi-valued fields across rows in rank order,
// deduplicating on the normalized form. Unlike scalars, the normalized value
// is kept so downstream comparisons are stable.
func collectList(rows []rankedRow, get func(models.SourceRecord) []string, normalize normalizers.Normalizer) []candidate {
	seen := make(map[string]bool)
	candidates := make([]candidate, 0)
	for _, row := range rows {
		for _, raw := range get(row.Record) {
			norm := normalize(raw)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			candidates = append(candidates, candidate{Value: norm, Meta: row.Meta})
		}
	}
	return candidates
}

// preferredContactRow returns the row that contributed the primary email,
// falling back to the row that contributed the primary phone.
func preferredContactRow(emails, phones []candidate) (RowMetadata, bool) {
	if len(emails) > 0 {
		return emails[0].Meta, true
	}
	if len(phones) > 0 {
		return phones[0].Meta, true
	}
	return RowMetadata{}, false
}

// promoteFromRow moves the first candidate contributed by the given row to
// the front of the list, keeping the remaining order intact.
func promoteFromRow(candidates []candidate, row RowMetadata) []candidate {
	for i, c := range candidates {
		if c.Meta.Dataset == row.Dataset && c.Meta.RecordID == row.RecordID && c.Meta.Index == row.Index {
			if i == 0 {
				return candidates
			}
			promoted := make([]candidate, 0, len(candidates))
			promoted = append(promoted, candidates[i])
			promoted = append(promoted, candidates[:i]...)
			promoted = append(promoted, candidates[i+1:]...)
			return promoted
		}
	}
	return candidates
}

func provenanceFor(field string, candidates []candidate) models.FieldProvenance {
	winner := candidates[0]
	prov := models.FieldProvenance{
		Field:           field,
		Value:           winner.Value,
		Dataset:         winner.Meta.Dataset,
		RecordID:        winner.Meta.RecordID,
		Priority:        winner.Meta.Priority,
		Quality:         winner.Meta.Quality,
		LastInteraction: winner.Meta.LastInteraction,
	}
	for _, loser := range candidates[1:] {
		prov.Contributors = append(prov.Contributors, models.Contributor{
			Dataset: loser.Meta.Dataset,
			Value:   loser.Value,
		})
	}
	return prov
}

func conflictFor(field string, candidates []candidate) (models.ConflictEntry, bool) {
	if len(candidates) < 2 {
		return models.ConflictEntry{}, false
	}
	conflict := models.ConflictEntry{
		Field:   field,
		Dataset: candidates[0].Meta.Dataset,
		Value:   candidates[0].Value,
	}
	for _, alt := range candidates[1:] {
		conflict.Alternatives = append(conflict.Alternatives, models.Contributor{
			Dataset: alt.Meta.Dataset,
			Value:   alt.Value,
		})
	}
	return conflict, true
}

func setScalar(record *models.CanonicalRecord, field, value string) {
	switch field {
	case FieldOrgName:
		record.OrgName = value
	case FieldProvince:
		record.Province = value
	case FieldCity:
		record.City = value
	case FieldAddress:
		record.Address = value
	case FieldCategory:
		record.Category = value
	case FieldStatus:
		record.Status = value
	case FieldWebsite:
		record.Website = value
	case FieldDescription:
		record.Description = value
	}
}

func values(candidates []candidate) []string {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Value
	}
	return out
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
