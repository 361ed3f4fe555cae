package models

import "time"

// PrivacyBasis tags every canonical record with the processing basis under
// which the dataset is held.
const PrivacyBasis = "legitimate_interest_b2b"

// Contributor is a candidate value that was available for a field but not
// selected.
type Contributor struct {
	Dataset string `json:"dataset"`
	Value   string `json:"value"`
}

// FieldProvenance records which source row won a field and which alternatives
// were in play.
type FieldProvenance struct {
	Field           string        `json:"field"`
	Value           string        `json:"value"`
	Dataset         string        `json:"dataset"`
	RecordID        string        `json:"record_id"`
	Priority        int           `json:"priority"`
	Quality         int           `json:"quality"`
	LastInteraction *time.Time    `json:"last_interaction,omitempty"`
	Contributors    []Contributor `json:"contributors,omitempty"`
}

// ConflictEntry is recorded whenever a field had more than one distinct
// non-empty candidate. Used for audit reporting.
type ConflictEntry struct {
	Field        string        `json:"field"`
	Dataset      string        `json:"dataset"`
	Value        string        `json:"value"`
	Alternatives []Contributor `json:"alternatives"`
}

// Contact is the primary contact selected for a canonical record.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CanonicalRecord is the reconciled output: one record per entity key, with
// field-level provenance. Treated as immutable once produced; entity
// resolution may later collapse several canonical records into one cluster
// representative.
type CanonicalRecord struct {
	OrgName     string `json:"org_name"`
	Slug        string `json:"slug"`
	Province    string `json:"province,omitempty"`
	City        string `json:"city,omitempty"`
	Address     string `json:"address,omitempty"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`

	PrimaryContact  Contact  `json:"primary_contact"`
	EmailConfidence *float64 `json:"email_confidence,omitempty"`
	PhoneConfidence *float64 `json:"phone_confidence,omitempty"`
	EmailStatus     string   `json:"email_status,omitempty"`
	PhoneStatus     string   `json:"phone_status,omitempty"`

	// Full ordered contact lists; element 0 is the primary.
	AllNames  []string `json:"all_names,omitempty"`
	AllRoles  []string `json:"all_roles,omitempty"`
	AllEmails []string `json:"all_emails,omitempty"`
	AllPhones []string `json:"all_phones,omitempty"`

	DataQualityScore float64  `json:"data_quality_score"`
	QualityFlags     []string `json:"quality_flags"`
	LeadScore        float64  `json:"lead_score"`

	// Hash of the reconciled content, used to detect changes between runs.
	Fingerprint string `json:"fingerprint"`

	SelectionProvenance map[string]FieldProvenance `json:"selection_provenance"`
	PrivacyBasis        string                     `json:"privacy_basis"`
	SourceCount         int                        `json:"source_count"`

	// Rank carriers from the group's top-ranked row; reused when a cluster
	// picks its representative.
	SourcePriority  int        `json:"source_priority"`
	QualityRank     int        `json:"quality_rank"`
	LastInteraction *time.Time `json:"last_interaction,omitempty"`
	IngestionIndex  int        `json:"ingestion_index"`
	RecordID        string     `json:"record_id"`
}

// AggregationResult is the output of one aggregation pass.
type AggregationResult struct {
	Records     []CanonicalRecord `json:"records"`
	Conflicts   []ConflictEntry   `json:"conflicts,omitempty"`
	Report      ValidationReport  `json:"report"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}
