package models

import "time"

// SourceRecord represents one organization row as delivered by an upstream
// loader. Contact fields are always lists: loaders normalize single values
// into one-element lists so downstream code never branches on shape.
type SourceRecord struct {
	OrgName     string `json:"org_name"`
	Dataset     string `json:"dataset"`
	RecordID    string `json:"record_id"`
	Slug        string `json:"slug,omitempty"`
	Province    string `json:"province,omitempty"`
	City        string `json:"city,omitempty"`
	Address     string `json:"address,omitempty"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	CountryCode string `json:"country_code,omitempty"`

	ContactNames []string `json:"contact_names,omitempty"`
	ContactRoles []string `json:"contact_roles,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`

	LastInteraction *time.Time `json:"last_interaction,omitempty"`
}

// RejectedRecord pairs a screened-out source record with the reason it was
// rejected.
type RejectedRecord struct {
	Record SourceRecord `json:"record"`
	Reason string       `json:"reason"`
}

// ValidationReport partitions a batch into usable rows and rejected rows.
// Rejection is per-row and never fails the batch.
type ValidationReport struct {
	Valid    []SourceRecord   `json:"valid"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
}

// Diagnostic records a recovered error so no row is dropped silently.
type Diagnostic struct {
	Stage    string `json:"stage"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}
