// Package validation defines the contact validator boundary. The validator
// itself is an external collaborator; fern only depends on this interface.
package validation

import "context"

// ValidationSummary is the external validator's verdict on a record's
// primary contact details. Confidences are nil when the validator could not
// score the value.
type ValidationSummary struct {
	EmailConfidence *float64 `json:"email_confidence,omitempty"`
	PhoneConfidence *float64 `json:"phone_confidence,omitempty"`
	EmailStatus     string   `json:"email_status,omitempty"`
	PhoneStatus     string   `json:"phone_status,omitempty"`
	Flags           []string `json:"flags,omitempty"`
}

// ContactValidator scores email/phone confidence for a canonical record.
// Called exactly once per record with the winning primary contact values.
type ContactValidator interface {
	Validate(ctx context.Context, email, phone, countryCode string) (*ValidationSummary, error)
}

// NopValidator is used when no external validator is configured. It reports
// nothing, leaving confidences absent.
type NopValidator struct{}

func (NopValidator) Validate(ctx context.Context, email, phone, countryCode string) (*ValidationSummary, error) {
	return &ValidationSummary{}, nil
}
