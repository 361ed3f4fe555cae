package linkage

import (
	"github.com/Ramsey-B/fern/pkg/models"
)

// DefaultReviewFields are the record fields every review item carries.
var DefaultReviewFields = []string{
	"org_name",
	"slug",
	"province",
	"address",
	"primary_email",
	"primary_phone",
}

// ReviewProjector builds the field projection a human reviewer sees for each
// side of a queued pair.
type ReviewProjector struct {
	fields []string
}

// NewReviewProjector merges caller-supplied fields into the defaults,
// de-duplicated and order-preserving.
func NewReviewProjector(extra ...string) *ReviewProjector {
	seen := make(map[string]bool, len(DefaultReviewFields)+len(extra))
	fields := make([]string, 0, len(DefaultReviewFields)+len(extra))
	for _, f := range append(append([]string{}, DefaultReviewFields...), extra...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return &ReviewProjector{fields: fields}
}

// Fields returns the projection field list in order.
func (p *ReviewProjector) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// Item pairs a prediction with both sides' projected fields.
func (p *ReviewProjector) Item(pred models.MatchPrediction, left, right models.CanonicalRecord) models.ReviewItem {
	return models.ReviewItem{
		MatchID:     pred.MatchID,
		Prediction:  pred,
		LeftFields:  p.Project(left),
		RightFields: p.Project(right),
	}
}

// Project extracts the configured fields from a record. Unknown field names
// project as empty strings so a misconfigured projection is visible, not
// fatal.
func (p *ReviewProjector) Project(rec models.CanonicalRecord) map[string]string {
	out := make(map[string]string, len(p.fields))
	for _, f := range p.fields {
		out[f] = fieldValue(rec, f)
	}
	return out
}

func fieldValue(rec models.CanonicalRecord, field string) string {
	switch field {
	case "org_name":
		return rec.OrgName
	case "slug":
		return rec.Slug
	case "province":
		return rec.Province
	case "city":
		return rec.City
	case "address":
		return rec.Address
	case "category":
		return rec.Category
	case "status":
		return rec.Status
	case "website":
		return rec.Website
	case "description":
		return rec.Description
	case "primary_email":
		return rec.PrimaryContact.Email
	case "primary_phone":
		return rec.PrimaryContact.Phone
	case "primary_contact_name":
		return rec.PrimaryContact.Name
	case "primary_contact_role":
		return rec.PrimaryContact.Role
	default:
		return ""
	}
}
