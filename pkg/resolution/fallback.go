package resolution

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// ResolveFallback deduplicates records by derived key with no similarity
// scoring. Key derivation, in priority order: the existing canonical slug,
// the slug of the organization name, the slug of name+province+address, and
// finally a synthetic entity-<n> key. The first record seen per key wins, so
// no two output rows ever share a key.
func ResolveFallback(records []models.CanonicalRecord) []models.CanonicalRecord {
	seen := make(map[string]bool, len(records))
	out := make([]models.CanonicalRecord, 0, len(records))

	synthetic := 0
	for _, rec := range records {
		key := fallbackKey(rec)
		if key == "" {
			synthetic++
			key = fmt.Sprintf("entity-%d", synthetic)
			rec.Slug = key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

func fallbackKey(rec models.CanonicalRecord) string {
	if rec.Slug != "" {
		return rec.Slug
	}
	if key := normalizers.Slug(rec.OrgName); key != "" {
		return key
	}
	composite := strings.TrimSpace(rec.OrgName + " " + rec.Province + " " + rec.Address)
	return normalizers.Slug(composite)
}
