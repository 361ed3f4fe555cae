// Package scoring implements record quality scoring and lead scoring.
package scoring

import (
	"fmt"
	"math"
	"sort"
)

// QualityChecks lists the key fields counted toward the data quality score,
// in the order they are evaluated.
var QualityChecks = []string{"email", "phone", "website", "province", "address"}

// QualityResult is the completeness verdict for one canonical record.
type QualityResult struct {
	Score float64  `json:"score"`
	Flags []string `json:"flags"`
}

// ScoreQuality counts populated key fields. Score is populated/5 rounded to
// two decimals; flags list the missing checks, or "none".
func ScoreQuality(email, phone, website, province, address string) QualityResult {
	present := map[string]bool{
		"email":    email != "",
		"phone":    phone != "",
		"website":  website != "",
		"province": province != "",
		"address":  address != "",
	}

	populated := 0
	flags := make([]string, 0, len(QualityChecks))
	for _, check := range QualityChecks {
		if present[check] {
			populated++
		} else {
			flags = append(flags, fmt.Sprintf("missing_%s", check))
		}
	}

	sort.Strings(flags)
	if len(flags) == 0 {
		flags = []string{"none"}
	}

	score := math.Round(float64(populated)/float64(len(QualityChecks))*100) / 100
	return QualityResult{Score: score, Flags: flags}
}
