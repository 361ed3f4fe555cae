// Package aggregation implements the conflict-resolution engine: it groups
// source rows by canonical key and reduces each group to one canonical
// record with field-level provenance.
package aggregation

import (
	"sort"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// RowMetadata carries the reliability signals used to rank same-entity rows.
// Computed once per row at aggregation time and discarded afterward.
type RowMetadata struct {
	Index           int
	Dataset         string
	RecordID        string
	Priority        int
	Quality         int
	LastInteraction *time.Time
}

// rankedRow pairs a source row with its metadata.
type rankedRow struct {
	Record models.SourceRecord
	Meta   RowMetadata
}

// computeMetadata derives the rank signals for one row. Priority comes from
// the configured dataset rank table (0 when unknown); quality counts the
// populated key fields (emails, phones, website, province, address).
func computeMetadata(index int, rec models.SourceRecord, priorities map[string]int) RowMetadata {
	quality := 0
	if hasValue(rec.Emails) {
		quality++
	}
	if hasValue(rec.Phones) {
		quality++
	}
	if rec.Website != "" {
		quality++
	}
	if rec.Province != "" {
		quality++
	}
	if rec.Address != "" {
		quality++
	}

	return RowMetadata{
		Index:           index,
		Dataset:         rec.Dataset,
		RecordID:        rec.RecordID,
		Priority:        priorities[rec.Dataset],
		Quality:         quality,
		LastInteraction: rec.LastInteraction,
	}
}

// rankBefore reports whether row a outranks row b. Higher source priority
// always wins; quality decides priority ties; recency decides quality ties;
// remaining ties go to the earliest-ingested row, then lexicographically by
// record id.
func rankBefore(a, b RowMetadata) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Quality != b.Quality {
		return a.Quality > b.Quality
	}
	at, bt := interactionOrMin(a.LastInteraction), interactionOrMin(b.LastInteraction)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.RecordID < b.RecordID
}

// sortByRank orders rows deterministically by rank.
func sortByRank(rows []rankedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rankBefore(rows[i].Meta, rows[j].Meta)
	})
}

func interactionOrMin(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func hasValue(list []string) bool {
	for _, v := range list {
		if v != "" {
			return true
		}
	}
	return false
}
