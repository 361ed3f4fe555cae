package linkage

import (
	"sync"

	"github.com/Ramsey-B/fern/pkg/models"
)

// DecisionLog is an append-only, idempotent log of reviewer decisions keyed
// by match id. Re-appending a decision for a match id already present is a
// no-op, so re-processing a batch never duplicates adjudications.
type DecisionLog struct {
	mu      sync.Mutex
	seen    map[string]bool
	entries []models.ReviewerDecision
}

func NewDecisionLog() *DecisionLog {
	return &DecisionLog{seen: make(map[string]bool)}
}

// Append records a decision. Returns false when a decision for the same
// match id already exists.
func (l *DecisionLog) Append(decision models.ReviewerDecision) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen[decision.MatchID] {
		return false
	}
	l.seen[decision.MatchID] = true
	l.entries = append(l.entries, decision)
	return true
}

// Has reports whether a decision exists for the match id.
func (l *DecisionLog) Has(matchID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[matchID]
}

// Decisions returns a copy of the log in append order.
func (l *DecisionLog) Decisions() []models.ReviewerDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.ReviewerDecision, len(l.entries))
	copy(out, l.entries)
	return out
}
