package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of event
type EventType string

const (
	// Run events
	EventTypeRunCompleted     EventType = "run.completed"
	EventTypeResolverFallback EventType = "resolver.fallback"

	// Match events
	EventTypeMatchCandidate EventType = "match.candidate"
	EventTypeReviewDecision EventType = "review.decision"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// RunCompletedEvent is emitted when a reconciliation run finishes
type RunCompletedEvent struct {
	BaseEvent
	Strategy     string `json:"strategy"`
	InputCount   int    `json:"input_count"`
	OutputCount  int    `json:"output_count"`
	MatchCount   int    `json:"match_count"`
	ReviewCount  int    `json:"review_count"`
	UsedFallback bool   `json:"used_fallback"`
}

// ResolverFallbackEvent is emitted when the probabilistic resolver degrades
// to the deterministic fallback
type ResolverFallbackEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// MatchCandidateEvent is emitted for every pair classified match or review
type MatchCandidateEvent struct {
	BaseEvent
	MatchID     string  `json:"match_id"`
	LeftID      string  `json:"left_id"`
	RightID     string  `json:"right_id"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// ReviewDecisionEvent is emitted when a reviewer adjudicates a queued pair
type ReviewDecisionEvent struct {
	BaseEvent
	MatchID  string `json:"match_id"`
	Decision string `json:"decision"`
	Reviewer string `json:"reviewer,omitempty"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType, runID string) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}
