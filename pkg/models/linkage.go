package models

import "time"

// Classification labels produced by the linkage thresholds.
const (
	LabelMatch  = "match"
	LabelReview = "review"
	LabelReject = "reject"
)

// Resolution strategies recorded in run metadata.
const (
	StrategyProbabilistic = "probabilistic"
	StrategyFallback      = "fallback"
)

// MatchPrediction is one scored record pair. RunID is stamped when the
// prediction is persisted; predictions fresh out of the resolver do not
// carry one yet.
type MatchPrediction struct {
	MatchID     string  `json:"match_id" db:"match_id"`
	RunID       string  `json:"run_id,omitempty" db:"run_id"`
	LeftID      string  `json:"left_id" db:"left_id"`
	RightID     string  `json:"right_id" db:"right_id"`
	Probability float64 `json:"probability" db:"probability"`
	Label       string  `json:"label" db:"label"`
}

// ReviewItem is a prediction queued for human adjudication, carrying the
// projected record fields a reviewer needs.
type ReviewItem struct {
	MatchID     string            `json:"match_id"`
	Prediction  MatchPrediction   `json:"prediction"`
	LeftFields  map[string]string `json:"left_fields"`
	RightFields map[string]string `json:"right_fields"`
}

// ReviewerDecision is an append-only entry in the decision log. Never
// mutated, only appended; one decision per match id.
type ReviewerDecision struct {
	MatchID   string    `json:"match_id" db:"match_id"`
	Decision  string    `json:"decision" db:"decision"`
	Reviewer  string    `json:"reviewer" db:"reviewer"`
	DecidedAt time.Time `json:"decided_at" db:"decided_at"`
}

// LinkageResult is the output of entity resolution over a set of canonical
// records.
type LinkageResult struct {
	Records      []CanonicalRecord `json:"records"`
	Matches      []MatchPrediction `json:"matches,omitempty"`
	ReviewQueue  []ReviewItem      `json:"review_queue,omitempty"`
	ThresholdsHi float64           `json:"threshold_high"`
	ThresholdsRv float64           `json:"threshold_review"`
	ThresholdsRj float64           `json:"threshold_reject"`
	UsedFallback bool              `json:"used_fallback"`
	Diagnostics  []Diagnostic      `json:"diagnostics,omitempty"`
}

// RunMetadata records the thresholds and strategy used to produce a run's
// artifacts.
type RunMetadata struct {
	RunID           string     `json:"run_id" db:"run_id"`
	Strategy        string     `json:"strategy" db:"strategy"`
	ThresholdHigh   float64    `json:"threshold_high" db:"threshold_high"`
	ThresholdReview float64    `json:"threshold_review" db:"threshold_review"`
	ThresholdReject float64    `json:"threshold_reject" db:"threshold_reject"`
	InputCount      int        `json:"input_count" db:"input_count"`
	OutputCount     int        `json:"output_count" db:"output_count"`
	MatchCount      int        `json:"match_count" db:"match_count"`
	ReviewCount     int        `json:"review_count" db:"review_count"`
	RejectedCount   int        `json:"rejected_count" db:"rejected_count"`
	UsedFallback    bool       `json:"used_fallback" db:"used_fallback"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
