// Package events handles event emission for run lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for fern runs
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitRunCompleted emits a run.completed event
func (e *Emitter) EmitRunCompleted(ctx context.Context, meta *models.RunMetadata) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitRunCompleted")
	defer span.End()

	data, _ := json.Marshal(RunCompletedEvent{
		BaseEvent:    NewBaseEvent(EventTypeRunCompleted, meta.RunID),
		Strategy:     meta.Strategy,
		InputCount:   meta.InputCount,
		OutputCount:  meta.OutputCount,
		MatchCount:   meta.MatchCount,
		ReviewCount:  meta.ReviewCount,
		UsedFallback: meta.UsedFallback,
	})

	event := &kafka.RunEvent{
		EventType:     string(EventTypeRunCompleted),
		SchemaVersion: SchemaVersion,
		RunID:         meta.RunID,
		Data:          data,
	}

	if err := e.producer.PublishRunEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit run.completed event")
		return err
	}

	return nil
}

// EmitResolverFallback emits an event when a run degrades to the fallback
// resolver, so the degradation is observable downstream
func (e *Emitter) EmitResolverFallback(ctx context.Context, runID, reason string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitResolverFallback")
	defer span.End()

	data, _ := json.Marshal(ResolverFallbackEvent{
		BaseEvent: NewBaseEvent(EventTypeResolverFallback, runID),
		Reason:    reason,
	})

	event := &kafka.RunEvent{
		EventType:     string(EventTypeResolverFallback),
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Data:          data,
	}

	if err := e.producer.PublishRunEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit resolver.fallback event")
		return err
	}

	return nil
}

// EmitMatchCandidates emits one match.candidate event per scored pair
func (e *Emitter) EmitMatchCandidates(ctx context.Context, runID string, predictions []models.MatchPrediction) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchCandidates")
	defer span.End()

	if len(predictions) == 0 {
		return nil
	}

	batch := make([]*kafka.RunEvent, 0, len(predictions))
	for _, p := range predictions {
		data, _ := json.Marshal(MatchCandidateEvent{
			BaseEvent:   NewBaseEvent(EventTypeMatchCandidate, runID),
			MatchID:     p.MatchID,
			LeftID:      p.LeftID,
			RightID:     p.RightID,
			Probability: p.Probability,
			Label:       p.Label,
		})
		batch = append(batch, &kafka.RunEvent{
			EventType:     string(EventTypeMatchCandidate),
			SchemaVersion: SchemaVersion,
			RunID:         runID,
			Key:           p.MatchID,
			Data:          data,
		})
	}

	if err := e.producer.PublishRunEvents(ctx, batch); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.candidate events")
		return err
	}

	return nil
}

// EmitReviewDecision emits a review.decision event
func (e *Emitter) EmitReviewDecision(ctx context.Context, runID string, decision models.ReviewerDecision) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReviewDecision")
	defer span.End()

	data, _ := json.Marshal(ReviewDecisionEvent{
		BaseEvent: NewBaseEvent(EventTypeReviewDecision, runID),
		MatchID:   decision.MatchID,
		Decision:  decision.Decision,
		Reviewer:  decision.Reviewer,
	})

	event := &kafka.RunEvent{
		EventType:     string(EventTypeReviewDecision),
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Key:           decision.MatchID,
		Data:          data,
	}

	if err := e.producer.PublishRunEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit review.decision event")
		return err
	}

	return nil
}
