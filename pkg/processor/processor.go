// Package processor orchestrates reconciliation runs: source batches flow
// through aggregation and entity resolution, and the resulting artifacts
// (matches, review queue, decisions, run metadata) are persisted and
// announced.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/internal/repositories/decisionlog"
	"github.com/Ramsey-B/fern/internal/repositories/matchrecord"
	"github.com/Ramsey-B/fern/internal/repositories/reviewqueue"
	"github.com/Ramsey-B/fern/internal/repositories/runmetadata"
	"github.com/Ramsey-B/fern/pkg/aggregation"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/resolution"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Processor runs the reconciliation pipeline end to end.
type Processor struct {
	logger   ectologger.Logger
	engine   *aggregation.Engine
	resolver *resolution.Service

	matchRepo    *matchrecord.Repository
	reviewRepo   *reviewqueue.Repository
	decisionRepo *decisionlog.Repository
	runRepo      *runmetadata.Repository

	// Optional collaborators; nil disables the concern.
	lineage *graph.LineageService
	emitter *events.Emitter

	useProbabilistic bool
}

// NewProcessor creates a new run processor
func NewProcessor(
	logger ectologger.Logger,
	engine *aggregation.Engine,
	resolver *resolution.Service,
	matchRepo *matchrecord.Repository,
	reviewRepo *reviewqueue.Repository,
	decisionRepo *decisionlog.Repository,
	runRepo *runmetadata.Repository,
	lineage *graph.LineageService,
	emitter *events.Emitter,
	useProbabilistic bool,
) *Processor {
	return &Processor{
		logger:           logger,
		engine:           engine,
		resolver:         resolver,
		matchRepo:        matchRepo,
		reviewRepo:       reviewRepo,
		decisionRepo:     decisionRepo,
		runRepo:          runRepo,
		lineage:          lineage,
		emitter:          emitter,
		useProbabilistic: useProbabilistic,
	}
}

// HandleMessage is the Kafka intake entry point: one source batch per
// message, one run per batch.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	records := msg.Records()
	p.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_id": msg.GetBatchID(),
		"dataset":  msg.GetDataset(),
		"records":  len(records),
	}).Info("Processing source batch")

	_, _, err := p.ProcessBatch(ctx, records)
	return err
}

// ProcessBatch aggregates and resolves one batch of source records,
// persisting the four run artifacts. Per-row problems land in the result's
// report and diagnostics; only infrastructure failures return an error.
func (p *Processor) ProcessBatch(ctx context.Context, records []models.SourceRecord) (*models.LinkageResult, *models.RunMetadata, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessBatch")
	defer span.End()

	strategy := models.StrategyFallback
	if p.useProbabilistic {
		strategy = models.StrategyProbabilistic
	}

	meta := &models.RunMetadata{
		RunID:      uuid.New().String(),
		Strategy:   strategy,
		InputCount: len(records),
	}
	if p.runRepo != nil {
		if _, err := p.runRepo.Create(ctx, meta); err != nil {
			return nil, nil, err
		}
	}

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":  meta.RunID,
		"records": len(records),
	})

	aggResult, err := p.engine.Aggregate(ctx, records)
	if err != nil {
		return nil, nil, err
	}

	result := p.resolver.Resolve(ctx, aggResult.Records)
	result.Diagnostics = append(aggResult.Diagnostics, result.Diagnostics...)

	meta.ThresholdHigh = result.ThresholdsHi
	meta.ThresholdReview = result.ThresholdsRv
	meta.ThresholdReject = result.ThresholdsRj
	meta.OutputCount = len(result.Records)
	meta.MatchCount = len(result.Matches)
	meta.ReviewCount = len(result.ReviewQueue)
	meta.RejectedCount = len(aggResult.Report.Rejected)
	meta.UsedFallback = result.UsedFallback
	if result.UsedFallback {
		meta.Strategy = models.StrategyFallback
	}

	if err := p.persistArtifacts(ctx, meta, result); err != nil {
		return nil, nil, err
	}

	p.projectLineage(ctx, meta.RunID, result)
	p.announce(ctx, meta, result)

	log.WithFields(map[string]any{
		"output":        meta.OutputCount,
		"matches":       meta.MatchCount,
		"review":        meta.ReviewCount,
		"used_fallback": meta.UsedFallback,
	}).Info("Run complete")

	return result, meta, nil
}

// RecordDecision appends a reviewer decision and clears the queued item.
// Returns false when a decision for the match id already exists.
func (p *Processor) RecordDecision(ctx context.Context, decision models.ReviewerDecision) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.RecordDecision")
	defer span.End()

	appended, err := p.decisionRepo.Append(ctx, decision)
	if err != nil {
		return false, err
	}
	if !appended {
		p.logger.WithContext(ctx).WithField("match_id", decision.MatchID).Debug("Decision already recorded; skipping")
		return false, nil
	}

	if err := p.reviewRepo.MarkDecided(ctx, decision.MatchID); err != nil {
		// The decision is durable; a missing queue row only means the item
		// was never queued or was already cleared.
		p.logger.WithContext(ctx).WithError(err).WithField("match_id", decision.MatchID).Warn("Failed to clear review queue item")
	}

	if p.emitter != nil {
		// The decision only knows its match id; the stored prediction links
		// it back to the run that produced the pair.
		runID := ""
		if p.matchRepo != nil {
			if pred, err := p.matchRepo.Get(ctx, decision.MatchID); err == nil {
				runID = pred.RunID
			}
		}
		if err := p.emitter.EmitReviewDecision(ctx, runID, decision); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit review.decision event")
		}
	}

	return true, nil
}

func (p *Processor) persistArtifacts(ctx context.Context, meta *models.RunMetadata, result *models.LinkageResult) error {
	if p.matchRepo != nil {
		if err := p.matchRepo.CreateBatch(ctx, meta.RunID, result.Matches); err != nil {
			return err
		}
	}
	if p.reviewRepo != nil {
		if err := p.reviewRepo.Enqueue(ctx, meta.RunID, result.ReviewQueue); err != nil {
			return err
		}
	}
	if p.runRepo != nil {
		if err := p.runRepo.Complete(ctx, meta); err != nil {
			return err
		}
	}
	return nil
}

// projectLineage writes the run into the graph. Projection failures are
// observable but never fail a run that already persisted its artifacts.
func (p *Processor) projectLineage(ctx context.Context, runID string, result *models.LinkageResult) {
	if p.lineage == nil {
		return
	}
	if err := p.lineage.ProjectRun(ctx, runID, result); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithField("run_id", runID).Warn("Failed to project run lineage")
		result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
			Stage:   "lineage",
			Code:    "projection_failed",
			Message: err.Error(),
		})
	}
}

func (p *Processor) announce(ctx context.Context, meta *models.RunMetadata, result *models.LinkageResult) {
	if p.emitter == nil {
		return
	}

	if result.UsedFallback && p.useProbabilistic {
		reason := "probabilistic resolver failed"
		for _, d := range result.Diagnostics {
			if d.Code == "backend_degraded" {
				reason = d.Message
			}
		}
		if err := p.emitter.EmitResolverFallback(ctx, meta.RunID, reason); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit resolver.fallback event")
		}
	}

	if err := p.emitter.EmitMatchCandidates(ctx, meta.RunID, result.Matches); err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit match.candidate events")
	}

	if err := p.emitter.EmitRunCompleted(ctx, meta); err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit run.completed event")
	}
}
