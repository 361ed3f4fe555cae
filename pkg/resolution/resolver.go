package resolution

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/comparators"
	"github.com/Ramsey-B/fern/pkg/fingerprint"
	"github.com/Ramsey-B/fern/pkg/linkage"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ServiceConfig carries the resolution tunables.
type ServiceConfig struct {
	UseProbabilistic bool
	Thresholds       linkage.Thresholds
	Comparisons      []FieldComparison
	ReviewFields     []string
}

// Service runs entity resolution over canonical records. The probabilistic
// path degrades to the fallback resolver on any backend failure; the run
// never aborts because of it.
type Service struct {
	logger    ectologger.Logger
	scorer    *comparators.Scorer
	blocker   *Blocker
	projector *linkage.ReviewProjector
	config    ServiceConfig
}

func NewService(logger ectologger.Logger, config ServiceConfig) *Service {
	if config.Comparisons == nil {
		config.Comparisons = DefaultComparisons()
	}
	scorer := comparators.NewScorer()
	return &Service{
		logger:    logger,
		scorer:    scorer,
		blocker:   NewBlocker(scorer),
		projector: linkage.NewReviewProjector(config.ReviewFields...),
		config:    config,
	}
}

// Resolve deduplicates the batch. When probabilistic resolution is disabled
// or fails, the deterministic fallback produces the output instead and the
// degradation is recorded on the result.
func (s *Service) Resolve(ctx context.Context, records []models.CanonicalRecord) *models.LinkageResult {
	ctx, span := tracing.StartSpan(ctx, "resolution.Resolve")
	defer span.End()

	result := &models.LinkageResult{
		ThresholdsHi: s.config.Thresholds.High,
		ThresholdsRv: s.config.Thresholds.Review,
		ThresholdsRj: s.config.Thresholds.Reject,
	}

	log := s.logger.WithContext(ctx).WithField("records", len(records))

	if s.config.UseProbabilistic {
		err := s.resolveProbabilistic(ctx, records, result)
		if err == nil {
			log.WithFields(map[string]interface{}{
				"output":  len(result.Records),
				"matches": len(result.Matches),
				"review":  len(result.ReviewQueue),
			}).Info("Probabilistic resolution complete")
			return result
		}

		backendErr := models.NewResolutionBackendError("probabilistic", err)
		log.WithError(backendErr).Warn("Probabilistic resolution failed; degrading to fallback resolver")
		result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
			Stage:   "resolution",
			Code:    "backend_degraded",
			Message: backendErr.Error(),
		})
		result.Matches = nil
		result.ReviewQueue = nil
	}

	result.UsedFallback = true
	result.Records = ResolveFallback(records)
	log.WithField("output", len(result.Records)).Info("Fallback resolution complete")
	return result
}

// resolveProbabilistic scores blocked pairs, classifies them, clusters the
// high-confidence links, and builds the review queue from mid-band pairs.
// Every scored pair lands in the match table, reject-labeled ones included,
// so audits can see what was ruled out and why.
func (s *Service) resolveProbabilistic(ctx context.Context, records []models.CanonicalRecord, result *models.LinkageResult) error {
	pairs := s.blocker.Pairs(records)

	links := make([]Pair, 0)
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}

		left, right := records[pair.Left], records[pair.Right]
		probability := matchProbability(s.scorer, s.config.Comparisons, left, right)
		label := s.config.Thresholds.Classify(probability)

		prediction := models.MatchPrediction{
			MatchID:     fingerprint.MatchID(left.Slug, right.Slug),
			LeftID:      left.Slug,
			RightID:     right.Slug,
			Probability: probability,
			Label:       label,
		}
		result.Matches = append(result.Matches, prediction)

		switch label {
		case models.LabelMatch:
			links = append(links, pair)
		case models.LabelReview:
			result.ReviewQueue = append(result.ReviewQueue, s.projector.Item(prediction, left, right))
		}
	}

	result.Records = clusterRecords(records, links)
	return nil
}
