package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// LineageService projects a run's output into the graph: one Organization
// node per canonical record, MATCHED_TO edges for scored pairs.
type LineageService struct {
	client *Client
	logger ectologger.Logger
}

// NewLineageService creates a new lineage service
func NewLineageService(client *Client, logger ectologger.Logger) *LineageService {
	return &LineageService{
		client: client,
		logger: logger,
	}
}

// ProjectRun writes the run's records and match edges in one pass.
func (s *LineageService) ProjectRun(ctx context.Context, runID string, result *models.LinkageResult) error {
	ctx, span := tracing.StartSpan(ctx, "graph.LineageService.ProjectRun")
	defer span.End()

	if err := s.projectRecords(ctx, runID, result.Records); err != nil {
		return err
	}
	return s.projectMatches(ctx, runID, result.Matches)
}

func (s *LineageService) projectRecords(ctx context.Context, runID string, records []models.CanonicalRecord) error {
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":  runID,
		"records": len(records),
	})

	cypher := `
		UNWIND $records AS rec
		MERGE (o:Organization {slug: rec.slug})
		SET o.org_name = rec.org_name,
			o.province = rec.province,
			o.primary_email = rec.primary_email,
			o.primary_phone = rec.primary_phone,
			o.lead_score = rec.lead_score,
			o.quality_score = rec.quality_score,
			o.source_count = rec.source_count,
			o.run_id = rec.run_id
	`

	params := make([]map[string]any, len(records))
	for i, rec := range records {
		params[i] = map[string]any{
			"slug":          rec.Slug,
			"org_name":      rec.OrgName,
			"province":      rec.Province,
			"primary_email": rec.PrimaryContact.Email,
			"primary_phone": rec.PrimaryContact.Phone,
			"lead_score":    rec.LeadScore,
			"quality_score": rec.DataQualityScore,
			"source_count":  rec.SourceCount,
			"run_id":        runID,
		}
	}

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"records": params})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		log.WithError(err).Error("Failed to project records into graph")
		return fmt.Errorf("failed to project records into graph: %w", err)
	}

	log.Debug("Projected records into graph")
	return nil
}

func (s *LineageService) projectMatches(ctx context.Context, runID string, matches []models.MatchPrediction) error {
	if len(matches) == 0 {
		return nil
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":  runID,
		"matches": len(matches),
	})

	cypher := `
		UNWIND $matches AS m
		MERGE (a:Organization {slug: m.left_id})
		MERGE (b:Organization {slug: m.right_id})
		MERGE (a)-[r:MATCHED_TO {match_id: m.match_id}]->(b)
		SET r.probability = m.probability,
			r.label = m.label,
			r.run_id = m.run_id
	`

	params := make([]map[string]any, len(matches))
	for i, m := range matches {
		params[i] = map[string]any{
			"match_id":    m.MatchID,
			"left_id":     m.LeftID,
			"right_id":    m.RightID,
			"probability": m.Probability,
			"label":       m.Label,
			"run_id":      runID,
		}
	}

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"matches": params})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		log.WithError(err).Error("Failed to project matches into graph")
		return fmt.Errorf("failed to project matches into graph: %w", err)
	}

	log.Debug("Projected match edges into graph")
	return nil
}

// MatchedNeighbors returns the slugs linked to the given organization,
// ordered by edge probability.
func (s *LineageService) MatchedNeighbors(ctx context.Context, slug string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.LineageService.MatchedNeighbors")
	defer span.End()

	cypher := `
		MATCH (o:Organization {slug: $slug})-[r:MATCHED_TO]-(n:Organization)
		RETURN n.slug AS slug
		ORDER BY r.probability DESC
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"slug": slug})
		if err != nil {
			return nil, err
		}

		var slugs []string
		for res.Next(ctx) {
			if v, ok := res.Record().Get("slug"); ok {
				if s, ok := v.(string); ok {
					slugs = append(slugs, s)
				}
			}
		}
		return slugs, res.Err()
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to read matched neighbors")
		return nil, fmt.Errorf("failed to read matched neighbors: %w", err)
	}

	slugs, _ := result.([]string)
	return slugs, nil
}
