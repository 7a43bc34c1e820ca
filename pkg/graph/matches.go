package graph

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// MatchService maintains the match network projection:
// (:Startup)-[:MATCHED_WITH]->(:Investor). Nodes carry only identifiers; the
// relational store stays the source of truth.
type MatchService struct {
	client *Client
	logger ectologger.Logger
}

// NewMatchService creates a new match graph service
func NewMatchService(client *Client, logger ectologger.Logger) *MatchService {
	return &MatchService{
		client: client,
		logger: logger,
	}
}

// ProjectMatch upserts both endpoint nodes and the MATCHED_WITH edge for a
// match. Safe to call repeatedly; MERGE keeps the projection idempotent.
func (s *MatchService) ProjectMatch(ctx context.Context, match *models.Match) error {
	ctx, span := tracing.StartSpan(ctx, "graph.MatchService.ProjectMatch")
	defer span.End()

	cypher := `
		MERGE (st:Startup {id: $startup_id})
		MERGE (inv:Investor {id: $investor_id})
		MERGE (st)-[r:MATCHED_WITH {match_id: $match_id}]->(inv)
		SET r.score = $score, r.status = $status
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, cypher, map[string]any{
			"startup_id":  match.StartupID,
			"investor_id": match.InvestorID,
			"match_id":    match.ID,
			"score":       match.MatchScore,
			"status":      match.Status,
		})
		return nil, err
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"match_id": match.ID}).Error("Failed to project match into graph")
		return err
	}

	return nil
}

// UpdateMatchStatus refreshes the status property on a projected edge
func (s *MatchService) UpdateMatchStatus(ctx context.Context, matchID string, status string) error {
	ctx, span := tracing.StartSpan(ctx, "graph.MatchService.UpdateMatchStatus")
	defer span.End()

	cypher := `
		MATCH ()-[r:MATCHED_WITH {match_id: $match_id}]->()
		SET r.status = $status
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, cypher, map[string]any{
			"match_id": matchID,
			"status":   status,
		})
		return nil, err
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"match_id": matchID}).Error("Failed to update match status in graph")
		return err
	}

	return nil
}

// SharedInvestors returns startups that share at least one matched investor
// with the given startup, with the count of shared investors per startup.
func (s *MatchService) SharedInvestors(ctx context.Context, startupID string, limit int) (map[string]int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.MatchService.SharedInvestors")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 25
	}

	cypher := `
		MATCH (st:Startup {id: $startup_id})-[:MATCHED_WITH]->(inv:Investor)<-[:MATCHED_WITH]-(other:Startup)
		WHERE other.id <> $startup_id
		RETURN other.id AS startup_id, count(DISTINCT inv) AS shared
		ORDER BY shared DESC
		LIMIT $limit
	`

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"startup_id": startupID,
			"limit":      limit,
		})
		if err != nil {
			return nil, err
		}

		shared := make(map[string]int64)
		for result.Next(ctx) {
			record := result.Record()
			rawID, _ := record.Get("startup_id")
			rawCount, _ := record.Get("shared")
			id, idOK := rawID.(string)
			count, countOK := rawCount.(int64)
			if !idOK || !countOK {
				continue
			}
			shared[id] = count
		}
		return shared, result.Err()
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to query shared investors")
		return nil, err
	}

	return res.(map[string]int64), nil
}
