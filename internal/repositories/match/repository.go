package match

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const table = "matches"

var columns = []string{"id", "startup_id", "investor_id", "match_score", "status", "initiated_by", "match_reasons", "created_at", "updated_at"}

// Repository handles match persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a match row. The insert is ON CONFLICT DO NOTHING against
// the (startup_id, investor_id) unique constraint, so a concurrent run that
// wins the race simply makes this call return nil instead of a duplicate.
func (r *Repository) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.Create")
	defer span.End()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.Status == "" {
		match.Status = models.MatchStatusPending
	}
	match.CreatedAt = time.Now().UTC()
	match.UpdatedAt = match.CreatedAt

	ib := database.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols(columns...)
	ib.Values(match.ID, match.StartupID, match.InvestorID, match.MatchScore, match.Status, match.InitiatedBy, match.MatchReasons, match.CreatedAt, match.UpdatedAt)
	ib.OnConflictDoNothing("startup_id", "investor_id")
	ib.Returning("id")

	query, args := ib.Build()
	var insertedID string
	if err := r.db.GetContext(ctx, &insertedID, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			// Conflict: the pair already exists
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"startup_id":  match.StartupID,
			"investor_id": match.InvestorID,
		}).Error("Failed to create match")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match")
	}

	return match, nil
}

// Get retrieves a match by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var match models.Match
	if err := r.db.GetContext(ctx, &match, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match")
	}

	return &match, nil
}

// GetByPair retrieves the match for a (startup, investor) pair. Returns nil
// when the pair has never been matched.
func (r *Repository) GetByPair(ctx context.Context, startupID, investorID string) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.GetByPair")
	defer span.End()

	query := `
		SELECT id, startup_id, investor_id, match_score, status, initiated_by, match_reasons, created_at, updated_at
		FROM matches
		WHERE startup_id = $1 AND investor_id = $2
		LIMIT 1
	`

	var match models.Match
	if err := r.db.GetContext(ctx, &match, query, startupID, investorID); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match by pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match")
	}

	return &match, nil
}

// List retrieves matches filtered by startup, investor, and/or status
func (r *Repository) List(ctx context.Context, startupID, investorID, status string, limit int) ([]models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)

	where := []string{}
	if startupID != "" {
		where = append(where, sb.Equal("startup_id", startupID))
	}
	if investorID != "" {
		where = append(where, sb.Equal("investor_id", investorID))
	}
	if status != "" {
		where = append(where, sb.Equal("status", status))
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
	sb.OrderBy("match_score DESC", "created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var matches []models.Match
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list matches")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list matches")
	}

	return matches, nil
}

// UpdateStatus transitions a match to a new status. Illegal lifecycle moves
// are rejected with a 409.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status string) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.UpdateStatus")
	defer span.End()

	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionMatchStatus(existing.Status, status) {
		return nil, httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("match cannot move from %s to %s", existing.Status, status))
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update(table)
	sb.Set(
		sb.Assign("status", status),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update match status")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update match status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match %s not found", id))
	}

	return r.Get(ctx, id)
}
