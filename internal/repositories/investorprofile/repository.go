package investorprofile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const table = "investors"

var columns = []string{"id", "user_id", "name", "investment_industries", "investment_stages", "business_models", "check_size_min", "check_size_max", "investment_geographies", "status", "created_at", "updated_at"}

// Repository handles investor profile persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new investor profile repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new investor profile
func (r *Repository) Create(ctx context.Context, investor *models.Investor) (*models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.Create")
	defer span.End()

	if investor.ID == "" {
		investor.ID = uuid.New().String()
	}
	if investor.Status == "" {
		investor.Status = models.InvestorStatusActive
	}
	investor.CreatedAt = time.Now().UTC()
	investor.UpdatedAt = investor.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(investor.ID, investor.UserID, investor.Name, investor.InvestmentIndustries, investor.InvestmentStages, investor.BusinessModels, investor.CheckSizeMin, investor.CheckSizeMax, investor.InvestmentGeographies, investor.Status, investor.CreatedAt, investor.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"investor_id": investor.ID}).Error("Failed to create investor profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create investor profile")
	}

	return investor, nil
}

// Get retrieves an investor profile by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var investor models.Investor
	if err := r.db.GetContext(ctx, &investor, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("investor %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get investor profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get investor profile")
	}

	return &investor, nil
}

// GetByUserID retrieves the investor profile owned by a user. Returns nil
// when the user has no investor profile.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.GetByUserID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("user_id", userID))
	sb.Limit(1)

	query, args := sb.Build()
	var investor models.Investor
	if err := r.db.GetContext(ctx, &investor, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get investor profile by user_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get investor profile")
	}

	return &investor, nil
}

// ListActive retrieves all active investors, the candidate pool for startup
// match generation.
func (r *Repository) ListActive(ctx context.Context) ([]models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.ListActive")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("status", models.InvestorStatusActive))
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var investors []models.Investor
	if err := r.db.SelectContext(ctx, &investors, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list active investors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list investors")
	}

	return investors, nil
}

// List retrieves investors with an optional status filter
func (r *Repository) List(ctx context.Context, status string, limit int) ([]models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	if status != "" {
		sb.Where(sb.Equal("status", status))
	}
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var investors []models.Investor
	if err := r.db.SelectContext(ctx, &investors, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list investors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list investors")
	}

	return investors, nil
}

// Update applies the non-nil fields of the request to an investor profile
func (r *Repository) Update(ctx context.Context, id string, req *models.UpdateInvestorRequest) (*models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investorprofile.Repository.Update")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update(table)

	assignments := []string{sb.Assign("updated_at", now)}
	if req.Name != nil {
		assignments = append(assignments, sb.Assign("name", *req.Name))
	}
	if req.InvestmentIndustries != nil {
		assignments = append(assignments, sb.Assign("investment_industries", pq.StringArray(req.InvestmentIndustries)))
	}
	if req.InvestmentStages != nil {
		assignments = append(assignments, sb.Assign("investment_stages", pq.StringArray(req.InvestmentStages)))
	}
	if req.BusinessModels != nil {
		assignments = append(assignments, sb.Assign("business_models", pq.StringArray(req.BusinessModels)))
	}
	if req.CheckSizeMin != nil {
		assignments = append(assignments, sb.Assign("check_size_min", *req.CheckSizeMin))
	}
	if req.CheckSizeMax != nil {
		assignments = append(assignments, sb.Assign("check_size_max", *req.CheckSizeMax))
	}
	if req.InvestmentGeographies != nil {
		assignments = append(assignments, sb.Assign("investment_geographies", pq.StringArray(req.InvestmentGeographies)))
	}
	if req.Status != nil {
		assignments = append(assignments, sb.Assign("status", *req.Status))
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("id", id))

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	query, args := sb.Build()
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update investor profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update investor profile")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("investor %s not found", id))
	}

	gb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	gb.Select(columns...)
	gb.From(table)
	gb.Where(gb.Equal("id", id))

	query, args = gb.Build()
	var investor models.Investor
	if err := tx.GetContext(ctx, &investor, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to reread investor profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update investor profile")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return &investor, nil
}
