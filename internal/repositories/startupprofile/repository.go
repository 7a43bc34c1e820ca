package startupprofile

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

const table = "startups"

var columns = []string{"id", "user_id", "name", "industry", "stage", "business_model", "target_amount", "geography", "status", "created_at", "updated_at"}

// Repository handles startup profile persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new startup profile repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new startup profile
func (r *Repository) Create(ctx context.Context, startup *models.Startup) (*models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.Create")
	defer span.End()

	if startup.ID == "" {
		startup.ID = uuid.New().String()
	}
	if startup.Status == "" {
		startup.Status = models.StartupStatusDraft
	}
	startup.CreatedAt = time.Now().UTC()
	startup.UpdatedAt = startup.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(startup.ID, startup.UserID, startup.Name, startup.Industry, startup.Stage, startup.BusinessModel, startup.TargetAmount, startup.Geography, startup.Status, startup.CreatedAt, startup.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"startup_id": startup.ID}).Error("Failed to create startup profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create startup profile")
	}

	return startup, nil
}

// Get retrieves a startup profile by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var startup models.Startup
	if err := r.db.GetContext(ctx, &startup, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("startup %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get startup profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get startup profile")
	}

	return &startup, nil
}

// GetByUserID retrieves the startup profile owned by a user. Returns nil when
// the user has no startup profile.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.GetByUserID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("user_id", userID))
	sb.Limit(1)

	query, args := sb.Build()
	var startup models.Startup
	if err := r.db.GetContext(ctx, &startup, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get startup profile by user_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get startup profile")
	}

	return &startup, nil
}

// ListPublished retrieves all published startups, the candidate pool for
// investor match generation.
func (r *Repository) ListPublished(ctx context.Context) ([]models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.ListPublished")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("status", models.StartupStatusPublished))
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var startups []models.Startup
	if err := r.db.SelectContext(ctx, &startups, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list published startups")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list startups")
	}

	return startups, nil
}

// List retrieves startups with an optional status filter
func (r *Repository) List(ctx context.Context, status string, limit int) ([]models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.List")
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
	var startups []models.Startup
	if err := r.db.SelectContext(ctx, &startups, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list startups")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list startups")
	}

	return startups, nil
}

// Update applies the non-nil fields of the request to a startup profile
func (r *Repository) Update(ctx context.Context, id string, req *models.UpdateStartupRequest) (*models.Startup, error) {
	ctx, span := tracing.StartSpan(ctx, "startupprofile.Repository.Update")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update(table)

	assignments := []string{sb.Assign("updated_at", now)}
	if req.Name != nil {
		assignments = append(assignments, sb.Assign("name", *req.Name))
	}
	if req.Industry != nil {
		assignments = append(assignments, sb.Assign("industry", pq.StringArray(req.Industry)))
	}
	if req.Stage != nil {
		assignments = append(assignments, sb.Assign("stage", *req.Stage))
	}
	if req.BusinessModel != nil {
		assignments = append(assignments, sb.Assign("business_model", *req.BusinessModel))
	}
	if req.TargetAmount != nil {
		assignments = append(assignments, sb.Assign("target_amount", *req.TargetAmount))
	}
	if req.Geography != nil {
		assignments = append(assignments, sb.Assign("geography", pq.StringArray(req.Geography)))
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
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update startup profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update startup profile")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("startup %s not found", id))
	}

	gb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	gb.Select(columns...)
	gb.From(table)
	gb.Where(gb.Equal("id", id))

	query, args = gb.Build()
	var startup models.Startup
	if err := tx.GetContext(ctx, &startup, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to reread startup profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update startup profile")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return &startup, nil
}
