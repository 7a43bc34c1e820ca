package match

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/match"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

var validate = validator.New()

// Register registers match routes
func Register(g *echo.Group) {
	g.POST("/generate", GenerateMatches)
	g.GET("/preview", PreviewMatches)
	g.GET("", ListMatches)
	g.GET("/:id", GetMatch)
	g.POST("/:id/status", UpdateMatchStatus)
	g.GET("/network/shared-investors/:startupID", SharedInvestors)
}

// GenerateMatches runs a full generation pass for a user and persists the
// resulting matches.
func GenerateMatches(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.GenerateMatchesRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, generator, err := ectoinject.GetContext[*matching.Generator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	matches, err := generator.GenerateMatches(ctx, req.UserID, req.UserType)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"user_id":   req.UserID,
			"user_type": req.UserType,
			"generated": len(matches),
		}).Info("Generated matches")
	}

	return c.JSON(http.StatusOK, models.GenerateMatchesResponse{
		Success:        true,
		TotalGenerated: len(matches),
		Matches:        matches,
	})
}

// PreviewMatches scores candidates for a user without persisting anything
func PreviewMatches(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.QueryParam("user_id")
	userType := c.QueryParam("user_type")
	if userID == "" || userType == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "user_id and user_type query parameters are required")
	}

	ctx, generator, err := ectoinject.GetContext[*matching.Generator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	var results []matching.Result
	switch userType {
	case models.UserTypeStartup:
		results, err = generator.GenerateMatchesForStartup(ctx, userID)
	case models.UserTypeInvestor:
		results, err = generator.GenerateMatchesForInvestor(ctx, userID)
	default:
		return httperror.NewHTTPError(http.StatusBadRequest, "user_type must be startup or investor")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, results)
}

// ListMatches lists matches, optionally filtered by startup, investor, or status
func ListMatches(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = parsed
	}

	ctx, repo, err := ectoinject.GetContext[*match.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	matches, err := repo.List(ctx, c.QueryParam("startup_id"), c.QueryParam("investor_id"), c.QueryParam("status"), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, matches)
}

// GetMatch gets a match by ID
func GetMatch(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*match.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

// UpdateMatchStatus transitions a match to a new status
func UpdateMatchStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	var req models.UpdateMatchStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*match.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)

	// Side effects are best effort; the row is already updated.
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil && emitter != nil {
		if err := emitter.EmitMatchStatusChanged(ctx, updated); err != nil && logger != nil {
			logger.WithContext(ctx).WithError(err).Warn("Failed to emit match status change event")
		}
	}
	if ctx, graphSvc, err := ectoinject.GetContext[*graph.MatchService](ctx); err == nil && graphSvc != nil {
		if err := graphSvc.UpdateMatchStatus(ctx, updated.ID, updated.Status); err != nil && logger != nil {
			logger.WithContext(ctx).WithError(err).Warn("Failed to update match status in graph")
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// SharedInvestors returns startups that share investors with the given
// startup, ranked by the number of shared matches
func SharedInvestors(c echo.Context) error {
	ctx := c.Request().Context()

	startupID := c.Param("startupID")

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	ctx, graphSvc, err := ectoinject.GetContext[*graph.MatchService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "graph database is not enabled")
	}

	shared, err := graphSvc.SharedInvestors(ctx, startupID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shared)
}
