package investorprofile

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/investorprofile"
	"github.com/Ramsey-B/clover/pkg/models"
)

var validate = validator.New()

// Register registers investor profile routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/:id", Get)
	g.PUT("/:id", Update)
}

// List lists investor profiles, optionally filtered by status
func List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = parsed
	}

	ctx, repo, err := ectoinject.GetContext[*investorprofile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	investors, err := repo.List(ctx, c.QueryParam("status"), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, investors)
}

// Get gets an investor profile by ID
func Get(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*investorprofile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	investor, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, investor)
}

// Create creates a new investor profile
func Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateInvestorRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.CheckSizeMin != nil && req.CheckSizeMax != nil && *req.CheckSizeMin > *req.CheckSizeMax {
		return httperror.NewHTTPError(http.StatusBadRequest, "check_size_min must not exceed check_size_max")
	}

	ctx, repo, err := ectoinject.GetContext[*investorprofile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	investor := &models.Investor{
		UserID:                req.UserID,
		Name:                  req.Name,
		InvestmentIndustries:  req.InvestmentIndustries,
		InvestmentStages:      req.InvestmentStages,
		BusinessModels:        req.BusinessModels,
		CheckSizeMin:          req.CheckSizeMin,
		CheckSizeMax:          req.CheckSizeMax,
		InvestmentGeographies: req.InvestmentGeographies,
	}

	created, err := repo.Create(ctx, investor)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created investor profile")
	}

	return c.JSON(http.StatusCreated, created)
}

// Update updates an investor profile
func Update(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	var req models.UpdateInvestorRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.CheckSizeMin != nil && req.CheckSizeMax != nil && *req.CheckSizeMin > *req.CheckSizeMax {
		return httperror.NewHTTPError(http.StatusBadRequest, "check_size_min must not exceed check_size_max")
	}

	ctx, repo, err := ectoinject.GetContext[*investorprofile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}
