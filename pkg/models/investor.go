package models

import (
	"time"

	"github.com/lib/pq"
)

// Investor lifecycle states. Only active investors are considered as match
// candidates for startups.
const (
	InvestorStatusActive   = "active"
	InvestorStatusInactive = "inactive"
)

// Sentinel industry tags for investors without a sector focus.
const (
	IndustryGeneralist     = "generalist"
	IndustrySectorAgnostic = "sector-agnostic"
)

// Sentinel geography tags for investors without a regional focus.
const (
	GeographyGlobal    = "global"
	GeographyWorldwide = "worldwide"
)

// Investor is an investor profile with its investment thesis.
type Investor struct {
	ID                   string         `json:"id" db:"id"`
	UserID               string         `json:"user_id" db:"user_id"`
	Name                 string         `json:"name" db:"name"`
	InvestmentIndustries pq.StringArray `json:"investment_industries" db:"investment_industries"`
	InvestmentStages     pq.StringArray `json:"investment_stages" db:"investment_stages"`
	BusinessModels       pq.StringArray `json:"business_models" db:"business_models"`
	// Check sizes are stored in thousands of currency units, unlike startup
	// target amounts which are raw units.
	CheckSizeMin          *int64         `json:"check_size_min,omitempty" db:"check_size_min"`
	CheckSizeMax          *int64         `json:"check_size_max,omitempty" db:"check_size_max"`
	InvestmentGeographies pq.StringArray `json:"investment_geographies" db:"investment_geographies"`
	Status                string         `json:"status" db:"status"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateInvestorRequest is the request body for creating an investor profile
type CreateInvestorRequest struct {
	UserID                string   `json:"user_id" validate:"required"`
	Name                  string   `json:"name" validate:"required"`
	InvestmentIndustries  []string `json:"investment_industries"`
	InvestmentStages      []string `json:"investment_stages"`
	BusinessModels        []string `json:"business_models"`
	CheckSizeMin          *int64   `json:"check_size_min,omitempty"`
	CheckSizeMax          *int64   `json:"check_size_max,omitempty"`
	InvestmentGeographies []string `json:"investment_geographies"`
}

// UpdateInvestorRequest is the request body for updating an investor profile
type UpdateInvestorRequest struct {
	Name                  *string  `json:"name,omitempty"`
	InvestmentIndustries  []string `json:"investment_industries,omitempty"`
	InvestmentStages      []string `json:"investment_stages,omitempty"`
	BusinessModels        []string `json:"business_models,omitempty"`
	CheckSizeMin          *int64   `json:"check_size_min,omitempty"`
	CheckSizeMax          *int64   `json:"check_size_max,omitempty"`
	InvestmentGeographies []string `json:"investment_geographies,omitempty"`
	Status                *string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
