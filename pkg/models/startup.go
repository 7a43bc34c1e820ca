package models

import (
	"time"

	"github.com/lib/pq"
)

// Startup lifecycle states. Only published startups are visible to investors
// as match candidates.
const (
	StartupStatusDraft     = "draft"
	StartupStatusPublished = "published"
	StartupStatusArchived  = "archived"
)

// Startup stages, ordered from earliest to latest.
const (
	StageIdea       = "idea"
	StagePrototype  = "prototype"
	StageMVP        = "mvp"
	StageEarlyStage = "early-stage"
	StageGrowth     = "growth"
	StageExpansion  = "expansion"
)

// Business models.
const (
	BusinessModelB2B         = "b2b"
	BusinessModelB2C         = "b2c"
	BusinessModelB2B2C       = "b2b2c"
	BusinessModelMarketplace = "marketplace"
	BusinessModelSaaS        = "saas"
	BusinessModelOther       = "other"
)

// Startup is a company profile seeking funding.
type Startup struct {
	ID            string         `json:"id" db:"id"`
	UserID        string         `json:"user_id" db:"user_id"`
	Name          string         `json:"name" db:"name"`
	Industry      pq.StringArray `json:"industry" db:"industry"`
	Stage         string         `json:"stage" db:"stage"`
	BusinessModel string         `json:"business_model" db:"business_model"`
	// TargetAmount is the raise target in raw currency units (dollars), unlike
	// investor check sizes which are stored in thousands.
	TargetAmount *int64         `json:"target_amount,omitempty" db:"target_amount"`
	Geography    pq.StringArray `json:"geography" db:"geography"`
	Status       string         `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateStartupRequest is the request body for creating a startup profile
type CreateStartupRequest struct {
	UserID        string   `json:"user_id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Industry      []string `json:"industry"`
	Stage         string   `json:"stage" validate:"required,oneof=idea prototype mvp early-stage growth expansion"`
	BusinessModel string   `json:"business_model" validate:"required,oneof=b2b b2c b2b2c marketplace saas other"`
	TargetAmount  *int64   `json:"target_amount,omitempty"`
	Geography     []string `json:"geography"`
}

// UpdateStartupRequest is the request body for updating a startup profile
type UpdateStartupRequest struct {
	Name          *string  `json:"name,omitempty"`
	Industry      []string `json:"industry,omitempty"`
	Stage         *string  `json:"stage,omitempty" validate:"omitempty,oneof=idea prototype mvp early-stage growth expansion"`
	BusinessModel *string  `json:"business_model,omitempty" validate:"omitempty,oneof=b2b b2c b2b2c marketplace saas other"`
	TargetAmount  *int64   `json:"target_amount,omitempty"`
	Geography     []string `json:"geography,omitempty"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}
