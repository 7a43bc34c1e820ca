package models

import (
	"time"

	"github.com/lib/pq"
)

// Match lifecycle states.
const (
	MatchStatusPending          = "pending"
	MatchStatusInterested       = "interested"
	MatchStatusNotInterested    = "not-interested"
	MatchStatusMeetingScheduled = "meeting-scheduled"
	MatchStatusDealClosed       = "deal-closed"
)

// matchStatusTransitions maps each lifecycle state to the states it may move
// to. not-interested and deal-closed are terminal.
var matchStatusTransitions = map[string][]string{
	MatchStatusPending:          {MatchStatusInterested, MatchStatusNotInterested},
	MatchStatusInterested:       {MatchStatusNotInterested, MatchStatusMeetingScheduled},
	MatchStatusMeetingScheduled: {MatchStatusNotInterested, MatchStatusDealClosed},
}

// CanTransitionMatchStatus reports whether a match may move from one
// lifecycle state to another.
func CanTransitionMatchStatus(from, to string) bool {
	for _, allowed := range matchStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Who initiated a match.
const (
	InitiatedBySystem   = "system"
	InitiatedByStartup  = "startup"
	InitiatedByInvestor = "investor"
)

// UserType discriminates the two sides of the marketplace.
const (
	UserTypeStartup  = "startup"
	UserTypeInvestor = "investor"
)

// Match is a persisted compatibility match between a startup and an investor.
// At most one row exists per (startup_id, investor_id) pair.
type Match struct {
	ID           string         `json:"id" db:"id"`
	StartupID    string         `json:"startup_id" db:"startup_id"`
	InvestorID   string         `json:"investor_id" db:"investor_id"`
	MatchScore   int            `json:"match_score" db:"match_score"`
	Status       string         `json:"status" db:"status"`
	InitiatedBy  string         `json:"initiated_by" db:"initiated_by"`
	MatchReasons pq.StringArray `json:"match_reasons" db:"match_reasons"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// GenerateMatchesRequest is the request body for a match generation run
type GenerateMatchesRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	UserType string `json:"user_type" validate:"required,oneof=startup investor"`
}

// GenerateMatchesResponse is the response for a match generation run
type GenerateMatchesResponse struct {
	Success        bool    `json:"success"`
	TotalGenerated int     `json:"total_generated"`
	Matches        []Match `json:"matches"`
}

// UpdateMatchStatusRequest is the request body for a match status transition
type UpdateMatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending interested not-interested meeting-scheduled deal-closed"`
}
