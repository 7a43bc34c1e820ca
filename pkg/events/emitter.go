// Package events handles event emission for match lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Emitter handles match event emission
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMatchCreated emits a match.created event
func (e *Emitter) EmitMatchCreated(ctx context.Context, match *models.Match) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchCreated")
	defer span.End()

	event := &kafka.MatchEvent{
		EventType:    "match.created",
		MatchID:      match.ID,
		StartupID:    match.StartupID,
		InvestorID:   match.InvestorID,
		MatchScore:   match.MatchScore,
		Status:       match.Status,
		InitiatedBy:  match.InitiatedBy,
		MatchReasons: match.MatchReasons,
	}

	if err := e.producer.PublishMatchEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.created event")
		return err
	}

	return nil
}

// EmitMatchStatusChanged emits a match.status_changed event
func (e *Emitter) EmitMatchStatusChanged(ctx context.Context, match *models.Match) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchStatusChanged")
	defer span.End()

	event := &kafka.MatchEvent{
		EventType:  "match.status_changed",
		MatchID:    match.ID,
		StartupID:  match.StartupID,
		InvestorID: match.InvestorID,
		MatchScore: match.MatchScore,
		Status:     match.Status,
	}

	if err := e.producer.PublishMatchEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.status_changed event")
		return err
	}

	return nil
}
