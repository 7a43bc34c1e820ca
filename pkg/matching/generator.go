package matching

import (
	"context"
	"net/http"
	"sort"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// StartupStore is the startup profile feed the generator reads from.
type StartupStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Startup, error)
	ListPublished(ctx context.Context) ([]models.Startup, error)
}

// InvestorStore is the investor profile feed the generator reads from.
type InvestorStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Investor, error)
	ListActive(ctx context.Context) ([]models.Investor, error)
}

// MatchStore persists match rows. Create must be idempotent per
// (startup_id, investor_id) pair and return nil when the pair already exists.
type MatchStore interface {
	GetByPair(ctx context.Context, startupID, investorID string) (*models.Match, error)
	Create(ctx context.Context, match *models.Match) (*models.Match, error)
}

// MatchEmitter publishes match lifecycle events. Emission is best effort; a
// failed publish never fails a generation run.
type MatchEmitter interface {
	EmitMatchCreated(ctx context.Context, match *models.Match) error
}

// MatchProjector mirrors matches into the graph projection.
type MatchProjector interface {
	ProjectMatch(ctx context.Context, match *models.Match) error
}

// Config contains configuration for the match generator.
type Config struct {
	MinScore     int // Minimum total score to keep a candidate (default: 30)
	MaxGenerated int // Cap on persisted matches per generation run (default: 20)
	MaxPreview   int // Cap on read-only enumeration results (default: 50)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinScore:     30,
		MaxGenerated: 20,
		MaxPreview:   50,
	}
}

// Generator scores an anchor profile against the opposing candidate pool and
// persists the surviving matches.
type Generator struct {
	logger    ectologger.Logger
	startups  StartupStore
	investors InvestorStore
	matches   MatchStore
	emitter   MatchEmitter
	projector MatchProjector
	cfg       Config
}

// NewGenerator creates a new match generator. emitter and projector may be
// nil when eventing or the graph projection is disabled.
func NewGenerator(
	logger ectologger.Logger,
	startups StartupStore,
	investors InvestorStore,
	matches MatchStore,
	emitter MatchEmitter,
	projector MatchProjector,
	cfg Config,
) *Generator {
	return &Generator{
		logger:    logger,
		startups:  startups,
		investors: investors,
		matches:   matches,
		emitter:   emitter,
		projector: projector,
		cfg:       cfg,
	}
}

// GenerateMatches resolves the caller's profile, scores it against every
// eligible counterpart, and persists the top candidates at or above the
// minimum score. It returns only newly created rows; pre-existing pairs are
// skipped without a score refresh.
func (g *Generator) GenerateMatches(ctx context.Context, userID string, userType string) ([]models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Generator.GenerateMatches")
	defer span.End()

	log := g.logger.WithContext(ctx).WithFields(map[string]any{
		"user_id":   userID,
		"user_type": userType,
	})

	var results []Result
	switch userType {
	case models.UserTypeStartup:
		startup, err := g.startups.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if startup == nil {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "startup profile not found")
		}
		results, err = g.scoreInvestorsFor(ctx, startup)
		if err != nil {
			return nil, err
		}
	case models.UserTypeInvestor:
		investor, err := g.investors.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if investor == nil {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "investor profile not found")
		}
		results, err = g.scoreStartupsFor(ctx, investor)
		if err != nil {
			return nil, err
		}
	default:
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "user_type must be startup or investor")
	}

	results = g.rank(results, g.cfg.MaxGenerated)

	created := make([]models.Match, 0, len(results))
	for _, result := range results {
		match, err := g.persistMatch(ctx, result)
		if err != nil {
			// Best effort: a single failed persist never aborts the batch
			log.WithError(err).WithFields(map[string]any{
				"startup_id":  result.StartupID,
				"investor_id": result.InvestorID,
			}).Warn("Failed to persist match; skipping candidate")
			continue
		}
		if match != nil {
			created = append(created, *match)
		}
	}

	log.WithFields(map[string]any{
		"scored":  len(results),
		"created": len(created),
	}).Info("Generated matches")

	return created, nil
}

// GenerateMatchesForStartup scores all active investors against a startup
// without persisting anything. Results are ranked and capped at the preview
// limit.
func (g *Generator) GenerateMatchesForStartup(ctx context.Context, userID string) ([]Result, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Generator.GenerateMatchesForStartup")
	defer span.End()

	startup, err := g.startups.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if startup == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "startup profile not found")
	}

	results, err := g.scoreInvestorsFor(ctx, startup)
	if err != nil {
		return nil, err
	}

	return g.rank(results, g.cfg.MaxPreview), nil
}

// GenerateMatchesForInvestor is the role-reversed read-only variant.
func (g *Generator) GenerateMatchesForInvestor(ctx context.Context, userID string) ([]Result, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Generator.GenerateMatchesForInvestor")
	defer span.End()

	investor, err := g.investors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if investor == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "investor profile not found")
	}

	results, err := g.scoreStartupsFor(ctx, investor)
	if err != nil {
		return nil, err
	}

	return g.rank(results, g.cfg.MaxPreview), nil
}

// CreateMatch persists a single match with status forced to pending. Store
// errors are logged and swallowed; callers receive nil for both the row and
// the error when the insert fails or the pair already exists.
func (g *Generator) CreateMatch(ctx context.Context, startupID, investorID string, score int, reasons []string, initiatedBy string) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Generator.CreateMatch")
	defer span.End()

	match := &models.Match{
		StartupID:    startupID,
		InvestorID:   investorID,
		MatchScore:   score,
		Status:       models.MatchStatusPending,
		InitiatedBy:  initiatedBy,
		MatchReasons: reasons,
	}

	created, err := g.matches.Create(ctx, match)
	if err != nil {
		g.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"startup_id":  startupID,
			"investor_id": investorID,
		}).Error("Failed to create match")
		return nil, nil
	}

	if created != nil {
		g.notify(ctx, created)
	}

	return created, nil
}

func (g *Generator) scoreInvestorsFor(ctx context.Context, startup *models.Startup) ([]Result, error) {
	investors, err := g.investors.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(investors))
	for i := range investors {
		results = append(results, CalculateMatchScore(startup, &investors[i]))
	}
	return results, nil
}

func (g *Generator) scoreStartupsFor(ctx context.Context, investor *models.Investor) ([]Result, error) {
	startups, err := g.startups.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(startups))
	for i := range startups {
		results = append(results, CalculateMatchScore(&startups[i], investor))
	}
	return results, nil
}

// rank filters below-threshold results, sorts descending by total, and caps
// the list.
func (g *Generator) rank(results []Result, limit int) []Result {
	kept := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Score.Total >= g.cfg.MinScore {
			kept = append(kept, result)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score.Total > kept[j].Score.Total
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// persistMatch inserts a match row for a scored pair unless one already
// exists. Returns nil without error when the pair was already matched.
func (g *Generator) persistMatch(ctx context.Context, result Result) (*models.Match, error) {
	existing, err := g.matches.GetByPair(ctx, result.StartupID, result.InvestorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	match := &models.Match{
		StartupID:    result.StartupID,
		InvestorID:   result.InvestorID,
		MatchScore:   result.Score.Total,
		Status:       models.MatchStatusPending,
		InitiatedBy:  models.InitiatedBySystem,
		MatchReasons: result.Reasons,
	}

	// Create is ON CONFLICT DO NOTHING, so a concurrent run inserting the
	// same pair first yields nil here instead of a duplicate row.
	created, err := g.matches.Create(ctx, match)
	if err != nil {
		return nil, err
	}

	if created != nil {
		g.notify(ctx, created)
	}

	return created, nil
}

func (g *Generator) notify(ctx context.Context, match *models.Match) {
	if g.emitter != nil {
		if err := g.emitter.EmitMatchCreated(ctx, match); err != nil {
			g.logger.WithContext(ctx).WithError(err).Warn("Failed to emit match.created event")
		}
	}

	if g.projector != nil {
		if err := g.projector.ProjectMatch(ctx, match); err != nil {
			g.logger.WithContext(ctx).WithError(err).Warn("Failed to project match into graph")
		}
	}
}
