package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeStartupStore struct {
	byUser    map[string]*models.Startup
	published []models.Startup
}

func (f *fakeStartupStore) GetByUserID(ctx context.Context, userID string) (*models.Startup, error) {
	return f.byUser[userID], nil
}

func (f *fakeStartupStore) ListPublished(ctx context.Context) ([]models.Startup, error) {
	return f.published, nil
}

type fakeInvestorStore struct {
	byUser map[string]*models.Investor
	active []models.Investor
}

func (f *fakeInvestorStore) GetByUserID(ctx context.Context, userID string) (*models.Investor, error) {
	return f.byUser[userID], nil
}

func (f *fakeInvestorStore) ListActive(ctx context.Context) ([]models.Investor, error) {
	return f.active, nil
}

type fakeMatchStore struct {
	rows    map[string]*models.Match
	creates int
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{rows: make(map[string]*models.Match)}
}

func pairKey(startupID, investorID string) string {
	return startupID + "|" + investorID
}

func (f *fakeMatchStore) GetByPair(ctx context.Context, startupID, investorID string) (*models.Match, error) {
	return f.rows[pairKey(startupID, investorID)], nil
}

func (f *fakeMatchStore) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	key := pairKey(match.StartupID, match.InvestorID)
	if _, exists := f.rows[key]; exists {
		return nil, nil
	}
	f.creates++
	match.ID = fmt.Sprintf("match-%d", f.creates)
	stored := *match
	f.rows[key] = &stored
	return match, nil
}

// flakyMatchStore rejects inserts for a single investor and delegates the
// rest.
type flakyMatchStore struct {
	*fakeMatchStore
	failInvestorID string
}

func (f *flakyMatchStore) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.InvestorID == f.failInvestorID {
		return nil, fmt.Errorf("insert rejected")
	}
	return f.fakeMatchStore.Create(ctx, match)
}

type fakeEmitter struct {
	created int
}

func (f *fakeEmitter) EmitMatchCreated(ctx context.Context, match *models.Match) error {
	f.created++
	return nil
}

type fakeProjector struct {
	projected int
}

func (f *fakeProjector) ProjectMatch(ctx context.Context, match *models.Match) error {
	f.projected++
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// anchorStartup scores 100 against perfectInvestor.
func anchorStartup() *models.Startup {
	return &models.Startup{
		ID:            "s1",
		UserID:        "user-s1",
		Name:          "Acme Pay",
		Industry:      []string{"fintech"},
		Stage:         "seed",
		BusinessModel: "b2b",
		TargetAmount:  i64(500000),
		Status:        models.StartupStatusPublished,
	}
}

func perfectInvestor() models.Investor {
	return models.Investor{
		ID:                    "i100",
		UserID:                "user-i100",
		InvestmentIndustries:  []string{"fintech"},
		InvestmentStages:      []string{"seed"},
		BusinessModels:        []string{"b2b"},
		CheckSizeMin:          i64(100),
		CheckSizeMax:          i64(1000),
		InvestmentGeographies: []string{"global"},
		Status:                models.InvestorStatusActive,
	}
}

// thresholdInvestor scores exactly 30 against anchorStartup: related industry
// (25) plus global scope (5).
func thresholdInvestor() models.Investor {
	return models.Investor{
		ID:                    "i30",
		UserID:                "user-i30",
		InvestmentIndustries:  []string{"payments"},
		InvestmentStages:      []string{"series-c"},
		BusinessModels:        []string{"consumer"},
		InvestmentGeographies: []string{"global"},
		Status:                models.InvestorStatusActive,
	}
}

// belowThresholdInvestor scores 28: related industry (25) plus regional
// scope (3).
func belowThresholdInvestor() models.Investor {
	return models.Investor{
		ID:                    "i28",
		UserID:                "user-i28",
		InvestmentIndustries:  []string{"banking"},
		InvestmentStages:      []string{"series-c"},
		BusinessModels:        []string{"consumer"},
		InvestmentGeographies: []string{"europe"},
		Status:                models.InvestorStatusActive,
	}
}

func newTestGenerator(startups *fakeStartupStore, investors *fakeInvestorStore, matches *fakeMatchStore, cfg Config) *Generator {
	return NewGenerator(testLogger(), startups, investors, matches, nil, nil, cfg)
}

func TestGenerator_GenerateMatches_ThresholdAndOrdering(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{
		belowThresholdInvestor(),
		thresholdInvestor(),
		perfectInvestor(),
	}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, "i100", created[0].InvestorID)
	assert.Equal(t, 100, created[0].MatchScore)
	assert.Equal(t, "i30", created[1].InvestorID)
	assert.Equal(t, 30, created[1].MatchScore)

	for _, match := range created {
		assert.Equal(t, "s1", match.StartupID)
		assert.Equal(t, models.MatchStatusPending, match.Status)
		assert.Equal(t, models.InitiatedBySystem, match.InitiatedBy)
		assert.NotEmpty(t, match.MatchReasons)
	}
}

func TestGenerator_GenerateMatches_SecondRunCreatesNothing(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{perfectInvestor(), thresholdInvestor()}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	first, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, store.creates)
}

func TestGenerator_GenerateMatches_SkipsCandidateWhenPersistFails(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{perfectInvestor(), thresholdInvestor()}}
	store := &flakyMatchStore{fakeMatchStore: newFakeMatchStore(), failInvestorID: "i100"}

	gen := NewGenerator(testLogger(), startups, investors, store, nil, nil, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "i30", created[0].InvestorID)
	assert.Equal(t, 1, store.creates)
}

func TestGenerator_GenerateMatches_CapsPersistedMatches(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}

	active := make([]models.Investor, 0, 25)
	for i := 0; i < 25; i++ {
		investor := perfectInvestor()
		investor.ID = fmt.Sprintf("i-%d", i)
		investor.UserID = fmt.Sprintf("user-i-%d", i)
		active = append(active, investor)
	}
	investors := &fakeInvestorStore{active: active}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	assert.Len(t, created, DefaultConfig().MaxGenerated)
}

func TestGenerator_GenerateMatches_EmptyCandidatePool(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Empty(t, created)
}

func TestGenerator_GenerateMatches_ProfileNotFound(t *testing.T) {
	gen := newTestGenerator(&fakeStartupStore{}, &fakeInvestorStore{}, newFakeMatchStore(), DefaultConfig())

	_, err := gen.GenerateMatches(context.Background(), "missing-user", models.UserTypeStartup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup profile not found")

	_, err = gen.GenerateMatches(context.Background(), "missing-user", models.UserTypeInvestor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "investor profile not found")
}

func TestGenerator_GenerateMatches_InvalidUserType(t *testing.T) {
	gen := newTestGenerator(&fakeStartupStore{}, &fakeInvestorStore{}, newFakeMatchStore(), DefaultConfig())

	_, err := gen.GenerateMatches(context.Background(), "user-s1", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_type must be startup or investor")
}

func TestGenerator_GenerateMatches_InvestorDirection(t *testing.T) {
	startup := anchorStartup()
	investor := perfectInvestor()
	startups := &fakeStartupStore{
		byUser:    map[string]*models.Startup{startup.UserID: startup},
		published: []models.Startup{*startup},
	}
	investors := &fakeInvestorStore{byUser: map[string]*models.Investor{investor.UserID: &investor}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), investor.UserID, models.UserTypeInvestor)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "s1", created[0].StartupID)
	assert.Equal(t, "i100", created[0].InvestorID)
	assert.Equal(t, 100, created[0].MatchScore)
}

func TestGenerator_Preview_IsSymmetric(t *testing.T) {
	startup := anchorStartup()
	investor := perfectInvestor()

	startups := &fakeStartupStore{
		byUser:    map[string]*models.Startup{startup.UserID: startup},
		published: []models.Startup{*startup},
	}
	investors := &fakeInvestorStore{
		byUser: map[string]*models.Investor{investor.UserID: &investor},
		active: []models.Investor{investor},
	}

	gen := newTestGenerator(startups, investors, newFakeMatchStore(), DefaultConfig())

	fromStartup, err := gen.GenerateMatchesForStartup(context.Background(), startup.UserID)
	require.NoError(t, err)
	fromInvestor, err := gen.GenerateMatchesForInvestor(context.Background(), investor.UserID)
	require.NoError(t, err)

	require.Len(t, fromStartup, 1)
	require.Len(t, fromInvestor, 1)
	assert.Equal(t, fromStartup[0].Score, fromInvestor[0].Score)
	assert.Equal(t, fromStartup[0].Reasons, fromInvestor[0].Reasons)
}

func TestGenerator_Preview_DoesNotPersist(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{
		perfectInvestor(),
		thresholdInvestor(),
		belowThresholdInvestor(),
	}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	results, err := gen.GenerateMatchesForStartup(context.Background(), startup.UserID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "i100", results[0].InvestorID)
	assert.Equal(t, "i30", results[1].InvestorID)
	assert.Zero(t, store.creates)
}

func TestGenerator_Preview_CapsAtPreviewLimit(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}

	active := make([]models.Investor, 0, 60)
	for i := 0; i < 60; i++ {
		investor := perfectInvestor()
		investor.ID = fmt.Sprintf("i-%d", i)
		active = append(active, investor)
	}
	investors := &fakeInvestorStore{active: active}

	gen := newTestGenerator(startups, investors, newFakeMatchStore(), DefaultConfig())

	results, err := gen.GenerateMatchesForStartup(context.Background(), startup.UserID)
	require.NoError(t, err)
	assert.Len(t, results, DefaultConfig().MaxPreview)
}

func TestGenerator_NotifiesOnCreate(t *testing.T) {
	startup := anchorStartup()
	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{perfectInvestor(), thresholdInvestor()}}
	store := newFakeMatchStore()
	emitter := &fakeEmitter{}
	projector := &fakeProjector{}

	gen := NewGenerator(testLogger(), startups, investors, store, emitter, projector, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 2, emitter.created)
	assert.Equal(t, 2, projector.projected)

	// Nothing new on the second run, so nothing to notify about
	_, err = gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)
	assert.Equal(t, 2, emitter.created)
	assert.Equal(t, 2, projector.projected)
}

func TestGenerator_CreateMatch_ForcesPendingStatus(t *testing.T) {
	store := newFakeMatchStore()
	gen := newTestGenerator(&fakeStartupStore{}, &fakeInvestorStore{}, store, DefaultConfig())

	created, err := gen.CreateMatch(context.Background(), "s1", "i1", 87, []string{"Perfect industry alignment"}, models.InitiatedByStartup)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.MatchStatusPending, created.Status)
	assert.Equal(t, models.InitiatedByStartup, created.InitiatedBy)
	assert.Equal(t, 87, created.MatchScore)

	// Same pair again is a no-op
	again, err := gen.CreateMatch(context.Background(), "s1", "i1", 87, nil, models.InitiatedByStartup)
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, 1, store.creates)
}
