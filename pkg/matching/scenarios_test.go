package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Scenario: a seed-stage fintech raising 500k is matched against a small
// investor pool with very different theses.
func TestScenario_SeedFintechRaise(t *testing.T) {
	startup := &models.Startup{
		ID:            "s-payflow",
		UserID:        "user-payflow",
		Name:          "PayFlow",
		Industry:      []string{"FinTech", "Payments"},
		Stage:         "Seed",
		BusinessModel: "B2B",
		TargetAmount:  i64(500000),
		Geography:     []string{"europe"},
		Status:        models.StartupStatusPublished,
	}

	fintechLead := models.Investor{
		ID:                    "i-fintech-lead",
		UserID:                "user-fintech-lead",
		Name:                  "Ledger Capital",
		InvestmentIndustries:  []string{"fintech"},
		InvestmentStages:      []string{"seed", "series-a"},
		BusinessModels:        []string{"b2b", "saas"},
		CheckSizeMin:          i64(250),
		CheckSizeMax:          i64(2000),
		InvestmentGeographies: []string{"global"},
		Status:                models.InvestorStatusActive,
	}

	generalistFund := models.Investor{
		ID:                    "i-generalist",
		UserID:                "user-generalist",
		Name:                  "Everything Ventures",
		InvestmentIndustries:  []string{"generalist"},
		InvestmentStages:      []string{"pre-seed", "seed"},
		BusinessModels:        []string{"b2b", "b2c"},
		InvestmentGeographies: []string{"europe"},
		Status:                models.InvestorStatusActive,
	}

	healthcareFund := models.Investor{
		ID:                   "i-healthcare",
		UserID:               "user-healthcare",
		Name:                 "Vital Partners",
		InvestmentIndustries: []string{"healthcare", "biotech"},
		InvestmentStages:     []string{"series-b"},
		BusinessModels:       []string{"b2c"},
		Status:               models.InvestorStatusActive,
	}

	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{healthcareFund, generalistFund, fintechLead}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), startup.UserID, models.UserTypeStartup)
	require.NoError(t, err)

	// Ledger Capital: direct industry (35) + seed (25) + b2b (20) + 500k in
	// the 250k-2M range (15) + global (5) = 100.
	// Everything Ventures: generalist (15) + seed (25) + b2b (20) + regional
	// (3) = 63.
	// Vital Partners never clears the threshold.
	require.Len(t, created, 2)
	assert.Equal(t, "i-fintech-lead", created[0].InvestorID)
	assert.Equal(t, 100, created[0].MatchScore)
	assert.Equal(t, "i-generalist", created[1].InvestorID)
	assert.Equal(t, 63, created[1].MatchScore)

	assert.Contains(t, []string(created[0].MatchReasons), "Perfect industry alignment")
	assert.Contains(t, []string(created[1].MatchReasons), "Generalist investor")
}

// Scenario: an MVP-stage healthtech with no raise target yet. The missing
// target amount costs the check size dimension but nothing else.
func TestScenario_HealthtechWithoutRaiseTarget(t *testing.T) {
	startup := &models.Startup{
		ID:            "s-curoo",
		UserID:        "user-curoo",
		Name:          "Curoo",
		Industry:      []string{"healthtech"},
		Stage:         "mvp",
		BusinessModel: "b2c",
		Status:        models.StartupStatusPublished,
	}

	medicalFund := models.Investor{
		ID:                    "i-medical",
		UserID:                "user-medical",
		Name:                  "Stethos Capital",
		InvestmentIndustries:  []string{"medical", "pharma"},
		InvestmentStages:      []string{"series-a"},
		BusinessModels:        []string{"consumer"},
		CheckSizeMin:          i64(500),
		CheckSizeMax:          i64(5000),
		InvestmentGeographies: []string{"worldwide"},
		Status:                models.InvestorStatusActive,
	}

	startups := &fakeStartupStore{byUser: map[string]*models.Startup{startup.UserID: startup}}
	investors := &fakeInvestorStore{active: []models.Investor{medicalFund}}

	gen := newTestGenerator(startups, investors, newFakeMatchStore(), DefaultConfig())

	results, err := gen.GenerateMatchesForStartup(context.Background(), startup.UserID)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Related industry (25) + mvp expands to series-a (25) + b2c/consumer
	// (20) + worldwide (5) = 75; check size contributes nothing.
	assert.Equal(t, 75, results[0].Score.Total)
	assert.Zero(t, results[0].Score.Breakdown.CheckSize)
}

// Scenario: an investor generates matches against the published startup pool
// and unpublished drafts never appear.
func TestScenario_InvestorSeesOnlyPublishedStartups(t *testing.T) {
	published := models.Startup{
		ID:            "s-live",
		UserID:        "user-live",
		Name:          "LiveCo",
		Industry:      []string{"ai"},
		Stage:         "early-stage",
		BusinessModel: "saas",
		TargetAmount:  i64(2000000),
		Status:        models.StartupStatusPublished,
	}

	investor := models.Investor{
		ID:                    "i-ai",
		UserID:                "user-ai",
		Name:                  "Tensor Ventures",
		InvestmentIndustries:  []string{"machine-learning"},
		InvestmentStages:      []string{"series-a", "series-b"},
		BusinessModels:        []string{"saas"},
		CheckSizeMin:          i64(1000),
		CheckSizeMax:          i64(10000),
		InvestmentGeographies: []string{"global"},
		Status:                models.InvestorStatusActive,
	}

	// The store only ever surfaces published startups, mirroring the
	// repository's ListPublished filter.
	startups := &fakeStartupStore{published: []models.Startup{published}}
	investors := &fakeInvestorStore{byUser: map[string]*models.Investor{investor.UserID: &investor}}
	store := newFakeMatchStore()

	gen := newTestGenerator(startups, investors, store, DefaultConfig())

	created, err := gen.GenerateMatches(context.Background(), investor.UserID, models.UserTypeInvestor)
	require.NoError(t, err)
	require.Len(t, created, 1)

	// Related industry via the ai category (25) + early-stage expands to
	// series-a/series-b (25) + saas (20) + 2M in range (15) + global (5) = 90.
	assert.Equal(t, "s-live", created[0].StartupID)
	assert.Equal(t, 90, created[0].MatchScore)
}
