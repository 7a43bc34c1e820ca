package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/models"
)

func i64(v int64) *int64 {
	return &v
}

func fintechStartup() *models.Startup {
	return &models.Startup{
		ID:            "startup-1",
		Industry:      []string{"fintech"},
		Stage:         "seed",
		BusinessModel: "b2b",
		TargetAmount:  i64(500000),
		Geography:     []string{"europe"},
	}
}

func fintechInvestor() *models.Investor {
	return &models.Investor{
		ID:                    "investor-1",
		InvestmentIndustries:  []string{"fintech"},
		InvestmentStages:      []string{"seed"},
		BusinessModels:        []string{"b2b"},
		CheckSizeMin:          i64(100),
		CheckSizeMax:          i64(1000),
		InvestmentGeographies: []string{"global"},
	}
}

func TestCalculateMatchScore_PerfectMatch(t *testing.T) {
	result := CalculateMatchScore(fintechStartup(), fintechInvestor())

	assert.Equal(t, 100, result.Score.Total)
	assert.Equal(t, ScoreIndustryDirect, result.Score.Breakdown.Industry)
	assert.Equal(t, ScoreStageExact, result.Score.Breakdown.Stage)
	assert.Equal(t, ScoreBusinessModel, result.Score.Breakdown.BusinessModel)
	assert.Equal(t, ScoreCheckSizeInRange, result.Score.Breakdown.CheckSize)
	assert.Equal(t, ScoreGeographyGlobal, result.Score.Breakdown.Geography)
	assert.Equal(t, []string{
		"Perfect industry alignment",
		"Invests in seed stage",
		"Matches b2b business model",
		"Check size matches funding needs",
		"Global investment scope",
	}, result.Reasons)
}

func TestCalculateMatchScore_Deterministic(t *testing.T) {
	startup := fintechStartup()
	investor := fintechInvestor()

	first := CalculateMatchScore(startup, investor)
	second := CalculateMatchScore(startup, investor)

	assert.Equal(t, first, second)
}

func TestCalculateMatchScore_CasingInsensitive(t *testing.T) {
	startup := fintechStartup()
	startup.Industry = []string{"FinTech"}
	startup.Stage = "Seed"
	startup.BusinessModel = "B2B"

	investor := fintechInvestor()
	investor.InvestmentIndustries = []string{"FINTECH"}
	investor.InvestmentStages = []string{" Seed "}
	investor.BusinessModels = []string{"b2B"}

	result := CalculateMatchScore(startup, investor)
	assert.Equal(t, 100, result.Score.Total)
}

func TestCalculateMatchScore_Industry(t *testing.T) {
	t.Run("related tags in the same category", func(t *testing.T) {
		startup := fintechStartup()
		startup.Industry = []string{"healthtech"}
		investor := fintechInvestor()
		investor.InvestmentIndustries = []string{"medical"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreIndustryCategory, result.Score.Breakdown.Industry)
		assert.Contains(t, result.Reasons, "Related industry focus")
	})

	t.Run("generalist investor", func(t *testing.T) {
		investor := fintechInvestor()
		investor.InvestmentIndustries = []string{"generalist"}

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, ScoreIndustryGeneral, result.Score.Breakdown.Industry)
		assert.Contains(t, result.Reasons, "Generalist investor")
	})

	t.Run("sector-agnostic investor", func(t *testing.T) {
		investor := fintechInvestor()
		investor.InvestmentIndustries = []string{"Sector-Agnostic"}

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, ScoreIndustryGeneral, result.Score.Breakdown.Industry)
	})

	t.Run("no industry overlap", func(t *testing.T) {
		startup := fintechStartup()
		startup.Industry = []string{"gaming"}
		investor := fintechInvestor()
		investor.InvestmentIndustries = []string{"agritech"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, 0, result.Score.Breakdown.Industry)
	})

	t.Run("direct match wins over category", func(t *testing.T) {
		startup := fintechStartup()
		startup.Industry = []string{"payments"}
		investor := fintechInvestor()
		investor.InvestmentIndustries = []string{"payments", "banking"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreIndustryDirect, result.Score.Breakdown.Industry)
	})
}

func TestCalculateMatchScore_Stage(t *testing.T) {
	t.Run("lifecycle stage expands to funding rounds", func(t *testing.T) {
		startup := fintechStartup()
		startup.Stage = "mvp"
		investor := fintechInvestor()
		investor.InvestmentStages = []string{"series-a"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreStageExact, result.Score.Breakdown.Stage)
		assert.Contains(t, result.Reasons, "Invests in mvp stage")
	})

	t.Run("adjacent funding round", func(t *testing.T) {
		startup := fintechStartup()
		startup.Stage = "seed"
		investor := fintechInvestor()
		investor.InvestmentStages = []string{"series-a"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreStageAdjacent, result.Score.Breakdown.Stage)
		assert.Contains(t, result.Reasons, "Adjacent stage match")
	})

	t.Run("two rounds apart scores zero", func(t *testing.T) {
		startup := fintechStartup()
		startup.Stage = "pre-seed"
		investor := fintechInvestor()
		investor.InvestmentStages = []string{"series-a"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, 0, result.Score.Breakdown.Stage)
	})

	t.Run("lifecycle stage never matches through adjacency", func(t *testing.T) {
		// "growth" maps to later rounds and is outside the adjacency ordering
		startup := fintechStartup()
		startup.Stage = "growth"
		investor := fintechInvestor()
		investor.InvestmentStages = []string{"series-b"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreStageExact, result.Score.Breakdown.Stage)

		investor.InvestmentStages = []string{"series-a"}
		result = CalculateMatchScore(startup, investor)
		assert.Equal(t, 0, result.Score.Breakdown.Stage)
	})
}

func TestCalculateMatchScore_BusinessModel(t *testing.T) {
	t.Run("compatible model tag", func(t *testing.T) {
		startup := fintechStartup()
		startup.BusinessModel = "saas"
		investor := fintechInvestor()
		investor.BusinessModels = []string{"enterprise"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, ScoreBusinessModel, result.Score.Breakdown.BusinessModel)
		assert.Contains(t, result.Reasons, "Matches saas business model")
	})

	t.Run("incompatible model", func(t *testing.T) {
		startup := fintechStartup()
		startup.BusinessModel = "other"
		investor := fintechInvestor()
		investor.BusinessModels = []string{"b2b"}

		result := CalculateMatchScore(startup, investor)
		assert.Equal(t, 0, result.Score.Breakdown.BusinessModel)
	})
}

func TestCalculateMatchScore_CheckSize(t *testing.T) {
	t.Run("target inside check range", func(t *testing.T) {
		startup := fintechStartup()
		startup.TargetAmount = i64(100000) // 100k, at the lower bound

		result := CalculateMatchScore(startup, fintechInvestor())
		assert.Equal(t, ScoreCheckSizeInRange, result.Score.Breakdown.CheckSize)
	})

	t.Run("target near the range", func(t *testing.T) {
		startup := fintechStartup()
		startup.TargetAmount = i64(60000) // 60k, above half of the 100k minimum

		result := CalculateMatchScore(startup, fintechInvestor())
		assert.Equal(t, ScoreCheckSizeNear, result.Score.Breakdown.CheckSize)
		assert.Contains(t, result.Reasons, "Partial check size alignment")
	})

	t.Run("target far outside the range", func(t *testing.T) {
		startup := fintechStartup()
		startup.TargetAmount = i64(40000) // 40k, below half of the 100k minimum

		result := CalculateMatchScore(startup, fintechInvestor())
		assert.Equal(t, 0, result.Score.Breakdown.CheckSize)
	})

	t.Run("missing target amount contributes zero", func(t *testing.T) {
		startup := fintechStartup()
		startup.TargetAmount = nil

		result := CalculateMatchScore(startup, fintechInvestor())
		assert.Equal(t, 0, result.Score.Breakdown.CheckSize)
		assert.NotContains(t, result.Reasons, "Check size matches funding needs")
	})

	t.Run("missing check range contributes zero", func(t *testing.T) {
		investor := fintechInvestor()
		investor.CheckSizeMin = nil
		investor.CheckSizeMax = nil

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, 0, result.Score.Breakdown.CheckSize)
	})
}

func TestCalculateMatchScore_Geography(t *testing.T) {
	t.Run("global scope", func(t *testing.T) {
		investor := fintechInvestor()
		investor.InvestmentGeographies = []string{"Worldwide"}

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, ScoreGeographyGlobal, result.Score.Breakdown.Geography)
	})

	t.Run("regional scope", func(t *testing.T) {
		investor := fintechInvestor()
		investor.InvestmentGeographies = []string{"europe", "north-america"}

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, ScoreGeographyRegion, result.Score.Breakdown.Geography)
		assert.Contains(t, result.Reasons, "Regional investment focus")
	})

	t.Run("no declared geography", func(t *testing.T) {
		investor := fintechInvestor()
		investor.InvestmentGeographies = nil

		result := CalculateMatchScore(fintechStartup(), investor)
		assert.Equal(t, 0, result.Score.Breakdown.Geography)
	})
}

func TestCalculateMatchScore_EmptyProfiles(t *testing.T) {
	startup := &models.Startup{ID: "s"}
	investor := &models.Investor{ID: "i"}

	result := CalculateMatchScore(startup, investor)
	assert.Equal(t, 0, result.Score.Total)
	assert.Empty(t, result.Reasons)
	assert.NotNil(t, result.Reasons)
}

func TestCalculateMatchScore_TotalIsBreakdownSum(t *testing.T) {
	result := CalculateMatchScore(fintechStartup(), fintechInvestor())
	b := result.Score.Breakdown
	assert.Equal(t, b.Industry+b.Stage+b.BusinessModel+b.CheckSize+b.Geography, result.Score.Total)
	assert.GreaterOrEqual(t, result.Score.Total, 0)
	assert.LessOrEqual(t, result.Score.Total, 100)
}
