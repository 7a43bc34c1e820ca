package matching

import (
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Dimension weights. The five maxima sum to 100.
const (
	ScoreIndustryDirect   = 35
	ScoreIndustryCategory = 25
	ScoreIndustryGeneral  = 15
	ScoreStageExact       = 25
	ScoreStageAdjacent    = 15
	ScoreBusinessModel    = 20
	ScoreCheckSizeInRange = 15
	ScoreCheckSizeNear    = 10
	ScoreGeographyGlobal  = 5
	ScoreGeographyRegion  = 3
)

// Breakdown holds the per-dimension sub-scores of a match.
type Breakdown struct {
	Industry      int `json:"industry"`
	Stage         int `json:"stage"`
	BusinessModel int `json:"business_model"`
	CheckSize     int `json:"check_size"`
	Geography     int `json:"geography"`
}

// Score is the total compatibility score with its breakdown.
type Score struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// Result is the outcome of scoring one startup/investor pair.
type Result struct {
	StartupID  string   `json:"startup_id"`
	InvestorID string   `json:"investor_id"`
	Score      Score    `json:"score"`
	Reasons    []string `json:"reasons"`
}

// CalculateMatchScore computes the weighted compatibility between a startup
// and an investor. It is pure and deterministic; missing optional fields
// contribute zero to their dimension instead of erroring.
func CalculateMatchScore(startup *models.Startup, investor *models.Investor) Result {
	result := Result{
		StartupID:  startup.ID,
		InvestorID: investor.ID,
		Reasons:    []string{},
	}

	if score, reason := scoreIndustry(startup, investor); score > 0 {
		result.Score.Breakdown.Industry = score
		result.Reasons = append(result.Reasons, reason)
	}

	if score, reason := scoreStage(startup, investor); score > 0 {
		result.Score.Breakdown.Stage = score
		result.Reasons = append(result.Reasons, reason)
	}

	if score, reason := scoreBusinessModel(startup, investor); score > 0 {
		result.Score.Breakdown.BusinessModel = score
		result.Reasons = append(result.Reasons, reason)
	}

	if score, reason := scoreCheckSize(startup, investor); score > 0 {
		result.Score.Breakdown.CheckSize = score
		result.Reasons = append(result.Reasons, reason)
	}

	if score, reason := scoreGeography(investor); score > 0 {
		result.Score.Breakdown.Geography = score
		result.Reasons = append(result.Reasons, reason)
	}

	b := result.Score.Breakdown
	result.Score.Total = b.Industry + b.Stage + b.BusinessModel + b.CheckSize + b.Geography

	return result
}

// scoreIndustry evaluates direct, category, then generalist matches in
// priority order; the first hit wins so a pair is never double counted.
func scoreIndustry(startup *models.Startup, investor *models.Investor) (int, string) {
	startupTags := NormalizeTags(startup.Industry)
	investorTags := NormalizeTags(investor.InvestmentIndustries)

	if intersects(startupTags, investorTags) {
		return ScoreIndustryDirect, "Perfect industry alignment"
	}

	for _, category := range industryCategories {
		if intersects(startupTags, category.Tags) && intersects(investorTags, category.Tags) {
			return ScoreIndustryCategory, "Related industry focus"
		}
	}

	if containsTag(investorTags, models.IndustryGeneralist) || containsTag(investorTags, models.IndustrySectorAgnostic) {
		return ScoreIndustryGeneral, "Generalist investor"
	}

	return 0, ""
}

func scoreStage(startup *models.Startup, investor *models.Investor) (int, string) {
	acceptable := AcceptableFundingRounds(startup.Stage)
	investorStages := NormalizeTags(investor.InvestmentStages)

	if intersects(investorStages, acceptable) {
		return ScoreStageExact, fmt.Sprintf("Invests in %s stage", startup.Stage)
	}

	startupPos := stagePosition(NormalizeTag(startup.Stage))
	if startupPos >= 0 {
		for _, stage := range investorStages {
			pos := stagePosition(stage)
			if pos < 0 {
				continue
			}
			diff := pos - startupPos
			if diff >= -1 && diff <= 1 {
				return ScoreStageAdjacent, "Adjacent stage match"
			}
		}
	}

	return 0, ""
}

func scoreBusinessModel(startup *models.Startup, investor *models.Investor) (int, string) {
	compatible := CompatibleBusinessModels(startup.BusinessModel)
	investorModels := NormalizeTags(investor.BusinessModels)

	if intersects(investorModels, compatible) {
		return ScoreBusinessModel, fmt.Sprintf("Matches %s business model", startup.BusinessModel)
	}

	return 0, ""
}

// scoreCheckSize compares the startup's raise target against the investor's
// check range. Targets are raw currency units; checks are thousands, hence
// the division.
func scoreCheckSize(startup *models.Startup, investor *models.Investor) (int, string) {
	if startup.TargetAmount == nil || investor.CheckSizeMin == nil || investor.CheckSizeMax == nil {
		return 0, ""
	}

	targetInK := float64(*startup.TargetAmount) / 1000
	minCheck := float64(*investor.CheckSizeMin)
	maxCheck := float64(*investor.CheckSizeMax)

	if targetInK >= minCheck && targetInK <= maxCheck {
		return ScoreCheckSizeInRange, "Check size matches funding needs"
	}

	if targetInK >= minCheck*0.5 && targetInK <= maxCheck*1.5 {
		return ScoreCheckSizeNear, "Partial check size alignment"
	}

	return 0, ""
}

// scoreGeography awards full credit for global investors and a flat partial
// credit for any declared regional focus. Startup geography is not yet part
// of the comparison.
func scoreGeography(investor *models.Investor) (int, string) {
	geographies := NormalizeTags(investor.InvestmentGeographies)
	if len(geographies) == 0 {
		return 0, ""
	}

	if containsTag(geographies, models.GeographyGlobal) || containsTag(geographies, models.GeographyWorldwide) {
		return ScoreGeographyGlobal, "Global investment scope"
	}

	return ScoreGeographyRegion, "Regional investment focus"
}
