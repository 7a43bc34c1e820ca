// Package matching implements startup/investor compatibility scoring and
// match generation for the funding marketplace.
package matching

import "strings"

// IndustryCategory groups related raw industry tags under a canonical name.
// Categories are evaluated in slice order so scoring stays deterministic.
type IndustryCategory struct {
	Name string
	Tags []string
}

// industryCategories maps canonical categories to the raw tags producers use.
// A startup tag and an investor tag from the same category count as a related
// industry match even when the tags differ.
var industryCategories = []IndustryCategory{
	{Name: "technology", Tags: []string{"technology", "tech", "software", "it", "deep-tech"}},
	{Name: "fintech", Tags: []string{"fintech", "financial-services", "payments", "banking", "insurance"}},
	{Name: "healthcare", Tags: []string{"healthcare", "healthtech", "medical", "biotech", "pharma", "wellness"}},
	{Name: "ecommerce", Tags: []string{"ecommerce", "e-commerce", "retail", "marketplace", "consumer-goods"}},
	{Name: "ai", Tags: []string{"ai", "artificial-intelligence", "machine-learning", "data-science", "analytics"}},
	{Name: "sustainability", Tags: []string{"sustainability", "cleantech", "climate", "energy", "greentech"}},
	{Name: "education", Tags: []string{"education", "edtech", "e-learning", "training"}},
	{Name: "media", Tags: []string{"media", "entertainment", "gaming", "content", "social"}},
	{Name: "logistics", Tags: []string{"logistics", "supply-chain", "transportation", "mobility", "delivery"}},
	{Name: "proptech", Tags: []string{"proptech", "real-estate", "construction", "smart-buildings"}},
	{Name: "agritech", Tags: []string{"agritech", "agriculture", "foodtech", "food-and-beverage"}},
	{Name: "blockchain", Tags: []string{"blockchain", "crypto", "web3", "defi"}},
}

// stageFundingRounds expands a startup lifecycle stage into the funding
// rounds an investor at that point would write a check for. Raw values not in
// the map (producers sometimes send round labels directly) are used verbatim.
var stageFundingRounds = map[string][]string{
	"idea":        {"pre-seed", "seed"},
	"prototype":   {"pre-seed", "seed"},
	"mvp":         {"seed", "series-a"},
	"early-stage": {"seed", "series-a", "series-b"},
	"growth":      {"series-b", "series-c", "growth"},
	"expansion":   {"series-c", "series-d", "growth", "late-stage"},
}

// adjacentStageOrder is the reference ordering used for the adjacent-stage
// fallback. Values outside this list never match through the adjacency path.
var adjacentStageOrder = []string{"pre-seed", "seed", "series-a", "series-b"}

// businessModelCompat expands a startup business model into the model tags an
// investor thesis could list and still be compatible.
var businessModelCompat = map[string][]string{
	"b2b":         {"b2b", "enterprise", "saas"},
	"b2c":         {"b2c", "consumer", "d2c"},
	"b2b2c":       {"b2b2c", "b2b", "b2c"},
	"marketplace": {"marketplace", "platform", "b2c"},
	"saas":        {"saas", "b2b", "enterprise"},
	"other":       {"other"},
}

// NormalizeTag folds a raw tag to its comparison form. Producers are not
// consistent about casing ("Seed" vs "seed"), so every comparison in the
// scorer goes through this.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags folds a tag set, dropping empties.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// AcceptableFundingRounds returns the normalized funding rounds for a startup
// stage, falling back to the raw stage itself when it is not a known
// lifecycle stage.
func AcceptableFundingRounds(stage string) []string {
	normalized := NormalizeTag(stage)
	if rounds, ok := stageFundingRounds[normalized]; ok {
		return rounds
	}
	return []string{normalized}
}

// CompatibleBusinessModels returns the normalized model tags compatible with
// a startup business model.
func CompatibleBusinessModels(model string) []string {
	normalized := NormalizeTag(model)
	if compat, ok := businessModelCompat[normalized]; ok {
		return compat
	}
	return []string{normalized}
}

// stagePosition returns the index of a stage value within the adjacency
// reference ordering, or -1 when the value is outside it.
func stagePosition(stage string) int {
	for i, s := range adjacentStageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, tag := range a {
		if containsTag(b, tag) {
			return true
		}
	}
	return false
}
