package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"fintech", "b2b"}, NormalizeTags([]string{" FinTech ", "", "B2B"}))
	assert.Empty(t, NormalizeTags(nil))
}

func TestAcceptableFundingRounds(t *testing.T) {
	t.Run("lifecycle stages expand", func(t *testing.T) {
		assert.Equal(t, []string{"seed", "series-a"}, AcceptableFundingRounds("mvp"))
		assert.Equal(t, []string{"pre-seed", "seed"}, AcceptableFundingRounds("Idea"))
		assert.Equal(t, []string{"series-c", "series-d", "growth", "late-stage"}, AcceptableFundingRounds("expansion"))
	})

	t.Run("raw funding rounds pass through", func(t *testing.T) {
		assert.Equal(t, []string{"seed"}, AcceptableFundingRounds("Seed"))
		assert.Equal(t, []string{"series-a"}, AcceptableFundingRounds("series-a"))
	})
}

func TestCompatibleBusinessModels(t *testing.T) {
	assert.Equal(t, []string{"b2b", "enterprise", "saas"}, CompatibleBusinessModels("B2B"))
	assert.Equal(t, []string{"marketplace", "platform", "b2c"}, CompatibleBusinessModels("marketplace"))
	assert.Equal(t, []string{"other"}, CompatibleBusinessModels("other"))

	// Unknown models only match themselves
	assert.Equal(t, []string{"franchise"}, CompatibleBusinessModels("Franchise"))
}

func TestIndustryCategories_TagsAreNormalized(t *testing.T) {
	// Category tags are compared against normalized input, so they must be
	// lowercase and trimmed themselves.
	for _, category := range industryCategories {
		for _, tag := range category.Tags {
			assert.Equal(t, NormalizeTag(tag), tag, "category %s has a non-normalized tag %q", category.Name, tag)
		}
	}
}

func TestStagePosition(t *testing.T) {
	assert.Equal(t, 0, stagePosition("pre-seed"))
	assert.Equal(t, 3, stagePosition("series-b"))
	assert.Equal(t, -1, stagePosition("series-c"))
	assert.Equal(t, -1, stagePosition("mvp"))
}
