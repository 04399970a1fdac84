package question

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-edu/openbook-server/internal/config"
	"github.com/openbook-edu/openbook-server/internal/db/model"
)

var testPrompts = config.Prompts{
	DescriptionPrefix: "해당",
	DescriptionSuffix: "에 대한 설명으로 옳은 것은?",
	During:            "해당 %s이 발생한 시기에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?",
	After:             "해당 %s이 발생한 이후에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?",
	Before:            "해당 %s이 발생한 이전에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?",
}

func TestStrategyPrompts(t *testing.T) {
	tests := []struct {
		typ  int
		want string
	}{
		{TypeDescription, "해당 사건에 대한 설명으로 옳은 것은?"},
		{TypeDuring, fmt.Sprintf(testPrompts.During, "사건")},
		{TypeAfter, fmt.Sprintf(testPrompts.After, "사건")},
		{TypeBefore, fmt.Sprintf(testPrompts.Before, "사건")},
	}
	for _, tc := range tests {
		strat, ok := strategyFor(tc.typ)
		require.True(t, ok)
		assert.Equal(t, tc.want, strat.prompt(testPrompts, "사건"))
	}
}

func TestStrategyForUnknownType(t *testing.T) {
	_, ok := strategyFor(0)
	assert.False(t, ok)
	_, ok = strategyFor(99)
	assert.False(t, ok)
}

func TestTemporalPredicates(t *testing.T) {
	ref := &model.Topic{ID: 1, StartDate: 300, EndDate: 400}

	tests := []struct {
		name             string
		start, end       int
		contains, nested bool
		after, before    bool
	}{
		{"strictly before", 100, 200, false, false, false, true},
		{"strictly after", 500, 600, false, false, true, false},
		{"covering", 250, 450, true, false, false, false},
		{"identical", 300, 400, true, false, false, false},
		{"strictly nested", 320, 380, false, true, false, false},
		{"overlaps start", 250, 350, false, false, false, false},
		{"overlaps end", 350, 450, false, false, false, false},
		{"touches end", 400, 500, false, false, false, false},
		{"touches start", 200, 300, false, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cand := candidate(1, 2, tc.start, tc.end)
			assert.Equal(t, tc.contains, contains(cand, ref), "contains")
			assert.Equal(t, tc.nested, nestedInside(cand, ref), "nestedInside")
			assert.Equal(t, tc.after, startsAfter(cand, ref), "startsAfter")
			assert.Equal(t, tc.before, endsBefore(cand, ref), "endsBefore")
		})
	}
}

// No candidate that would be a correct answer may survive into the
// distractor pool, for any temporal type.
func TestExclusionCoversCorrectAnswers(t *testing.T) {
	ref := &model.Topic{ID: 1, StartDate: 300, EndDate: 400}

	var grid []model.ChoiceCandidate
	id := int64(1)
	for start := 0; start <= 700; start += 50 {
		for end := start; end <= 700; end += 50 {
			grid = append(grid, candidate(id, 2, start, end))
			id++
		}
	}

	for _, typ := range []int{TypeDuring, TypeAfter, TypeBefore} {
		strat, ok := strategyFor(typ)
		require.True(t, ok)
		for _, cand := range grid {
			if strat.correct(cand, ref) {
				assert.True(t, strat.exclude(cand, ref),
					"type %d: correct candidate [%d,%d] must be excluded from distractors",
					typ, cand.StartDate, cand.EndDate)
			}
		}
	}
}

func TestDescriptionStrategyExcludesReferenceTopic(t *testing.T) {
	ref := &model.Topic{ID: 7, StartDate: 300, EndDate: 400}
	strat, ok := strategyFor(TypeDescription)
	require.True(t, ok)

	assert.True(t, strat.exclude(candidate(1, 7, 0, 0), ref))
	assert.False(t, strat.exclude(candidate(2, 8, 0, 0), ref))
	assert.Nil(t, strat.correct)
}
