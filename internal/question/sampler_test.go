package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

func candidate(id, topicID int64, start, end int) model.ChoiceCandidate {
	return model.ChoiceCandidate{
		Choice:    model.Choice{ID: id, Content: "choice", TopicID: topicID},
		StartDate: start,
		EndDate:   end,
	}
}

func TestSampleChoicesSkipsAnswerAndDuplicates(t *testing.T) {
	pool := []model.ChoiceCandidate{
		candidate(1, 10, 100, 200),
		candidate(1, 10, 100, 200), // duplicate id
		candidate(2, 11, 100, 200),
		candidate(3, 12, 100, 200),
		candidate(4, 13, 100, 200),
		candidate(5, 14, 100, 200), // the answer
	}

	picked, err := sampleChoices(pool, nil, 5, 4)
	require.NoError(t, err)
	require.Len(t, picked, 4)

	seen := map[int64]bool{}
	for _, c := range picked {
		assert.NotEqual(t, int64(5), c.ID, "answer must not appear among distractors")
		assert.False(t, seen[c.ID], "distractor ids must be distinct")
		seen[c.ID] = true
	}
}

func TestSampleChoicesAppliesExclusion(t *testing.T) {
	pool := []model.ChoiceCandidate{
		candidate(1, 10, 100, 200),
		candidate(2, 10, 100, 200),
		candidate(3, 11, 300, 400),
		candidate(4, 12, 300, 400),
	}
	barTopic10 := func(cand model.ChoiceCandidate) bool { return cand.TopicID == 10 }

	picked, err := sampleChoices(pool, barTopic10, 0, 2)
	require.NoError(t, err)
	require.Len(t, picked, 2)
	for _, c := range picked {
		assert.NotEqual(t, int64(10), c.TopicID)
	}
}

func TestSampleChoicesReportsShortPool(t *testing.T) {
	pool := []model.ChoiceCandidate{
		candidate(1, 10, 100, 200),
		candidate(2, 11, 100, 200),
	}

	_, err := sampleChoices(pool, nil, 2, 4)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestPickCandidate(t *testing.T) {
	pool := []model.ChoiceCandidate{
		candidate(1, 10, 100, 200),
		candidate(2, 11, 500, 600),
		candidate(3, 12, 700, 800),
	}

	picked := pickCandidate(pool, func(cand model.ChoiceCandidate) bool {
		return cand.StartDate > 400
	})
	require.NotNil(t, picked)
	assert.Contains(t, []int64{2, 3}, picked.ID)

	none := pickCandidate(pool, func(cand model.ChoiceCandidate) bool {
		return cand.StartDate > 1000
	})
	assert.Nil(t, none)
}
