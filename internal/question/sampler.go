package question

import (
	"fmt"
	"math/rand/v2"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

// sampleChoices draws k distinct distractors from pool. Candidates matching
// exclude, carrying excludeID (the answer), or repeating an already seen id
// are skipped; duplicate content across different topics is tolerated.
// Selection is uniform over the eligible set, which the caller sources fresh
// per call.
func sampleChoices(pool []model.ChoiceCandidate, exclude func(model.ChoiceCandidate) bool, excludeID int64, k int) ([]model.Choice, error) {
	eligible := make([]model.ChoiceCandidate, 0, len(pool))
	seen := make(map[int64]struct{}, len(pool))
	for _, cand := range pool {
		if cand.ID == excludeID {
			continue
		}
		if _, dup := seen[cand.ID]; dup {
			continue
		}
		if exclude != nil && exclude(cand) {
			continue
		}
		seen[cand.ID] = struct{}{}
		eligible = append(eligible, cand)
	}

	if len(eligible) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCandidates, k, len(eligible))
	}

	picked := make([]model.Choice, 0, k)
	for _, idx := range rand.Perm(len(eligible))[:k] {
		picked = append(picked, eligible[idx].Choice)
	}
	return picked, nil
}

// pickCandidate returns one uniformly random candidate satisfying match,
// or nil when none does.
func pickCandidate(pool []model.ChoiceCandidate, match func(model.ChoiceCandidate) bool) *model.Choice {
	matches := make([]model.ChoiceCandidate, 0, len(pool))
	for _, cand := range pool {
		if match(cand) {
			matches = append(matches, cand)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	choice := matches[rand.IntN(len(matches))].Choice
	return &choice
}
