package ranking

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/amora-app/discovery/internal/db"
)

// Ranker orders discovery candidates for display.
//
// Sort keys, in order:
//  1. subscription tier rank, descending (paying users surface first)
//  2. profile completion percent, descending
//  3. last-active timestamp, descending
//  4. a uniformly random tie-breaker, re-rolled per call
//
// The random source is injected so ranking is reproducible under a fixed
// seed in tests. One Ranker serves all request goroutines; rand.Rand is not
// safe for concurrent use, so draws are serialized behind the mutex.
type Ranker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRanker(rnd *rand.Rand) *Ranker {
	return &Ranker{rnd: rnd}
}

// Rank sorts candidates in place into display order. The tie value is
// attached per candidate before sorting so it travels with the element.
func (r *Ranker) Rank(cands []db.Candidate) {
	type entry struct {
		cand db.Candidate
		tie  float64
	}

	entries := make([]entry, len(cands))
	r.mu.Lock()
	for i, c := range cands {
		entries[i] = entry{cand: c, tie: r.rnd.Float64()}
	}
	r.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i].cand, &entries[j].cand
		if ar, br := a.User.TierRank(), b.User.TierRank(); ar != br {
			return ar > br
		}
		if a.Profile.Completion != b.Profile.Completion {
			return a.Profile.Completion > b.Profile.Completion
		}
		if !a.User.LastActiveAt.Equal(b.User.LastActiveAt) {
			return a.User.LastActiveAt.After(b.User.LastActiveAt)
		}
		return entries[i].tie > entries[j].tie
	})

	for i := range entries {
		cands[i] = entries[i].cand
	}
}

// RankByCompatibility orders candidates by descending compatibility score
// against the given profile, used by the recommendations path. Score ties
// fall back to the regular display order keys.
func (r *Ranker) RankByCompatibility(own *db.Profile, cands []db.Candidate) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(cands))
	for i := range cands {
		scored[i] = ScoredCandidate{
			Candidate: cands[i],
			Score:     Compatibility(own, &cands[i].Profile),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		a, b := &scored[i].Candidate, &scored[j].Candidate
		if ar, br := a.User.TierRank(), b.User.TierRank(); ar != br {
			return ar > br
		}
		return a.Profile.Completion > b.Profile.Completion
	})

	return scored
}

// ScoredCandidate pairs a candidate with its compatibility score.
type ScoredCandidate struct {
	Candidate db.Candidate
	Score     int
}
