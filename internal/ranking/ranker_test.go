package ranking

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amora-app/discovery/internal/db"
)

func candidate(id uint64, tier string, completion int, lastActive time.Time) db.Candidate {
	return db.Candidate{
		User:    db.User{ID: id, SubscriptionTier: tier, LastActiveAt: lastActive},
		Profile: db.Profile{UserID: id, Completion: completion},
	}
}

func ids(cands []db.Candidate) []uint64 {
	out := make([]uint64, len(cands))
	for i, c := range cands {
		out[i] = c.User.ID
	}
	return out
}

func TestRank_TierBeatsCompletion(t *testing.T) {
	now := time.Now()
	cands := []db.Candidate{
		candidate(1, db.TierFree, 90, now),
		candidate(2, db.TierPremium, 50, now),
	}

	NewRanker(rand.New(rand.NewSource(1))).Rank(cands)

	// premium with a half-finished profile still outranks a complete free profile
	assert.Equal(t, []uint64{2, 1}, ids(cands))
}

func TestRank_CompletionBreaksTierTie(t *testing.T) {
	now := time.Now()
	cands := []db.Candidate{
		candidate(1, db.TierGold, 40, now),
		candidate(2, db.TierGold, 80, now),
		candidate(3, db.TierGold, 60, now),
	}

	NewRanker(rand.New(rand.NewSource(1))).Rank(cands)

	assert.Equal(t, []uint64{2, 3, 1}, ids(cands))
}

func TestRank_RecencyBreaksCompletionTie(t *testing.T) {
	now := time.Now()
	cands := []db.Candidate{
		candidate(1, db.TierFree, 50, now.Add(-48*time.Hour)),
		candidate(2, db.TierFree, 50, now),
		candidate(3, db.TierFree, 50, now.Add(-24*time.Hour)),
	}

	NewRanker(rand.New(rand.NewSource(1))).Rank(cands)

	assert.Equal(t, []uint64{2, 3, 1}, ids(cands))
}

func TestRank_TierGrouping(t *testing.T) {
	now := time.Now()
	cands := []db.Candidate{
		candidate(1, db.TierFree, 100, now),
		candidate(2, db.TierPlatinum, 10, now),
		candidate(3, db.TierGold, 10, now),
		candidate(4, db.TierPremiumPlus, 10, now),
		candidate(5, db.TierPremium, 10, now),
	}

	NewRanker(rand.New(rand.NewSource(1))).Rank(cands)

	ranks := make([]int, len(cands))
	for i, c := range cands {
		ranks[i] = c.User.TierRank()
	}
	assert.Equal(t, []int{2, 2, 1, 1, 0}, ranks)
}

func TestRank_ReproducibleUnderFixedSeed(t *testing.T) {
	now := time.Now()
	build := func() []db.Candidate {
		// all keys tie, so order is decided by the random tie-breaker
		return []db.Candidate{
			candidate(1, db.TierFree, 50, now),
			candidate(2, db.TierFree, 50, now),
			candidate(3, db.TierFree, 50, now),
			candidate(4, db.TierFree, 50, now),
		}
	}

	a := build()
	NewRanker(rand.New(rand.NewSource(42))).Rank(a)

	b := build()
	NewRanker(rand.New(rand.NewSource(42))).Rank(b)

	assert.Equal(t, ids(a), ids(b))
}

func TestRank_ConcurrentCalls(t *testing.T) {
	now := time.Now()
	ranker := NewRanker(rand.New(rand.NewSource(7)))

	// one Ranker is shared by all request goroutines in production; ranking
	// concurrently must stay race-free and keep the deterministic keys intact
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				cands := []db.Candidate{
					candidate(1, db.TierFree, 50, now),
					candidate(2, db.TierPremium, 50, now),
					candidate(3, db.TierFree, 80, now),
				}
				ranker.Rank(cands)
				assert.Equal(t, []uint64{2, 3, 1}, ids(cands))
			}
		}()
	}
	wg.Wait()
}

func TestRankByCompatibility_OrdersByScore(t *testing.T) {
	own := &db.Profile{Interests: db.StringList{"travel", "music", "cooking"}}

	now := time.Now()
	lowOverlap := candidate(1, db.TierPlatinum, 100, now)
	lowOverlap.Profile.Interests = db.StringList{"travel"}
	highOverlap := candidate(2, db.TierFree, 10, now)
	highOverlap.Profile.Interests = db.StringList{"travel", "music", "cooking"}

	scored := NewRanker(rand.New(rand.NewSource(1))).
		RankByCompatibility(own, []db.Candidate{lowOverlap, highOverlap})

	// compatibility outranks tier on this path
	assert.Equal(t, uint64(2), scored[0].Candidate.User.ID)
	assert.Equal(t, 40, scored[0].Score)
	assert.Equal(t, uint64(1), scored[1].Candidate.User.ID)
}
