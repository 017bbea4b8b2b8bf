package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/db"
	"github.com/amora-app/discovery/internal/repository"
)

type seedOpts struct {
	gender   string
	age      int
	active   bool
	tier     string
	noProfil bool
}

func seedCandidate(t *testing.T, gdb *gorm.DB, id uint64, opts seedOpts) {
	t.Helper()

	if opts.gender == "" {
		opts.gender = "female"
	}
	if opts.age == 0 {
		opts.age = 30
	}
	if opts.tier == "" {
		opts.tier = db.TierFree
	}

	user := db.User{
		ID:               id,
		Email:            fmt.Sprintf("u%d@test.com", id),
		PasswordHash:     "x",
		SubscriptionTier: opts.tier,
		Active:           opts.active,
		LastActiveAt:     time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&user).Error)

	if opts.noProfil {
		return
	}
	profile := db.Profile{
		UserID:    id,
		BirthDate: time.Now().UTC().AddDate(-opts.age, 0, -1),
		Gender:    opts.gender,
		AgeMin:    18,
		AgeMax:    99,
		ShowMe:    "everyone",
	}
	require.NoError(t, gdb.Create(&profile).Error)
}

func candidateIDs(cands []db.Candidate) []uint64 {
	out := make([]uint64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.User.ID)
	}
	return out
}

func TestFindCandidates_ExcludesSelfInactiveAndOrphans(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})                 // requester
	seedCandidate(t, gdb, 2, seedOpts{active: true})                 // eligible
	seedCandidate(t, gdb, 3, seedOpts{active: false})                // inactive
	seedCandidate(t, gdb, 4, seedOpts{active: true, noProfil: true}) // orphaned

	cands, err := repo.FindCandidates(ctx, 1, 18, 99, "everyone")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, candidateIDs(cands))
}

func TestFindCandidates_ExcludesAlreadySwiped(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})
	seedCandidate(t, gdb, 2, seedOpts{active: true})
	seedCandidate(t, gdb, 3, seedOpts{active: true})
	seedCandidate(t, gdb, 4, seedOpts{active: true})

	// a like and a pass both exclude permanently
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 1, SwipedID: 2, Liked: true}).Error)
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 1, SwipedID: 3, Liked: false}).Error)
	// being swiped on by others does not exclude
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 4, SwipedID: 1, Liked: true}).Error)

	cands, err := repo.FindCandidates(ctx, 1, 18, 99, "everyone")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, candidateIDs(cands))
}

func TestFindCandidates_ExcludesBlocksInEitherDirection(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})
	seedCandidate(t, gdb, 2, seedOpts{active: true})
	seedCandidate(t, gdb, 3, seedOpts{active: true})
	seedCandidate(t, gdb, 4, seedOpts{active: true})

	require.NoError(t, gdb.Create(&db.Block{BlockerID: 1, BlockedID: 2}).Error) // outgoing
	require.NoError(t, gdb.Create(&db.Block{BlockerID: 3, BlockedID: 1}).Error) // incoming

	cands, err := repo.FindCandidates(ctx, 1, 18, 99, "everyone")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, candidateIDs(cands))
}

func TestFindCandidates_AgeWindow(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})
	seedCandidate(t, gdb, 2, seedOpts{active: true, age: 22})
	seedCandidate(t, gdb, 3, seedOpts{active: true, age: 35})
	seedCandidate(t, gdb, 4, seedOpts{active: true, age: 50})

	cands, err := repo.FindCandidates(ctx, 1, 25, 40, "everyone")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, candidateIDs(cands))
}

func TestFindCandidates_InvertedAgeRangeYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})
	seedCandidate(t, gdb, 2, seedOpts{active: true, age: 30})

	// ageMin > ageMax must yield an empty result set, not an error
	cands, err := repo.FindCandidates(ctx, 1, 40, 25, "everyone")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestFindCandidates_GenderFilter(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true, gender: "male"})
	seedCandidate(t, gdb, 2, seedOpts{active: true, gender: "female"})
	seedCandidate(t, gdb, 3, seedOpts{active: true, gender: "male"})

	cands, err := repo.FindCandidates(ctx, 1, 18, 99, "female")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, candidateIDs(cands))

	// everyone matches all genders
	cands, err = repo.FindCandidates(ctx, 1, 18, 99, "everyone")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, candidateIDs(cands))
}

func TestFindCandidates_ReturnsProfiles(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCandidateRepository(gdb)

	seedCandidate(t, gdb, 1, seedOpts{active: true})
	seedCandidate(t, gdb, 2, seedOpts{active: true, gender: "female", age: 28})

	cands, err := repo.FindCandidates(ctx, 1, 18, 99, "everyone")
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, uint64(2), cands[0].Profile.UserID)
	assert.Equal(t, "female", cands[0].Profile.Gender)
}
