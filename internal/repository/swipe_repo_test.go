package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestRecord_LikeWithoutReciprocity(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	match, err := repo.Record(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.Nil(t, match)

	var count int64
	gdb.Model(&db.Swipe{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecord_DuplicateSwipeRejected(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	_, err := repo.Record(ctx, 1, 2, true)
	require.NoError(t, err)

	// second decision on the same pair, even a different one, is rejected
	_, err = repo.Record(ctx, 1, 2, false)
	assert.ErrorIs(t, err, svcErr.ErrAlreadySwiped)

	var swipes []db.Swipe
	gdb.Find(&swipes)
	require.Len(t, swipes, 1)
	assert.True(t, swipes[0].Liked, "original decision must be untouched")
}

func TestRecord_ReciprocalLikeCreatesMatchAndNotifications(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	match, err := repo.Record(ctx, 2, 1, true)
	require.NoError(t, err)
	require.Nil(t, match)

	match, err = repo.Record(ctx, 1, 2, true)
	require.NoError(t, err)
	require.NotNil(t, match)

	// canonical order regardless of who swiped last
	assert.Equal(t, uint64(1), match.User1ID)
	assert.Equal(t, uint64(2), match.User2ID)

	var matchCount int64
	gdb.Model(&db.Match{}).Count(&matchCount)
	assert.Equal(t, int64(1), matchCount)

	var notifications []db.Notification
	gdb.Order("user_id").Find(&notifications)
	require.Len(t, notifications, 2)
	assert.Equal(t, uint64(1), notifications[0].UserID)
	assert.Equal(t, uint64(2), notifications[0].ActorID)
	assert.Equal(t, db.NotificationNewMatch, notifications[0].Kind)
	assert.Equal(t, uint64(2), notifications[1].UserID)
	assert.Equal(t, uint64(1), notifications[1].ActorID)
}

func TestRecord_PassNeverMatches(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	// 2 liked 1, then 1 passes on 2: two swipes exist but only one like
	_, err := repo.Record(ctx, 2, 1, true)
	require.NoError(t, err)

	match, err := repo.Record(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.Nil(t, match)

	var matchCount int64
	gdb.Model(&db.Match{}).Count(&matchCount)
	assert.Equal(t, int64(0), matchCount)
}

func TestRecord_ExistingMatchResolvedIdempotently(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	// match already exists for the pair (simulates losing the race)
	existing := db.NewMatch(1, 2)
	require.NoError(t, gdb.Create(&existing).Error)
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 2, SwipedID: 1, Liked: true}).Error)

	match, err := repo.Record(ctx, 1, 2, true)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, existing.ID, match.ID)

	var matchCount int64
	gdb.Model(&db.Match{}).Count(&matchCount)
	assert.Equal(t, int64(1), matchCount)

	// no duplicate notifications for an already-existing match
	var notifCount int64
	gdb.Model(&db.Notification{}).Count(&notifCount)
	assert.Equal(t, int64(0), notifCount)
}

func TestGetAdmirers_ExcludesPassedUsers(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	// users 1 and 2 liked user 99
	_, err := repo.Record(ctx, 1, 99, true)
	require.NoError(t, err)
	_, err = repo.Record(ctx, 2, 99, true)
	require.NoError(t, err)
	// user 99 passed on user 2 → excluded from admirers
	_, err = repo.Record(ctx, 99, 2, false)
	require.NoError(t, err)

	swipes, next, err := repo.GetAdmirers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(1), swipes[0].SwiperID)
	assert.Nil(t, next)
}

func TestGetAdmirers_CursorPagination(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	for swiper := uint64(1); swiper <= 5; swiper++ {
		_, err := repo.Record(ctx, swiper, 99, true)
		require.NoError(t, err)
	}

	first, next, err := repo.GetAdmirers(ctx, 99, nil, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, next)

	second, next2, err := repo.GetAdmirers(ctx, 99, next, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Nil(t, next2)

	// no overlap between pages
	seen := map[uint64]bool{}
	for _, s := range append(first, second...) {
		assert.False(t, seen[s.SwiperID], "duplicate swiper across pages")
		seen[s.SwiperID] = true
	}
}

func TestCountAdmirers(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	_, err := repo.Record(ctx, 1, 99, true)
	require.NoError(t, err)
	_, err = repo.Record(ctx, 2, 99, true)
	require.NoError(t, err)
	_, err = repo.Record(ctx, 3, 99, false) // a pass is not admiration
	require.NoError(t, err)
	_, err = repo.Record(ctx, 99, 2, false) // passing an admirer removes them
	require.NoError(t, err)

	count, err := repo.CountAdmirers(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHasLiked(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	_, err := repo.Record(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = repo.Record(ctx, 1, 3, false)
	require.NoError(t, err)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestHasPassed(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewSwipeRepository(gdb)

	_, err := repo.Record(ctx, 1, 2, false)
	require.NoError(t, err)
	_, err = repo.Record(ctx, 1, 3, true)
	require.NoError(t, err)

	passed, err := repo.HasPassed(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, passed)

	// a like is not a pass, and direction matters
	passed, err = repo.HasPassed(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, passed)

	passed, err = repo.HasPassed(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, passed)
}
