package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/utils/pagination"
)

// SwipeRepository provides data access for swipes and the swipe→match
// transition. It encapsulates all queries around likes/passes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Record inserts a swipe and, when it completes a reciprocal like, creates
// the match plus a notification for both parties — all in one transaction.
//
// Behavior:
//   - Swipes are append-only: a duplicate (swiper, swiped) insert returns
//     ErrAlreadySwiped and leaves the original row untouched.
//   - On a like, reciprocity is re-checked inside the transaction, so a
//     retried call after a crash between swipe insert and match creation
//     still promotes the pair.
//   - The match row is written in canonical order via db.NewMatch; the
//     unique pair index turns a concurrent double-create into a no-op
//     insert, resolved by reading the existing row back (no duplicate
//     notifications in that case).
//
// Returns the match when the swipe resulted in (or found) one, else nil.
func (r *SwipeRepository) Record(
	ctx context.Context,
	swiperID, swipedID uint64,
	liked bool,
) (*db.Match, error) {
	var match *db.Match

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipe := db.Swipe{
			SwiperID: swiperID,
			SwipedID: swipedID,
			Liked:    liked,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return svcErr.ErrAlreadySwiped
		}

		if !liked {
			return nil
		}

		// reciprocity check: did the swiped user already like us back?
		var reciprocal int64
		if err := tx.Model(&db.Swipe{}).
			Where("swiper_id = ? AND swiped_id = ? AND liked = ?", swipedID, swiperID, true).
			Count(&reciprocal).Error; err != nil {
			return err
		}
		if reciprocal == 0 {
			return nil
		}

		m := db.NewMatch(swiperID, swipedID)
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race; the pair is already matched
			if err := tx.
				Where("user1_id = ? AND user2_id = ?", m.User1ID, m.User2ID).
				First(&m).Error; err != nil {
				return err
			}
			match = &m
			return nil
		}

		notifications := []db.Notification{
			{UserID: swiperID, Kind: db.NotificationNewMatch, ActorID: swipedID},
			{UserID: swipedID, Kind: db.NotificationNewMatch, ActorID: swiperID},
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return err
		}

		match = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// HasLiked checks whether swiper has a like on record for swiped.
func (r *SwipeRepository) HasLiked(
	ctx context.Context,
	swiperID, swipedID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND liked = ?", swiperID, swipedID, true).
		Count(&count).Error
	return count > 0, err
}

// HasPassed checks whether swiper has a pass on record for swiped.
func (r *SwipeRepository) HasPassed(
	ctx context.Context,
	swiperID, swipedID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND liked = ?", swiperID, swipedID, false).
		Count(&count).Error
	return count > 0, err
}

// GetAdmirers returns users who liked the given user and whom the user has
// not passed on.
//
// Behavior:
//   - Only swipes where swiped_id = userID and liked = true are returned.
//   - Excludes swipers the user explicitly passed (a pass is permanent).
//   - Ordered by created_at DESC, swiper_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *SwipeRepository) GetAdmirers(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	var swipes []db.Swipe

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Invalid(err.Error())
	}

	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.liked = ?", userID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.liked = ?
			)`, userID, false).
		Order("s.created_at DESC, s.swiper_id DESC").
		Limit(limit + 1)

	if cursor.SwiperID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(s.created_at < ? OR (s.created_at = ? AND s.swiper_id < ?))",
			ts, ts, cursor.SwiperID,
		)
	}

	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			SwiperID:    last.SwiperID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// CountAdmirers returns how many users liked the given user, excluding
// swipers the user has passed on. Used with the Redis cache (DB fallback).
func (r *SwipeRepository) CountAdmirers(
	ctx context.Context,
	userID uint64,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.liked = ?", userID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.liked = ?
			)`, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
