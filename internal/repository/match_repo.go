package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/db"
)

// MatchRepository provides read access to matches. Creation happens only
// inside SwipeRepository.Record, which owns the canonical-pair invariant.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// ListForUser returns all matches the user is part of, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// GetByPair returns the match for a pair of users, in any order of ids.
func (r *MatchRepository) GetByPair(ctx context.Context, userA, userB uint64) (*db.Match, error) {
	canonical := db.NewMatch(userA, userB)
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", canonical.User1ID, canonical.User2ID).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}
