package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/db"
)

// ProfileRepository provides data access for profiles, including the
// discovery preferences the candidate filter reads.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID fetches a user's profile. gorm.ErrRecordNotFound is returned
// verbatim; callers decide whether that means PreferencesNotFound.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save persists the full profile row. Completion is expected to be
// recomputed by the caller before saving.
func (r *ProfileRepository) Save(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
