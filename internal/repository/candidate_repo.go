package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/db"
)

// fetchCap bounds how many SQL-eligible candidates a single discovery query
// pulls before the in-memory distance filter and ranking run.
const fetchCap = 500

// CandidateRepository runs the discovery candidate filter query.
type CandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new repository bound to the given DB connection.
func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

// FindCandidates returns users eligible to be shown to the requester.
//
// Filters applied in SQL:
//   - candidate is not the requester and is active
//   - requester has never swiped on the candidate (any prior decision
//     excludes permanently)
//   - no block exists in either direction
//   - candidate age within [ageMin, ageMax] (an inverted range simply
//     matches nothing)
//   - gender equals showMe unless showMe is "everyone"
//   - candidate has a profile row (join); orphaned users never surface
//
// Distance filtering happens in the caller: it needs both sides' coordinates
// and candidates without coordinates must pass through.
func (r *CandidateRepository) FindCandidates(
	ctx context.Context,
	requesterID uint64,
	ageMin, ageMax int,
	showMe string,
) ([]db.Candidate, error) {
	now := time.Now().UTC()
	youngest := now.AddDate(-ageMin, 0, 0)     // born on/before this → at least ageMin
	oldest := now.AddDate(-(ageMax + 1), 0, 0) // born after this → at most ageMax

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Select("users.*").
		Joins("JOIN profiles p ON p.user_id = users.id").
		Where("users.id <> ?", requesterID).
		Where("users.active = ?", true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.swiper_id = ? AND s.swiped_id = users.id
			)`, requesterID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = users.id)
				   OR (b.blocker_id = users.id AND b.blocked_id = ?)
			)`, requesterID, requesterID).
		Where("p.birth_date <= ? AND p.birth_date > ?", youngest, oldest)

	if showMe != "" && showMe != "everyone" {
		query = query.Where("p.gender = ?", showMe)
	}

	var users []db.User
	if err := query.
		Order("users.id").
		Limit(fetchCap).
		Preload("Profile").
		Find(&users).Error; err != nil {
		return nil, err
	}

	candidates := make([]db.Candidate, 0, len(users))
	for _, u := range users {
		if u.Profile == nil {
			continue // orphaned between join and preload, skip rather than fail
		}
		profile := *u.Profile
		u.Profile = nil
		candidates = append(candidates, db.Candidate{User: u, Profile: profile})
	}
	return candidates, nil
}
