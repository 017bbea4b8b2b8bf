package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/repository"
)

var validShowMe = map[string]bool{
	"everyone": true,
	"male":     true,
	"female":   true,
	"other":    true,
}

// Service implements profile management: viewing and editing the profile,
// discovery preferences, and blocking. Completion percent is recomputed on
// every mutation.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	blockRepo   *repository.BlockRepository
	userRepo    *repository.UserRepository
}

func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

// UpdateInput carries the editable profile fields. Nil pointers mean
// "leave unchanged"; nil lists arriving over the wire become empty lists.
type UpdateInput struct {
	Bio           *string  `json:"bio"`
	Interests     []string `json:"interests"`
	Hobbies       []string `json:"hobbies"`
	Education     *string  `json:"education"`
	Occupation    *string  `json:"occupation"`
	Photos        []string `json:"photos"`
	AgeMin        *int     `json:"age_min"`
	AgeMax        *int     `json:"age_max"`
	MaxDistanceKm *int     `json:"max_distance_km"`
	ShowMe        *string  `json:"show_me"`
}

// Get returns the user's own profile.
func (s *Service) Get(ctx context.Context, userID uint64) (*db.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Update applies the edit and recomputes completion before saving.
// Preference bounds are validated here; an inverted age range is allowed
// (it just makes discovery return nothing).
func (s *Service) Update(ctx context.Context, userID uint64, in UpdateInput) (*db.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		profile.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Interests != nil {
		profile.Interests = normalizeList(in.Interests)
	}
	if in.Hobbies != nil {
		profile.Hobbies = normalizeList(in.Hobbies)
	}
	if in.Education != nil {
		profile.Education = strings.TrimSpace(*in.Education)
	}
	if in.Occupation != nil {
		profile.Occupation = strings.TrimSpace(*in.Occupation)
	}
	if in.Photos != nil {
		profile.Photos = normalizeList(in.Photos)
	}
	if in.AgeMin != nil {
		if *in.AgeMin < 18 || *in.AgeMin > 120 {
			return nil, svcErr.Invalid("age_min must be between 18 and 120")
		}
		profile.AgeMin = *in.AgeMin
	}
	if in.AgeMax != nil {
		if *in.AgeMax < 18 || *in.AgeMax > 120 {
			return nil, svcErr.Invalid("age_max must be between 18 and 120")
		}
		profile.AgeMax = *in.AgeMax
	}
	if in.MaxDistanceKm != nil {
		if *in.MaxDistanceKm < 1 {
			return nil, svcErr.Invalid("max_distance_km must be positive")
		}
		profile.MaxDistanceKm = *in.MaxDistanceKm
	}
	if in.ShowMe != nil {
		showMe := strings.ToLower(strings.TrimSpace(*in.ShowMe))
		if !validShowMe[showMe] {
			return nil, svcErr.Invalid("show_me must be everyone, male, female or other")
		}
		profile.ShowMe = showMe
	}

	profile.Completion = profile.CompletionPercent()

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("profile updated", "user", userID, "completion", profile.Completion)
	return profile, nil
}

// BlockUser records a directed block. The blocked user disappears from the
// blocker's discovery and vice versa, and swipes between them are rejected.
func (s *Service) BlockUser(ctx context.Context, userID, targetID uint64) error {
	if userID == targetID {
		return svcErr.Invalid("cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.ErrNotFound
		}
		return err
	}
	return s.blockRepo.Create(ctx, userID, targetID)
}

// normalizeList trims entries, drops empties, and always returns a non-nil
// list so null and empty are indistinguishable downstream.
func normalizeList(in []string) db.StringList {
	out := make(db.StringList, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
