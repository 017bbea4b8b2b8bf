package discovery

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/ranking"
	"github.com/amora-app/discovery/internal/repository"
	"github.com/amora-app/discovery/internal/utils/pagination"
)

// admirersPageSize is the fixed page size for the admirers list.
const admirersPageSize = 20

// swipeStore is the swipe-storage surface the service depends on, split out
// so tests can inject storage failures behind the retry path.
type swipeStore interface {
	Record(ctx context.Context, swiperID, swipedID uint64, liked bool) (*db.Match, error)
	HasPassed(ctx context.Context, swiperID, swipedID uint64) (bool, error)
	GetAdmirers(ctx context.Context, userID uint64, paginationToken *string, limit int) ([]db.Swipe, *string, error)
	CountAdmirers(ctx context.Context, userID uint64) (int64, error)
}

// Service implements the discovery API: the candidate feed, compatibility
// recommendations, swipe recording with match detection, and the admirers
// surface. Business logic lives here, on top of the repository and cache
// layers.
type Service struct {
	appCtx        *app.AppContext
	ranker        *ranking.Ranker
	candidateRepo *repository.CandidateRepository
	swipeRepo     swipeStore
	blockRepo     *repository.BlockRepository
	matchRepo     *repository.MatchRepository
	profileRepo   *repository.ProfileRepository
	userRepo      *repository.UserRepository
}

// NewDiscoveryService creates the discovery service with dependencies from
// AppContext. The ranker takes the injected random source so the feed
// tie-breaker is reproducible in tests.
func NewDiscoveryService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		ranker:        ranking.NewRanker(appCtx.Rand),
		candidateRepo: repository.NewCandidateRepository(appCtx.DB),
		swipeRepo:     repository.NewSwipeRepository(appCtx.DB),
		blockRepo:     repository.NewBlockRepository(appCtx.DB),
		matchRepo:     repository.NewMatchRepository(appCtx.DB),
		profileRepo:   repository.NewProfileRepository(appCtx.DB),
		userRepo:      repository.NewUserRepository(appCtx.DB),
	}
}

// CandidateView is the discovery feed entry returned to clients.
type CandidateView struct {
	UserID     uint64   `json:"user_id"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	Bio        string   `json:"bio"`
	Interests  []string `json:"interests"`
	Photos     []string `json:"photos"`
	Tier       string   `json:"subscription_tier"`
	Verified   bool     `json:"verified"`
	Completion int      `json:"profile_completion"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// RecommendationView is a candidate annotated with its compatibility score.
type RecommendationView struct {
	CandidateView
	CompatibilityScore int `json:"compatibility_score"`
}

// SwipeResult reports whether a swipe completed a match.
type SwipeResult struct {
	IsMatch bool    `json:"is_match"`
	MatchID *uint64 `json:"match_id,omitempty"`
}

// AdmirerView is one entry of the admirers list.
type AdmirerView struct {
	UserID  uint64 `json:"user_id"`
	LikedAt int64  `json:"liked_at_unix_ms"`
}

// AdmirersPage is a cursor-paginated admirers result.
type AdmirersPage struct {
	Admirers  []AdmirerView `json:"admirers"`
	NextToken *string       `json:"next_pagination_token,omitempty"`
}

// MatchView is one entry of the matches list.
type MatchView struct {
	MatchID   uint64    `json:"match_id"`
	UserID    uint64    `json:"user_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// Discover returns the ranked candidate feed for the user.
//
// Pipeline: SQL candidate filter (age, gender, not-swiped, not-blocked,
// active) → distance filter (unknown coordinates pass through) → rank by
// tier/completion/recency/random → clamped limit/offset page. Filters that
// are too narrow yield an empty list, never an error.
func (s *Service) Discover(ctx context.Context, userID uint64, limit, offset int) ([]CandidateView, error) {
	requester, prefs, err := s.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	cands, err := s.candidateRepo.FindCandidates(ctx, userID, prefs.AgeMin, prefs.AgeMax, prefs.ShowMe)
	if err != nil {
		return nil, err
	}

	cands = s.filterByDistance(requester, prefs.MaxDistanceKm, cands)
	s.ranker.Rank(cands)

	page := pagination.ClampPage(limit, offset)
	cands = pagination.Slice(cands, page)

	views := make([]CandidateView, 0, len(cands))
	for i := range cands {
		views = append(views, s.candidateView(requester, &cands[i]))
	}

	s.appCtx.Logger.Debug("discover served", "user", userID, "count", len(views))
	return views, nil
}

// Recommendations returns candidates ordered by compatibility score against
// the requester's profile (interests/hobbies/education overlap) instead of
// the default feed order.
func (s *Service) Recommendations(ctx context.Context, userID uint64, limit, offset int) ([]RecommendationView, error) {
	requester, prefs, err := s.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	cands, err := s.candidateRepo.FindCandidates(ctx, userID, prefs.AgeMin, prefs.AgeMax, prefs.ShowMe)
	if err != nil {
		return nil, err
	}

	cands = s.filterByDistance(requester, prefs.MaxDistanceKm, cands)
	scored := s.ranker.RankByCompatibility(prefs, cands)

	page := pagination.ClampPage(limit, offset)
	scored = pagination.Slice(scored, page)

	views := make([]RecommendationView, 0, len(scored))
	for i := range scored {
		views = append(views, RecommendationView{
			CandidateView:      s.candidateView(requester, &scored[i].Candidate),
			CompatibilityScore: scored[i].Score,
		})
	}
	return views, nil
}

// RecordSwipe records a like/pass from the user on the target.
//
// Behavior:
//   - Self-swipes and swipes across a block are rejected before any write.
//   - A duplicate swipe on the same pair is rejected (swipes are permanent).
//   - A like completing reciprocity creates the match and notifies both
//     parties atomically with the swipe.
//   - A transient connection failure retries the transaction once; the
//     reciprocity check runs inside it, so the retry is safe.
func (s *Service) RecordSwipe(ctx context.Context, userID, targetID uint64, liked bool) (*SwipeResult, error) {
	if userID == targetID {
		return nil, svcErr.ErrSelfSwipe
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, err
	}
	if !target.Active {
		return nil, svcErr.ErrNotFound
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, svcErr.ErrBlocked
	}

	match, err := s.swipeRepo.Record(ctx, userID, targetID, liked)
	if isTransient(err) {
		s.appCtx.Logger.Warn("swipe tx hit transient failure, retrying", "user", userID, "target", targetID)
		match, err = s.swipeRepo.Record(ctx, userID, targetID, liked)
		if isTransient(err) {
			return nil, svcErr.ErrServiceUnavailable
		}
	}
	if err != nil {
		return nil, err
	}

	if liked {
		// best-effort counter bump; a miss repopulates from the DB. The
		// count query excludes admirers the target passed on, so a like
		// from one of them must not bump the cache either.
		passed, passErr := s.swipeRepo.HasPassed(ctx, targetID, userID)
		if passErr != nil {
			s.appCtx.Logger.Warn("admirer pass check failed", "err", passErr)
		} else if !passed {
			if cacheErr := s.appCtx.RedisCache.IncrAdmirerCount(ctx, targetID); cacheErr != nil {
				s.appCtx.Logger.Warn("admirer count incr failed", "err", cacheErr)
			}
		}
	}

	result := &SwipeResult{}
	if match != nil {
		result.IsMatch = true
		result.MatchID = &match.ID
		s.appCtx.Logger.Info("match created", "match_id", match.ID, "user1", match.User1ID, "user2", match.User2ID)
	}
	return result, nil
}

// ListAdmirers returns users who liked the requester and whom the requester
// has not passed on, cursor-paginated.
func (s *Service) ListAdmirers(ctx context.Context, userID uint64, paginationToken *string) (*AdmirersPage, error) {
	swipes, nextToken, err := s.swipeRepo.GetAdmirers(ctx, userID, paginationToken, admirersPageSize)
	if err != nil {
		return nil, err
	}

	page := &AdmirersPage{Admirers: make([]AdmirerView, 0, len(swipes)), NextToken: nextToken}
	for _, sw := range swipes {
		page.Admirers = append(page.Admirers, AdmirerView{
			UserID:  sw.SwiperID,
			LikedAt: sw.CreatedAt.UnixMilli(),
		})
	}
	return page, nil
}

// CountAdmirers returns how many users liked the requester.
// Cache-first: Redis hit refreshes the TTL; a miss falls back to the DB and
// repopulates the cache.
func (s *Service) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	if count, ok, err := s.appCtx.RedisCache.GetAdmirerCount(ctx, userID); err == nil && ok {
		return count, nil
	}

	count, err := s.swipeRepo.CountAdmirers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if cacheErr := s.appCtx.RedisCache.SetAdmirerCount(ctx, userID, count); cacheErr != nil {
		s.appCtx.Logger.Warn("admirer count cache set failed", "err", cacheErr)
	}
	return count, nil
}

// ListMatches returns the requester's matches, newest first, with the
// partner's id resolved per match.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]MatchView, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, MatchView{
			MatchID:   m.ID,
			UserID:    m.Other(userID),
			MatchedAt: m.CreatedAt,
		})
	}
	return views, nil
}

// --- helpers ---

// loadRequester resolves the requesting user and their discovery
// preferences. A missing profile row means preferences cannot be resolved.
func (s *Service) loadRequester(ctx context.Context, userID uint64) (*db.User, *db.Profile, error) {
	prefs, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, svcErr.ErrPreferencesNotFound
		}
		return nil, nil, err
	}

	requester, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return requester, prefs, nil
}

func (s *Service) filterByDistance(requester *db.User, maxKm int, cands []db.Candidate) []db.Candidate {
	kept := cands[:0]
	for i := range cands {
		if ranking.WithinDistance(requester, &cands[i].User, maxKm) {
			kept = append(kept, cands[i])
		}
	}
	return kept
}

func (s *Service) candidateView(requester *db.User, c *db.Candidate) CandidateView {
	view := CandidateView{
		UserID:     c.User.ID,
		Age:        c.Profile.Age(time.Now().UTC()),
		Gender:     c.Profile.Gender,
		Bio:        c.Profile.Bio,
		Interests:  c.Profile.Interests,
		Photos:     c.Profile.Photos,
		Tier:       c.User.SubscriptionTier,
		Verified:   c.User.Verified,
		Completion: c.Profile.Completion,
	}
	if requester.HasLocation() && c.User.HasLocation() {
		dist := ranking.HaversineKm(*requester.Latitude, *requester.Longitude, *c.User.Latitude, *c.User.Longitude)
		view.DistanceKm = &dist
	}
	return view
}

// isTransient reports whether the error is a connection-level failure worth
// one transparent retry. Deterministic caller-facing errors never retry.
func isTransient(err error) bool {
	return err != nil && errors.Is(err, driver.ErrBadConn)
}
