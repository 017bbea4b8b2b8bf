package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/repository"
)

// Service implements account registration and login. It is the
// authenticated-user resolution collaborator the discovery surface depends
// on: login issues the bearer token the auth middleware validates.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(appCtx *app.AppContext, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterInput carries the registration fields. Gender and birth date are
// collected up front because discovery filters on them.
type RegisterInput struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"birth_date"`
}

// AuthResult is returned by both register and login.
type AuthResult struct {
	UserID uint64 `json:"user_id"`
	Token  string `json:"token"`
}

// Register creates a user with an empty-but-present profile and returns a
// fresh token. The profile row is created alongside the user so the account
// is immediately resolvable by the candidate filter.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, svcErr.Invalid("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, svcErr.Invalid("password must be at least 8 characters")
	}
	if in.BirthDate.IsZero() || age(in.BirthDate) < 18 {
		return nil, svcErr.Invalid("must be at least 18 years old")
	}

	taken, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, svcErr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Email:            email,
		PasswordHash:     string(hash),
		SubscriptionTier: db.TierFree,
		Active:           true,
		LastActiveAt:     time.Now().UTC(),
	}
	profile := db.Profile{
		BirthDate: in.BirthDate,
		Gender:    strings.ToLower(strings.TrimSpace(in.Gender)),
		Interests: db.StringList{},
		Hobbies:   db.StringList{},
		Photos:    db.StringList{},
		AgeMin:    18,
		AgeMax:    99,
		ShowMe:    "everyone",
	}
	profile.Completion = profile.CompletionPercent()

	if err := s.userRepo.CreateWithProfile(ctx, &user, &profile); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID)
	return &AuthResult{UserID: user.ID, Token: token}, nil
}

// Login verifies credentials and issues a token. Inactive accounts cannot
// log in. A successful login also stamps last-active, which feeds the
// discovery ranking.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrBadCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, svcErr.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, svcErr.ErrBadCredentials
	}

	if err := s.userRepo.TouchLastActive(ctx, user.ID); err != nil {
		s.appCtx.Logger.Warn("failed to stamp last active", "user_id", user.ID, "err", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: user.ID, Token: token}, nil
}

func (s *Service) issueToken(userID uint64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func age(birthDate time.Time) int {
	now := time.Now().UTC()
	years := now.Year() - birthDate.Year()
	if birthDate.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}
