package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amora-app/discovery/internal/app"
	svcErr "github.com/amora-app/discovery/internal/errors"
)

// Registrar ties the auth service into the HTTP router.
type Registrar struct {
	appCtx    *app.AppContext
	jwtSecret string
	tokenTTL  time.Duration
}

func NewRegistrar(appCtx *app.AppContext, jwtSecret string, tokenTTL time.Duration) *Registrar {
	return &Registrar{appCtx: appCtx, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register mounts the public auth routes.
func (r *Registrar) Register(router chi.Router) {
	service := NewAuthService(r.appCtx, r.jwtSecret, r.tokenTTL)
	router.Post("/auth/register", service.handleRegister)
	router.Post("/auth/login", service.handleLogin)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.Respond(w, svcErr.Invalid("malformed request body"))
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		svcErr.Respond(w, svcErr.Invalid("birth_date must be YYYY-MM-DD"))
		return
	}

	result, err := s.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		BirthDate: birthDate,
	})
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.Respond(w, svcErr.Invalid("malformed request body"))
		return
	}

	result, err := s.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
