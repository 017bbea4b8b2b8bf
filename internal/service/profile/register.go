package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amora-app/discovery/internal/app"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/middleware"
)

// Registrar ties the profile service into the HTTP router.
type Registrar struct {
	appCtx    *app.AppContext
	jwtSecret string
}

func NewRegistrar(appCtx *app.AppContext, jwtSecret string) *Registrar {
	return &Registrar{appCtx: appCtx, jwtSecret: jwtSecret}
}

// Register mounts the profile routes. All require authentication.
func (r *Registrar) Register(router chi.Router) {
	service := NewProfileService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(middleware.Auth(r.jwtSecret))
		g.Get("/profile", service.handleGet)
		g.Put("/profile", service.handleUpdate)
		g.Post("/blocks", service.handleBlock)
	})
}

type blockRequest struct {
	BlockedUserID uint64 `json:"blocked_user_id"`
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	profile, err := s.Get(r.Context(), userID)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		svcErr.Respond(w, svcErr.Invalid("malformed request body"))
		return
	}

	profile, err := s.Update(r.Context(), userID, in)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Service) handleBlock(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.Respond(w, svcErr.Invalid("malformed request body"))
		return
	}
	if req.BlockedUserID == 0 {
		svcErr.Respond(w, svcErr.Invalid("blocked_user_id is required"))
		return
	}

	if err := s.BlockUser(r.Context(), userID, req.BlockedUserID); err != nil {
		svcErr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
