package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amora-app/discovery/internal/app"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/middleware"
)

// Registrar ties the notifications service into the HTTP router.
type Registrar struct {
	appCtx    *app.AppContext
	jwtSecret string
}

func NewRegistrar(appCtx *app.AppContext, jwtSecret string) *Registrar {
	return &Registrar{appCtx: appCtx, jwtSecret: jwtSecret}
}

func (r *Registrar) Register(router chi.Router) {
	service := NewNotificationService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(middleware.Auth(r.jwtSecret))
		g.Get("/notifications", service.handleList)
		g.Post("/notifications/{id}/read", service.handleMarkRead)
	})
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	items, err := s.List(r.Context(), userID)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"notifications": items})
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		svcErr.Respond(w, svcErr.Invalid("notification id must be numeric"))
		return
	}

	if err := s.MarkRead(r.Context(), userID, id); err != nil {
		svcErr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
