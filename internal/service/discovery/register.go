package discovery

import (
	"github.com/go-chi/chi/v5"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/middleware"
)

// Registrar ties the discovery service into the HTTP router.
type Registrar struct {
	appCtx    *app.AppContext
	jwtSecret string
}

// NewRegistrar creates a new Registrar for the discovery service.
func NewRegistrar(appCtx *app.AppContext, jwtSecret string) *Registrar {
	return &Registrar{appCtx: appCtx, jwtSecret: jwtSecret}
}

// Register mounts the discovery routes. All of them require an
// authenticated identity.
func (r *Registrar) Register(router chi.Router) {
	service := NewDiscoveryService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(middleware.Auth(r.jwtSecret))
		g.Get("/discover", service.handleDiscover)
		g.Get("/recommendations", service.handleRecommendations)
		g.Post("/swipes", service.handleSwipe)
		g.Get("/admirers", service.handleAdmirers)
		g.Get("/admirers/count", service.handleAdmirerCount)
		g.Get("/matches", service.handleMatches)
	})
}
