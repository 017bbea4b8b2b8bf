package notifications

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/amora-app/discovery/internal/app"
	"github.com/amora-app/discovery/internal/db"
	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/repository"
)

const listLimit = 50

// Service exposes the per-user notification feed. Notifications are written
// by the swipe transaction; this service only reads and acks them.
type Service struct {
	appCtx *app.AppContext
	repo   *repository.NotificationRepository
}

func NewNotificationService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		repo:   repository.NewNotificationRepository(appCtx.DB),
	}
}

// List returns the user's most recent notifications.
func (s *Service) List(ctx context.Context, userID uint64) ([]db.Notification, error) {
	return s.repo.ListForUser(ctx, userID, listLimit)
}

// MarkRead acks one notification owned by the user.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	err := s.repo.MarkRead(ctx, userID, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrNotFound
	}
	return err
}
