// Package notifications keeps a history of announcements and admin actions.
package notifications

import (
	"context"

	"go.uber.org/zap"

	"radioBot/internal/app/events"
	"radioBot/internal/domain"
)

// Subscriber is the read side of the event bus.
type Subscriber interface {
	Subscribe(topic string) (<-chan any, func())
}

type Recorder struct {
	repo domain.NotificationRepository
	bus  Subscriber
	log  *zap.Logger
}

func NewRecorder(repo domain.NotificationRepository, bus Subscriber, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, bus: bus, log: logger.Named("notifications")}
}

// Run persists events until ctx is cancelled or the bus is closed.
func (r *Recorder) Run(ctx context.Context) error {
	nowPlaying, unsubscribeNowPlaying := r.bus.Subscribe(events.TopicNowPlaying)
	defer unsubscribeNowPlaying()
	adminActions, unsubscribeAdmin := r.bus.Subscribe(events.TopicAdminAction)
	defer unsubscribeAdmin()

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-nowPlaying:
			if !ok {
				return nil
			}
			r.Record(ctx, payload)
		case payload, ok := <-adminActions:
			if !ok {
				return nil
			}
			r.Record(ctx, payload)
		}
	}
}

// Record stores one bus payload. Unknown payload types are ignored.
func (r *Recorder) Record(ctx context.Context, payload any) {
	n := toNotification(payload)
	if n == nil {
		r.log.Debug("ignoring payload", zap.Any("payload", payload))
		return
	}
	if _, err := r.repo.SaveNotification(ctx, n); err != nil {
		r.log.Warn("save notification", zap.String("type", string(n.Type)), zap.Error(err))
	}
}

func toNotification(payload any) *domain.Notification {
	switch p := payload.(type) {
	case events.NowPlayingDTO:
		return &domain.Notification{
			Type:    domain.NotificationNowPlaying,
			Song:    &domain.Song{Title: p.Title, Artist: p.Artist},
			Message: p.Title + " by " + p.Artist,
		}
	case events.AdminActionDTO:
		return &domain.Notification{
			Type:     domain.NotificationAdminAction,
			Platform: domain.Platform(p.Platform),
			UserID:   p.UserID,
			Username: p.Username,
			Command:  p.Command,
			Message:  p.Text,
		}
	default:
		return nil
	}
}
