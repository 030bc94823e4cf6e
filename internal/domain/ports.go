package domain

import "context"

type OutgoingMessagePort interface {
	SendMessage(ctx context.Context, platform Platform, channelID, text string) error
}

// RadioService is the subset of the radio server API the bot drives.
type RadioService interface {
	CurrentSong(ctx context.Context) (Song, error)
	Queue(ctx context.Context) ([]QueueEntry, error)
	Skip(ctx context.Context) error
	AddSong(ctx context.Context, song, requestedBy string) error
	RemoveSong(ctx context.Context, index int) error
	BlockSong(ctx context.Context, song string) error
	UnblockSong(ctx context.Context, song string) error
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification *Notification) (*Notification, error)
	ListNotifications(ctx context.Context, limit int) ([]*Notification, error)
}
