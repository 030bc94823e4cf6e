package domain

import "time"

type NotificationType string

const (
	NotificationNowPlaying  NotificationType = "now_playing"
	NotificationAdminAction NotificationType = "admin_action"
	NotificationGeneric     NotificationType = "generic"
)

// Notification is one line of the bot's history. Song is set for now-playing
// records; Command and UserID for admin actions.
type Notification struct {
	ID        int64
	Type      NotificationType
	Platform  Platform
	UserID    string
	Username  string
	Command   string
	Song      *Song
	Message   string
	CreatedAt time.Time
}
