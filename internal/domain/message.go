package domain

type Platform string

const (
	PlatformHighrise Platform = "highrise"
	// PlatformConsole is the local websocket console used for operating the bot
	// without a room connection.
	PlatformConsole Platform = "console"
)

// Message is a single chat event as delivered by a transport adapter.
type Message struct {
	Platform  Platform
	ChannelID string
	UserID    string
	Username  string
	Text      string
	IsPrivate bool

	// Set by the adapter from what the platform reports. Authorization never
	// relies on it; admin rights come from the session admin set.
	IsPlatformAdmin bool
}

// Target identifies a room on a platform that outbound messages go to.
type Target struct {
	Platform  Platform
	ChannelID string
}
