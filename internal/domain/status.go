package domain

// SessionStatus is a point-in-time view of a bot session.
type SessionStatus struct {
	Admins        []string `json:"admins"`
	LastKnownSong *Song    `json:"last_known_song,omitempty"`
}
