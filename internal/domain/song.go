package domain

import "strings"

const UnknownField = "Unknown"

// Song is what the radio reports as currently playing. Two songs are the same
// track when title and artist match.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Normalized fills missing fields with UnknownField.
func (s Song) Normalized() Song {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = UnknownField
	}
	if strings.TrimSpace(s.Artist) == "" {
		s.Artist = UnknownField
	}
	return s
}

func (s Song) String() string {
	n := s.Normalized()
	return n.Title + " by " + n.Artist
}

// QueueEntry is one upcoming song, in the order the radio server returns them.
type QueueEntry struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

func (e QueueEntry) Song() Song {
	return Song{Title: e.Title, Artist: e.Artist}.Normalized()
}
