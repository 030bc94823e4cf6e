// Package session holds the per-room state shared by the command router and
// the now-playing poller.
package session

import (
	"sort"
	"strings"
	"sync"

	"radioBot/internal/domain"
)

// State is safe for concurrent use. The admin set only grows; the last known
// song is replaced on every observed change.
type State struct {
	mu       sync.RWMutex
	admins   map[string]struct{}
	lastSong *domain.Song
}

func NewState(defaultAdmins []string) *State {
	s := &State{admins: make(map[string]struct{}, len(defaultAdmins))}
	for _, id := range defaultAdmins {
		s.AddAdmin(id)
	}
	return s
}

// IsAdmin is the only authorization check the bot performs.
func (s *State) IsAdmin(userID string) bool {
	if s == nil || userID == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[userID]
	return ok
}

// AddAdmin reports whether the user was newly added.
func (s *State) AddAdmin(userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[userID]; ok {
		return false
	}
	s.admins[userID] = struct{}{}
	return true
}

func (s *State) Admins() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.admins))
	for id := range s.admins {
		out = append(out, id)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// ObserveSong stores song as the last known one and reports whether it differs
// from the previous value. Compare and update happen under one lock.
func (s *State) ObserveSong(song domain.Song) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSong != nil && *s.lastSong == song {
		return false
	}
	s.lastSong = &song
	return true
}

func (s *State) LastSong() (domain.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSong == nil {
		return domain.Song{}, false
	}
	return *s.lastSong, true
}

func (s *State) Snapshot() domain.SessionStatus {
	status := domain.SessionStatus{Admins: s.Admins()}
	if song, ok := s.LastSong(); ok {
		status.LastKnownSong = &song
	}
	return status
}
