package outs

import (
	"context"
	"fmt"
	"sync"

	"radioBot/internal/domain"
)

// Sender is implemented by every outbound transport.
type Sender interface {
	SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error
}

// ErrNoSender is returned when no transport is registered for a platform.
type ErrNoSender struct {
	Platform domain.Platform
}

func (e *ErrNoSender) Error() string {
	return fmt.Sprintf("outs: no sender registered for platform %s", e.Platform)
}

// MultiSender routes each message to the sender registered for its platform.
type MultiSender struct {
	mu      sync.RWMutex
	senders map[domain.Platform]Sender
}

func NewMultiSender() *MultiSender {
	return &MultiSender{
		senders: make(map[domain.Platform]Sender),
	}
}

func (m *MultiSender) Register(platform domain.Platform, sender Sender) {
	if m == nil || sender == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senders[platform] = sender
}

func (m *MultiSender) Unregister(platform domain.Platform) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.senders, platform)
}

func (m *MultiSender) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if m == nil {
		return fmt.Errorf("outs: multi sender not configured")
	}
	m.mu.RLock()
	sender, ok := m.senders[platform]
	m.mu.RUnlock()
	if !ok {
		return &ErrNoSender{Platform: platform}
	}

	return sender.SendMessage(ctx, platform, channelID, text)
}
