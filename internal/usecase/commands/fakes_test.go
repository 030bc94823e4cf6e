package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"radioBot/internal/domain"
	"radioBot/internal/usecase/session"
)

var errRadioDown = errors.New("radio down")

type fakeRadio struct {
	mu    sync.Mutex
	calls []string

	song    domain.Song
	queue   []domain.QueueEntry
	err     error
	removed []int
	added   []string
	panics  bool
}

func (f *fakeRadio) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.panics {
		panic("boom")
	}
	return f.err
}

func (f *fakeRadio) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRadio) CurrentSong(ctx context.Context) (domain.Song, error) {
	if err := f.record("current"); err != nil {
		return domain.Song{}, err
	}
	return f.song, nil
}

func (f *fakeRadio) Queue(ctx context.Context) ([]domain.QueueEntry, error) {
	if err := f.record("queue"); err != nil {
		return nil, err
	}
	return f.queue, nil
}

func (f *fakeRadio) Skip(ctx context.Context) error { return f.record("skip") }

func (f *fakeRadio) AddSong(ctx context.Context, song, requestedBy string) error {
	if err := f.record("add"); err != nil {
		return err
	}
	f.added = append(f.added, song+"|"+requestedBy)
	return nil
}

func (f *fakeRadio) RemoveSong(ctx context.Context, index int) error {
	if err := f.record("remove"); err != nil {
		return err
	}
	f.removed = append(f.removed, index)
	return nil
}

func (f *fakeRadio) BlockSong(ctx context.Context, song string) error   { return f.record("block") }
func (f *fakeRadio) UnblockSong(ctx context.Context, song string) error { return f.record("unblock") }

type sent struct {
	Platform  domain.Platform
	ChannelID string
	Text      string
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (r *recordingSender) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, sent{Platform: platform, ChannelID: channelID, Text: text})
	return nil
}

func (r *recordingSender) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Text)
	}
	return out
}

type harness struct {
	router *Router
	radio  *fakeRadio
	state  *session.State
	out    *recordingSender
}

func newHarness(t *testing.T, admins ...string) *harness {
	t.Helper()
	h := &harness{
		radio: &fakeRadio{},
		state: session.NewState(admins),
		out:   &recordingSender{},
	}
	msgs := DefaultMessages()
	h.router = NewRouter("!", h.state, msgs, zaptest.NewLogger(t))
	RegisterBuiltins(h.router, Deps{
		Radio:           h.radio,
		Admins:          h.state,
		Messages:        msgs,
		StreamURL:       "http://radio.test/stream",
		MaxQueueDisplay: 5,
	})
	return h
}

// say sends text as userID and returns what the bot replied.
func (h *harness) say(t *testing.T, userID, text string) []string {
	t.Helper()
	before := len(h.out.texts())
	msg := domain.Message{
		Platform:  domain.PlatformHighrise,
		ChannelID: "room-1",
		UserID:    userID,
		Username:  userID + "_name",
		Text:      text,
	}
	if err := h.router.Handle(context.Background(), msg, h.out); err != nil {
		t.Fatalf("Handle(%q): %v", text, err)
	}
	return h.out.texts()[before:]
}
