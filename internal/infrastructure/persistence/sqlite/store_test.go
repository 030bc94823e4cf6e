package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"radioBot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "bot.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_EmptyPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStore_History(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.SaveNotification(ctx, &domain.Notification{
		Type:      domain.NotificationNowPlaying,
		Platform:  domain.PlatformHighrise,
		Song:      &domain.Song{Title: "A", Artist: "X"},
		Message:   "A by X",
		CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("SaveNotification: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected an id to be assigned")
	}
	if _, err := s.SaveNotification(ctx, &domain.Notification{
		Type:      domain.NotificationAdminAction,
		Platform:  domain.PlatformConsole,
		UserID:    "u-root",
		Username:  "root",
		Command:   "skip",
		Message:   "!skip",
		CreatedAt: base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("SaveNotification: %v", err)
	}
	generic, err := s.SaveNotification(ctx, &domain.Notification{Message: "hello"})
	if err != nil {
		t.Fatalf("SaveNotification: %v", err)
	}
	if generic.Type != domain.NotificationGeneric || generic.CreatedAt.IsZero() {
		t.Errorf("defaults not applied: %+v", generic)
	}

	got, err := s.ListNotifications(ctx, 2)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	want := []*domain.Notification{
		{Type: domain.NotificationGeneric, Message: "hello"},
		{
			Type:     domain.NotificationAdminAction,
			Platform: domain.PlatformConsole,
			UserID:   "u-root",
			Username: "root",
			Command:  "skip",
			Message:  "!skip",
		},
	}
	opts := cmpopts.IgnoreFields(domain.Notification{}, "ID", "CreatedAt")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("ListNotifications mismatch (-want +got):\n%s", diff)
	}

	all, err := s.ListNotifications(ctx, 0)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if diff := cmp.Diff(&domain.Song{Title: "A", Artist: "X"}, all[2].Song); diff != "" {
		t.Errorf("song mismatch (-want +got):\n%s", diff)
	}
	if !all[2].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", all[2].CreatedAt, base)
	}
}

func TestStore_RejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveNotification(context.Background(), &domain.Notification{Type: "chat"})
	if err == nil {
		t.Fatal("expected the kind constraint to reject an unknown type")
	}
}

func TestStore_SaveNil(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveNotification(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil notification")
	}
}
