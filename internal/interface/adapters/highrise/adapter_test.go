package highrise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"radioBot/internal/domain"
)

// fakeRoom plays the server side of the bot API for one connection.
type fakeRoom struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu      sync.Mutex
	headers http.Header
	frames  []map[string]any
	conns   int

	script [][]byte
	got    chan map[string]any

	// dropFirst closes the first connection after its first keepalive.
	dropFirst bool
}

func newFakeRoom(t *testing.T, script ...string) (*fakeRoom, *httptest.Server) {
	room := &fakeRoom{t: t, got: make(chan map[string]any, 16)}
	for _, s := range script {
		room.script = append(room.script, []byte(s))
	}
	srv := httptest.NewServer(http.HandlerFunc(room.serve))
	t.Cleanup(srv.Close)
	return room, srv
}

func (f *fakeRoom) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.headers = r.Header.Clone()
	f.conns++
	first := f.conns == 1
	f.mu.Unlock()

	for _, frame := range f.script {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame map[string]any
		if err := json.Unmarshal(data, &frame); err != nil {
			f.t.Errorf("client sent invalid json: %s", data)
			continue
		}
		f.mu.Lock()
		f.frames = append(f.frames, frame)
		f.mu.Unlock()
		select {
		case f.got <- frame:
		default:
		}
		if f.dropFirst && first && frame["_type"] == "KeepaliveRequest" {
			return
		}
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFrame(t *testing.T, ch <-chan map[string]any, wantType string) map[string]any {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-ch:
			if f["_type"] == wantType {
				return f
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", wantType)
			return nil
		}
	}
}

func TestAdapter_ChatRoundTrip(t *testing.T) {
	room, srv := newFakeRoom(t,
		`{"_type":"SessionMetadata","user_id":"bot-1","room_info":{"owner_id":"owner-1","room_name":"Radio"}}`,
		`{"_type":"ChatEvent","user":{"id":"bot-1","username":"radiobot"},"message":"!help"}`,
		`{"_type":"ChatEvent","user":{"id":"owner-1","username":"boss"},"message":"!current"}`,
		`{"_type":"ChatEvent","user":{"id":"u-2","username":"guest"},"message":"hi","whisper":true}`,
	)

	connected := make(chan struct{}, 1)
	a := NewAdapter(Config{
		URL:    wsURL(srv),
		RoomID: "room-9",
		Token:  "secret",
		Logger: zaptest.NewLogger(t),
		OnConnected: func(ctx context.Context) {
			connected <- struct{}{}
		},
	})

	received := make(chan domain.Message, 4)
	a.SetHandler(func(ctx context.Context, msg domain.Message) error {
		received <- msg
		return a.SendMessage(ctx, domain.PlatformHighrise, msg.ChannelID, "echo: "+msg.Text)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnected was not called")
	}

	var got []domain.Message
	for len(got) < 2 {
		select {
		case m := <-received:
			got = append(got, m)
		case <-time.After(2 * time.Second):
			t.Fatalf("received %d messages, want 2", len(got))
		}
	}
	want := []domain.Message{
		{Platform: domain.PlatformHighrise, ChannelID: "room-9", UserID: "owner-1", Username: "boss", Text: "!current", IsPlatformAdmin: true},
		{Platform: domain.PlatformHighrise, ChannelID: "room-9", UserID: "u-2", Username: "guest", Text: "hi", IsPrivate: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	first := waitFrame(t, room.got, "ChatRequest")
	if first["message"] != "echo: !current" {
		t.Errorf("first reply = %v", first["message"])
	}

	room.mu.Lock()
	headers := room.headers
	room.mu.Unlock()
	if headers.Get("room-id") != "room-9" || headers.Get("api-token") != "secret" {
		t.Errorf("handshake headers = %v", headers)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestAdapter_KeepaliveAndReconnect(t *testing.T) {
	room, srv := newFakeRoom(t, `{"_type":"SessionMetadata","user_id":"bot-1"}`)
	room.dropFirst = true

	a := NewAdapter(Config{
		URL:               wsURL(srv),
		RoomID:            "room",
		Token:             "t",
		KeepaliveInterval: 10 * time.Millisecond,
		ReconnectDelay:    10 * time.Millisecond,
		Logger:            zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Start(ctx)

	waitFrame(t, room.got, "KeepaliveRequest")

	// The server drops the first connection after a keepalive.
	deadline := time.After(2 * time.Second)
	for {
		room.mu.Lock()
		conns := room.conns
		room.mu.Unlock()
		if conns >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("adapter did not reconnect")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAdapter_SendMessageErrors(t *testing.T) {
	a := NewAdapter(Config{RoomID: "room", Token: "t"})
	ctx := context.Background()

	if err := a.SendMessage(ctx, domain.PlatformHighrise, "room", "hi"); err != ErrNotConnected {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
	if err := a.SendMessage(ctx, domain.PlatformConsole, "room", "hi"); err == nil {
		t.Error("expected error for foreign platform")
	}
	if err := a.SendMessage(ctx, domain.PlatformHighrise, "room", ""); err != nil {
		t.Errorf("empty text should be a no-op, got %v", err)
	}
}

func TestAdapter_StartValidates(t *testing.T) {
	if err := NewAdapter(Config{RoomID: "room"}).Start(context.Background()); err == nil {
		t.Error("expected error without token")
	}
	if err := NewAdapter(Config{Token: "t"}).Start(context.Background()); err == nil {
		t.Error("expected error without room id")
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{name: "short", text: "hello", max: 10, want: []string{"hello"}},
		{name: "lines packed", text: "aaa\nbbb\nccc", max: 7, want: []string{"aaa\nbbb", "ccc"}},
		{name: "long line cut", text: "abcdefghij", max: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "runes", text: "ééééé", max: 2, want: []string{"éé", "éé", "é"}},
		{name: "long line after short", text: "ab\ncdefgh", max: 4, want: []string{"ab", "cdef", "gh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, splitMessage(tt.text, tt.max)); diff != "" {
				t.Errorf("splitMessage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
