package radioapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"radioBot/internal/domain"
	"radioBot/internal/infrastructure/radioapi"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*radioapi.Client, *[]recordedRequest) {
	t.Helper()

	var reqs []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Body: string(b)})
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c, err := radioapi.NewClient(radioapi.Config{
		BaseURL: ts.URL + "/api/",
		Timeout: time.Second,
		Logger:  zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, &reqs
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:9126", "/api"} {
		if _, err := radioapi.NewClient(radioapi.Config{BaseURL: base}); err == nil {
			t.Errorf("NewClient(%q): expected error", base)
		}
	}
}

func TestRequest_JoinsEndpoint(t *testing.T) {
	c, reqs := newTestServer(t, respond(http.StatusOK, `{"ok":true}`))

	raw, err := c.Request(context.Background(), "/songs/current", http.MethodGet, nil)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("body = %s", raw)
	}
	if got := (*reqs)[0].Path; got != "/api/songs/current" {
		t.Errorf("path = %q, want /api/songs/current", got)
	}
}

func TestRequest_Failures(t *testing.T) {
	cases := map[string]struct {
		handler    http.HandlerFunc
		wantStatus int
	}{
		"server error":   {handler: respond(http.StatusInternalServerError, `boom`), wantStatus: 500},
		"not found":      {handler: respond(http.StatusNotFound, `{}`), wantStatus: 404},
		"malformed json": {handler: respond(http.StatusOK, `{"song":`), wantStatus: 200},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestServer(t, tc.handler)

			_, err := c.Request(context.Background(), "songs/current", http.MethodGet, nil)
			var apiErr *radioapi.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *radioapi.Error, got %v", err)
			}
			if apiErr.StatusCode != tc.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestRequest_Timeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	c, err := radioapi.NewClient(radioapi.Config{BaseURL: ts.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.CurrentSong(context.Background())
	var apiErr *radioapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *radioapi.Error on timeout, got %v", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", apiErr.StatusCode)
	}
}

func TestRequest_UnsupportedMethod(t *testing.T) {
	c, reqs := newTestServer(t, respond(http.StatusOK, `{}`))

	if _, err := c.Request(context.Background(), "songs/current", http.MethodPut, nil); err == nil {
		t.Fatal("expected error for PUT")
	}
	if len(*reqs) != 0 {
		t.Errorf("expected no request to be sent, got %d", len(*reqs))
	}
}

func TestCurrentSong(t *testing.T) {
	cases := map[string]struct {
		body string
		want domain.Song
	}{
		"full":          {body: `{"song":{"title":"Despacito","artist":"Luis Fonsi","duration":228}}`, want: domain.Song{Title: "Despacito", Artist: "Luis Fonsi"}},
		"missing field": {body: `{"song":{"title":"Intro"}}`, want: domain.Song{Title: "Intro", Artist: "Unknown"}},
		"no song":       {body: `{}`, want: domain.Song{Title: "Unknown", Artist: "Unknown"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestServer(t, respond(http.StatusOK, tc.body))

			got, err := c.CurrentSong(context.Background())
			if err != nil {
				t.Fatalf("CurrentSong: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("song mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueue(t *testing.T) {
	c, _ := newTestServer(t, respond(http.StatusOK, `[{"title":"A","artist":"X","requestedBy":"u1"},{"title":"B","artist":"Y"}]`))

	got, err := c.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	want := []domain.QueueEntry{
		{Title: "A", Artist: "X", RequestedBy: "u1"},
		{Title: "B", Artist: "Y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestQueue_EmptyAndInvalid(t *testing.T) {
	c, _ := newTestServer(t, respond(http.StatusOK, `[]`))
	got, err := c.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty queue, got %v", got)
	}

	for _, body := range []string{`{"queue":[]}`, `null`} {
		c, _ := newTestServer(t, respond(http.StatusOK, body))
		if _, err := c.Queue(context.Background()); err == nil {
			t.Errorf("Queue with body %s: expected error", body)
		}
	}
}

func TestMutations(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		call     func(c *radioapi.Client) error
		wantReq  recordedRequest
		wantBody map[string]string
	}{
		"skip": {
			call:    func(c *radioapi.Client) error { return c.Skip(ctx) },
			wantReq: recordedRequest{Method: http.MethodPost, Path: "/api/songs/skip"},
		},
		"add": {
			call:     func(c *radioapi.Client) error { return c.AddSong(ctx, "never gonna", "user1") },
			wantReq:  recordedRequest{Method: http.MethodPost, Path: "/api/songs/add"},
			wantBody: map[string]string{"song": "never gonna", "requestedBy": "user1"},
		},
		"remove": {
			call:    func(c *radioapi.Client) error { return c.RemoveSong(ctx, 2) },
			wantReq: recordedRequest{Method: http.MethodDelete, Path: "/api/songs/remove/2"},
		},
		"block": {
			call:     func(c *radioapi.Client) error { return c.BlockSong(ctx, "bad song") },
			wantReq:  recordedRequest{Method: http.MethodPost, Path: "/api/songs/block"},
			wantBody: map[string]string{"song": "bad song"},
		},
		"unblock": {
			call:    func(c *radioapi.Client) error { return c.UnblockSong(ctx, "bad song") },
			wantReq: recordedRequest{Method: http.MethodDelete, Path: "/api/songs/block/bad%20song"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, reqs := newTestServer(t, respond(http.StatusOK, `{"success":true}`))

			if err := tc.call(c); err != nil {
				t.Fatalf("call: %v", err)
			}
			if len(*reqs) != 1 {
				t.Fatalf("expected 1 request, got %d", len(*reqs))
			}
			got := (*reqs)[0]
			if got.Method != tc.wantReq.Method || got.Path != tc.wantReq.Path {
				t.Errorf("request = %s %s, want %s %s", got.Method, got.Path, tc.wantReq.Method, tc.wantReq.Path)
			}
			if tc.wantBody != nil {
				var body map[string]string
				if err := json.Unmarshal([]byte(got.Body), &body); err != nil {
					t.Fatalf("request body: %v", err)
				}
				if diff := cmp.Diff(tc.wantBody, body); diff != "" {
					t.Errorf("body mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestMutation_ReportedFailure(t *testing.T) {
	cases := map[string]struct {
		body    string
		wantErr bool
	}{
		"explicit failure": {body: `{"success":false}`, wantErr: true},
		"error field":      {body: `{"error":"index out of range"}`, wantErr: true},
		"opaque object":    {body: `{"message":"removed"}`},
		"opaque string":    {body: `"ok"`},
		"opaque list":      {body: `[]`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestServer(t, respond(http.StatusOK, tc.body))

			err := c.RemoveSong(context.Background(), 0)
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
