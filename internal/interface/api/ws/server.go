package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"radioBot/internal/app/events"
	"radioBot/internal/domain"
)

const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultChannelID  = "console"
	DefaultOperatorID = "console"
	defaultUsername   = "console-user"
)

// Server is the local operator console. It accepts chat lines over
// /ws/chat as platform "console" and streams bot output back to every
// connected client.
type Server struct {
	addr       string
	operatorID string
	upgrader   websocket.Upgrader
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	handler MessageHandler

	httpSrv *http.Server
	api     *apiHandlers
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Frame is what clients receive: Type is "reply" for console replies or a
// bus topic for forwarded events.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:       cfg.addr(),
		operatorID: cfg.operatorID(),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
		log:     logger.Named("console"),
		clients: make(map[*wsClient]struct{}),
		api:     newAPIHandlers(cfg, logger),
	}
}

// Handler returns the HTTP routes. ctx bounds the lifetime of websocket
// sessions.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	if s.api != nil {
		s.api.register(mux)
	}
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("shutdown error", zap.Error(err))
		}
		s.closeClients()
	}()

	s.log.Info("listening", zap.String("addr", s.addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade error", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	s.log.Info("client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", clientCount))

	go s.handleClient(ctx, client)
}

func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	defer func() {
		client.conn.Close()

		s.mu.Lock()
		delete(s.clients, client)
		clientCount := len(s.clients)
		s.mu.Unlock()

		s.log.Info("client disconnected", zap.Int("clients", clientCount))
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		if err := s.dispatchIncoming(ctx, data); err != nil {
			s.log.Warn("incoming dispatch error", zap.Error(err))
		}
	}
}

// checkOrigin admits non-browser clients (no Origin header), same-origin pages
// and pages served from loopback.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// incomingPayload carries no user id: console lines always belong to the
// configured operator.
type incomingPayload struct {
	Text      string `json:"text"`
	ChannelID string `json:"channel_id"`
	Username  string `json:"username"`
}

// dispatchIncoming accepts a JSON payload or a bare line of text.
func (s *Server) dispatchIncoming(ctx context.Context, data []byte) error {
	handler := s.getHandler()
	if handler == nil {
		return nil
	}

	payload := incomingPayload{}
	if err := json.Unmarshal(data, &payload); err != nil {
		payload.Text = strings.TrimSpace(string(data))
	} else {
		payload.Text = strings.TrimSpace(payload.Text)
	}

	if payload.Text == "" {
		return fmt.Errorf("ws: empty incoming text")
	}

	msg := domain.Message{
		Platform:  domain.PlatformConsole,
		ChannelID: orDefault(payload.ChannelID, DefaultChannelID),
		UserID:    s.operatorID,
		Username:  orDefault(payload.Username, defaultUsername),
		Text:      payload.Text,
	}

	return handler(ctx, msg)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func (s *Server) getHandler() MessageHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

func (s *Server) SetHandler(h MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// SendMessage delivers a console reply to every connected client.
func (s *Server) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if platform != domain.PlatformConsole {
		return fmt.Errorf("ws: unsupported platform %s", platform)
	}
	return s.broadcast(ctx, Frame{Type: "reply", Data: events.NewBotReplyDTO(platform, channelID, text)})
}

// Forward streams bus events to clients until ctx is cancelled. Replies to
// the console are skipped since SendMessage already delivered them.
func (s *Server) Forward(ctx context.Context, bus Subscriber, topics ...string) error {
	merged := make(chan Frame, 64)
	var wg sync.WaitGroup
	for _, topic := range topics {
		ch, unsubscribe := bus.Subscribe(topic)
		defer unsubscribe()

		wg.Add(1)
		go func(topic string, ch <-chan any) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-ch:
					if !ok {
						return
					}
					if reply, isReply := payload.(events.BotReplyDTO); isReply && reply.Platform == string(domain.PlatformConsole) {
						continue
					}
					select {
					case merged <- Frame{Type: topic, Data: payload}:
					case <-ctx.Done():
						return
					}
				}
			}
		}(topic, ch)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	for frame := range merged {
		if err := s.broadcast(ctx, frame); err != nil && ctx.Err() == nil {
			s.log.Warn("forward event", zap.String("type", frame.Type), zap.Error(err))
		}
	}
	return nil
}

// Subscriber is the read side of the event bus.
type Subscriber interface {
	Subscribe(topic string) (<-chan any, func())
}

func (s *Server) broadcast(ctx context.Context, frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.writeJSON(json.RawMessage(payload)); err != nil {
			s.log.Debug("removing client after write error", zap.Error(err))
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.conn.Close()
		}
	}

	return nil
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
		delete(s.clients, c)
	}
}
