package highrise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"radioBot/internal/domain"
)

const (
	DefaultURL               = "wss://highrise.game/web/botapi"
	DefaultKeepaliveInterval = 15 * time.Second
	DefaultReconnectDelay    = 5 * time.Second
	DefaultMaxMessageLength  = 256
)

var ErrNotConnected = errors.New("highrise: not connected")

type Config struct {
	URL    string
	RoomID string
	Token  string

	KeepaliveInterval time.Duration
	ReconnectDelay    time.Duration
	MaxMessageLength  int

	// OnConnected runs after every successful handshake, once the bot's
	// own user id is known.
	OnConnected func(ctx context.Context)

	Dialer *websocket.Dialer
	Logger *zap.Logger
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type Adapter struct {
	cfg     Config
	log     *zap.Logger
	handler MessageHandler

	mu      sync.RWMutex
	conn    *websocket.Conn
	botID   string
	ownerID string

	writeMu sync.Mutex
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, log: cfg.Logger.Named("highrise")}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// RoomID is the channel id replies and announcements use.
func (a *Adapter) RoomID() string {
	return a.cfg.RoomID
}

// Start keeps a session open until ctx is cancelled, reconnecting after
// ReconnectDelay whenever the connection drops.
func (a *Adapter) Start(ctx context.Context) error {
	if a.cfg.Token == "" {
		return errors.New("highrise: empty bot token")
	}
	if a.cfg.RoomID == "" {
		return errors.New("highrise: room id not configured")
	}

	for {
		err := a.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		a.log.Warn("session ended, reconnecting", zap.Error(err), zap.Duration("delay", a.cfg.ReconnectDelay))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.cfg.ReconnectDelay):
		}
	}
}

func (a *Adapter) session(ctx context.Context) error {
	header := http.Header{}
	header.Set("room-id", a.cfg.RoomID)
	header.Set("api-token", a.cfg.Token)

	conn, resp, err := a.cfg.Dialer.DialContext(ctx, a.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("highrise: dial: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("highrise: dial: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	a.log.Info("connected", zap.String("room", a.cfg.RoomID))

	sessionCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.mu.Lock()
		if a.conn == conn {
			a.conn = nil
		}
		a.mu.Unlock()
		conn.Close()
	}()

	go func() {
		<-sessionCtx.Done()
		// Unblocks ReadMessage.
		conn.Close()
	}()
	go a.keepalive(sessionCtx, conn)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("highrise: read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		a.dispatch(sessionCtx, data)
	}
}

func (a *Adapter) keepalive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(a.cfg.KeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.write(conn, keepaliveRequest{Type: typeKeepaliveRequest}); err != nil {
				a.log.Warn("keepalive failed", zap.Error(err))
				conn.Close()
				return
			}
		}
	}
}

func (a *Adapter) dispatch(ctx context.Context, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		a.log.Warn("malformed frame", zap.Error(err))
		return
	}

	switch env.Type {
	case typeSessionMetadata:
		var meta sessionMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			a.log.Warn("malformed session metadata", zap.Error(err))
			return
		}
		a.mu.Lock()
		a.botID = meta.UserID
		a.ownerID = meta.RoomInfo.OwnerID
		a.mu.Unlock()
		a.log.Info("session ready", zap.String("bot_user_id", meta.UserID), zap.String("room_name", meta.RoomInfo.RoomName))
		if a.cfg.OnConnected != nil {
			a.cfg.OnConnected(ctx)
		}

	case typeChatEvent:
		var ev chatEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			a.log.Warn("malformed chat event", zap.Error(err))
			return
		}
		a.handleChat(ctx, ev)

	case typeError:
		var e errorEvent
		_ = json.Unmarshal(data, &e)
		a.log.Warn("server error", zap.String("message", e.Message))

	case typeKeepaliveResponse:
	default:
		a.log.Debug("unhandled frame", zap.String("type", env.Type))
	}
}

func (a *Adapter) handleChat(ctx context.Context, ev chatEvent) {
	a.mu.RLock()
	handler := a.handler
	botID := a.botID
	ownerID := a.ownerID
	a.mu.RUnlock()

	if handler == nil || ev.User.ID == "" || ev.User.ID == botID {
		return
	}

	msg := domain.Message{
		Platform:        domain.PlatformHighrise,
		ChannelID:       a.cfg.RoomID,
		UserID:          ev.User.ID,
		Username:        ev.User.Username,
		Text:            ev.Message,
		IsPrivate:       ev.Whisper,
		IsPlatformAdmin: ownerID != "" && ev.User.ID == ownerID,
	}
	if err := handler(ctx, msg); err != nil {
		a.log.Warn("handler error", zap.String("user", msg.UserID), zap.Error(err))
	}
}

// SendMessage posts text to the room, split into chunks the server accepts.
func (a *Adapter) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if platform != domain.PlatformHighrise {
		return fmt.Errorf("highrise: unsupported platform %s", platform)
	}
	if text == "" {
		return nil
	}

	a.mu.RLock()
	conn := a.conn
	a.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	for _, chunk := range splitMessage(text, a.cfg.MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.write(conn, chatRequest{Type: typeChatRequest, Message: chunk}); err != nil {
			return fmt.Errorf("highrise: send chat: %w", err)
		}
	}
	return nil
}

func (a *Adapter) write(conn *websocket.Conn, v any) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return conn.WriteJSON(v)
}
