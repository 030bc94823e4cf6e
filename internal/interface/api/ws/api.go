package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"radioBot/internal/domain"
	"radioBot/internal/usecase/commands"
)

// Config for the console. OperatorID is the user id every console line is
// attributed to; clients cannot choose it, so admin rights follow the
// AdminSet entry for that id.
type Config struct {
	Addr       string
	OperatorID string
	Status     StatusProvider
	History    domain.NotificationRepository
	Commands   CommandLister
	Logger     *zap.Logger
}

type StatusProvider interface {
	Snapshot() domain.SessionStatus
}

type CommandLister interface {
	List(ctx context.Context) ([]commands.CommandDescriptor, error)
}

// addr binds to loopback unless a host is given explicitly.
func (c *Config) addr() string {
	if c == nil || c.Addr == "" {
		return DefaultAddr
	}
	if strings.HasPrefix(c.Addr, ":") {
		return "127.0.0.1" + c.Addr
	}
	return c.Addr
}

func (c *Config) operatorID() string {
	if c == nil {
		return DefaultOperatorID
	}
	return orDefault(c.OperatorID, DefaultOperatorID)
}

type apiHandlers struct {
	status   StatusProvider
	history  domain.NotificationRepository
	commands CommandLister
	log      *zap.Logger
}

func newAPIHandlers(cfg Config, logger *zap.Logger) *apiHandlers {
	return &apiHandlers{
		status:   cfg.Status,
		history:  cfg.History,
		commands: cfg.Commands,
		log:      logger.Named("console-api"),
	}
}

func (a *apiHandlers) register(mux *http.ServeMux) {
	if a == nil || mux == nil {
		return
	}

	if a.status != nil {
		mux.HandleFunc("/api/status", a.withCORS(a.handleStatus))
	}
	if a.history != nil {
		mux.HandleFunc("/api/history", a.withCORS(a.handleHistory))
	}
	if a.commands != nil {
		mux.HandleFunc("/api/commands", a.withCORS(a.handleCommands))
	}
}

func (a *apiHandlers) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

// setCORSHeaders only opens the API to origins the websocket would accept.
func setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" || !checkOrigin(r) {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Add("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
}

func (a *apiHandlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.status.Snapshot())
}

type historyItem struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Platform  string       `json:"platform,omitempty"`
	UserID    string       `json:"user_id,omitempty"`
	Username  string       `json:"username,omitempty"`
	Command   string       `json:"command,omitempty"`
	Song      *domain.Song `json:"song,omitempty"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

func (a *apiHandlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := a.history.ListNotifications(r.Context(), limit)
	if err != nil {
		a.log.Warn("list history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	resp := historyResponse{Items: make([]historyItem, 0, len(list))}
	for _, n := range list {
		resp.Items = append(resp.Items, historyItem{
			ID:        n.ID,
			Type:      string(n.Type),
			Platform:  string(n.Platform),
			UserID:    n.UserID,
			Username:  n.Username,
			Command:   n.Command,
			Song:      n.Song,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *apiHandlers) handleCommands(w http.ResponseWriter, r *http.Request) {
	list, err := a.commands.List(r.Context())
	if err != nil {
		a.log.Warn("list commands", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list commands")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
