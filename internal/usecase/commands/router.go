package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radioBot/internal/domain"
)

// Authorizer decides whether a user holds admin rights.
type Authorizer interface {
	IsAdmin(userID string) bool
}

// ActionHook observes admin-only commands that completed successfully.
type ActionHook func(ctx context.Context, msg domain.Message, command string)

type Router struct {
	prefix   string
	cmdIndex map[string]Command
	auth     Authorizer
	msgs     *Messages
	log      *zap.Logger
	onAction ActionHook
}

func NewRouter(prefix string, auth Authorizer, msgs *Messages, logger *zap.Logger) *Router {
	if msgs == nil {
		msgs = DefaultMessages()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		prefix:   prefix,
		cmdIndex: make(map[string]Command),
		auth:     auth,
		msgs:     msgs,
		log:      logger.Named("commands"),
	}
}

func (r *Router) Register(cmd Command) {
	r.cmdIndex[strings.ToLower(cmd.Name())] = cmd
}

func (r *Router) SetActionHook(h ActionHook) {
	r.onAction = h
}

func (r *Router) Prefix() string {
	return r.prefix
}

// Handle parses one chat message and runs the matching command. Only errors
// from delivering the reply are returned; command failures become chat
// messages.
func (r *Router) Handle(ctx context.Context, msg domain.Message, out domain.OutgoingMessagePort) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" || !strings.HasPrefix(text, r.prefix) {
		return nil
	}

	withoutPrefix := strings.TrimPrefix(text, r.prefix)
	parts := strings.Fields(withoutPrefix)

	cmdName := ""
	var args []string
	if len(parts) > 0 {
		cmdName = strings.ToLower(parts[0])
		args = parts[1:]
	}

	cmdCtx := &Context{
		Message: msg,
		Out:     out,
		Prefix:  r.prefix,
		Raw:     withoutPrefix,
		Args:    args,
	}

	cmd, ok := r.cmdIndex[cmdName]
	if !ok {
		r.log.Info("unknown command", zap.String("command", cmdName), zap.String("user", msg.UserID))
		return r.reply(ctx, cmdCtx, &UnknownCommandError{Name: cmdName})
	}

	start := time.Now()
	err := r.run(ctx, cmd, cmdCtx)
	r.log.Debug("command handled",
		zap.String("command", cmdName),
		zap.String("user", msg.UserID),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)

	if err == nil {
		if cmd.AdminOnly() && r.onAction != nil {
			r.onAction(ctx, msg, cmdName)
		}
		return nil
	}
	return r.reply(ctx, cmdCtx, err)
}

// run invokes the handler behind the admin guard and turns a panic into an error.
func (r *Router) run(ctx context.Context, cmd Command, cmdCtx *Context) (err error) {
	if cmd.AdminOnly() && (r.auth == nil || !r.auth.IsAdmin(cmdCtx.Message.UserID)) {
		r.log.Info("admin command rejected",
			zap.String("command", cmd.Name()),
			zap.String("user", cmdCtx.Message.UserID),
		)
		return ErrNotAdmin
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("command panicked",
				zap.String("command", cmd.Name()),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return cmd.Handle(ctx, cmdCtx)
}

func (r *Router) reply(ctx context.Context, cmdCtx *Context, err error) error {
	text, expected := userMessage(err, r.msgs, r.prefix)
	if !expected {
		r.log.Error("command failed",
			zap.String("correlation_id", uuid.NewString()),
			zap.String("command", cmdCtx.Raw),
			zap.String("user", cmdCtx.Message.UserID),
			zap.String("platform", string(cmdCtx.Message.Platform)),
			zap.Error(err),
		)
	}
	if sendErr := cmdCtx.Reply(ctx, text); sendErr != nil {
		return fmt.Errorf("commands: reply: %w", sendErr)
	}
	return nil
}
