package commands

import (
	"context"

	"radioBot/internal/domain"
)

type Command interface {
	Name() string
	AdminOnly() bool
	Handle(ctx context.Context, c *Context) error
}

type Context struct {
	Message domain.Message
	Out     domain.OutgoingMessagePort

	Prefix string
	Raw    string
	Args   []string
}

// Reply sends text back to the room the command came from.
func (c *Context) Reply(ctx context.Context, text string) error {
	return c.Out.SendMessage(ctx, c.Message.Platform, c.Message.ChannelID, text)
}
