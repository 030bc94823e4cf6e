package commands

import (
	"context"

	"radioBot/internal/domain"
)

type SkipCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewSkipCommand(radio domain.RadioService, msgs *Messages) *SkipCommand {
	return &SkipCommand{radio: radio, msgs: msgs}
}

func (c *SkipCommand) Name() string    { return "skip" }
func (c *SkipCommand) AdminOnly() bool { return true }

func (c *SkipCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	if err := c.radio.Skip(ctx); err != nil {
		return &RadioError{Text: c.msgs.Render(MsgSkipFailed), Err: err}
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSongSkipped))
}
