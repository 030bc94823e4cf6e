package commands

import (
	"context"
	"strconv"

	"radioBot/internal/domain"
)

type AddCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewAddCommand(radio domain.RadioService, msgs *Messages) *AddCommand {
	return &AddCommand{radio: radio, msgs: msgs}
}

func (c *AddCommand) Name() string    { return "add" }
func (c *AddCommand) AdminOnly() bool { return true }

func (c *AddCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	song := joinArgs(cmdCtx.Args)
	if song == "" {
		return &UsageError{Text: c.msgs.Render(MsgAddUsage, "prefix", cmdCtx.Prefix)}
	}

	if err := c.radio.AddSong(ctx, song, cmdCtx.Message.UserID); err != nil {
		return &RadioError{Text: c.msgs.Render(MsgAddFailed, "song", song), Err: err}
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSongAdded, "song", song))
}

// RemoveCommand takes a 1-based position; the radio server indexes from 0.
type RemoveCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewRemoveCommand(radio domain.RadioService, msgs *Messages) *RemoveCommand {
	return &RemoveCommand{radio: radio, msgs: msgs}
}

func (c *RemoveCommand) Name() string    { return "remove" }
func (c *RemoveCommand) AdminOnly() bool { return true }

func (c *RemoveCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	usage := &UsageError{Text: c.msgs.Render(MsgRemoveUsage, "prefix", cmdCtx.Prefix)}
	if len(cmdCtx.Args) == 0 {
		return usage
	}
	arg := cmdCtx.Args[0]
	if !isDigits(arg) {
		return usage
	}
	position, err := strconv.Atoi(arg)
	if err != nil || position < 1 {
		return usage
	}

	pos := strconv.Itoa(position)
	if err := c.radio.RemoveSong(ctx, position-1); err != nil {
		return &RadioError{Text: c.msgs.Render(MsgRemoveFailed, "position", pos), Err: err}
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSongRemoved, "position", pos))
}

// isDigits rejects the leading sign strconv.Atoi accepts.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type BlockCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewBlockCommand(radio domain.RadioService, msgs *Messages) *BlockCommand {
	return &BlockCommand{radio: radio, msgs: msgs}
}

func (c *BlockCommand) Name() string    { return "block" }
func (c *BlockCommand) AdminOnly() bool { return true }

func (c *BlockCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	song := joinArgs(cmdCtx.Args)
	if song == "" {
		return &UsageError{Text: c.msgs.Render(MsgBlockUsage, "prefix", cmdCtx.Prefix)}
	}
	if err := c.radio.BlockSong(ctx, song); err != nil {
		return &RadioError{Text: c.msgs.Render(MsgBlockFailed, "song", song), Err: err}
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSongBlocked, "song", song))
}

type UnblockCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewUnblockCommand(radio domain.RadioService, msgs *Messages) *UnblockCommand {
	return &UnblockCommand{radio: radio, msgs: msgs}
}

func (c *UnblockCommand) Name() string    { return "unblock" }
func (c *UnblockCommand) AdminOnly() bool { return true }

func (c *UnblockCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	song := joinArgs(cmdCtx.Args)
	if song == "" {
		return &UsageError{Text: c.msgs.Render(MsgUnblockUsage, "prefix", cmdCtx.Prefix)}
	}
	if err := c.radio.UnblockSong(ctx, song); err != nil {
		return &RadioError{Text: c.msgs.Render(MsgUnblockFailed, "song", song), Err: err}
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSongUnblocked, "song", song))
}
