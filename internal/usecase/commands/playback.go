package commands

import "context"

// PlayCommand and VolumeCommand only acknowledge; the radio server exposes
// no playback or volume endpoints.
type PlayCommand struct {
	msgs *Messages
}

func NewPlayCommand(msgs *Messages) *PlayCommand {
	return &PlayCommand{msgs: msgs}
}

func (c *PlayCommand) Name() string    { return "play" }
func (c *PlayCommand) AdminOnly() bool { return true }

func (c *PlayCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgPlaybackResumed))
}

type VolumeCommand struct {
	msgs *Messages
}

func NewVolumeCommand(msgs *Messages) *VolumeCommand {
	return &VolumeCommand{msgs: msgs}
}

func (c *VolumeCommand) Name() string    { return "volume" }
func (c *VolumeCommand) AdminOnly() bool { return true }

func (c *VolumeCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgVolumeUnavailable))
}
