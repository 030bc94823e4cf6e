package commands

import (
	"context"

	"radioBot/internal/domain"
)

type CurrentCommand struct {
	radio domain.RadioService
	msgs  *Messages
}

func NewCurrentCommand(radio domain.RadioService, msgs *Messages) *CurrentCommand {
	return &CurrentCommand{radio: radio, msgs: msgs}
}

func (c *CurrentCommand) Name() string    { return "current" }
func (c *CurrentCommand) AdminOnly() bool { return false }

func (c *CurrentCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	song, err := c.radio.CurrentSong(ctx)
	if err != nil {
		return &RadioError{Err: err}
	}
	return cmdCtx.Reply(ctx, NowPlayingText(c.msgs, song))
}

// NowPlayingText renders the now_playing message for song.
func NowPlayingText(msgs *Messages, song domain.Song) string {
	song = song.Normalized()
	return msgs.Render(MsgNowPlaying, "title", song.Title, "artist", song.Artist)
}
