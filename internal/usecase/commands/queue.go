package commands

import (
	"context"
	"strconv"
	"strings"

	"radioBot/internal/domain"
)

type QueueCommand struct {
	radio domain.RadioService
	msgs  *Messages
	limit int
}

func NewQueueCommand(radio domain.RadioService, msgs *Messages, limit int) *QueueCommand {
	return &QueueCommand{radio: radio, msgs: msgs, limit: limit}
}

func (c *QueueCommand) Name() string    { return "queue" }
func (c *QueueCommand) AdminOnly() bool { return false }

func (c *QueueCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	entries, err := c.radio.Queue(ctx)
	if err != nil {
		return &RadioError{Err: err}
	}
	return cmdCtx.Reply(ctx, c.text(entries))
}

func (c *QueueCommand) text(entries []domain.QueueEntry) string {
	if len(entries) == 0 {
		return c.msgs.Render(MsgQueueEmpty)
	}

	lines := []string{c.msgs.Render(MsgQueueHeader)}
	for i, e := range entries {
		if i == c.limit {
			break
		}
		song := e.Song()
		lines = append(lines, c.msgs.Render(MsgQueueEntry,
			"position", strconv.Itoa(i+1),
			"title", song.Title,
			"artist", song.Artist,
		))
	}
	if extra := len(entries) - c.limit; extra > 0 {
		lines = append(lines, c.msgs.Render(MsgQueueMore, "count", strconv.Itoa(extra)))
	}
	return strings.Join(lines, "\n")
}

// RadioCommand combines the current song and queue length.
type RadioCommand struct {
	radio     domain.RadioService
	msgs      *Messages
	streamURL string
}

func NewRadioCommand(radio domain.RadioService, msgs *Messages, streamURL string) *RadioCommand {
	return &RadioCommand{radio: radio, msgs: msgs, streamURL: streamURL}
}

func (c *RadioCommand) Name() string    { return "radio" }
func (c *RadioCommand) AdminOnly() bool { return false }

func (c *RadioCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	song, err := c.radio.CurrentSong(ctx)
	if err != nil {
		return &RadioError{Err: err}
	}
	entries, err := c.radio.Queue(ctx)
	if err != nil {
		return &RadioError{Err: err}
	}

	song = song.Normalized()
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgRadioStatus,
		"title", song.Title,
		"artist", song.Artist,
		"count", strconv.Itoa(len(entries)),
		"stream", c.streamURL,
	))
}
