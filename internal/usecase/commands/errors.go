package commands

import (
	"errors"
	"fmt"
)

// ErrNotAdmin is returned when a non-admin invokes an admin-only command.
var ErrNotAdmin = errors.New("commands: admin rights required")

// UsageError is a missing or malformed argument. Text is shown as-is.
type UsageError struct {
	Text string
}

func (e *UsageError) Error() string { return "commands: usage: " + e.Text }

// RadioError wraps a failed radio server call. Text, when set, replaces the
// generic api_error message.
type RadioError struct {
	Text string
	Err  error
}

func (e *RadioError) Error() string { return fmt.Sprintf("commands: radio: %v", e.Err) }

func (e *RadioError) Unwrap() error { return e.Err }

type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string { return "commands: unknown command " + e.Name }

// userMessage maps a handler result to the text sent back to the room.
// The second value is false for unexpected faults.
func userMessage(err error, msgs *Messages, prefix string) (string, bool) {
	var (
		usage   *UsageError
		radio   *RadioError
		unknown *UnknownCommandError
	)
	switch {
	case errors.Is(err, ErrNotAdmin):
		return msgs.Render(MsgAdminOnly), true
	case errors.As(err, &usage):
		return usage.Text, true
	case errors.As(err, &radio):
		if radio.Text != "" {
			return radio.Text, true
		}
		return msgs.Render(MsgAPIError), true
	case errors.As(err, &unknown):
		return msgs.Render(MsgUnknownCommand, "prefix", prefix, "command", unknown.Name), true
	default:
		return msgs.Render(MsgCommandError, "error", err.Error()), false
	}
}
