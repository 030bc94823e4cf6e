package commands

import (
	"strings"

	"radioBot/internal/domain"
)

// CommandDescriptor describes a built-in command for help output and the
// console API.
type CommandDescriptor struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"admin_only"`
}

// BuiltinCommandCatalog lists the commands in help order.
func BuiltinCommandCatalog() []CommandDescriptor {
	return []CommandDescriptor{
		{Name: "current", Usage: "current", Description: "Show currently playing song"},
		{Name: "queue", Usage: "queue", Description: "Show song queue"},
		{Name: "radio", Usage: "radio", Description: "Show radio status"},
		{Name: "search", Usage: "search <query>", Description: "Search for songs"},
		{Name: "help", Usage: "help", Description: "Show this help message"},
		{Name: "play", Usage: "play", Description: "Resume playback", AdminOnly: true},
		{Name: "skip", Usage: "skip", Description: "Skip current song", AdminOnly: true},
		{Name: "add", Usage: "add <song_name>", Description: "Add song to queue", AdminOnly: true},
		{Name: "remove", Usage: "remove <index>", Description: "Remove song from queue", AdminOnly: true},
		{Name: "volume", Usage: "volume", Description: "Control volume", AdminOnly: true},
		{Name: "block", Usage: "block <song_name>", Description: "Block a song from the radio", AdminOnly: true},
		{Name: "unblock", Usage: "unblock <song_name>", Description: "Unblock a song", AdminOnly: true},
		{Name: "admin", Usage: "admin <user_id>", Description: "Add user as admin", AdminOnly: true},
	}
}

// AdminRegistry is the session's admin set.
type AdminRegistry interface {
	Authorizer
	AddAdmin(userID string) bool
}

type Deps struct {
	Radio           domain.RadioService
	Admins          AdminRegistry
	Messages        *Messages
	StreamURL       string
	MaxQueueDisplay int
}

// Builtin returns one handler per catalog entry.
func Builtin(d Deps) []Command {
	if d.Messages == nil {
		d.Messages = DefaultMessages()
	}
	if d.MaxQueueDisplay <= 0 {
		d.MaxQueueDisplay = 5
	}
	return []Command{
		NewHelpCommand(d.Messages, BuiltinCommandCatalog()),
		NewCurrentCommand(d.Radio, d.Messages),
		NewQueueCommand(d.Radio, d.Messages, d.MaxQueueDisplay),
		NewRadioCommand(d.Radio, d.Messages, d.StreamURL),
		NewSkipCommand(d.Radio, d.Messages),
		NewSearchCommand(d.Messages),
		NewAddCommand(d.Radio, d.Messages),
		NewRemoveCommand(d.Radio, d.Messages),
		NewPlayCommand(d.Messages),
		NewVolumeCommand(d.Messages),
		NewAdminCommand(d.Admins, d.Messages),
		NewBlockCommand(d.Radio, d.Messages),
		NewUnblockCommand(d.Radio, d.Messages),
	}
}

// RegisterBuiltins adds every built-in command to r.
func RegisterBuiltins(r *Router, d Deps) {
	for _, cmd := range Builtin(d) {
		r.Register(cmd)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
