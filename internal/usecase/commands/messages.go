package commands

import (
	"fmt"
	"sort"
	"strings"
)

// Messages holds every user-facing string. Templates use {placeholder}
// tokens filled in by Render.
type Messages struct {
	templates map[string]string
}

const (
	MsgWelcome           = "welcome"
	MsgAdminOnly         = "admin_only"
	MsgUnknownCommand    = "unknown_command"
	MsgAPIError          = "api_error"
	MsgCommandError      = "command_error"
	MsgNowPlaying        = "now_playing"
	MsgQueueEmpty        = "queue_empty"
	MsgQueueHeader       = "queue_header"
	MsgQueueEntry        = "queue_entry"
	MsgQueueMore         = "queue_more"
	MsgRadioStatus       = "radio_status"
	MsgSongSkipped       = "song_skipped"
	MsgSkipFailed        = "skip_failed"
	MsgSearchUsage       = "search_usage"
	MsgSearching         = "searching"
	MsgSearchUnavailable = "search_unavailable"
	MsgAddUsage          = "add_usage"
	MsgSongAdded         = "song_added"
	MsgAddFailed         = "add_failed"
	MsgRemoveUsage       = "remove_usage"
	MsgSongRemoved       = "song_removed"
	MsgRemoveFailed      = "remove_failed"
	MsgPlaybackResumed   = "playback_resumed"
	MsgVolumeUnavailable = "volume_unavailable"
	MsgAdminUsage        = "admin_usage"
	MsgAdminAdded        = "admin_added"
	MsgBlockUsage        = "block_usage"
	MsgSongBlocked       = "song_blocked"
	MsgBlockFailed       = "block_failed"
	MsgUnblockUsage      = "unblock_usage"
	MsgSongUnblocked     = "song_unblocked"
	MsgUnblockFailed     = "unblock_failed"
	MsgHelpHeader        = "help_header"
)

var defaultTemplates = map[string]string{
	MsgWelcome:           "🎵 Radio Bot is now online! Type {prefix}help for commands.",
	MsgAdminOnly:         "❌ Only admins can use this command.",
	MsgUnknownCommand:    "❌ Unknown command: {prefix}{command}. Type {prefix}help for available commands.",
	MsgAPIError:          "❌ Could not connect to radio server.",
	MsgCommandError:      "❌ Error executing command: {error}",
	MsgNowPlaying:        "🎵 Now Playing: {title} by {artist}",
	MsgQueueEmpty:        "📋 The music queue is empty.",
	MsgQueueHeader:       "📋 Song Queue:",
	MsgQueueEntry:        "{position}. {title} by {artist}",
	MsgQueueMore:         "... and {count} more songs",
	MsgRadioStatus:       "📻 Radio Status\n🎵 Current: {title} by {artist}\n📋 Queue: {count} songs\n🔗 Stream: {stream}",
	MsgSongSkipped:       "⏭️ Song skipped!",
	MsgSkipFailed:        "❌ Could not skip song",
	MsgSearchUsage:       "❌ Please provide a search query. Usage: {prefix}search <song name>",
	MsgSearching:         "🔍 Searching for: {query}",
	MsgSearchUnavailable: "🎵 Search feature coming soon! Use {prefix}add <song_name> to add songs directly.",
	MsgAddUsage:          "❌ Please provide a song name. Usage: {prefix}add <song name>",
	MsgSongAdded:         "✅ Added '{song}' to the queue!",
	MsgAddFailed:         "❌ Could not add '{song}' to queue",
	MsgRemoveUsage:       "❌ Please provide a valid queue index. Usage: {prefix}remove <index>",
	MsgSongRemoved:       "✅ Removed song at position {position} from queue!",
	MsgRemoveFailed:      "❌ Could not remove song at position {position}",
	MsgPlaybackResumed:   "▶️ Playback resumed!",
	MsgVolumeUnavailable: "🔊 Volume control coming soon!",
	MsgAdminUsage:        "❌ Please provide a user ID. Usage: {prefix}admin <user_id>",
	MsgAdminAdded:        "✅ Added {user} as admin!",
	MsgBlockUsage:        "❌ Please provide a song name. Usage: {prefix}block <song name>",
	MsgSongBlocked:       "🚫 Blocked '{song}' from the radio.",
	MsgBlockFailed:       "❌ Could not block '{song}'",
	MsgUnblockUsage:      "❌ Please provide a song name. Usage: {prefix}unblock <song name>",
	MsgSongUnblocked:     "✅ Unblocked '{song}'.",
	MsgUnblockFailed:     "❌ Could not unblock '{song}'",
	MsgHelpHeader:        "🎵 Radio Bot Commands 🎵",
}

func DefaultMessages() *Messages {
	m := &Messages{templates: make(map[string]string, len(defaultTemplates))}
	for k, v := range defaultTemplates {
		m.templates[k] = v
	}
	return m
}

// NewMessages returns the defaults with overrides applied. Unknown keys are
// rejected so typos in configuration surface at startup.
func NewMessages(overrides map[string]string) (*Messages, error) {
	m := DefaultMessages()
	var unknown []string
	for k, v := range overrides {
		if _, ok := m.templates[k]; !ok {
			unknown = append(unknown, k)
			continue
		}
		m.templates[k] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("commands: unknown message keys: %s", strings.Join(unknown, ", "))
	}
	return m, nil
}

// Render fills the template for key. vars are name/value pairs.
func (m *Messages) Render(key string, vars ...string) string {
	tpl, ok := m.templates[key]
	if !ok {
		return key
	}
	if len(vars) < 2 {
		return tpl
	}
	pairs := make([]string, 0, len(vars))
	for i := 0; i+1 < len(vars); i += 2 {
		pairs = append(pairs, "{"+vars[i]+"}", vars[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
