package events

import (
	"time"

	"radioBot/internal/domain"
)

// ChatMessageDTO is the payload published for every inbound chat message.
type ChatMessageDTO struct {
	Platform        string `json:"platform"`
	ChannelID       string `json:"channel_id"`
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	Text            string `json:"text"`
	IsPrivate       bool   `json:"is_private"`
	IsPlatformAdmin bool   `json:"is_platform_admin"`
	Timestamp       string `json:"timestamp"`
}

func NewChatMessageDTO(msg domain.Message) ChatMessageDTO {
	return ChatMessageDTO{
		Platform:        string(msg.Platform),
		ChannelID:       msg.ChannelID,
		UserID:          msg.UserID,
		Username:        msg.Username,
		Text:            msg.Text,
		IsPrivate:       msg.IsPrivate,
		IsPlatformAdmin: msg.IsPlatformAdmin,
		Timestamp:       now(),
	}
}

// BotReplyDTO is a message the bot sent to a room.
type BotReplyDTO struct {
	Platform  string `json:"platform"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func NewBotReplyDTO(platform domain.Platform, channelID, text string) BotReplyDTO {
	return BotReplyDTO{
		Platform:  string(platform),
		ChannelID: channelID,
		Text:      text,
		Timestamp: now(),
	}
}

type NowPlayingDTO struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Timestamp string `json:"timestamp"`
}

func NewNowPlayingDTO(song domain.Song) NowPlayingDTO {
	song = song.Normalized()
	return NowPlayingDTO{Title: song.Title, Artist: song.Artist, Timestamp: now()}
}

// AdminActionDTO records a successful admin-only command.
type AdminActionDTO struct {
	Platform  string `json:"platform"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Command   string `json:"command"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func NewAdminActionDTO(msg domain.Message, command string) AdminActionDTO {
	return AdminActionDTO{
		Platform:  string(msg.Platform),
		UserID:    msg.UserID,
		Username:  msg.Username,
		Command:   command,
		Text:      msg.Text,
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
