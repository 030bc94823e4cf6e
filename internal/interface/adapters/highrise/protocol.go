package highrise

const (
	typeSessionMetadata   = "SessionMetadata"
	typeChatEvent         = "ChatEvent"
	typeError             = "Error"
	typeKeepaliveResponse = "KeepaliveResponse"
	typeKeepaliveRequest  = "KeepaliveRequest"
	typeChatRequest       = "ChatRequest"
)

type envelope struct {
	Type string `json:"_type"`
}

type sessionMetadata struct {
	UserID   string `json:"user_id"`
	RoomInfo struct {
		OwnerID  string `json:"owner_id"`
		RoomName string `json:"room_name"`
	} `json:"room_info"`
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type chatEvent struct {
	User    user   `json:"user"`
	Message string `json:"message"`
	Whisper bool   `json:"whisper"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type chatRequest struct {
	Type            string  `json:"_type"`
	Message         string  `json:"message"`
	WhisperTargetID *string `json:"whisper_target_id"`
}

type keepaliveRequest struct {
	Type string `json:"_type"`
}
