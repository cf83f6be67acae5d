package wabridge

// Wire frames exchanged with the bridge process. One JSON object per
// websocket text message, discriminated by "type".
const (
	frameReady               = "ready"
	frameMessage             = "message"
	frameSend                = "send"
	framePresence            = "presence"
	frameGroupMetadata       = "group_metadata"
	frameGroupMetadataResult = "group_metadata_result"
)

type inboundFrame struct {
	Type string `json:"type"`

	// ready
	SelfID     string `json:"self_id,omitempty"`
	SelfChatID string `json:"self_chat_id,omitempty"`

	// message
	ConversationID string `json:"conversation_id,omitempty"`
	ParticipantID  string `json:"participant_id,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	Text           string `json:"text,omitempty"`
	FromMe         bool   `json:"from_me,omitempty"`
	IsGroup        bool   `json:"is_group,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"` // RFC3339

	// group_metadata_result
	ID      string `json:"id,omitempty"`
	Subject string `json:"subject,omitempty"`
	Error   string `json:"error,omitempty"`
}

type outboundFrame struct {
	Type           string `json:"type"`
	ID             string `json:"id,omitempty"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text,omitempty"`
	State          string `json:"state,omitempty"`
}
