package bus

type InboundMessage struct {
	Channel  string `json:"channel"`
	SenderID string `json:"sender_id"`
	ChatID   string `json:"chat_id"`
	Content  string `json:"content"`

	SessionKey string            `json:"session_key"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type OutboundMessage struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chat_id"`
	Content string `json:"content,omitempty"`

	Media []Media `json:"media,omitempty"`
}

// Media is an inline attachment, base64 encoded so it can travel through
// hosts that only carry text.
type Media struct {
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}
