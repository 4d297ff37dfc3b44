package api

import (
	"github.com/adrianliechti/typst-bot/pkg/bot"
)

type Command struct {
	Command string   `json:"command"`
	Mode    bot.Mode `json:"mode"`
}

type MessageRequest struct {
	Session string `json:"session,omitempty"`
	Text    string `json:"text"`
}

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

type MessageResponse struct {
	Type MessageType `json:"type"`

	Text  string     `json:"text,omitempty"`
	Image *bot.Image `json:"image,omitempty"`
}
