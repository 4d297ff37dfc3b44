package api

import (
	"encoding/json"
	"net/http"

	"github.com/adrianliechti/typst-bot/pkg/auth"
)

func (h *Handler) handleCommands(w http.ResponseWriter, r *http.Request) {
	commands := h.Handler().Commands()

	var result []Command

	for _, c := range commands.List() {
		if c.Keyword == "" {
			continue
		}

		result = append(result, Command{
			Command: commands.Prefix + c.Keyword,
			Mode:    c.Mode,
		})
	}

	writeJson(w, result)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxMessageSize)

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, err)
		return
	}

	session := req.Session

	if session == "" {
		if user, ok := auth.UserFromContext(r.Context()); ok {
			session = user
		}
	}

	handler := h.Handler()

	request, err := handler.Parse(session, req.Text)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reply := handler.Handle(r.Context(), request)

	if reply.Image != nil {
		writeJson(w, MessageResponse{
			Type:  MessageTypeImage,
			Image: reply.Image,
		})

		return
	}

	writeJson(w, MessageResponse{
		Type: MessageTypeText,
		Text: reply.Text,
	})
}
