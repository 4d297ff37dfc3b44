package mcp

import (
	"context"
	"net/http"

	"github.com/adrianliechti/typst-bot/config"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config

	handler http.Handler
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	if s, err := cfg.MCP(); err == nil {
		handler, err := s.Handler(context.Background())

		if err != nil {
			return nil, err
		}

		h.handler = handler
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.HandleFunc("/mcp", h.handleMCP)
}

func (h *Handler) handleMCP(w http.ResponseWriter, r *http.Request) {
	if h.handler == nil {
		http.Error(w, "MCP not configured", http.StatusNotFound)
		return
	}

	h.handler.ServeHTTP(w, r)
}
