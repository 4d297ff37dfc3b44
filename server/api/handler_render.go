package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/adrianliechti/typst-bot/pkg/auth"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/provider"
)

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := parseForm(r); err != nil {
		writeBodyError(w, err)
		return
	}

	mode, err := bot.ParseMode(valueMode(r))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	handler := h.Handler()

	if !handler.Commands().Enabled(mode) {
		writeError(w, http.StatusNotFound, bot.ErrUnknownMode)
		return
	}

	input, err := readText(r)

	if err != nil {
		writeBodyError(w, err)
		return
	}

	files, err := readFiles(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := bot.Request{
		Mode: mode,
		Text: input,

		Files: files,
	}

	if user, ok := auth.UserFromContext(r.Context()); ok {
		req.Session = user
	}

	image, err := handler.Render(r.Context(), req)

	if errors.Is(err, bot.ErrEmptyPayload) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if provider.IsCompileError(err) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(image.Data)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", image.ContentType)

	if image.Pages > 0 {
		w.Header().Set("X-Typst-Pages", strconv.Itoa(image.Pages))
	}

	w.Write(data)
}
