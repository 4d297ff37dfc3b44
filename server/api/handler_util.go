package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/provider"
)

const (
	maxUploadSize  = 32 << 20
	maxMessageSize = 1 << 20
)

func valueMode(r *http.Request) string {
	if val := r.FormValue("mode"); val != "" {
		return val
	}

	return ""
}

func mediaType(r *http.Request) string {
	val, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return val
}

// parseForm parses form bodies up front so that a body over the limit is
// reported instead of being read as an empty form.
func parseForm(r *http.Request) error {
	switch mediaType(r) {
	case "multipart/form-data":
		return r.ParseMultipartForm(maxUploadSize)

	case "application/x-www-form-urlencoded":
		return r.ParseForm()
	}

	return nil
}

func readText(r *http.Request) (string, error) {
	if val := r.FormValue("text"); val != "" {
		return val, nil
	}

	switch mediaType(r) {
	case "multipart/form-data":
		file, header, err := r.FormFile("source")

		if err != nil {
			return "", errors.New("missing text or source")
		}

		defer file.Close()

		if !strings.HasSuffix(header.Filename, ".typ") && header.Filename != "" {
			return "", errors.New("source must be a .typ file")
		}

		data, err := io.ReadAll(file)
		return string(data), err

	case "application/x-www-form-urlencoded":
		return "", nil
	}

	data, err := io.ReadAll(r.Body)
	return string(data), err
}

// readFiles returns the "file" parts of a multipart request.
func readFiles(r *http.Request) ([]provider.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []provider.File

	for _, header := range r.MultipartForm.File["file"] {
		f, err := header.Open()

		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(f)
		f.Close()

		if err != nil {
			return nil, err
		}

		files = append(files, provider.File{
			Name: header.Filename,

			Content:     data,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return files, nil
}

func writeBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError

	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	writeError(w, http.StatusBadRequest, err)
}
