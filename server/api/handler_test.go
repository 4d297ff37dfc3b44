package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/adrianliechti/typst-bot/config"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type stubRenderer struct {
	mu sync.Mutex

	inputs []string
	files  [][]provider.File

	err error
}

func (s *stubRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputs = append(s.inputs, input)

	if options != nil {
		s.files = append(s.files, options.Files)
	}

	if s.err != nil {
		return nil, s.err
	}

	return &provider.Rendering{
		Pages: 2,

		Content:     pngSignature,
		ContentType: "image/png",
	}, nil
}

func newTestMux(t *testing.T, r provider.Renderer, options ...bot.Option) http.Handler {
	t.Helper()

	h, err := bot.New(r, options...)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.RegisterHandler(h)

	api, err := New(cfg)
	require.NoError(t, err)

	mux := chi.NewMux()
	mux.Route("/v1", api.Attach)

	return mux
}

func newTestServer(t *testing.T, r provider.Renderer, options ...bot.Option) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(newTestMux(t, r, options...))
	t.Cleanup(srv.Close)

	return srv
}

func postMessage(t *testing.T, srv *httptest.Server, text string) (int, MessageResponse) {
	t.Helper()

	body, err := json.Marshal(MessageRequest{Session: "test", Text: text})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/v1/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)

	defer resp.Body.Close()

	var result MessageResponse

	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	}

	return resp.StatusCode, result
}

func TestMessageImage(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	code, result := postMessage(t, srv, "/typ = Hello")

	require.Equal(t, http.StatusOK, code)
	require.Equal(t, MessageTypeImage, result.Type)
	require.NotNil(t, result.Image)
	require.Equal(t, "image/png", result.Image.ContentType)
	require.Equal(t, 2, result.Image.Pages)

	data, err := base64.StdEncoding.DecodeString(result.Image.Data)
	require.NoError(t, err)
	require.Equal(t, pngSignature, data)

	require.Equal(t, []string{"= Hello"}, r.inputs)
}

func TestMessageEmptyPayload(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	code, result := postMessage(t, srv, "/tym   ")

	require.Equal(t, http.StatusOK, code)
	require.Equal(t, MessageTypeText, result.Type)
	require.Contains(t, result.Text, "/tym")
	require.Empty(t, r.inputs)
}

func TestMessageCompileError(t *testing.T) {
	r := &stubRenderer{err: &provider.CompileError{Detail: "error: unclosed delimiter"}}
	srv := newTestServer(t, r)

	code, result := postMessage(t, srv, "/typ #unclosed(")

	require.Equal(t, http.StatusOK, code)
	require.Equal(t, MessageTypeText, result.Type)
	require.NotContains(t, result.Text, "unclosed delimiter")
}

func TestMessageUnknownCommand(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	code, _ := postMessage(t, srv, "hello there")

	require.Equal(t, http.StatusBadRequest, code)
	require.Empty(t, r.inputs)
}

func TestMessageTooLarge(t *testing.T) {
	r := &stubRenderer{}
	mux := newTestMux(t, r)

	body := `{"text":"/typ ` + strings.Repeat("a", maxMessageSize) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Empty(t, r.inputs)
}

func TestRenderForm(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	values := url.Values{}
	values.Set("mode", "formula")
	values.Set("text", "$ x^2 $")

	resp, err := http.PostForm(srv.URL+"/v1/render", values)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.Equal(t, "2", resp.Header.Get("X-Typst-Pages"))

	require.Len(t, r.inputs, 1)
	require.Contains(t, r.inputs[0], "#show math.equation: set text(size: 14pt)")
	require.True(t, strings.HasSuffix(r.inputs[0], "\n$ x^2 $"))
}

func TestRenderBody(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	resp, err := http.Post(srv.URL+"/v1/render", "text/plain", strings.NewReader("  = Title  "))
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"= Title"}, r.inputs)
}

func TestRenderMultipartFiles(t *testing.T) {
	r := &stubRenderer{}
	srv := newTestServer(t, r)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	require.NoError(t, w.WriteField("text", `#image("logo.png")`))

	part, err := w.CreateFormFile("file", "logo.png")
	require.NoError(t, err)

	part.Write(pngSignature)

	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/v1/render", w.FormDataContentType(), &body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, r.files, 1)
	require.Len(t, r.files[0], 1)
	require.Equal(t, "logo.png", r.files[0][0].Name)
	require.Equal(t, pngSignature, r.files[0][0].Content)
}

func TestRenderErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		srv := newTestServer(t, &stubRenderer{})

		resp, err := http.Post(srv.URL+"/v1/render", "text/plain", strings.NewReader("   "))
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("mode", func(t *testing.T) {
		srv := newTestServer(t, &stubRenderer{})

		resp, err := http.PostForm(srv.URL+"/v1/render", url.Values{"mode": {"fancy"}, "text": {"x"}})
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed multipart", func(t *testing.T) {
		r := &stubRenderer{}
		srv := newTestServer(t, r)

		resp, err := http.Post(srv.URL+"/v1/render", "multipart/form-data; boundary=missing", strings.NewReader("text=x"))
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Empty(t, r.inputs)
	})

	t.Run("too large", func(t *testing.T) {
		r := &stubRenderer{}
		mux := newTestMux(t, r)

		req := httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(strings.Repeat("a", maxUploadSize+1)))
		req.Header.Set("Content-Type", "text/plain")

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		require.Empty(t, r.inputs)
	})

	t.Run("disabled mode", func(t *testing.T) {
		r := &stubRenderer{}
		srv := newTestServer(t, r, bot.WithCommands(bot.Commands{Prefix: "/", Raw: "typ"}))

		resp, err := http.PostForm(srv.URL+"/v1/render", url.Values{"mode": {"themed"}, "text": {"x"}})
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Empty(t, r.inputs)
	})

	t.Run("compile", func(t *testing.T) {
		srv := newTestServer(t, &stubRenderer{err: &provider.CompileError{Detail: "bad"}})

		resp, err := http.PostForm(srv.URL+"/v1/render", url.Values{"text": {"#bad("}})
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unavailable", func(t *testing.T) {
		srv := newTestServer(t, &stubRenderer{err: context.DeadlineExceeded})

		resp, err := http.PostForm(srv.URL+"/v1/render", url.Values{"text": {"x"}})
		require.NoError(t, err)

		resp.Body.Close()
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCommands(t *testing.T) {
	srv := newTestServer(t, &stubRenderer{})

	resp, err := http.Get(srv.URL + "/v1/commands")
	require.NoError(t, err)

	defer resp.Body.Close()

	var result []Command
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, []Command{
		{Command: "/typ", Mode: bot.ModeRaw},
		{Command: "/tym", Mode: bot.ModeFormula},
		{Command: "/tyt", Mode: bot.ModeThemed},
	}, result)
}
