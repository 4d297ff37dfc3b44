package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/typst-bot/config"
	"github.com/adrianliechti/typst-bot/pkg/auth"
	"github.com/adrianliechti/typst-bot/pkg/auth/static"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/stretchr/testify/require"
)

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	return &provider.Rendering{
		Content:     []byte("\x89PNG\r\n\x1a\n"),
		ContentType: "image/png",
	}, nil
}

func newTestServer(t *testing.T, authorizers ...auth.Provider) *httptest.Server {
	t.Helper()

	h, err := bot.New(stubRenderer{})
	require.NoError(t, err)

	cfg := &config.Config{
		Authorizers: authorizers,
	}

	cfg.RegisterHandler(h)

	s, err := New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	return srv
}

func TestHealthz(t *testing.T) {
	a, err := static.New(map[string]string{"secret": "bot"})
	require.NoError(t, err)

	srv := newTestServer(t, a)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)

	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	a, err := static.New(map[string]string{"secret": "bot"})
	require.NoError(t, err)

	srv := newTestServer(t, a)

	post := func(token string) int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/messages", strings.NewReader(`{"text":"/typ hi"}`))
		require.NoError(t, err)

		req.Header.Set("Content-Type", "application/json")

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		resp.Body.Close()

		return resp.StatusCode
	}

	require.Equal(t, http.StatusUnauthorized, post(""))
	require.Equal(t, http.StatusUnauthorized, post("wrong"))
	require.Equal(t, http.StatusOK, post("secret"))
}

func TestMCPNotConfigured(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)

	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
