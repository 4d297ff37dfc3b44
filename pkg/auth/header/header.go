package header

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

// Provider trusts identity headers set by a reverse proxy in front of the bot.
type Provider struct {
	userHeader  string
	emailHeader string
}

type Option func(*Provider)

func WithUserHeader(val string) Option {
	return func(p *Provider) {
		p.userHeader = val
	}
}

func WithEmailHeader(val string) Option {
	return func(p *Provider) {
		p.emailHeader = val
	}
}

func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		userHeader:  "X-Forwarded-User",
		emailHeader: "X-Forwarded-Email",
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	user := strings.TrimSpace(r.Header.Get(p.userHeader))
	email := strings.TrimSpace(r.Header.Get(p.emailHeader))

	if user == "" && email == "" {
		return ctx, errors.New("no user information found in headers")
	}

	if email == "" {
		if addr, err := mail.ParseAddress(user); err == nil && addr.Address == user {
			email = user
		}
	}

	if user != "" {
		ctx = auth.WithUser(ctx, user)
	}

	if email != "" {
		ctx = auth.WithEmail(ctx, email)
	}

	return ctx, nil
}
