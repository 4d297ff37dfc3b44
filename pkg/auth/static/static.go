package static

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/adrianliechti/typst-bot/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

// Provider accepts a fixed set of bearer tokens, e.g. one per chat host.
type Provider struct {
	tokens map[string]string
}

// New maps tokens to the user names they authenticate as.
func New(tokens map[string]string) (*Provider, error) {
	return &Provider{
		tokens: tokens,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if len(p.tokens) == 0 {
		return ctx, nil
	}

	token, ok := auth.BearerToken(r)

	if !ok {
		return ctx, errors.New("missing or invalid authorization header")
	}

	for candidate, user := range p.tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			if user == "" {
				user = "static"
			}

			return auth.WithUser(ctx, user), nil
		}
	}

	return ctx, errors.New("invalid token")
}
