package config

import (
	"context"
	"errors"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/auth"
	"github.com/adrianliechti/typst-bot/pkg/auth/header"
	"github.com/adrianliechti/typst-bot/pkg/auth/oidc"
	"github.com/adrianliechti/typst-bot/pkg/auth/static"
)

type authorizerConfig struct {
	Type string `yaml:"type"`

	Token  string            `yaml:"token"`
	Tokens map[string]string `yaml:"tokens"`

	UserHeader  string `yaml:"user_header"`
	EmailHeader string `yaml:"email_header"`

	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

func (c *Config) registerAuthorizer(f *configFile) error {
	for _, a := range f.Authorizers {
		authorizer, err := createAuthorizer(a)

		if err != nil {
			return err
		}

		c.Authorizers = append(c.Authorizers, authorizer)
	}

	return nil
}

func createAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "header":
		return headerAuthorizer(cfg)

	case "static":
		return staticAuthorizer(cfg)

	case "oidc":
		return oidcAuthorizer(cfg)

	default:
		return nil, errors.New("invalid authorizer type: " + cfg.Type)
	}
}

func headerAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	var options []header.Option

	if cfg.UserHeader != "" {
		options = append(options, header.WithUserHeader(cfg.UserHeader))
	}

	if cfg.EmailHeader != "" {
		options = append(options, header.WithEmailHeader(cfg.EmailHeader))
	}

	return header.New(options...)
}

func staticAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	tokens := make(map[string]string)

	for token, user := range cfg.Tokens {
		tokens[token] = user
	}

	if cfg.Token != "" {
		tokens[cfg.Token] = ""
	}

	return static.New(tokens)
}

func oidcAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	return oidc.New(context.Background(), cfg.Issuer, cfg.Audience)
}
