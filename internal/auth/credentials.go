// Package auth holds the credentials used to reach the summarizing agent.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrTokenNotSet indicates no agent API key is available.
var ErrTokenNotSet = errors.New("no agent api key defined")

// Scheme selects how the API key is presented to the agent service.
type Scheme string

const (
	SchemeAPIKey Scheme = "x-api-key"
	SchemeBearer Scheme = "bearer"
)

// ParseScheme maps a config value onto a Scheme, defaulting to SchemeAPIKey.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SchemeAPIKey:
		return SchemeAPIKey, nil
	case SchemeBearer:
		return SchemeBearer, nil
	default:
		return "", fmt.Errorf("unsupported auth scheme %q", s)
	}
}

// Credentials carries the agent API key. It also serves as an oauth2.TokenSource
// so bearer mode can reuse oauth2.Transport.
type Credentials struct {
	apiKey string
	scheme Scheme
}

// NewCredentials creates Credentials for the given key and scheme.
func NewCredentials(apiKey string, scheme Scheme) *Credentials {
	return &Credentials{apiKey: apiKey, scheme: scheme}
}

// APIKey returns the configured key or ErrTokenNotSet.
func (c *Credentials) APIKey() (string, error) {
	if c.apiKey == "" {
		return "", ErrTokenNotSet
	}

	return c.apiKey, nil
}

// Scheme returns how the key is sent.
func (c *Credentials) Scheme() Scheme {
	return c.scheme
}

// Token implements oauth2.TokenSource.
func (c *Credentials) Token() (*oauth2.Token, error) {
	key, err := c.APIKey()
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{AccessToken: key, TokenType: "Bearer"}, nil
}

// Transport wraps base so every request carries the key.
func (c *Credentials) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	if c.scheme == SchemeBearer {
		return &oauth2.Transport{Source: c, Base: base}
	}

	return &apiKeyTransport{creds: c, base: base}
}

type apiKeyTransport struct {
	creds *Credentials
	base  http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	key, err := t.creds.APIKey()
	if err != nil {
		return nil, err
	}

	r2 := r.Clone(r.Context())
	r2.Header.Set("x-api-key", key)

	return t.base.RoundTrip(r2)
}
