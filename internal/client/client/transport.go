package client

import (
	"context"
	"net/http"

	"github.com/rankrocket/rankrocket-cli/internal/common"
)

// TokenSource yields the bearer token to attach to the next request. It is
// consulted on every request, so a rotated or cleared token takes effect
// immediately. "" means send the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// authTransport decorates a RoundTripper with bearer injection and a 401 hook.
type authTransport struct {
	next           http.RoundTripper
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

// NewAuthenticatedHTTPClient returns a copy of base whose transport attaches
// "Authorization: Bearer <token>" from tokens and calls onUnauthorized before
// handing a 401 response back to the caller. base itself is left untouched, so
// several authenticated clients never share interceptor state. A nil base
// gets DefaultRequestTimeout.
func NewAuthenticatedHTTPClient(base *http.Client, tokens TokenSource, onUnauthorized func(ctx context.Context)) *http.Client {
	if base == nil {
		base = defaultHTTPClient()
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	c := *base
	c.Transport = &authTransport{next: next, tokens: tokens, onUnauthorized: onUnauthorized}
	return &c
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	r := req.Clone(ctx)
	if t.tokens != nil {
		if tok := t.tokens.Token(ctx); tok != "" {
			r.Header.Set(common.AuthorizationHeader, common.BearerValue("", tok))
		}
	}

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.onUnauthorized != nil {
		t.onUnauthorized(ctx)
	}
	return resp, nil
}
