// Package http provides the bearer token endpoint and the middleware that
// authenticates and rate limits API clients.
package http

import (
	"context"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
)

type clientKey struct{}

// WithClient stores the authenticated client in ctx.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient returns the client stored by AuthenticationMiddleware.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok && client != nil
}
