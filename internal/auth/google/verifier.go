// Package google validates Google ID tokens for social login.
package google

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sobremesalab/sobremesa/internal/config"
)

const issuerURL = "https://accounts.google.com"

// Claims holds the identity claims extracted from a verified ID token.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// TokenVerifier validates a raw Google ID token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Claims, error)
}

// ErrNotConfigured is returned when no Google client id is configured.
var ErrNotConfigured = errors.New("google login not configured")

type verifier struct {
	clientID string

	mu       sync.Mutex
	provider *oidc.Provider
}

// NewVerifier builds a TokenVerifier backed by Google's OIDC discovery document.
func NewVerifier(cfg config.Config) TokenVerifier {
	return &verifier{clientID: strings.TrimSpace(cfg.GoogleClientID)}
}

func (v *verifier) Verify(ctx context.Context, rawIDToken string) (*Claims, error) {
	if v.clientID == "" {
		return nil, ErrNotConfigured
	}

	provider, err := v.oidcProvider(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: v.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// oidcProvider resolves the discovery document once and caches it.
func (v *verifier) oidcProvider(ctx context.Context) (*oidc.Provider, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.provider != nil {
		return v.provider, nil
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, err
	}
	v.provider = provider
	return provider, nil
}
