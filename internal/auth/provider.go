package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"workspacemcp/internal/logging"
)

// ErrNoCredential means nothing usable is stored. Fatal until a credential
// is provided out-of-band; never retried automatically.
var ErrNoCredential = errors.New("no stored credential")

// Provider hands out bearer access tokens for the backend. One Provider is
// constructed at process start and passed explicitly to every component
// that needs it; the token source underneath is built once on first use
// and refreshes itself on expiry.
type Provider struct {
	store  *Store
	config oauth2.Config
	logger *slog.Logger

	mu     sync.Mutex
	source oauth2.TokenSource
}

func NewProvider(store *Store, config oauth2.Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Provider{store: store, config: config, logger: logger}
}

// Token returns a valid access token, refreshing the stored one if the
// backend's token endpoint is configured and the token has expired.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		source, err := p.buildSource()
		if err != nil {
			return "", err
		}
		p.source = source
	}
	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return token.AccessToken, nil
}

// SetCredentials stores a new credential and drops the cached source so
// the next Token call rebuilds from it.
func (p *Provider) SetCredentials(creds *Credentials) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Save(creds); err != nil {
		return err
	}
	p.source = nil
	p.logger.Info("auth.credentials_updated")
	return nil
}

// Status reports whether a credential is available, without exposing it.
func (p *Provider) Status() (bool, string) {
	if token := strings.TrimSpace(os.Getenv("WORKSPACEMCP_ACCESS_TOKEN")); token != "" {
		return true, "environment access token"
	}
	creds, err := p.store.Load()
	if err != nil {
		return false, "credential store unreadable: " + err.Error()
	}
	switch {
	case creds.RefreshToken != "":
		return true, "stored refresh token"
	case creds.AccessToken != "":
		return true, "stored access token"
	default:
		return false, "no credential stored"
	}
}

// buildSource runs once per credential generation. The refreshing source
// outlives any single request, so it is bound to the background context.
func (p *Provider) buildSource() (oauth2.TokenSource, error) {
	// Environment override for development and tests.
	if token := strings.TrimSpace(os.Getenv("WORKSPACEMCP_ACCESS_TOKEN")); token != "" {
		p.logger.Debug("auth.using_env_token")
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
	}
	creds, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if creds.Empty() {
		return nil, ErrNoCredential
	}
	base := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.Expiry,
	}
	if creds.RefreshToken == "" || p.config.Endpoint.TokenURL == "" {
		// Nothing to refresh with; hand out the stored token as-is.
		return oauth2.StaticTokenSource(base), nil
	}
	return oauth2.ReuseTokenSource(base, p.config.TokenSource(context.Background(), base)), nil
}
