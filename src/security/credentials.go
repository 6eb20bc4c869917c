package security

import (
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

var ErrNoCredentials = errors.New("no credentials set")

// CredentialHolder owns the bearer token attached to outgoing API requests.
// It is created once and passed by reference to the gateway; only the auth
// flow calls Set and Clear.
type CredentialHolder struct {
	mu    sync.RWMutex
	token string
}

func NewCredentialHolder(initial string) *CredentialHolder {
	return &CredentialHolder{token: initial}
}

func (h *CredentialHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

func (h *CredentialHolder) Clear() {
	h.Set("")
}

// Current returns the held token, or "" when none is set.
func (h *CredentialHolder) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Token implements oauth2.TokenSource. It returns ErrNoCredentials when no
// token is held, in which case requests go out unauthenticated.
func (h *CredentialHolder) Token() (*oauth2.Token, error) {
	token := h.Current()
	if token == "" {
		return nil, ErrNoCredentials
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

var _ oauth2.TokenSource = (*CredentialHolder)(nil)
