package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/parsers"
)

var ErrTokenMissing = errors.New("login succeeded but the response carried no token")

// Requester is the subset of the gateway the auth flow needs.
type Requester interface {
	Do(ctx context.Context, method, path string, payload any) ([]byte, error)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the outcome of a successful login. Response is the server's
// reply with every token field removed.
type Session struct {
	Token string `json:"-"`
	// ExpiresAt is read from the token's exp claim when it is a JWT; zero otherwise.
	ExpiresAt time.Time      `json:"expiresAt"`
	Response  map[string]any `json:"response"`
}

var tokenKeys = []string{"token", "access_token", "refresh_token", "jwt"}

type AuthService struct {
	requester   Requester
	credentials *CredentialHolder
}

func NewAuthService(requester Requester, credentials *CredentialHolder) *AuthService {
	return &AuthService{
		requester:   requester,
		credentials: credentials,
	}
}

// Login posts the credentials to /auth/login and stores the returned token in
// the credential holder.
func (a *AuthService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	body, err := a.requester.Do(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}

	var response map[string]any
	if err := parsers.DecodeObject(body, &response); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}

	token := ExtractToken(response)
	if token == "" {
		return nil, ErrTokenMissing
	}
	a.credentials.Set(token)

	session := &Session{Token: token, Response: withoutTokens(response)}
	if exp, ok := tokenExpiry(token); ok {
		session.ExpiresAt = exp
		logger.FromContext(ctx).Info("Logged in", "email", creds.Email, "expiresAt", exp.Format(time.RFC3339))
	} else {
		logger.FromContext(ctx).Info("Logged in", "email", creds.Email)
	}
	return session, nil
}

// Register posts a new user to /auth/register and returns the decoded response.
func (a *AuthService) Register(ctx context.Context, user map[string]any) (map[string]any, error) {
	body, err := a.requester.Do(ctx, http.MethodPost, "/auth/register", user)
	if err != nil {
		return nil, err
	}
	var response map[string]any
	if err := parsers.DecodeObject(body, &response); err != nil {
		return nil, fmt.Errorf("decoding register response: %w", err)
	}
	return response, nil
}

func (a *AuthService) Logout(ctx context.Context) {
	a.credentials.Clear()
	logger.FromContext(ctx).Info("Logged out")
}

// ExtractToken looks for a token under token, access_token, jwt and data.token,
// in that order. Non-string and blank values are skipped.
func ExtractToken(response map[string]any) string {
	for _, key := range []string{"token", "access_token", "jwt"} {
		if s, ok := response[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if data, ok := response["data"].(map[string]any); ok {
		if s, ok := data["token"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// withoutTokens returns a copy of response without token fields, at the top
// level and under data.
func withoutTokens(response map[string]any) map[string]any {
	out := make(map[string]any, len(response))
	for k, v := range response {
		out[k] = v
	}
	for _, k := range tokenKeys {
		delete(out, k)
	}
	if data, ok := response["data"].(map[string]any); ok {
		scrubbed := make(map[string]any, len(data))
		for k, v := range data {
			scrubbed[k] = v
		}
		for _, k := range tokenKeys {
			delete(scrubbed, k)
		}
		out["data"] = scrubbed
	}
	return out
}

// tokenExpiry reads exp without verifying the signature. The server owns
// verification; this is only used for logging and the session response.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
