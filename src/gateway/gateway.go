package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/username/finanphy/console/src/logger"
)

const maxResponseBytes = 10 << 20

// Gateway is the only component that talks to the finance API. Every call
// blocks until the response is read or ctx is done.
type Gateway interface {
	List(ctx context.Context, resource Resource) ([]byte, error)
	Create(ctx context.Context, resource Resource, payload any) ([]byte, error)
	Update(ctx context.Context, resource Resource, id string, payload any) ([]byte, error)
	Delete(ctx context.Context, resource Resource, id string) error
	Do(ctx context.Context, method, path string, payload any) ([]byte, error)
}

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

type httpGateway struct {
	baseURL     string
	httpClient  *http.Client
	credentials oauth2.TokenSource
	limiter     *rate.Limiter
}

// NewHTTPGateway builds a gateway for opts.BaseURL. credentials is consulted
// on every request; when it has no token the request is sent without an
// Authorization header.
func NewHTTPGateway(opts Options, credentials oauth2.TokenSource) Gateway {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &httpGateway{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: opts.Timeout,
		},
		credentials: credentials,
		limiter:     rate.NewLimiter(limit, burst),
	}
}

func (g *httpGateway) List(ctx context.Context, resource Resource) ([]byte, error) {
	return g.Do(ctx, http.MethodGet, resource.Path(), nil)
}

func (g *httpGateway) Create(ctx context.Context, resource Resource, payload any) ([]byte, error) {
	return g.Do(ctx, http.MethodPost, resource.Path(), payload)
}

func (g *httpGateway) Update(ctx context.Context, resource Resource, id string, payload any) ([]byte, error) {
	return g.Do(ctx, http.MethodPut, resource.ItemPath(id), payload)
}

func (g *httpGateway) Delete(ctx context.Context, resource Resource, id string) error {
	_, err := g.Do(ctx, http.MethodDelete, resource.ItemPath(id), nil)
	return err
}

// Do sends one JSON request and returns the raw response body of a 2xx reply.
// Failures are *TransportError or *ServerError.
func (g *httpGateway) Do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	log := logger.FromContext(ctx)

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	var body io.Reader
	if payload != nil {
		encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := logger.RequestID(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}
	if g.credentials != nil {
		if token, err := g.credentials.Token(); err == nil {
			token.SetAuthHeader(req)
		}
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Warn("Gateway request failed", "method", method, "path", path, "error", err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("reading response: %w", err)}
	}
	log.Debug("Gateway response", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    ExtractErrorMessage(respBody, resp.StatusCode),
			Body:       respBody,
		}
		log.Warn("Gateway request rejected by server", "method", method, "path", path, "status", resp.StatusCode, "message", serverErr.Message)
		return nil, serverErr
	}
	return respBody, nil
}

