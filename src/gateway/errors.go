package gateway

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// DefaultErrorMessage is shown when nothing better can be extracted.
const DefaultErrorMessage = "Error al consultar el servidor"

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message has already been extracted
// from the body.
type ServerError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// ExtractErrorMessage picks the user-facing message of an error response:
// body.message, then body.error, then a generic status message, then
// DefaultErrorMessage.
func ExtractErrorMessage(body []byte, statusCode int) string {
	var payload map[string]any
	if err := jsoniter.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if statusCode > 0 {
		return fmt.Sprintf("request failed with status code %d", statusCode)
	}
	return DefaultErrorMessage
}

// UserMessage renders any error from a gateway call, or from the layers
// above it, for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Err != nil {
		if msg := transportErr.Err.Error(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
