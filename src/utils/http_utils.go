package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/finanphy/console/src/logger"
)

// GenerateETag creates a SHA256 hash of the JSON representation of the data.
func GenerateETag(data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data for ETag generation: %w", err)
	}
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}

// SendJSONError writes {"error": message} with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SendJSON writes data as JSON with the given status.
func SendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// SendJSONWithETag writes data with a quoted ETag header, or 304 when the
// request's If-None-Match already names it.
func SendJSONWithETag(w http.ResponseWriter, r *http.Request, data interface{}) {
	w.Header().Set("Cache-Control", "no-cache, private")

	etag, err := GenerateETag(data)
	if err != nil {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "path", r.URL.Path, "error", err)
		SendJSON(w, data, http.StatusOK)
		return
	}

	quoted := fmt.Sprintf("\"%s\"", etag)
	w.Header().Set("ETag", quoted)
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(candidate) == quoted {
			logger.L.Debug("ETag match", "path", r.URL.Path, "etag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	SendJSON(w, data, http.StatusOK)
}
