package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/parsers"
	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if err := parsers.DecodeObject(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// upstreamStatus maps an error from the API onto the status we answer with.
// Client errors pass through; everything else is a bad gateway.
func upstreamStatus(err error) int {
	var serverErr *gateway.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode >= 400 && serverErr.StatusCode < 500 {
		return serverErr.StatusCode
	}
	return http.StatusBadGateway
}

func sendUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Warn("Upstream request failed", "path", r.URL.Path, "error", err)
	utils.SendJSONError(w, gateway.UserMessage(err), upstreamStatus(err))
}

// sendMutationResult answers a mutation. A refetch failure is a 200 with
// status "refetch_failed": the write itself went through.
func sendMutationResult(w http.ResponseWriter, result services.MutationResult, successStatus int) {
	switch result.Status {
	case services.MutationRejected:
		utils.SendJSON(w, result, http.StatusBadRequest)
	case services.MutationWriteFailed:
		utils.SendJSON(w, result, upstreamStatus(result.Err))
	case services.MutationRefetchFailed:
		utils.SendJSON(w, result, http.StatusOK)
	default:
		utils.SendJSON(w, result, successStatus)
	}
}
