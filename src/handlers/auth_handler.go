package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/username/finanphy/console/src/security"
	"github.com/username/finanphy/console/src/utils"
)

type AuthHandler struct {
	auth *security.AuthService
}

func NewAuthHandler(auth *security.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds security.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		utils.SendJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.auth.Login(r.Context(), creds)
	if errors.Is(err, security.ErrTokenMissing) {
		utils.SendJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}
	utils.SendJSON(w, session, http.StatusOK)
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var user map[string]any
	if err := decodeBody(w, r, &user); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	response, err := h.auth.Register(r.Context(), user)
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}
	utils.SendJSON(w, response, http.StatusCreated)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
