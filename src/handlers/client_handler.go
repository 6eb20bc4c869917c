package handlers

import (
	"net/http"

	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

type ClientHandler struct {
	views services.ViewService
}

func NewClientHandler(views services.ViewService) *ClientHandler {
	return &ClientHandler{views: views}
}

func (h *ClientHandler) HandleGetClients(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.views.Clients(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}
	utils.SendJSONWithETag(w, r, snapshot.Clients)
}
