package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

// TransactionHandler serves writes to one transaction resource (incomes or expenses).
type TransactionHandler struct {
	resource gateway.Resource
	sync     services.Synchronizer
}

func NewTransactionHandler(resource gateway.Resource, sync services.Synchronizer) *TransactionHandler {
	return &TransactionHandler{
		resource: resource,
		sync:     sync,
	}
}

func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "id"))
}

func (h *TransactionHandler) save(w http.ResponseWriter, r *http.Request, id string) {
	var payload models.TransactionPayload
	if err := decodeBody(w, r, &payload); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	sendMutationResult(w, h.sync.CreateOrUpdate(r.Context(), h.resource, id, payload), status)
}

func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sendMutationResult(w, h.sync.Delete(r.Context(), h.resource, chi.URLParam(r, "id")), http.StatusOK)
}
