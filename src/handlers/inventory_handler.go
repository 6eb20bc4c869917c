package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/username/finanphy/console/src/exporters"
	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/processors"
	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

type InventoryHandler struct {
	views    services.ViewService
	sync     services.Synchronizer
	pageSize int
}

func NewInventoryHandler(views services.ViewService, sync services.Synchronizer, pageSize int) *InventoryHandler {
	return &InventoryHandler{
		views:    views,
		sync:     sync,
		pageSize: pageSize,
	}
}

type inventoryResponse struct {
	models.InventoryPage
	Query    string `json:"query"`
	Label    string `json:"label"`
	LowStock int    `json:"lowStockCount"`
}

// HandleGetInventory serves one page of the filtered product list. A missing
// or non-numeric page means page 1.
func (h *InventoryHandler) HandleGetInventory(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	snapshot, err := h.views.Products(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}

	result, err := processors.QueryInventory(snapshot.Products, term, page, h.pageSize)
	if err != nil {
		logger.FromContext(r.Context()).Error("Inventory query failed", "pageSize", h.pageSize, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.SendJSONWithETag(w, r, inventoryResponse{
		InventoryPage: result,
		Query:         strings.TrimSpace(term),
		Label:         fmt.Sprintf("Mostrando %d - %d de %d", result.RangeStart, result.RangeEnd, result.TotalCount),
		LowStock:      len(processors.LowStock(processors.FilterProducts(snapshot.Products, term))),
	})
}

// HandleExportInventory writes every product matching q, not just one page.
func (h *InventoryHandler) HandleExportInventory(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.views.Products(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}

	filtered := processors.FilterProducts(snapshot.Products, r.URL.Query().Get("q"))
	logger.FromContext(r.Context()).Info("Exporting inventory", "rows", len(filtered))

	w.Header().Set("Content-Type", exporters.CSVContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporters.CSVFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(exporters.ToCSV(filtered))); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to write CSV export", "error", err)
	}
}

func (h *InventoryHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h *InventoryHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, chi.URLParam(r, "id"))
}

func (h *InventoryHandler) saveProduct(w http.ResponseWriter, r *http.Request, id string) {
	var payload models.ProductPayload
	if err := decodeBody(w, r, &payload); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	sendMutationResult(w, h.sync.CreateOrUpdate(r.Context(), gateway.Products, id, payload), status)
}

func (h *InventoryHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	sendMutationResult(w, h.sync.Delete(r.Context(), gateway.Products, chi.URLParam(r, "id")), http.StatusOK)
}
