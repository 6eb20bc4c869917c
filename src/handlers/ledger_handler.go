package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/processors"
	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

type LedgerHandler struct {
	views        services.ViewService
	recentLength int
}

func NewLedgerHandler(views services.ViewService, recentLength int) *LedgerHandler {
	return &LedgerHandler{
		views:        views,
		recentLength: recentLength,
	}
}

type formattedTotals struct {
	Income     string `json:"income"`
	Expense    string `json:"expense"`
	Investment string `json:"investment"`
	Balance    string `json:"balance"`
}

type dashboardResponse struct {
	Ingresos      decimal.Decimal      `json:"ingresos"`
	Gastos        decimal.Decimal      `json:"gastos"`
	Balance       decimal.Decimal      `json:"balance"`
	Transacciones []models.Transaction `json:"transacciones"`
	Summary       models.Summary       `json:"summary"`
	Formatted     formattedTotals      `json:"formatted"`
	RejectedCount int                  `json:"rejectedCount"`
	LoadedAt      time.Time            `json:"loadedAt"`
}

type chartPoint struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type reportsResponse struct {
	Summary    models.Summary                                     `json:"summary"`
	Formatted  formattedTotals                                    `json:"formatted"`
	Chart      []chartPoint                                       `json:"chart"`
	Categories map[models.TransactionKind][]models.CategoryAmount `json:"categories"`
}

func formatTotals(s models.Summary) formattedTotals {
	return formattedTotals{
		Income:     utils.FormatCOP(s.IncomeTotal),
		Expense:    utils.FormatCOP(s.ExpenseTotal),
		Investment: utils.FormatCOP(s.InvestmentTotal),
		Balance:    utils.FormatCOP(s.Balance),
	}
}

func (h *LedgerHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.views.Ledger(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}

	utils.SendJSONWithETag(w, r, dashboardResponse{
		Ingresos:      ledger.Summary.IncomeTotal,
		Gastos:        ledger.Summary.ExpenseTotal,
		Balance:       ledger.Summary.Balance,
		Transacciones: processors.Recent(ledger.Transactions, h.recentLength),
		Summary:       ledger.Summary,
		Formatted:     formatTotals(ledger.Summary),
		RejectedCount: len(ledger.Rejected),
		LoadedAt:      ledger.LoadedAt,
	})
}

func (h *LedgerHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	direction, err := processors.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ledger, err := h.views.Ledger(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}

	utils.SendJSONWithETag(w, r, map[string]any{
		"direction":    direction,
		"transactions": processors.BuildTimeline(ledger.Transactions, direction),
	})
}

func (h *LedgerHandler) HandleGetReports(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.views.Ledger(r.Context())
	if err != nil {
		sendUpstreamError(w, r, err)
		return
	}

	s := ledger.Summary
	categories := make(map[models.TransactionKind][]models.CategoryAmount, len(models.TransactionKinds))
	for _, kind := range models.TransactionKinds {
		categories[kind] = processors.CategoryBreakdown(ledger.Transactions, kind)
	}

	utils.SendJSONWithETag(w, r, reportsResponse{
		Summary:   s,
		Formatted: formatTotals(s),
		Chart: []chartPoint{
			{Name: "Ingresos", Value: s.IncomeTotal},
			{Name: "Gastos", Value: s.ExpenseTotal},
			{Name: "Inversiones", Value: s.InvestmentTotal},
		},
		Categories: categories,
	})
}

// HandleRefresh runs a refetch cycle of every view.
func (h *LedgerHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.views.RefreshAll(r.Context()); err != nil {
		sendUpstreamError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("All views refreshed")
	utils.SendJSON(w, map[string]string{"status": "refreshed"}, http.StatusOK)
}
