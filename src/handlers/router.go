package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/security"
	"github.com/username/finanphy/console/src/services"
	"github.com/username/finanphy/console/src/utils"
)

// RouterDeps is everything the console API needs.
type RouterDeps struct {
	Views          services.ViewService
	Sync           services.Synchronizer
	Auth           *security.AuthService
	Limiter        *rate.Limiter
	AllowedOrigins []string
	PageSize       int
	RecentLength   int
}

func NewRouter(deps RouterDeps) http.Handler {
	ledgerHandler := NewLedgerHandler(deps.Views, deps.RecentLength)
	inventoryHandler := NewInventoryHandler(deps.Views, deps.Sync, deps.PageSize)
	clientHandler := NewClientHandler(deps.Views)
	authHandler := NewAuthHandler(deps.Auth)
	incomeHandler := NewTransactionHandler(gateway.Incomes, deps.Sync)
	expenseHandler := NewTransactionHandler(gateway.Expenses, deps.Sync)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(CORSMiddleware(deps.AllowedOrigins))
	if deps.Limiter != nil {
		r.Use(RateLimitMiddleware(deps.Limiter))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"message": "Finanphy console is running"}, http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", ledgerHandler.HandleGetDashboard)
		r.Get("/timeline", ledgerHandler.HandleGetTimeline)
		r.Get("/reports", ledgerHandler.HandleGetReports)
		r.Post("/refresh", ledgerHandler.HandleRefresh)

		r.Get("/inventory", inventoryHandler.HandleGetInventory)
		r.Get("/inventory/export", inventoryHandler.HandleExportInventory)
		r.Post("/products", inventoryHandler.HandleCreateProduct)
		r.Put("/products/{id}", inventoryHandler.HandleUpdateProduct)
		r.Delete("/products/{id}", inventoryHandler.HandleDeleteProduct)

		r.Post("/incomes", incomeHandler.HandleCreate)
		r.Put("/incomes/{id}", incomeHandler.HandleUpdate)
		r.Delete("/incomes/{id}", incomeHandler.HandleDelete)
		r.Post("/expenses", expenseHandler.HandleCreate)
		r.Put("/expenses/{id}", expenseHandler.HandleUpdate)
		r.Delete("/expenses/{id}", expenseHandler.HandleDelete)

		r.Get("/clients", clientHandler.HandleGetClients)

		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/logout", authHandler.HandleLogout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Warn("Route not found", "method", r.Method, "path", r.URL.Path)
		utils.SendJSONError(w, "not found", http.StatusNotFound)
	})
	return r
}
