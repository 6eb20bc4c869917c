package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/processors"
	"github.com/username/finanphy/console/src/security"
	"github.com/username/finanphy/console/src/services"
)

type fakeViews struct {
	ledger    *services.LedgerSnapshot
	products  *services.ProductSnapshot
	clients   *services.ClientSnapshot
	err       error
	refreshes int
}

func (f *fakeViews) RefreshLedger(ctx context.Context) (*services.LedgerSnapshot, error) {
	return f.ledger, f.err
}

func (f *fakeViews) RefreshProducts(ctx context.Context) (*services.ProductSnapshot, error) {
	return f.products, f.err
}

func (f *fakeViews) RefreshClients(ctx context.Context) (*services.ClientSnapshot, error) {
	return f.clients, f.err
}

func (f *fakeViews) RefreshAll(ctx context.Context) error {
	f.refreshes++
	return f.err
}

func (f *fakeViews) Ledger(ctx context.Context) (*services.LedgerSnapshot, error) {
	return f.ledger, f.err
}

func (f *fakeViews) Products(ctx context.Context) (*services.ProductSnapshot, error) {
	return f.products, f.err
}

func (f *fakeViews) Clients(ctx context.Context) (*services.ClientSnapshot, error) {
	return f.clients, f.err
}

type fakeSync struct {
	result   services.MutationResult
	resource gateway.Resource
	id       string
	payload  any
	deleted  bool
}

func (f *fakeSync) CreateOrUpdate(ctx context.Context, resource gateway.Resource, id string, payload any) services.MutationResult {
	f.resource, f.id, f.payload = resource, id, payload
	return f.result
}

func (f *fakeSync) Delete(ctx context.Context, resource gateway.Resource, id string) services.MutationResult {
	f.resource, f.id, f.deleted = resource, id, true
	return f.result
}

type fakeRequester struct {
	body []byte
	err  error
}

func (f *fakeRequester) Do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	return f.body, f.err
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func sampleLedger() *services.LedgerSnapshot {
	txs := []models.Transaction{
		{ID: "i1", Kind: models.KindIncome, Amount: decimal.NewFromInt(200000), Date: day("2025-01-15"), Description: "Ventas", Category: "Ventas"},
		{ID: "e1", Kind: models.KindExpense, Amount: decimal.NewFromInt(80000), Date: day("2025-01-20"), Description: "Arriendo", Category: "Arriendo"},
		{ID: "v1", Kind: models.KindInvestment, Amount: decimal.NewFromInt(50000), Date: day("2025-01-01")},
	}
	return &services.LedgerSnapshot{
		Transactions: txs,
		Summary:      processors.Aggregate(txs),
		Rejected:     []*models.MalformedRecordError{{Kind: models.KindIncome, Index: 4, Field: "amount"}},
		Sequence:     1,
	}
}

func sampleProducts() *services.ProductSnapshot {
	products := make([]models.Product, 0, 10)
	for i, name := range []string{"Café", "Té", "Azúcar", "Café descafeinado", "Leche", "Pan", "Queso", "Arepa", "Chocolate", "Panela"} {
		products = append(products, models.Product{ID: name, Name: name, SKU: "SKU" + string(rune('A'+i)), Stock: i})
	}
	return &services.ProductSnapshot{Products: products, Sequence: 1}
}

func newTestRouter(views *fakeViews, sync *fakeSync, req *fakeRequester) http.Handler {
	if req == nil {
		req = &fakeRequester{}
	}
	return NewRouter(RouterDeps{
		Views:          views,
		Sync:           sync,
		Auth:           security.NewAuthService(req, security.NewCredentialHolder("")),
		AllowedOrigins: []string{"http://localhost:3000"},
		PageSize:       8,
		RecentLength:   2,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDashboard(t *testing.T) {
	router := newTestRouter(&fakeViews{ledger: sampleLedger()}, &fakeSync{}, nil)
	rec := do(t, router, http.MethodGet, "/api/dashboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var got struct {
		Ingresos      json.Number `json:"ingresos"`
		Balance       json.Number `json:"balance"`
		Transacciones []struct {
			ID string `json:"id"`
		} `json:"transacciones"`
		Formatted struct {
			Income  string `json:"income"`
			Balance string `json:"balance"`
		} `json:"formatted"`
		RejectedCount int `json:"rejectedCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Ingresos.String() != "200000" || got.Balance.String() != "70000" {
		t.Errorf("totals = %s / %s", got.Ingresos, got.Balance)
	}
	if got.Formatted.Income != "$200.000" || got.Formatted.Balance != "$70.000" {
		t.Errorf("formatted = %+v", got.Formatted)
	}
	if len(got.Transacciones) != 2 || got.Transacciones[0].ID != "e1" || got.Transacciones[1].ID != "i1" {
		t.Errorf("recent = %+v", got.Transacciones)
	}
	if got.RejectedCount != 1 {
		t.Errorf("rejectedCount = %d", got.RejectedCount)
	}
	if rec.Header().Get("ETag") == "" || rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing ETag or X-Request-ID header")
	}

	again := do(t, router, http.MethodGet, "/api/dashboard", "", map[string]string{"If-None-Match": rec.Header().Get("ETag")})
	if again.Code != http.StatusNotModified {
		t.Errorf("conditional GET status = %d, want 304", again.Code)
	}
}

func TestTimeline(t *testing.T) {
	router := newTestRouter(&fakeViews{ledger: sampleLedger()}, &fakeSync{}, nil)

	rec := do(t, router, http.MethodGet, "/api/timeline?direction=desc", "", nil)
	var got struct {
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	ids := []string{}
	for _, tx := range got.Transactions {
		ids = append(ids, tx.ID)
	}
	if strings.Join(ids, ",") != "e1,i1,v1" {
		t.Errorf("desc order = %v", ids)
	}

	if rec := do(t, router, http.MethodGet, "/api/timeline?direction=up", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid direction status = %d", rec.Code)
	}
}

func TestReports(t *testing.T) {
	router := newTestRouter(&fakeViews{ledger: sampleLedger()}, &fakeSync{}, nil)
	rec := do(t, router, http.MethodGet, "/api/reports", "", nil)
	var got struct {
		Chart []struct {
			Name  string      `json:"name"`
			Value json.Number `json:"value"`
		} `json:"chart"`
		Categories map[string][]struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got.Chart) != 3 || got.Chart[0].Name != "Ingresos" || got.Chart[1].Value.String() != "80000" {
		t.Errorf("chart = %+v", got.Chart)
	}
	if len(got.Categories["investment"]) != 1 || got.Categories["investment"][0].Category != processors.UncategorizedLabel {
		t.Errorf("investment categories = %+v", got.Categories["investment"])
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized passes through", &gateway.ServerError{StatusCode: 401, Message: "Unauthorized"}, 401},
		{"server error is bad gateway", &gateway.ServerError{StatusCode: 500, Message: "boom"}, 502},
		{"transport error is bad gateway", &gateway.TransportError{Err: errors.New("dial")}, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeViews{err: tt.err}, &fakeSync{}, nil)
			rec := do(t, router, http.MethodGet, "/api/dashboard", "", nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] != gateway.UserMessage(tt.err) {
				t.Errorf("error = %q", body["error"])
			}
		})
	}
}

func TestInventoryPaging(t *testing.T) {
	router := newTestRouter(&fakeViews{products: sampleProducts()}, &fakeSync{}, nil)

	tests := []struct {
		target    string
		wantPage  int
		wantItems int
		wantLabel string
	}{
		{"/api/inventory", 1, 8, "Mostrando 1 - 8 de 10"},
		{"/api/inventory?page=2", 2, 2, "Mostrando 9 - 10 de 10"},
		{"/api/inventory?page=99", 2, 2, "Mostrando 9 - 10 de 10"},
		{"/api/inventory?page=abc", 1, 8, "Mostrando 1 - 8 de 10"},
		{"/api/inventory?q=caf", 1, 2, "Mostrando 1 - 2 de 2"},
		{"/api/inventory?q=zzz", 1, 0, "Mostrando 0 - 0 de 0"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.target, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var got struct {
				Items []struct {
					LowStock bool `json:"lowStock"`
				} `json:"items"`
				Page       int    `json:"page"`
				TotalPages int    `json:"totalPages"`
				Label      string `json:"label"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if got.Page != tt.wantPage || len(got.Items) != tt.wantItems || got.Label != tt.wantLabel {
				t.Errorf("page=%d items=%d label=%q", got.Page, len(got.Items), got.Label)
			}
			if got.TotalPages < 1 {
				t.Errorf("totalPages = %d", got.TotalPages)
			}
		})
	}
}

func TestInventoryExport(t *testing.T) {
	router := newTestRouter(&fakeViews{products: sampleProducts()}, &fakeSync{}, nil)
	rec := do(t, router, http.MethodGet, "/api/inventory/export?q=caf", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="inventario.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(rec.Body.String(), "\n")
	if lines[0] != "sku,name,price,cost,stock" || len(lines) != 3 {
		t.Errorf("export = %q", rec.Body.String())
	}
}

func TestProductMutations(t *testing.T) {
	sync := &fakeSync{result: services.MutationResult{Status: services.MutationCommitted}}
	router := newTestRouter(&fakeViews{}, sync, nil)

	rec := do(t, router, http.MethodPost, "/api/products", `{"name":"Café","sku":"CF","price":"12000","cost":8000,"stock":3}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	payload, ok := sync.payload.(models.ProductPayload)
	if !ok || sync.resource != gateway.Products || sync.id != "" {
		t.Fatalf("sync got %s %q %T", sync.resource, sync.id, sync.payload)
	}
	if !payload.Price.Equal(decimal.NewFromInt(12000)) || payload.Stock != 3 {
		t.Errorf("payload = %+v", payload)
	}

	rec = do(t, router, http.MethodPut, "/api/products/p1", `{"name":"Café","sku":"CF"}`, nil)
	if rec.Code != http.StatusOK || sync.id != "p1" {
		t.Errorf("update status = %d id = %q", rec.Code, sync.id)
	}

	rec = do(t, router, http.MethodDelete, "/api/products/p1", "", nil)
	if rec.Code != http.StatusOK || !sync.deleted {
		t.Errorf("delete status = %d deleted = %v", rec.Code, sync.deleted)
	}

	if rec := do(t, router, http.MethodPost, "/api/products", `{not json`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", rec.Code)
	}
}

func TestMutationResultStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		result     services.MutationResult
		wantStatus int
		wantBody   string
	}{
		{"rejected", services.MutationResult{Status: services.MutationRejected, Message: "name: is required"}, 400, "rejected"},
		{"write failed with client error", services.MutationResult{Status: services.MutationWriteFailed, Message: "SKU duplicado", Err: &gateway.ServerError{StatusCode: 409}}, 409, "write_failed"},
		{"write failed in transport", services.MutationResult{Status: services.MutationWriteFailed, Message: "timeout", Err: &gateway.TransportError{Err: errors.New("timeout")}}, 502, "write_failed"},
		{"refetch failed", services.MutationResult{Status: services.MutationRefetchFailed, Message: "timeout"}, 200, "refetch_failed"},
		{"committed", services.MutationResult{Status: services.MutationCommitted}, 201, "committed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeViews{}, &fakeSync{result: tt.result}, nil)
			rec := do(t, router, http.MethodPost, "/api/incomes", `{"amount":10,"exitDate":"2025-01-01"}`, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["status"] != tt.wantBody || body["message"] != tt.result.Message {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestExpenseRoutesUseExpenseResource(t *testing.T) {
	sync := &fakeSync{result: services.MutationResult{Status: services.MutationCommitted}}
	router := newTestRouter(&fakeViews{}, sync, nil)
	do(t, router, http.MethodPut, "/api/expenses/e9", `{"amount":"5","dueDate":"2025-02-01"}`, nil)
	if sync.resource != gateway.Expenses || sync.id != "e9" {
		t.Errorf("got %s %q", sync.resource, sync.id)
	}
	if p, ok := sync.payload.(models.TransactionPayload); !ok || !p.Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("payload = %+v", sync.payload)
	}
}

func TestClients(t *testing.T) {
	views := &fakeViews{clients: &services.ClientSnapshot{Clients: []models.Client{{ID: "1", FirstName: "Ana"}}}}
	rec := do(t, newTestRouter(views, &fakeSync{}, nil), http.MethodGet, "/api/clients", "", nil)
	var got []models.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != 1 {
		t.Errorf("clients = %s (%v)", rec.Body, err)
	}
}

func TestRefresh(t *testing.T) {
	views := &fakeViews{}
	rec := do(t, newTestRouter(views, &fakeSync{}, nil), http.MethodPost, "/api/refresh", "", nil)
	if rec.Code != http.StatusOK || views.refreshes != 1 {
		t.Errorf("status = %d refreshes = %d", rec.Code, views.refreshes)
	}
}

func TestLoginAndLogout(t *testing.T) {
	router := newTestRouter(&fakeViews{}, &fakeSync{}, &fakeRequester{body: []byte(`{"token":"abc"}`)})

	if rec := do(t, router, http.MethodPost, "/api/auth/login", `{"email":""}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing credentials status = %d", rec.Code)
	}
	rec := do(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"pw"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	var session map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, leaked := session["token"]; leaked {
		t.Error("session must not expose the token at top level")
	}
	if rec := do(t, router, http.MethodPost, "/api/auth/logout", "", nil); rec.Code != http.StatusNoContent {
		t.Errorf("logout status = %d", rec.Code)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	router := newTestRouter(&fakeViews{}, &fakeSync{}, &fakeRequester{body: []byte(`{"message":"ok"}`)})
	rec := do(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"pw"}`, nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeViews{}, &fakeSync{}, nil)
	rec := do(t, router, http.MethodOptions, "/api/products", "", map[string]string{"Origin": "http://localhost:3000"})
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	rec = do(t, router, http.MethodOptions, "/api/products", "", map[string]string{"Origin": "http://evil.example"})
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(&fakeViews{}, &fakeSync{}, nil)
	rec := do(t, router, http.MethodGet, "/", "", map[string]string{"X-Request-ID": "abc-123"})
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestRateLimit(t *testing.T) {
	router := NewRouter(RouterDeps{
		Views:   &fakeViews{},
		Sync:    &fakeSync{},
		Auth:    security.NewAuthService(&fakeRequester{}, security.NewCredentialHolder("")),
		Limiter: rate.NewLimiter(rate.Limit(0.001), 1),
	})
	if rec := do(t, router, http.MethodGet, "/", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/", "", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestRouter(&fakeViews{}, &fakeSync{}, nil), http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
