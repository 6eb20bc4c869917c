package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/models"
)

// ErrStaleCycle is returned by a refetch cycle that finished after a newer
// cycle for the same view had started, when none of the newer cycles managed
// to apply a snapshot. The stale result was discarded.
var ErrStaleCycle = errors.New("refetch cycle superseded by newer cycles that did not complete")

// LedgerSnapshot is the normalized incomes, expenses and investments of one
// completed refetch cycle. Transactions keep origin order: incomes, then
// expenses, then investments, each in response order.
type LedgerSnapshot struct {
	Transactions []models.Transaction           `json:"transactions"`
	Summary      models.Summary                 `json:"summary"`
	Rejected     []*models.MalformedRecordError `json:"-"`
	Sequence     uint64                         `json:"sequence"`
	LoadedAt     time.Time                      `json:"loadedAt"`
}

type ProductSnapshot struct {
	Products []models.Product `json:"products"`
	Sequence uint64           `json:"sequence"`
	LoadedAt time.Time        `json:"loadedAt"`
}

type ClientSnapshot struct {
	Clients  []models.Client `json:"clients"`
	Sequence uint64          `json:"sequence"`
	LoadedAt time.Time       `json:"loadedAt"`
}

// ViewService runs refetch cycles and serves the last applied result of each.
type ViewService interface {
	// Refresh* run one cycle. A cycle overtaken by a newer one waits for it
	// and returns the snapshot it applied, so a nil error always means the
	// view reflects a fetch that started no earlier than this call.
	RefreshLedger(ctx context.Context) (*LedgerSnapshot, error)
	RefreshProducts(ctx context.Context) (*ProductSnapshot, error)
	RefreshClients(ctx context.Context) (*ClientSnapshot, error)
	RefreshAll(ctx context.Context) error

	// Ledger, Products and Clients return the current view, running a
	// refetch cycle first if the view was never loaded.
	Ledger(ctx context.Context) (*LedgerSnapshot, error)
	Products(ctx context.Context) (*ProductSnapshot, error)
	Clients(ctx context.Context) (*ClientSnapshot, error)
}

// MutationStatus tells a caller how far a mutation got.
type MutationStatus string

const (
	// MutationRejected: the payload failed validation and nothing was sent.
	MutationRejected MutationStatus = "rejected"
	// MutationWriteFailed: the server refused or never received the write.
	// The displayed views are unchanged.
	MutationWriteFailed MutationStatus = "write_failed"
	// MutationRefetchFailed: the write succeeded but reloading the affected
	// views did not. The views still show pre-write data.
	MutationRefetchFailed MutationStatus = "refetch_failed"
	MutationCommitted     MutationStatus = "committed"
)

type MutationResult struct {
	Status  MutationStatus `json:"status"`
	Message string         `json:"message,omitempty"`
	Err     error          `json:"-"`
}

// Synchronizer performs writes against the API and reloads the views they affect.
type Synchronizer interface {
	// CreateOrUpdate creates a record when id is blank and replaces it otherwise.
	CreateOrUpdate(ctx context.Context, resource gateway.Resource, id string, payload any) MutationResult
	Delete(ctx context.Context, resource gateway.Resource, id string) MutationResult
}
