package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/parsers"
	"github.com/username/finanphy/console/src/processors"
)

type viewServiceImpl struct {
	gateway gateway.Gateway
	store   *ViewStore
}

func NewViewService(gw gateway.Gateway, store *ViewStore) ViewService {
	return &viewServiceImpl{
		gateway: gw,
		store:   store,
	}
}

// RefreshLedger fetches incomes, expenses and investments concurrently and
// normalizes them only once all three have arrived. Any fetch or decode
// failure fails the whole cycle; malformed records are excluded and reported.
func (s *viewServiceImpl) RefreshLedger(ctx context.Context) (*LedgerSnapshot, error) {
	log := logger.FromContext(ctx)
	seq := s.store.Begin(ckLedger)
	log.Debug("Ledger refetch cycle started", "sequence", seq)

	snapshot, err := s.loadLedger(ctx, seq)
	if err != nil {
		s.store.Abandon(ckLedger, seq)
		log.Warn("Ledger refetch cycle failed", "sequence", seq, "error", err)
		return nil, err
	}

	current, stale, err := s.store.Commit(ctx, ckLedger, seq, snapshot)
	if err != nil {
		log.Warn("Stale ledger cycle found no newer view", "sequence", seq, "error", err)
		return nil, err
	}
	if stale {
		log.Info("Discarded stale ledger cycle", "sequence", seq, "applied", s.store.Applied(ckLedger))
	} else {
		log.Info("Ledger view updated", "sequence", seq, "transactions", len(snapshot.Transactions), "rejected", len(snapshot.Rejected))
	}
	return current.(*LedgerSnapshot), nil
}

func (s *viewServiceImpl) loadLedger(ctx context.Context, seq uint64) (*LedgerSnapshot, error) {
	kinds := models.TransactionKinds
	bodies := make([][]byte, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			resource, err := gateway.ResourceFor(kind)
			if err != nil {
				return err
			}
			body, err := s.gateway.List(gctx, resource)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", resource, err)
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batches := make([][]models.Transaction, 0, len(kinds))
	var rejected []*models.MalformedRecordError
	for i, kind := range kinds {
		raws, indexes, undecodable, err := parsers.DecodeTransactions(kind, bodies[i])
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", kind, err)
		}
		txs, malformed := processors.NormalizeIndexed(kind, raws, indexes)
		batches = append(batches, txs)
		rejected = append(rejected, undecodable...)
		rejected = append(rejected, malformed...)
	}
	reportRejected(ctx, seq, rejected)

	transactions := processors.Merge(batches...)
	return &LedgerSnapshot{
		Transactions: transactions,
		Summary:      processors.Aggregate(transactions),
		Rejected:     rejected,
		Sequence:     seq,
		LoadedAt:     time.Now(),
	}, nil
}

func (s *viewServiceImpl) RefreshProducts(ctx context.Context) (*ProductSnapshot, error) {
	log := logger.FromContext(ctx)
	seq := s.store.Begin(ckProducts)

	snapshot, err := s.loadProducts(ctx, seq)
	if err != nil {
		s.store.Abandon(ckProducts, seq)
		log.Warn("Products refetch cycle failed", "sequence", seq, "error", err)
		return nil, err
	}

	current, stale, err := s.store.Commit(ctx, ckProducts, seq, snapshot)
	if err != nil {
		log.Warn("Stale products cycle found no newer view", "sequence", seq, "error", err)
		return nil, err
	}
	if stale {
		log.Info("Discarded stale products cycle", "sequence", seq, "applied", s.store.Applied(ckProducts))
	} else {
		log.Info("Products view updated", "sequence", seq, "products", len(snapshot.Products))
	}
	return current.(*ProductSnapshot), nil
}

func (s *viewServiceImpl) loadProducts(ctx context.Context, seq uint64) (*ProductSnapshot, error) {
	body, err := s.gateway.List(ctx, gateway.Products)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", gateway.Products, err)
	}
	raws, err := parsers.DecodeProducts(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", gateway.Products, err)
	}
	return &ProductSnapshot{
		Products: processors.NormalizeProducts(raws),
		Sequence: seq,
		LoadedAt: time.Now(),
	}, nil
}

func (s *viewServiceImpl) RefreshClients(ctx context.Context) (*ClientSnapshot, error) {
	log := logger.FromContext(ctx)
	seq := s.store.Begin(ckClients)

	snapshot, err := s.loadClients(ctx, seq)
	if err != nil {
		s.store.Abandon(ckClients, seq)
		log.Warn("Clients refetch cycle failed", "sequence", seq, "error", err)
		return nil, err
	}

	current, stale, err := s.store.Commit(ctx, ckClients, seq, snapshot)
	if err != nil {
		log.Warn("Stale clients cycle found no newer view", "sequence", seq, "error", err)
		return nil, err
	}
	if stale {
		log.Info("Discarded stale clients cycle", "sequence", seq, "applied", s.store.Applied(ckClients))
	} else {
		log.Info("Clients view updated", "sequence", seq, "clients", len(snapshot.Clients))
	}
	return current.(*ClientSnapshot), nil
}

func (s *viewServiceImpl) loadClients(ctx context.Context, seq uint64) (*ClientSnapshot, error) {
	body, err := s.gateway.List(ctx, gateway.Users)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", gateway.Users, err)
	}
	raws, err := parsers.DecodeClients(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", gateway.Users, err)
	}
	return &ClientSnapshot{
		Clients:  processors.NormalizeClients(raws),
		Sequence: seq,
		LoadedAt: time.Now(),
	}, nil
}

// RefreshAll reloads every view concurrently.
func (s *viewServiceImpl) RefreshAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := s.RefreshLedger(gctx); return err })
	g.Go(func() error { _, err := s.RefreshProducts(gctx); return err })
	g.Go(func() error { _, err := s.RefreshClients(gctx); return err })
	return g.Wait()
}

func (s *viewServiceImpl) Ledger(ctx context.Context) (*LedgerSnapshot, error) {
	if v, ok := s.store.Get(ckLedger); ok {
		return v.(*LedgerSnapshot), nil
	}
	logger.FromContext(ctx).Info("Ledger view not loaded, running refetch cycle")
	return s.RefreshLedger(ctx)
}

func (s *viewServiceImpl) Products(ctx context.Context) (*ProductSnapshot, error) {
	if v, ok := s.store.Get(ckProducts); ok {
		return v.(*ProductSnapshot), nil
	}
	logger.FromContext(ctx).Info("Products view not loaded, running refetch cycle")
	return s.RefreshProducts(ctx)
}

func (s *viewServiceImpl) Clients(ctx context.Context) (*ClientSnapshot, error) {
	if v, ok := s.store.Get(ckClients); ok {
		return v.(*ClientSnapshot), nil
	}
	logger.FromContext(ctx).Info("Clients view not loaded, running refetch cycle")
	return s.RefreshClients(ctx)
}

func reportRejected(ctx context.Context, seq uint64, rejected []*models.MalformedRecordError) {
	if len(rejected) == 0 {
		return
	}
	var result *multierror.Error
	for _, r := range rejected {
		result = multierror.Append(result, r)
	}
	logger.FromContext(ctx).Warn("Excluded malformed records from ledger", "sequence", seq, "count", len(rejected), "errors", result.Error())
}
