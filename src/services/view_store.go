package services

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Cache keys, one per view.
const (
	ckLedger   = "view:ledger"
	ckProducts = "view:products"
	ckClients  = "view:clients"
)

// ViewStore holds the last applied snapshot of each view together with the
// sequence numbers handed out to refetch cycles. Entries never expire: a view
// is only replaced by a newer cycle.
type ViewStore struct {
	views *cache.Cache

	mu       sync.Mutex
	issued   map[string]uint64
	applied  map[string]uint64
	inFlight map[string]map[uint64]struct{}
	// settled is closed and replaced whenever a cycle finishes.
	settled chan struct{}
}

func NewViewStore() *ViewStore {
	return &ViewStore{
		views:    cache.New(cache.NoExpiration, 0),
		issued:   make(map[string]uint64),
		applied:  make(map[string]uint64),
		inFlight: make(map[string]map[uint64]struct{}),
		settled:  make(chan struct{}),
	}
}

// Begin issues the next sequence number for key and marks that cycle as in
// flight. Numbers are strictly increasing per key. Every Begin must be
// followed by Apply or Abandon.
func (s *ViewStore) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key]++
	seq := s.issued[key]
	if s.inFlight[key] == nil {
		s.inFlight[key] = make(map[uint64]struct{})
	}
	s.inFlight[key][seq] = struct{}{}
	return seq
}

// Apply finishes cycle seq and stores value under key only if seq is the
// highest number issued for key so far. It reports whether the value was stored.
func (s *ViewStore) Apply(key string, seq uint64, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settleLocked(key, seq)
	if seq != s.issued[key] {
		return false
	}
	s.views.Set(key, value, cache.NoExpiration)
	s.applied[key] = seq
	return true
}

// Abandon finishes cycle seq without a value.
func (s *ViewStore) Abandon(key string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked(key, seq)
}

func (s *ViewStore) settleLocked(key string, seq uint64) {
	delete(s.inFlight[key], seq)
	close(s.settled)
	s.settled = make(chan struct{})
}

// Await blocks until a cycle numbered seq or higher has been applied for key
// and returns the stored value. It returns ErrStaleCycle once every newer
// cycle has finished without applying, and ctx.Err() if ctx ends first.
func (s *ViewStore) Await(ctx context.Context, key string, seq uint64) (any, error) {
	for {
		s.mu.Lock()
		if s.applied[key] >= seq {
			s.mu.Unlock()
			v, _ := s.views.Get(key)
			return v, nil
		}
		pending := false
		for n := range s.inFlight[key] {
			if n > seq {
				pending = true
				break
			}
		}
		settled := s.settled
		s.mu.Unlock()

		if !pending {
			return nil, ErrStaleCycle
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-settled:
		}
	}
}

// Commit applies value for cycle seq. When a newer cycle has been issued the
// value is discarded and Commit waits for the newer cycles instead, returning
// whatever they applied. stale reports that value itself was not stored.
func (s *ViewStore) Commit(ctx context.Context, key string, seq uint64, value any) (current any, stale bool, err error) {
	if s.Apply(key, seq, value) {
		return value, false, nil
	}
	current, err = s.Await(ctx, key, seq)
	return current, true, err
}

func (s *ViewStore) Get(key string) (any, bool) {
	return s.views.Get(key)
}

// Latest returns the highest sequence number issued for key.
func (s *ViewStore) Latest(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued[key]
}

// Applied returns the sequence number of the snapshot currently stored for key.
func (s *ViewStore) Applied(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[key]
}
