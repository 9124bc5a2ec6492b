package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rentdesk/internal/infra/storage/kv"
)

// Keys of the four persisted collections.
const (
	KeyProperties = "properties"
	KeyCustomers  = "customers"
	KeyBookings   = "bookings"
	KeyPayments   = "payments"
)

var allKeys = []string{KeyProperties, KeyCustomers, KeyBookings, KeyPayments}

var ErrCorruptDocument = errors.New("memory: persisted document is corrupt")

type state struct {
	properties table[propertyRecord]
	customers  table[customerRecord]
	bookings   table[bookingRecord]
	payments   table[paymentRecord]
}

func newState() state {
	return state{
		properties: newTable[propertyRecord](),
		customers:  newTable[customerRecord](),
		bookings:   newTable[bookingRecord](),
		payments:   newTable[paymentRecord](),
	}
}

func (st state) clone() state {
	return state{
		properties: st.properties.clone(),
		customers:  st.customers.clone(),
		bookings:   st.bookings.clone(),
		payments:   st.payments.clone(),
	}
}

// Store owns the four collections in memory and mirrors them to a kv.Store.
// A single RWMutex serialises units of work: writers hold it exclusively
// from Begin until Commit or Rollback.
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	logger *slog.Logger
	data   state
}

func NewStore(backend kv.Store, logger *slog.Logger) *Store {
	if backend == nil {
		backend = kv.NewMemory()
	}
	return &Store{kv: backend, logger: logger, data: newState()}
}

// Load replaces the in-memory state with the persisted collections. A
// missing key loads as an empty collection.
func (s *Store) Load(ctx context.Context) error {
	loaded := newState()
	for _, key := range allKeys {
		raw, found, err := s.kv.Load(ctx, key)
		if err != nil {
			return err
		}
		if !found || len(raw) == 0 {
			continue
		}
		if err := loaded.decode(key, raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, key, err)
		}
	}
	s.mu.Lock()
	s.data = loaded
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("store loaded",
			"properties", loaded.properties.len(),
			"customers", loaded.customers.len(),
			"bookings", loaded.bookings.len(),
			"payments", loaded.payments.len(),
		)
	}
	return nil
}

func (st *state) decode(key string, raw []byte) error {
	switch key {
	case KeyProperties:
		var rows []propertyRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			st.properties.put(r.ID, r)
		}
	case KeyCustomers:
		var rows []customerRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			st.customers.put(r.ID, r)
		}
	case KeyBookings:
		var rows []bookingRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := r.toDomain(); err != nil {
				return err
			}
			st.bookings.put(r.ID, r)
		}
	case KeyPayments:
		var rows []paymentRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := r.toDomain(); err != nil {
				return err
			}
			st.payments.put(r.ID, r)
		}
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func (st state) encode(key string) ([]byte, error) {
	switch key {
	case KeyProperties:
		return json.Marshal(st.properties.values())
	case KeyCustomers:
		return json.Marshal(st.customers.values())
	case KeyBookings:
		return json.Marshal(st.bookings.values())
	case KeyPayments:
		return json.Marshal(st.payments.values())
	}
	return nil, fmt.Errorf("memory: unknown key %q", key)
}

// flush writes keys from st. The caller holds the lock.
func (s *Store) flush(ctx context.Context, st state, keys []string) (written []string, err error) {
	for _, key := range keys {
		raw, err := st.encode(key)
		if err != nil {
			return written, err
		}
		if err := s.kv.Save(ctx, key, raw); err != nil {
			return written, err
		}
		written = append(written, key)
	}
	return written, nil
}

// FlushAll writes every collection. It only needs the read lock.
func (s *Store) FlushAll(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.flush(ctx, s.data, allKeys)
	return err
}

// RunFlusher writes the whole store every interval and once more when ctx
// is done.
func (s *Store) RunFlusher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.FlushAll(finalCtx)
			cancel()
			s.logFlush("final", err)
			return
		case <-ticker.C:
			if err := s.FlushAll(ctx); err != nil {
				s.logFlush("periodic", err)
			}
		}
	}
}

func (s *Store) logFlush(kind string, err error) {
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Error("store flush failed", "kind", kind, "error", err)
		return
	}
	s.logger.Info("store flushed", "kind", kind)
}

// Ping checks the backend is reachable by reading one key.
func (s *Store) Ping(ctx context.Context) error {
	_, _, err := s.kv.Load(ctx, KeyProperties)
	return err
}
