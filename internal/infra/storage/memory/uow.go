package memory

import (
	"context"
	"errors"
	"sort"

	"rentdesk/internal/app/uow"
	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpayment "rentdesk/internal/domain/payment"
	domainproperty "rentdesk/internal/domain/property"
)

var (
	// ErrReadOnlyUnit is returned by writes issued inside a read-only unit.
	ErrReadOnlyUnit = errors.New("memory: unit of work is read-only")
	// ErrUnitClosed is returned when a unit is used after Commit or Rollback.
	ErrUnitClosed = errors.New("memory: unit of work already finished")
)

// Begin starts a unit of work. Write units hold the store lock exclusively
// until they finish; read-only units share it.
func (s *Store) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := &Unit{store: s, readOnly: opts.ReadOnly}
	if opts.ReadOnly {
		s.mu.RLock()
		return u, nil
	}
	s.mu.Lock()
	u.snapshot = s.data.clone()
	u.dirty = make(map[string]struct{}, len(allKeys))
	return u, nil
}

// Unit is a uow.UnitOfWork over the shared Store.
type Unit struct {
	store    *Store
	readOnly bool
	snapshot state
	dirty    map[string]struct{}
	done     bool
}

func (u *Unit) Properties() domainproperty.Repository { return &propertyRepo{u: u} }
func (u *Unit) Customers() domaincustomer.Repository  { return &customerRepo{u: u} }
func (u *Unit) Bookings() domainbooking.Repository    { return &bookingRepo{u: u} }
func (u *Unit) Payments() domainpayment.Repository    { return &paymentRepo{u: u} }

// Commit writes the collections touched by this unit. When the backend
// fails, memory goes back to the snapshot taken at Begin and the keys that
// were already written are rewritten from it.
func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitClosed
	}
	u.done = true
	s := u.store
	if u.readOnly {
		s.mu.RUnlock()
		return nil
	}
	defer s.mu.Unlock()
	if len(u.dirty) == 0 {
		return nil
	}
	keys := make([]string, 0, len(u.dirty))
	for key := range u.dirty {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	written, err := s.flush(ctx, s.data, keys)
	if err == nil {
		return nil
	}
	s.data = u.snapshot
	if len(written) > 0 {
		if _, restoreErr := s.flush(context.WithoutCancel(ctx), s.data, written); restoreErr != nil && s.logger != nil {
			s.logger.Error("store restore after failed commit", "keys", written, "error", restoreErr)
		}
	}
	return err
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	s := u.store
	if u.readOnly {
		s.mu.RUnlock()
		return nil
	}
	s.data = u.snapshot
	s.mu.Unlock()
	return nil
}

func (u *Unit) read() error {
	if u.done {
		return ErrUnitClosed
	}
	return nil
}

func (u *Unit) write(key string) error {
	if u.done {
		return ErrUnitClosed
	}
	if u.readOnly {
		return ErrReadOnlyUnit
	}
	u.dirty[key] = struct{}{}
	return nil
}

var (
	_ uow.UoWFactory = (*Store)(nil)
	_ uow.UnitOfWork = (*Unit)(nil)
)
