package memory

import (
	"context"
	"errors"
	"fmt"

	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpayment "rentdesk/internal/domain/payment"
	domainproperty "rentdesk/internal/domain/property"
)

var (
	ErrDuplicatePayment = errors.New("memory: payment already recorded")
	ErrStaleBooking     = errors.New("memory: booking was modified concurrently")
)

type propertyRepo struct{ u *Unit }

func (r *propertyRepo) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	rec, ok := r.u.store.data.properties.get(string(id))
	if !ok {
		return nil, domainproperty.ErrPropertyNotFound
	}
	return rec.toDomain(), nil
}

func (r *propertyRepo) Save(ctx context.Context, p *domainproperty.Property) error {
	if p == nil {
		return errors.New("memory: nil property")
	}
	if err := r.u.write(KeyProperties); err != nil {
		return err
	}
	r.u.store.data.properties.put(string(p.ID), newPropertyRecord(p))
	return nil
}

func (r *propertyRepo) List(ctx context.Context) ([]*domainproperty.Property, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	rows := r.u.store.data.properties.values()
	out := make([]*domainproperty.Property, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

type customerRepo struct{ u *Unit }

func (r *customerRepo) ByID(ctx context.Context, id domaincustomer.CustomerID) (*domaincustomer.Customer, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	rec, ok := r.u.store.data.customers.get(string(id))
	if !ok {
		return nil, domaincustomer.ErrCustomerNotFound
	}
	return rec.toDomain(), nil
}

func (r *customerRepo) Save(ctx context.Context, c *domaincustomer.Customer) error {
	if c == nil {
		return errors.New("memory: nil customer")
	}
	if err := r.u.write(KeyCustomers); err != nil {
		return err
	}
	r.u.store.data.customers.put(string(c.ID), newCustomerRecord(c))
	return nil
}

func (r *customerRepo) List(ctx context.Context) ([]*domaincustomer.Customer, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	rows := r.u.store.data.customers.values()
	out := make([]*domaincustomer.Customer, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

type bookingRepo struct{ u *Unit }

func (r *bookingRepo) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	rec, ok := r.u.store.data.bookings.get(string(id))
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return rec.toDomain()
}

// Save stores b and bumps its version. A booking loaded before another
// unit saved it is rejected.
func (r *bookingRepo) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b == nil {
		return errors.New("memory: nil booking")
	}
	if err := r.u.write(KeyBookings); err != nil {
		return err
	}
	if existing, ok := r.u.store.data.bookings.get(string(b.ID)); ok && existing.Version != b.Version {
		return fmt.Errorf("%w: %s", ErrStaleBooking, b.ID)
	}
	rec := newBookingRecord(b)
	rec.Version = b.Version + 1
	r.u.store.data.bookings.put(rec.ID, rec)
	b.Version = rec.Version
	return nil
}

func (r *bookingRepo) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.filter(func(bookingRecord) bool { return true })
}

func (r *bookingRepo) ListByProperty(ctx context.Context, id domainproperty.PropertyID) ([]*domainbooking.Booking, error) {
	return r.filter(func(rec bookingRecord) bool { return rec.PropertyID == string(id) })
}

func (r *bookingRepo) ListByCustomer(ctx context.Context, id domaincustomer.CustomerID) ([]*domainbooking.Booking, error) {
	return r.filter(func(rec bookingRecord) bool { return rec.CustomerID == string(id) })
}

func (r *bookingRepo) filter(keep func(bookingRecord) bool) ([]*domainbooking.Booking, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	var out []*domainbooking.Booking
	for _, rec := range r.u.store.data.bookings.values() {
		if !keep(rec) {
			continue
		}
		b, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

type paymentRepo struct{ u *Unit }

func (r *paymentRepo) Append(ctx context.Context, p *domainpayment.Payment) error {
	if p == nil {
		return errors.New("memory: nil payment")
	}
	if err := r.u.write(KeyPayments); err != nil {
		return err
	}
	if _, exists := r.u.store.data.payments.get(string(p.ID)); exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePayment, p.ID)
	}
	r.u.store.data.payments.put(string(p.ID), newPaymentRecord(p))
	return nil
}

func (r *paymentRepo) List(ctx context.Context) ([]*domainpayment.Payment, error) {
	return r.filter(func(paymentRecord) bool { return true })
}

func (r *paymentRepo) ListByBooking(ctx context.Context, id domainbooking.BookingID) ([]*domainpayment.Payment, error) {
	return r.filter(func(rec paymentRecord) bool { return rec.BookingID == string(id) })
}

func (r *paymentRepo) filter(keep func(paymentRecord) bool) ([]*domainpayment.Payment, error) {
	if err := r.u.read(); err != nil {
		return nil, err
	}
	var out []*domainpayment.Payment
	for _, rec := range r.u.store.data.payments.values() {
		if !keep(rec) {
			continue
		}
		p, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

var (
	_ domainproperty.Repository = (*propertyRepo)(nil)
	_ domaincustomer.Repository = (*customerRepo)(nil)
	_ domainbooking.Repository  = (*bookingRepo)(nil)
	_ domainpayment.Repository  = (*paymentRepo)(nil)
)
