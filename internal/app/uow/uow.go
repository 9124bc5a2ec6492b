package uow

import (
	"context"

	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpayment "rentdesk/internal/domain/payment"
	domainproperty "rentdesk/internal/domain/property"
)

// UnitOfWork gives a handler exclusive access to the four collections.
// Changes become visible to other units and reach persistent storage only
// on Commit; Rollback discards them.
type UnitOfWork interface {
	Properties() domainproperty.Repository
	Customers() domaincustomer.Repository
	Bookings() domainbooking.Repository
	Payments() domainpayment.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
