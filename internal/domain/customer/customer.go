package customer

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrCustomerNotFound = errors.New("customer: not found")
	ErrIDRequired       = errors.New("customer: id is required")
	ErrNameRequired     = errors.New("customer: name is required")
	ErrPhoneRequired    = errors.New("customer: phone is required")
)

type CustomerID string

// Customer holds identity fields only; booking counts and spend are
// derived on read from bookings and payments.
type Customer struct {
	ID        CustomerID
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id CustomerID) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]*Customer, error)
}

type CreateParams struct {
	ID    CustomerID
	Name  string
	Phone string
	Email string
	Now   time.Time
}

func NewCustomer(params CreateParams) (*Customer, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	phone := strings.TrimSpace(params.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	return &Customer{
		ID:        params.ID,
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(params.Email),
		CreatedAt: params.Now.UTC(),
	}, nil
}
