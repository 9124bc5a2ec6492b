package memory

import (
	"time"

	"github.com/shopspring/decimal"

	domainbooking "rentdesk/internal/domain/booking"
	domaincustomer "rentdesk/internal/domain/customer"
	domainpayment "rentdesk/internal/domain/payment"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/shared/daterange"
)

// Persisted records. Field names follow the collection layout shared with
// earlier exports: camelCase, dates as YYYY-MM-DD.

type propertyRecord struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Location     string              `json:"location,omitempty"`
	Category     string              `json:"category"`
	PricingMode  string              `json:"pricingMode"`
	UniformPrice decimal.NullDecimal `json:"uniformPrice"`
	WeekdayPrice decimal.NullDecimal `json:"weekdayPrice"`
	WeekendPrice decimal.NullDecimal `json:"weekendPrice"`
	MaxGuests    int                 `json:"maxGuests"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type customerRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type bookingRecord struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"propertyId"`
	CustomerID     string          `json:"customerId"`
	GuestName      string          `json:"guestName"`
	GuestPhone     string          `json:"guestPhone"`
	CheckIn        string          `json:"checkIn"`
	CheckOut       string          `json:"checkOut"`
	Days           int             `json:"days"`
	Nights         int             `json:"nights"`
	Guests         int             `json:"guests"`
	NegotiatedRate decimal.Decimal `json:"negotiatedRate"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         string          `json:"status"`
	IsNewCustomer  bool            `json:"isNewCustomer"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Version        int64           `json:"version"`
}

type paymentRecord struct {
	ID        string          `json:"id"`
	BookingID string          `json:"bookingId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func nullDecimal(d decimal.Decimal, present bool) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: present}
}

func newPropertyRecord(p *domainproperty.Property) propertyRecord {
	uniform := p.Pricing.Mode == domainproperty.PricingUniform
	return propertyRecord{
		ID:           string(p.ID),
		Name:         p.Name,
		Location:     p.Location,
		Category:     string(p.Category),
		PricingMode:  string(p.Pricing.Mode),
		UniformPrice: nullDecimal(p.Pricing.UniformPrice, uniform),
		WeekdayPrice: nullDecimal(p.Pricing.WeekdayPrice, !uniform),
		WeekendPrice: nullDecimal(p.Pricing.WeekendPrice, !uniform),
		MaxGuests:    p.MaxGuests,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r propertyRecord) toDomain() *domainproperty.Property {
	return &domainproperty.Property{
		ID:       domainproperty.PropertyID(r.ID),
		Name:     r.Name,
		Location: r.Location,
		Category: domainproperty.Category(r.Category),
		Pricing: domainproperty.Pricing{
			Mode:         domainproperty.PricingMode(r.PricingMode),
			UniformPrice: r.UniformPrice.Decimal,
			WeekdayPrice: r.WeekdayPrice.Decimal,
			WeekendPrice: r.WeekendPrice.Decimal,
		},
		MaxGuests: r.MaxGuests,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newCustomerRecord(c *domaincustomer.Customer) customerRecord {
	return customerRecord{ID: string(c.ID), Name: c.Name, Phone: c.Phone, Email: c.Email, CreatedAt: c.CreatedAt}
}

func (r customerRecord) toDomain() *domaincustomer.Customer {
	return &domaincustomer.Customer{
		ID:        domaincustomer.CustomerID(r.ID),
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

func newBookingRecord(b *domainbooking.Booking) bookingRecord {
	return bookingRecord{
		ID:             string(b.ID),
		PropertyID:     string(b.PropertyID),
		CustomerID:     string(b.CustomerID),
		GuestName:      b.GuestName,
		GuestPhone:     b.GuestPhone,
		CheckIn:        daterange.Format(b.Range.CheckIn),
		CheckOut:       daterange.Format(b.Range.CheckOut),
		Days:           b.Days,
		Nights:         b.Nights,
		Guests:         b.Guests,
		NegotiatedRate: b.NegotiatedRate,
		TotalAmount:    b.TotalAmount,
		PaidAmount:     b.PaidAmount,
		Status:         string(b.Status),
		IsNewCustomer:  b.IsNewCustomer,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
	}
}

func (r bookingRecord) toDomain() (*domainbooking.Booking, error) {
	checkIn, err := daterange.ParseDate(r.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := daterange.ParseDate(r.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:             domainbooking.BookingID(r.ID),
		PropertyID:     domainproperty.PropertyID(r.PropertyID),
		CustomerID:     domaincustomer.CustomerID(r.CustomerID),
		GuestName:      r.GuestName,
		GuestPhone:     r.GuestPhone,
		Range:          daterange.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Days:           r.Days,
		Nights:         r.Nights,
		Guests:         r.Guests,
		NegotiatedRate: r.NegotiatedRate,
		TotalAmount:    r.TotalAmount,
		PaidAmount:     r.PaidAmount,
		Status:         domainbooking.Status(r.Status),
		IsNewCustomer:  r.IsNewCustomer,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}, nil
}

func newPaymentRecord(p *domainpayment.Payment) paymentRecord {
	return paymentRecord{
		ID:        string(p.ID),
		BookingID: string(p.BookingID),
		Amount:    p.Amount,
		Method:    string(p.Method),
		Date:      daterange.Format(p.Date),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func (r paymentRecord) toDomain() (*domainpayment.Payment, error) {
	date, err := daterange.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &domainpayment.Payment{
		ID:        domainpayment.PaymentID(r.ID),
		BookingID: domainbooking.BookingID(r.BookingID),
		Amount:    r.Amount,
		Method:    domainpayment.Method(r.Method),
		Date:      date,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
	}, nil
}
