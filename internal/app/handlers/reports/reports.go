package reports

import (
	"context"
	"sort"
	"time"

	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/app/uow"
	domainbooking "rentdesk/internal/domain/booking"
	domainpayment "rentdesk/internal/domain/payment"
	domainproperty "rentdesk/internal/domain/property"
	"rentdesk/internal/domain/reporting"
)

const (
	summaryKey = "reports.summary"
	exportKey  = "reports.export"
)

// SummaryQuery aggregates the inclusive period [From, To].
type SummaryQuery struct {
	From time.Time
	To   time.Time
}

func (q SummaryQuery) Key() string { return summaryKey }

type ExportQuery struct {
	From time.Time
	To   time.Time
}

func (q ExportQuery) Key() string { return exportKey }

type Handlers struct {
	UoWFactory uow.UoWFactory
}

type snapshot struct {
	names    map[domainproperty.PropertyID]string
	bookings []*domainbooking.Booking
	payments []*domainpayment.Payment
}

func (h *Handlers) load(ctx context.Context) (snapshot, error) {
	unit, execCtx, release, err := uow.BeginReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return snapshot{}, err
	}
	defer release()

	props, err := unit.Properties().List(execCtx)
	if err != nil {
		return snapshot{}, err
	}
	s := snapshot{names: make(map[domainproperty.PropertyID]string, len(props))}
	for _, p := range props {
		s.names[p.ID] = p.Name
	}
	if s.bookings, err = unit.Bookings().List(execCtx); err != nil {
		return snapshot{}, err
	}
	if s.payments, err = unit.Payments().List(execCtx); err != nil {
		return snapshot{}, err
	}
	return s, nil
}

func (h *Handlers) Summary(ctx context.Context, q SummaryQuery) (dto.Report, error) {
	period, err := reporting.NewPeriod(q.From, q.To)
	if err != nil {
		return dto.Report{}, err
	}
	s, err := h.load(ctx)
	if err != nil {
		return dto.Report{}, err
	}
	return dto.MapReport(reporting.Aggregate(s.bookings, s.payments, period), s.names), nil
}

// Export returns the summary plus the bookings it counted, ordered by
// check-in.
func (h *Handlers) Export(ctx context.Context, q ExportQuery) (dto.ReportExport, error) {
	period, err := reporting.NewPeriod(q.From, q.To)
	if err != nil {
		return dto.ReportExport{}, err
	}
	s, err := h.load(ctx)
	if err != nil {
		return dto.ReportExport{}, err
	}
	counted := make([]*domainbooking.Booking, 0)
	for _, b := range s.bookings {
		if b.Active() && period.Contains(b.Range.CheckIn) {
			counted = append(counted, b)
		}
	}
	sort.SliceStable(counted, func(i, j int) bool {
		return counted[i].Range.CheckIn.Before(counted[j].Range.CheckIn)
	})
	return dto.ReportExport{
		Report:   dto.MapReport(reporting.Aggregate(s.bookings, s.payments, period), s.names),
		Bookings: dto.MapBookings(counted).Items,
	}, nil
}

func (h *Handlers) Register(r *queries.Registry) {
	queries.Register(r, queries.HandlerFunc[SummaryQuery, dto.Report](h.Summary))
	queries.Register(r, queries.HandlerFunc[ExportQuery, dto.ReportExport](h.Export))
}
