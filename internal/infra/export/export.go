package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"rentdesk/internal/app/dto"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("export: unknown format (use csv or xlsx)")

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename is report_<from>_<to>.<ext>.
func (f Format) Filename(r dto.Report) string {
	return fmt.Sprintf("report_%s_%s.%s", r.From, r.To, f)
}

func Render(f Format, data dto.ReportExport) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return XLSX(data)
	case FormatCSV:
		return CSV(data)
	}
	return nil, ErrUnknownFormat
}

var bookingHeader = []string{"ID", "Property", "Customer", "Guest", "Phone", "Check-in", "Check-out", "Days", "Guests", "Rate", "Total", "Paid", "Balance", "Status"}

func bookingRow(b dto.Booking) []string {
	return []string{
		b.ID,
		b.PropertyID,
		b.CustomerID,
		b.GuestName,
		b.GuestPhone,
		b.CheckIn,
		b.CheckOut,
		strconv.Itoa(b.Days),
		strconv.Itoa(b.Guests),
		b.NegotiatedRate.StringFixed(2),
		b.TotalAmount.StringFixed(2),
		b.PaidAmount.StringFixed(2),
		b.Balance.StringFixed(2),
		b.Status,
	}
}

// CSV writes one row per counted booking.
func CSV(data dto.ReportExport) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(bookingHeader)
	for _, b := range data.Bookings {
		_ = w.Write(bookingRow(b))
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// XLSX writes a Summary sheet with the totals and per-property rows and a
// Bookings sheet with the counted bookings.
func XLSX(data dto.ReportExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary, bookings = "Summary", "Bookings"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(bookings); err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(summary); err == nil {
		f.SetActiveSheet(index)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	r := data.Report
	rows := [][]any{
		{"Period", r.From + " - " + r.To},
		{"Total revenue", r.TotalRevenue.InexactFloat64()},
		{"Bookings", r.BookingCount},
		{"Days", r.TotalDays},
		{"Average daily rate", r.AvgDailyRate.InexactFloat64()},
		{},
		{"Property", "Name", "Bookings", "Days", "Revenue"},
	}
	for _, p := range r.PerProperty {
		rows = append(rows, []any{p.PropertyID, p.Name, p.BookingCount, p.Days, p.Revenue.InexactFloat64()})
	}
	if err := writeRows(f, summary, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(summary, "A7", "E7", header)
	_ = f.SetColWidth(summary, "A", "A", 22)
	_ = f.SetColWidth(summary, "B", "B", 28)
	_ = f.SetColWidth(summary, "C", "E", 14)

	rows = [][]any{toAny(bookingHeader)}
	for _, b := range data.Bookings {
		rows = append(rows, []any{
			b.ID, b.PropertyID, b.CustomerID, b.GuestName, b.GuestPhone, b.CheckIn, b.CheckOut,
			b.Days, b.Guests,
			b.NegotiatedRate.InexactFloat64(), b.TotalAmount.InexactFloat64(),
			b.PaidAmount.InexactFloat64(), b.Balance.InexactFloat64(),
			b.Status,
		})
	}
	if err := writeRows(f, bookings, rows); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeader), 1)
	_ = f.SetCellStyle(bookings, "A1", last, header)
	_ = f.SetColWidth(bookings, "A", "C", 38)
	_ = f.SetColWidth(bookings, "D", "D", 24)
	_ = f.SetColWidth(bookings, "E", "N", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
