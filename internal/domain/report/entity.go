// internal/domain/report/entity.go
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var (
	ErrInvalidPeriod = errors.New("report: invalid period")
	ErrNotFound      = errors.New("report: not found")
)

// OrderSummary is the slice of an order kept inside a report.
type OrderSummary struct {
	ID           string               `json:"id"`
	CustomerName string               `json:"customerName"`
	DeliveryType pricing.DeliveryType `json:"deliveryType"`
	Status       orderdom.Status      `json:"status"`
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	ItemCount    int                  `json:"itemCount"`
	CreatedAt    time.Time            `json:"createdAt"`
}

func SummaryOf(o orderdom.Order) OrderSummary {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return OrderSummary{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		DeliveryType: o.DeliveryType,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		ItemCount:    n,
		CreatedAt:    o.CreatedAt,
	}
}

// SalesReport is the monthly sales roll-up.
type SalesReport struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`

	Orders []OrderSummary `json:"orders"`

	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ID is the period key, e.g. "2026-03".
func (r SalesReport) ID() string { return PeriodID(r.Year, r.Month) }

// MonthName is the pt-BR month name used in exports.
func (r SalesReport) MonthName() string { return MonthName(r.Month) }

func PeriodID(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func ValidatePeriod(year int, month time.Month) error {
	if year < 2000 || year > 9999 || month < time.January || month > time.December {
		return ErrInvalidPeriod
	}
	return nil
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthWindow returns [first day 00:00, first day of next month) in loc.
func MonthWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// Merge keeps every order already in existing and appends fresh orders whose id
// is not yet included, then recomputes the totals.
func Merge(existing *SalesReport, year int, month time.Month, fresh []OrderSummary, now time.Time) SalesReport {
	out := SalesReport{
		Year:        year,
		Month:       month,
		CreatedAt:   now.UTC(),
		LastUpdated: now.UTC(),
	}

	seen := map[string]struct{}{}
	if existing != nil {
		if !existing.CreatedAt.IsZero() {
			out.CreatedAt = existing.CreatedAt
		}
		for _, o := range existing.Orders {
			if _, dup := seen[o.ID]; dup {
				continue
			}
			seen[o.ID] = struct{}{}
			out.Orders = append(out.Orders, o)
		}
	}
	for _, o := range fresh {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		out.Orders = append(out.Orders, o)
	}

	out.Recompute()
	return out
}

// Recompute derives the totals from Orders.
func (r *SalesReport) Recompute() {
	total := decimal.Zero
	for _, o := range r.Orders {
		total = total.Add(o.TotalAmount)
	}
	r.TotalSales = total
	r.TotalOrders = len(r.Orders)
	r.AverageOrderValue = decimal.Zero
	if r.TotalOrders > 0 {
		r.AverageOrderValue = total.DivRound(decimal.NewFromInt(int64(r.TotalOrders)), 2)
	}
	if r.Orders == nil {
		r.Orders = []OrderSummary{}
	}
}
