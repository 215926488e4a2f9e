// internal/adapters/out/firestore/report_repository_fs.go
package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

// ReportRepositoryFS stores monthly reports in "sales_reports" (docId = "YYYY-MM").
type ReportRepositoryFS struct {
	Client *firestore.Client
}

func NewReportRepositoryFS(client *firestore.Client) *ReportRepositoryFS {
	return &ReportRepositoryFS{Client: client}
}

func (r *ReportRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("sales_reports")
}

// Get returns (nil, nil) when no report exists for the period.
func (r *ReportRepositoryFS) Get(ctx context.Context, year int, month time.Month) (*reportdom.SalesReport, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	if err := reportdom.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	snap, err := r.col().Doc(reportdom.PeriodID(year, month)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	m := snap.Data()
	rep := reportdom.SalesReport{Year: year, Month: month}
	for _, row := range asMaps(m["orders"]) {
		s := reportdom.OrderSummary{
			ID:           asString(row["id"]),
			CustomerName: asString(row["customerName"]),
			DeliveryType: pricing.DeliveryType(asString(row["deliveryType"])),
			Status:       orderdom.Status(asString(row["status"])),
			TotalAmount:  asDecimal(row["totalAmount"]),
			ItemCount:    asInt(row["itemCount"]),
		}
		if t, ok := asTime(row["createdAt"]); ok {
			s.CreatedAt = t
		}
		if s.ID == "" {
			continue
		}
		rep.Orders = append(rep.Orders, s)
	}
	if t, ok := asTime(m["createdAt"]); ok {
		rep.CreatedAt = t
	}
	if t, ok := asTime(m["lastUpdated"]); ok {
		rep.LastUpdated = t
	}
	rep.Recompute()
	return &rep, nil
}

// Save replaces the report document of its period.
func (r *ReportRepositoryFS) Save(ctx context.Context, rep reportdom.SalesReport) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	if err := reportdom.ValidatePeriod(rep.Year, rep.Month); err != nil {
		return err
	}

	orders := make([]map[string]any, 0, len(rep.Orders))
	for _, o := range rep.Orders {
		orders = append(orders, map[string]any{
			"id":           o.ID,
			"customerName": o.CustomerName,
			"deliveryType": string(o.DeliveryType),
			"status":       string(o.Status),
			"totalAmount":  money(o.TotalAmount),
			"itemCount":    o.ItemCount,
			"createdAt":    o.CreatedAt.UTC(),
		})
	}

	_, err := r.col().Doc(rep.ID()).Set(ctx, map[string]any{
		"year":              rep.Year,
		"month":             int(rep.Month),
		"monthName":         rep.MonthName(),
		"totalSales":        money(rep.TotalSales),
		"totalOrders":       rep.TotalOrders,
		"averageOrderValue": money(rep.AverageOrderValue),
		"orders":            orders,
		"createdAt":         rep.CreatedAt.UTC(),
		"lastUpdated":       rep.LastUpdated.UTC(),
	})
	return err
}
