// internal/application/usecase/report_usecase.go
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

// ReportExporter renders a report into a downloadable document.
type ReportExporter interface {
	Render(w io.Writer, r reportdom.SalesReport) error
	ContentType() string
	Extension() string
}

// ExportResult is a rendered report. URL is set when the file was also archived.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	URL         string
}

// ReportUsecase builds and exports monthly sales reports.
type ReportUsecase struct {
	orders   orderdom.Repository
	reports  reportdom.Repository
	exporter ReportExporter
	archive  ObjectStore
	loc      *time.Location
	clock    Clock
}

func NewReportUsecase(orders orderdom.Repository, reports reportdom.Repository, exporter ReportExporter, loc *time.Location) *ReportUsecase {
	return &ReportUsecase{
		orders:   orders,
		reports:  reports,
		exporter: exporter,
		loc:      locOrUTC(loc),
		clock:    systemClock{},
	}
}

// WithArchive stores every export in the given object store (optional).
func (u *ReportUsecase) WithArchive(s ObjectStore) *ReportUsecase {
	u.archive = s
	return u
}

func (u *ReportUsecase) WithClock(c Clock) *ReportUsecase {
	if c != nil {
		u.clock = c
	}
	return u
}

// GenerateMonthly upserts the report of the current month in the shop timezone.
// Orders already in the stored report are kept as they are; new ones are appended.
func (u *ReportUsecase) GenerateMonthly(ctx context.Context) (reportdom.SalesReport, error) {
	ctx, span := tracer.Start(ctx, "ReportUsecase.GenerateMonthly")
	defer span.End()

	now := u.clock.Now()
	from, to := reportdom.MonthWindow(now, u.loc)
	year, month := from.Year(), from.Month()
	span.SetAttributes(attribute.String("report.period", reportdom.PeriodID(year, month)))

	existing, err := u.reports.Get(ctx, year, month)
	if err != nil {
		return reportdom.SalesReport{}, fmt.Errorf("report: load %s: %w", reportdom.PeriodID(year, month), err)
	}

	fromUTC, toUTC := from.UTC(), to.UTC()
	orders, err := u.orders.List(ctx, orderdom.Filter{CreatedFrom: &fromUTC, CreatedTo: &toUTC})
	if err != nil {
		return reportdom.SalesReport{}, fmt.Errorf("report: list orders: %w", err)
	}

	fresh := make([]reportdom.OrderSummary, 0, len(orders))
	for _, o := range orders {
		fresh = append(fresh, reportdom.SummaryOf(o))
	}

	r := reportdom.Merge(existing, year, month, fresh, now)
	if err := u.reports.Save(ctx, r); err != nil {
		return reportdom.SalesReport{}, fmt.Errorf("report: save %s: %w", r.ID(), err)
	}

	log.Printf("[report_uc] generated %s orders=%d total=%s", r.ID(), r.TotalOrders, r.TotalSales.StringFixed(2))
	return r, nil
}

// Get returns a stored report or reportdom.ErrNotFound.
func (u *ReportUsecase) Get(ctx context.Context, year int, month time.Month) (reportdom.SalesReport, error) {
	if err := reportdom.ValidatePeriod(year, month); err != nil {
		return reportdom.SalesReport{}, err
	}
	r, err := u.reports.Get(ctx, year, month)
	if err != nil {
		return reportdom.SalesReport{}, err
	}
	if r == nil {
		return reportdom.SalesReport{}, reportdom.ErrNotFound
	}
	return *r, nil
}

// Export renders a stored report. Archiving is best-effort.
func (u *ReportUsecase) Export(ctx context.Context, year int, month time.Month) (ExportResult, error) {
	r, err := u.Get(ctx, year, month)
	if err != nil {
		return ExportResult{}, err
	}

	var buf bytes.Buffer
	if err := u.exporter.Render(&buf, r); err != nil {
		return ExportResult{}, fmt.Errorf("report: render %s: %w", r.ID(), err)
	}

	out := ExportResult{
		Filename:    fmt.Sprintf("relatorio-vendas-%s%s", r.ID(), u.exporter.Extension()),
		ContentType: u.exporter.ContentType(),
		Data:        buf.Bytes(),
	}

	if u.archive != nil {
		url, err := u.archive.Put(ctx, "reports/"+out.Filename, out.ContentType, bytes.NewReader(out.Data))
		if err != nil {
			log.Printf("[report_uc] WARN: archive %s failed: %v", out.Filename, err)
		} else {
			out.URL = url
		}
	}
	return out, nil
}
