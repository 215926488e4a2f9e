// internal/adapters/out/memory/report_repository_mem.go
package memory

import (
	"context"
	"sync"
	"time"

	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

// ReportRepositoryMem implements report.Repository in process memory (dev / tests).
type ReportRepositoryMem struct {
	mu      sync.RWMutex
	reports map[string]reportdom.SalesReport
}

func NewReportRepositoryMem() *ReportRepositoryMem {
	return &ReportRepositoryMem{reports: map[string]reportdom.SalesReport{}}
}

func (r *ReportRepositoryMem) Get(_ context.Context, year int, month time.Month) (*reportdom.SalesReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[reportdom.PeriodID(year, month)]
	if !ok {
		return nil, nil
	}
	rep.Orders = append([]reportdom.OrderSummary(nil), rep.Orders...)
	return &rep, nil
}

func (r *ReportRepositoryMem) Save(_ context.Context, rep reportdom.SalesReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep.Orders = append([]reportdom.OrderSummary(nil), rep.Orders...)
	r.reports[rep.ID()] = rep
	return nil
}
