// internal/domain/report/repository_port.go
package report

import (
	"context"
	"time"
)

// Repository persists monthly reports (docId = "YYYY-MM").
type Repository interface {
	// Get returns (nil, nil) when no report exists for the period.
	Get(ctx context.Context, year int, month time.Month) (*SalesReport, error)

	// Save creates or replaces the report for its period.
	Save(ctx context.Context, r SalesReport) error
}
