// internal/application/usecase/common_usecase.go
package usecase

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
)

var tracer = otel.Tracer("softshake/usecase")

// ============================================================
// Clock
// ============================================================

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ============================================================
// Outbound ports shared by several usecases
// ============================================================

// OrderNotifier tells the shop about order events. Failures never fail the caller.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, o orderdom.Order) error
	OrderCompleted(ctx context.Context, o orderdom.Order) error
}

// ObjectStore stores a blob and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ============================================================
// Helpers
// ============================================================

// publish emits a change signal best-effort.
func publish(ctx context.Context, p notifdom.Publisher, kind notifdom.Kind, now time.Time, tag string) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, notifdom.Event{Kind: kind, At: now.UTC()}); err != nil {
		log.Printf("[%s] WARN: publish %s failed: %v", tag, kind, err)
	}
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// mask hides all but the last 4 characters of a value for logs.
func mask(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
