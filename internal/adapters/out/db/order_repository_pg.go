// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	dbcommon "github.com/tisoftshake/softshake/internal/adapters/out/db/common"
	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// PostgreSQL implementation of order.Repository
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

const orderColumns = `
  id, customer_name, customer_phone, delivery_type, delivery_address,
  items, subtotal, delivery_fee, total_amount, status, delivery_date,
  created_at, updated_at`

// ========================
// RepositoryPort impl
// ========================

func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	id := strings.TrimSpace(o.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	itemsJSON, err := json.Marshal(nonNilItems(o.Items))
	if err != nil {
		return orderdom.Order{}, err
	}

	q := `
INSERT INTO orders (` + orderColumns + `
) VALUES (
  $1, $2, $3, $4, $5,
  $6::jsonb, $7, $8, $9, $10, $11,
  $12, $12
)
RETURNING` + orderColumns

	row := r.DB.QueryRowContext(ctx, q,
		id,
		strings.TrimSpace(o.CustomerName),
		strings.TrimSpace(o.CustomerPhone),
		string(o.DeliveryType),
		strings.TrimSpace(o.DeliveryAddress),
		string(itemsJSON),
		o.Subtotal,
		o.DeliveryFee,
		o.TotalAmount,
		string(orderdom.StatusPending),
		dbcommon.ToDBTime(o.DeliveryDate),
		o.CreatedAt.UTC(),
	)
	out, err := scanOrder(row)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return orderdom.Order{}, orderdom.ErrConflict
		}
		return orderdom.Order{}, err
	}
	return out, nil
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		// not a key this table can hold
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	row := r.DB.QueryRowContext(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id string, s orderdom.Status, at time.Time) error {
	if !s.IsValid() {
		return orderdom.ErrInvalidStatus
	}
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return orderdom.ErrNotFound
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(s), at.UTC(),
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return orderdom.ErrNotFound
	}
	return nil
}

func (r *OrderRepositoryPG) List(ctx context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	w := buildOrderWhere(f)
	q := fmt.Sprintf(`SELECT%s FROM orders %s ORDER BY created_at DESC, id ASC`, orderColumns, w.SQL())
	if f.Limit > 0 {
		q += " LIMIT " + w.Next(f.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, q, w.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========================
// Helpers
// ========================

func scanOrder(s dbcommon.RowScanner) (orderdom.Order, error) {
	var (
		id, name, phone, deliveryType, address, status string
		itemsRaw                                       []byte
		subtotal, fee, total                           decimal.Decimal
		deliveryDate                                   sql.NullTime
		createdAt, updatedAt                           time.Time
	)
	if err := s.Scan(
		&id, &name, &phone, &deliveryType, &address,
		&itemsRaw, &subtotal, &fee, &total, &status, &deliveryDate,
		&createdAt, &updatedAt,
	); err != nil {
		return orderdom.Order{}, err
	}

	items := []cartdom.LineItem{}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return orderdom.Order{}, fmt.Errorf("order_repository_pg: decode items of %s: %w", id, err)
		}
	}

	return orderdom.Order{
		ID:              strings.TrimSpace(id),
		CustomerName:    name,
		CustomerPhone:   phone,
		DeliveryType:    pricing.DeliveryType(deliveryType),
		DeliveryAddress: address,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		TotalAmount:     total,
		Status:          orderdom.Status(status),
		DeliveryDate:    dbcommon.FromNullTime(deliveryDate),
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       updatedAt.UTC(),
	}, nil
}

func buildOrderWhere(f orderdom.Filter) *dbcommon.Where {
	w := &dbcommon.Where{}

	if len(f.Statuses) > 0 {
		ss := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			ss = append(ss, string(s))
		}
		w.Add("status = ANY($%[1]d)", pq.Array(ss))
	}
	if f.CreatedFrom != nil {
		w.Add("created_at >= $%[1]d", f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		w.Add("created_at < $%[1]d", f.CreatedTo.UTC())
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		w.Add(
			"(customer_name ILIKE $%[1]d OR customer_phone LIKE $%[1]d OR id::text ILIKE $%[1]d)",
			dbcommon.ContainsPattern(q),
		)
	}
	return w
}

func nonNilItems(items []cartdom.LineItem) []cartdom.LineItem {
	if items == nil {
		return []cartdom.LineItem{}
	}
	return items
}
