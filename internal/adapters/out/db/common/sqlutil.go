// internal/adapters/out/db/common/sqlutil.go
package common

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// RowScanner is the Scan() shared by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// IsUniqueViolation reports a PostgreSQL duplicate key error (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Where accumulates AND-joined conditions with positional arguments.
type Where struct {
	conds []string
	args  []any
}

// Add appends one condition. expr uses %[1]d for the placeholder index,
// so the same argument can be referenced more than once.
func (w *Where) Add(expr string, val any) {
	w.args = append(w.args, val)
	w.conds = append(w.conds, fmt.Sprintf(expr, len(w.args)))
}

// Next returns the placeholder for an argument appended after the conditions.
func (w *Where) Next(val any) string {
	w.args = append(w.args, val)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *Where) Conds() []string { return w.conds }
func (w *Where) Args() []any     { return w.args }

// SQL joins conditions with AND ("" when there are none).
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// ContainsPattern builds an ILIKE/LIKE pattern matching s anywhere, with wildcards escaped.
func ContainsPattern(s string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s) + "%"
}

func FromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time.UTC()
	return &v
}

func ToDBTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
