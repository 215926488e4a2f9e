// internal/adapters/in/http/admin/handler/helper_handler.go
package adminHandler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
)

type stockRequest struct {
	InStock *bool `json:"inStock"`
}

func (s stockRequest) value() (bool, error) {
	if s.InStock == nil {
		return false, fmt.Errorf("%w: inStock is required", common.ErrBadRequest)
	}
	return *s.InStock, nil
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parsePeriod(year, month string) (int, time.Month, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q", common.ErrBadRequest, year)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", common.ErrBadRequest, month)
	}
	return y, time.Month(m), nil
}
