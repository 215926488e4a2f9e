// internal/platform/di/shared/runtime_settings_validate.go
package shared

import (
	"fmt"
	"strings"
)

// Validate fails fast on adapter choices that cannot be wired.
// Optional features (mail, buckets) stay disabled when their settings are empty.
func (s RuntimeSettings) Validate() error {
	if s.Location == nil {
		return fmt.Errorf("shared.runtime_settings: Location is nil")
	}
	if s.Params.MinLeadDays < 0 {
		return fmt.Errorf("shared.runtime_settings: MinLeadDays must be >= 0 (got %d)", s.Params.MinLeadDays)
	}

	for _, c := range []struct {
		name    string
		value   string
		allowed []string
	}{
		{"CATALOG_STORE", s.CatalogStore, []string{StoreFirestore, StoreMemory}},
		{"CART_STORE", s.CartStore, []string{StoreFirestore, StoreRedis, StoreMemory}},
		{"ORDER_STORE", s.OrderStore, []string{StoreFirestore, StorePostgres, StoreMemory}},
		{"FEED_PROVIDER", s.FeedProvider, []string{StoreFirestore, StoreRedis, StoreMemory}},
	} {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("shared.runtime_settings: %s must be one of %s (got %q)",
				c.name, strings.Join(c.allowed, "|"), c.value)
		}
	}

	if s.NeedsRedis() && s.RedisURL == "" {
		return fmt.Errorf("shared.runtime_settings: REDIS_URL is required when carts or feed use redis")
	}
	if s.NeedsPostgres() && s.DatabaseURL == "" {
		return fmt.Errorf("shared.runtime_settings: DATABASE_URL (or DATABASE_URL_SECRET) is required when ORDER_STORE=postgres")
	}

	// GCS bucket names cannot contain spaces.
	for name, v := range map[string]string{
		"PRODUCT_IMAGE_BUCKET": s.ProductImageBucket,
		"REPORT_BUCKET":        s.ReportBucket,
	} {
		if strings.ContainsAny(v, " \t\r\n") {
			return fmt.Errorf("shared.runtime_settings: %s contains whitespace (got %q)", name, v)
		}
	}

	for _, o := range s.AllowedOrigins {
		if !(strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://")) {
			return fmt.Errorf("shared.runtime_settings: ALLOWED_ORIGINS entry must start with http:// or https:// (got %q)", o)
		}
	}
	return nil
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
