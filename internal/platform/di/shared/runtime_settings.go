// internal/platform/di/shared/runtime_settings.go
package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tisoftshake/softshake/internal/adapters/in/http/middleware"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
	appcfg "github.com/tisoftshake/softshake/internal/infra/config"
)

const (
	StoreFirestore = "firestore"
	StoreRedis     = "redis"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// RuntimeSettings is the parsed form of Config.
// Every container reads shop policy and adapter choices from here.
type RuntimeSettings struct {
	Policy   pricing.Policy
	Location *time.Location
	Params   customization.Params

	CatalogStore string
	CartStore    string
	OrderStore   string
	FeedProvider string

	CatalogSeedFile string

	RedisURL    string
	DatabaseURL string

	ProductImageBucket string
	ReportBucket       string

	SendGridAPIKey string
	SendGridFrom   string
	ShopAdminEmail string

	AllowedOrigins []string
}

// ResolveRuntimeSettings parses cfg. Secrets are filled in later by NewInfra.
func ResolveRuntimeSettings(cfg *appcfg.Config) (RuntimeSettings, error) {
	if cfg == nil {
		return RuntimeSettings{}, fmt.Errorf("shared.runtime_settings: config is nil")
	}

	policy, err := pricing.NewPolicy(cfg.DeliveryFee, cfg.BucketPrice)
	if err != nil {
		return RuntimeSettings{}, fmt.Errorf("shared.runtime_settings: pricing policy: %w", err)
	}

	loc, err := time.LoadLocation(strings.TrimSpace(cfg.ShopTimezone))
	if err != nil {
		return RuntimeSettings{}, fmt.Errorf("shared.runtime_settings: SHOP_TIMEZONE %q: %w", cfg.ShopTimezone, err)
	}

	params := customization.DefaultParams()
	if s := strings.TrimSpace(cfg.MinLeadDays); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return RuntimeSettings{}, fmt.Errorf("shared.runtime_settings: MIN_LEAD_DAYS %q: %w", s, err)
		}
		params.MinLeadDays = n
	}

	s := RuntimeSettings{
		Policy:   policy,
		Location: loc,
		Params:   params,

		CatalogStore: normalizeStore(cfg.CatalogStore, StoreFirestore),
		CartStore:    normalizeStore(cfg.CartStore, StoreFirestore),
		OrderStore:   normalizeStore(cfg.OrderStore, StoreFirestore),
		FeedProvider: normalizeStore(cfg.FeedProvider, StoreFirestore),

		CatalogSeedFile: strings.TrimSpace(cfg.CatalogSeedFile),

		RedisURL:    strings.TrimSpace(cfg.RedisURL),
		DatabaseURL: strings.TrimSpace(cfg.DatabaseURL),

		ProductImageBucket: strings.TrimSpace(cfg.ProductImageBucket),
		ReportBucket:       strings.TrimSpace(cfg.ReportBucket),

		SendGridAPIKey: strings.TrimSpace(cfg.SendGridAPIKey),
		SendGridFrom:   strings.TrimSpace(cfg.SendGridFrom),
		ShopAdminEmail: strings.TrimSpace(cfg.ShopAdminEmail),

		AllowedOrigins: middleware.ParseOrigins(cfg.AllowedOrigins),
	}
	return s, nil
}

// NeedsFirestore reports whether any adapter choice is backed by Firestore.
func (s RuntimeSettings) NeedsFirestore() bool {
	return s.CatalogStore == StoreFirestore ||
		s.CartStore == StoreFirestore ||
		s.OrderStore == StoreFirestore ||
		s.FeedProvider == StoreFirestore
}

// NeedsRedis reports whether carts or the change feed run on Redis.
func (s RuntimeSettings) NeedsRedis() bool {
	return s.CartStore == StoreRedis || s.FeedProvider == StoreRedis
}

func (s RuntimeSettings) NeedsPostgres() bool {
	return s.OrderStore == StorePostgres
}

// NeedsGCS reports whether any bucket is configured.
func (s RuntimeSettings) NeedsGCS() bool {
	return s.ProductImageBucket != "" || s.ReportBucket != ""
}

// MailEnabled reports whether order mails can be sent.
func (s RuntimeSettings) MailEnabled() bool {
	return s.SendGridAPIKey != "" && s.SendGridFrom != "" && s.ShopAdminEmail != ""
}

func normalizeStore(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}
