// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
)

// Config holds the raw environment settings of the service.
// Parsing and validation happen in platform/di/shared (RuntimeSettings).
type Config struct {
	Port                     string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Adapter selection
	CatalogStore string // firestore | memory
	CartStore    string // firestore | redis | memory
	OrderStore   string // firestore | postgres | memory
	FeedProvider string // firestore | redis | memory

	// YAML catalog loaded at boot when CatalogStore is memory
	CatalogSeedFile string

	RedisURL    string
	DatabaseURL string

	// Secret Manager secret ids (resolved when the plain value is empty)
	DatabaseURLSecret    string
	SendGridAPIKeySecret string

	// Pricing / shop policy
	DeliveryFee  string
	BucketPrice  string
	MinLeadDays  string
	ShopTimezone string

	// Buckets
	ProductImageBucket string
	ReportBucket       string

	// Mail
	SendGridAPIKey string
	SendGridFrom   string
	ShopAdminEmail string

	AllowedOrigins string
	OTelStdout     bool
}

// Load reads the environment and returns Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "softshake-dev")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		CatalogStore: strings.ToLower(getenvDefault("CATALOG_STORE", "firestore")),
		CartStore:    strings.ToLower(getenvDefault("CART_STORE", "firestore")),
		OrderStore:   strings.ToLower(getenvDefault("ORDER_STORE", "firestore")),
		FeedProvider: strings.ToLower(getenvDefault("FEED_PROVIDER", "firestore")),

		CatalogSeedFile: os.Getenv("CATALOG_SEED_FILE"),

		RedisURL:    os.Getenv("REDIS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		DatabaseURLSecret:    os.Getenv("DATABASE_URL_SECRET"),
		SendGridAPIKeySecret: os.Getenv("SENDGRID_API_KEY_SECRET"),

		DeliveryFee:  getenvDefault("DELIVERY_FEE", "2.00"),
		BucketPrice:  getenvDefault("BUCKET_PRICE", "75.00"),
		MinLeadDays:  getenvDefault("MIN_LEAD_DAYS", "3"),
		ShopTimezone: getenvDefault("SHOP_TIMEZONE", "America/Sao_Paulo"),

		ProductImageBucket: os.Getenv("PRODUCT_IMAGE_BUCKET"),
		ReportBucket:       os.Getenv("REPORT_BUCKET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:   os.Getenv("SENDGRID_FROM"),
		ShopAdminEmail: os.Getenv("SHOP_ADMIN_EMAIL"),

		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		OTelStdout:     strings.EqualFold(strings.TrimSpace(os.Getenv("OTEL_STDOUT")), "true"),
	}
}

// GetFirestoreProjectID returns the Firestore/GCP project id.
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
