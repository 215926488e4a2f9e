// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	goredis "github.com/go-redis/redis/v8"
	"google.golang.org/api/option"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	appcfg "github.com/tisoftshake/softshake/internal/infra/config"
	"github.com/tisoftshake/softshake/internal/infra/database"
	firestoreinfra "github.com/tisoftshake/softshake/internal/infra/firestore"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/GCS/SecretManager/Redis/PostgreSQL)
// - owns env/config-resolved runtime settings
//
// IMPORTANT:
// Infra must NOT depend on routers or handlers.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string
	Settings  RuntimeSettings

	// Clients (owned; Close-managed). Nil when no adapter needs them.
	Firestore     *firestore.Client
	GCS           *storage.Client
	SecretManager *secretmanager.Client
	Redis         *goredis.Client
	DB            *database.DB
}

// NewInfra initializes shared infra.
// Clients required by the selected adapters are strict (return error).
// SecretManager is best-effort (warn + continue) unless a secret id is configured.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	settings, err := ResolveRuntimeSettings(cfg)
	if err != nil {
		return nil, err
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: resolveProjectID(cfg),
		Settings:  settings,
	}

	clientOpts := firestoreinfra.ClientOptions(cfg)
	if f := firestoreinfra.CredentialsFile(cfg); f != "" {
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(f))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Secret Manager (best-effort) + secret resolution
	if err := inf.resolveSecrets(ctx, clientOpts); err != nil {
		_ = inf.Close()
		return nil, err
	}

	if err := inf.Settings.Validate(); err != nil {
		_ = inf.Close()
		return nil, err
	}

	// 2) Firestore (strict when any adapter uses it)
	if inf.Settings.NeedsFirestore() {
		fsClient, err := firestoreinfra.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w (set FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT)", err)
		}
		inf.Firestore = fsClient
	}

	// 3) GCS (strict when a bucket is configured)
	if inf.Settings.NeedsGCS() {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		inf.GCS = gcsClient
		log.Printf("[shared.infra] GCS storage client initialized images=%q reports=%q",
			inf.Settings.ProductImageBucket, inf.Settings.ReportBucket)
	} else {
		log.Printf("[shared.infra] WARN: PRODUCT_IMAGE_BUCKET/REPORT_BUCKET empty (image upload and report archive disabled)")
	}

	// 4) Redis (strict when carts or feed use it)
	if inf.Settings.NeedsRedis() {
		opts, err := goredis.ParseURL(inf.Settings.RedisURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: REDIS_URL: %w", err)
		}
		client := goredis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: redis ping failed (addr=%s): %w", opts.Addr, err)
		}
		inf.Redis = client
		log.Printf("[shared.infra] Redis connected addr=%s", opts.Addr)
	}

	// 5) PostgreSQL (strict when orders use it)
	if inf.Settings.NeedsPostgres() {
		db, err := database.NewConnection(ctx, inf.Settings.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		if err := db.Migrate(ctx, orderdom.OrdersTableDDL); err != nil {
			_ = db.Close()
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.DB = db
	}

	if !inf.Settings.MailEnabled() {
		log.Printf("[shared.infra] WARN: SENDGRID_API_KEY/SENDGRID_FROM/SHOP_ADMIN_EMAIL incomplete (order mails disabled)")
	}

	log.Printf("[shared.infra] stores catalog=%s cart=%s order=%s feed=%s",
		inf.Settings.CatalogStore, inf.Settings.CartStore, inf.Settings.OrderStore, inf.Settings.FeedProvider)
	return inf, nil
}

// resolveSecrets fills DatabaseURL and SendGridAPIKey from Secret Manager
// when the plain env value is empty and a secret id is set.
func (i *Infra) resolveSecrets(ctx context.Context, clientOpts []option.ClientOption) error {
	pending := map[string]*string{}
	if i.Settings.DatabaseURL == "" && strings.TrimSpace(i.Config.DatabaseURLSecret) != "" {
		pending[strings.TrimSpace(i.Config.DatabaseURLSecret)] = &i.Settings.DatabaseURL
	}
	if i.Settings.SendGridAPIKey == "" && strings.TrimSpace(i.Config.SendGridAPIKeySecret) != "" {
		pending[strings.TrimSpace(i.Config.SendGridAPIKeySecret)] = &i.Settings.SendGridAPIKey
	}
	if len(pending) == 0 {
		return nil
	}

	sm, err := secretmanager.NewClient(ctx, clientOpts...)
	if err != nil {
		log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (secret-backed settings stay empty)", err)
		return nil
	}
	i.SecretManager = sm

	provider := &secretProviderSM{sm: sm, projectID: i.ProjectID}
	for secretID, dst := range pending {
		v, err := provider.Access(ctx, secretID)
		if err != nil {
			log.Printf("[shared.infra] WARN: secret %s unavailable: %v", secretID, err)
			continue
		}
		*dst = v
		log.Printf("[shared.infra] secret %s resolved", secretID)
	}
	return nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	return nil
}

func resolveProjectID(cfg *appcfg.Config) string {
	// Priority:
	// 1) cfg.FirestoreProjectID (resolved by config.Load)
	// 2) FIRESTORE_PROJECT_ID
	// 3) GCP_PROJECT_ID
	// 4) GOOGLE_CLOUD_PROJECT (often set in Cloud Run)
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}

	for _, k := range []string{
		"FIRESTORE_PROJECT_ID",
		"GCP_PROJECT_ID",
		"GOOGLE_CLOUD_PROJECT",
	} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func redactPath(p string) string {
	// Keep only the last segment
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***" + "/" + last
}
