// internal/platform/di/storefront/container.go
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"

	// outbound
	outdb "github.com/tisoftshake/softshake/internal/adapters/out/db"
	outfs "github.com/tisoftshake/softshake/internal/adapters/out/firestore"
	gcso "github.com/tisoftshake/softshake/internal/adapters/out/gcs"
	"github.com/tisoftshake/softshake/internal/adapters/out/mail"
	"github.com/tisoftshake/softshake/internal/adapters/out/memory"
	outredis "github.com/tisoftshake/softshake/internal/adapters/out/redis"
	xlsxout "github.com/tisoftshake/softshake/internal/adapters/out/xlsx"

	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	"github.com/tisoftshake/softshake/internal/infra/seed"

	// domains
	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"

	shared "github.com/tisoftshake/softshake/internal/platform/di/shared"
)

// catalogStore is the read and write side of the catalog.
type catalogStore interface {
	catalog.Repository
	catalog.Writer
}

// changeFeed is both ends of the admin change feed.
type changeFeed interface {
	notifdom.Publisher
	notifdom.Feed
}

// Container is the storefront DI container.
// Pure DI: build deps only. No routing branching.
type Container struct {
	Infra *shared.Infra

	// Usecases
	CatalogUC       *usecase.CatalogUsecase
	CustomizationUC *usecase.CustomizationUsecase
	CartUC          *usecase.CartUsecase
	OrderUC         *usecase.OrderUsecase
	StockUC         *usecase.StockUsecase
	ReportUC        *usecase.ReportUsecase

	// Outbound kept for handlers
	Feed   notifdom.Feed
	Mailer *mail.OrderMailer
}

// NewContainer builds repositories, adapters and usecases from infra.Settings.
func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("di.storefront: infra is nil")
	}
	s := infra.Settings

	catalogRepo, err := buildCatalogStore(ctx, infra)
	if err != nil {
		return nil, err
	}
	cartRepo, err := buildCartRepo(infra)
	if err != nil {
		return nil, err
	}
	orderRepo, err := buildOrderRepo(infra)
	if err != nil {
		return nil, err
	}
	reportRepo, err := buildReportRepo(infra)
	if err != nil {
		return nil, err
	}
	feed, err := buildFeed(infra)
	if err != nil {
		return nil, err
	}

	// ------------------------------------------------------------
	// Usecases
	// ------------------------------------------------------------
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	customUC := usecase.NewCustomizationUsecase(catalogRepo, s.Policy, s.Params, s.Location)
	cartUC := usecase.NewCartUsecase(cartRepo, customUC, s.Policy)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartUC, s.Policy, s.Location).WithPublisher(feed)
	stockUC := usecase.NewStockUsecase(catalogRepo, catalogRepo).WithPublisher(feed)
	reportUC := usecase.NewReportUsecase(orderRepo, reportRepo, xlsxout.NewReportExporter(s.Location), s.Location)

	mailer := mail.NewOrderMailerWithSendGrid(s.SendGridAPIKey, s.SendGridFrom, s.ShopAdminEmail, s.Location)
	if s.MailEnabled() {
		orderUC = orderUC.WithNotifier(mailer)
	}

	if infra.GCS != nil {
		if s.ProductImageBucket != "" {
			stockUC = stockUC.WithImageStore(gcso.NewObjectStoreGCS(infra.GCS, s.ProductImageBucket))
		}
		if s.ReportBucket != "" {
			reportUC = reportUC.WithArchive(gcso.NewObjectStoreGCS(infra.GCS, s.ReportBucket))
		}
	}

	log.Printf("[di.storefront] container ready mail=%t images=%t archive=%t",
		s.MailEnabled(), s.ProductImageBucket != "", s.ReportBucket != "")

	return &Container{
		Infra:           infra,
		CatalogUC:       catalogUC,
		CustomizationUC: customUC,
		CartUC:          cartUC,
		OrderUC:         orderUC,
		StockUC:         stockUC,
		ReportUC:        reportUC,
		Feed:            feed,
		Mailer:          mailer,
	}, nil
}

// Close releases infra clients.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.Infra.Close()
}

// ============================================================
// Adapter selection
// ============================================================

func buildCatalogStore(ctx context.Context, infra *shared.Infra) (catalogStore, error) {
	switch infra.Settings.CatalogStore {
	case shared.StoreMemory:
		repo := memory.NewCatalogRepositoryMem()
		path := infra.Settings.CatalogSeedFile
		if path == "" {
			log.Printf("[di.storefront] WARN: CATALOG_STORE=memory without CATALOG_SEED_FILE (catalog starts empty)")
			return repo, nil
		}
		f, err := seed.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("di.storefront: %w", err)
		}
		n, err := seed.Apply(ctx, repo, f)
		if err != nil {
			return nil, fmt.Errorf("di.storefront: %w", err)
		}
		log.Printf("[di.storefront] memory catalog seeded from %s categories=%d products=%d options=%d",
			path, n.Categories, n.Products, n.Options)
		return repo, nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.storefront: firestore client is nil (catalog)")
		}
		return outfs.NewCatalogRepositoryFS(infra.Firestore), nil
	}
}

func buildCartRepo(infra *shared.Infra) (cartdom.Repository, error) {
	switch infra.Settings.CartStore {
	case shared.StoreMemory:
		return memory.NewCartRepositoryMem(), nil
	case shared.StoreRedis:
		if infra.Redis == nil {
			return nil, errors.New("di.storefront: redis client is nil (cart)")
		}
		return outredis.NewCartRepositoryRedis(infra.Redis, ""), nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.storefront: firestore client is nil (cart)")
		}
		return outfs.NewCartRepositoryFS(infra.Firestore), nil
	}
}

func buildOrderRepo(infra *shared.Infra) (orderdom.Repository, error) {
	switch infra.Settings.OrderStore {
	case shared.StoreMemory:
		return memory.NewOrderRepositoryMem(), nil
	case shared.StorePostgres:
		if infra.DB == nil {
			return nil, errors.New("di.storefront: postgres connection is nil (order)")
		}
		return outdb.NewOrderRepositoryPG(infra.DB.Client), nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.storefront: firestore client is nil (order)")
		}
		return outfs.NewOrderRepositoryFS(infra.Firestore), nil
	}
}

// Reports follow the catalog: both are shop back-office documents.
func buildReportRepo(infra *shared.Infra) (reportdom.Repository, error) {
	if infra.Settings.CatalogStore == shared.StoreMemory || infra.Firestore == nil {
		return memory.NewReportRepositoryMem(), nil
	}
	return outfs.NewReportRepositoryFS(infra.Firestore), nil
}

func buildFeed(infra *shared.Infra) (changeFeed, error) {
	switch infra.Settings.FeedProvider {
	case shared.StoreMemory:
		return memory.NewChangeFeedMem(), nil
	case shared.StoreRedis:
		if infra.Redis == nil {
			return nil, errors.New("di.storefront: redis client is nil (feed)")
		}
		return outredis.NewChangeFeedRedis(infra.Redis, ""), nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.storefront: firestore client is nil (feed)")
		}
		return outfs.NewChangeFeedFS(infra.Firestore), nil
	}
}
