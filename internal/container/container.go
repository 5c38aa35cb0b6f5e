package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"aliexpress/importer/internal/browser"
	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/client"
	"aliexpress/importer/internal/config"
	"aliexpress/importer/internal/domain/task"
	"aliexpress/importer/internal/pictures"
	"aliexpress/importer/internal/proxy"
	"aliexpress/importer/internal/queue"
	"aliexpress/importer/internal/repository"
	"aliexpress/importer/internal/service"
	"aliexpress/importer/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.AliExpressClient
	Store        repository.CatalogStore
	Fetcher      pictures.Fetcher
	Queue        queue.Queue
	StateManager state.StateManager

	Service *service.Service

	db      *pgxpool.Pool
	redis   *redis.Client
	browser browser.Driver
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier, err := proxy.NewSupplier(context.Background(), cfg.AliExpress.Proxies, cfg.AliExpress.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	store, err := repository.NewCatalogStore(context.Background(), db)
	if err != nil {
		return nil, err
	}
	container.Store = store

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	container.redis = rdb
	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	driver, err := browser.NewRodDriver(cfg.Browser, proxySupplier.Get())
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	container.browser = driver

	aliClient := client.NewAliExpressClient(cfg.AliExpress, driver)
	container.Client = aliClient

	fetcher := pictures.NewHTTPFetcher(cfg.AliExpress, proxySupplier)
	container.Fetcher = fetcher

	svc := service.NewService(
		store,
		aliClient,
		fetcher,
		redisQueue,
		stateManager,
		catalog.KnownIDs{
			ProductLayout:      cfg.Catalog.ProductLayoutID,
			CategoryLayout:     cfg.Catalog.CategoryLayoutID,
			ColorAttribute:     cfg.Catalog.ColorAttributeID,
			SizeAttribute:      cfg.Catalog.SizeAttributeID,
			ShipsFromAttribute: cfg.Catalog.ShipsFromAttributeID,
		},
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Service = svc

	return container, nil
}

// Run starts the stream workers and, when the config names a startup job,
// enqueues it before they begin consuming.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.enqueueStartupJob(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Redis.MaxWorkers)
	})

	return g.Wait()
}

func (c *Container) enqueueStartupJob(ctx context.Context) error {
	policy := catalog.ImportPolicy{
		PublishProducts:                c.Config.Import.PublishProducts,
		PublishCategories:              c.Config.Import.PublishCategories,
		IncludeInMenu:                  c.Config.Import.IncludeInMenu,
		ShowOnHomePage:                 c.Config.Import.ShowOnHomePage,
		AllowCustomersToSelectPageSize: c.Config.Import.AllowCustomersToSelectPageSize,
		PageSize:                       c.Config.Import.PageSize,
		PageSizeOptions:                c.Config.Import.PageSizeOptions,
	}

	if c.Config.Import.ProductID != 0 {
		_, err := c.Queue.AddTask(ctx, &task.ProductImportTask{
			ProductID: c.Config.Import.ProductID,
			Policy:    policy,
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue startup product import: %w", err)
		}
		log.Infof("📨 Enqueued startup import for product %d", c.Config.Import.ProductID)
	}

	if c.Config.Import.CategoryID != "" {
		_, err := c.Queue.AddTask(ctx, &task.CategoryImportTask{
			CategoryID:   c.Config.Import.CategoryID,
			CategoryName: c.Config.Import.CategoryName,
			Policy:       policy,
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue startup category import: %w", err)
		}
		log.Infof("📨 Enqueued startup import for category %s", c.Config.Import.CategoryID)
	}

	return nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			log.Errorf("Failed to close browser: %v", err)
		}
	}
	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
