package container

import (
	"context"
	"fmt"
	"time"

	"bookstore-catalog/internal/config"
	announcementHandler "bookstore-catalog/internal/domains/announcement/handler"
	announcementRepo "bookstore-catalog/internal/domains/announcement/repository"
	announcementService "bookstore-catalog/internal/domains/announcement/service"
	bookHandler "bookstore-catalog/internal/domains/book/handler"
	bookModel "bookstore-catalog/internal/domains/book/model"
	bookRepo "bookstore-catalog/internal/domains/book/repository"
	bookService "bookstore-catalog/internal/domains/book/service"
	catalogService "bookstore-catalog/internal/domains/catalog/service"
	categoryHandler "bookstore-catalog/internal/domains/category/handler"
	categoryService "bookstore-catalog/internal/domains/category/service"
	discountHandler "bookstore-catalog/internal/domains/discount/handler"
	discountJob "bookstore-catalog/internal/domains/discount/job"
	discountRepo "bookstore-catalog/internal/domains/discount/repository"
	discountService "bookstore-catalog/internal/domains/discount/service"
	infraCache "bookstore-catalog/internal/infrastructure/cache"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/pkg/cache"
	txdb "bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của application (api và worker dùng chung)
type Container struct {
	// INFRASTRUCTURE
	Config *config.Config
	DB     *database.PostgresDB // nil khi STORE_DRIVER=memory
	Store  *memstore.Store      // nil khi STORE_DRIVER=postgres
	Cache  cache.Cache
	Tx     txdb.TxManager

	// REPOSITORIES
	BookRepo         bookRepo.RepositoryInterface
	DiscountRepo     discountRepo.DiscountRepository
	AnnouncementRepo announcementRepo.Repository

	// SERVICES
	BookService         *bookService.BookService
	CategoryService     *categoryService.CategoryService
	DiscountService     *discountService.DiscountService
	AnnouncementService *announcementService.AnnouncementService
	Catalog             *catalogService.CatalogService

	// HANDLERS
	BookHandler         *bookHandler.Handler
	CategoryHandler     *categoryHandler.CategoryHandler
	DiscountHandler     *discountHandler.DiscountHandler
	AnnouncementHandler *announcementHandler.AnnouncementHandler
	ReconcileJob        *discountJob.ReconcileExpiredHandler

	RateLimiter *middleware.RateLimiter

	now func() time.Time
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (store, cache)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(ctx, cfg)
}

// Build dựng container từ config có sẵn (test dùng STORE_DRIVER=memory, Redis tắt)
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	c.initCache(ctx)
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", map[string]interface{}{
		"store":       cfg.Store.Driver,
		"redis":       cfg.Redis.Enabled,
		"environment": cfg.App.Environment,
	})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Store.Driver == config.StoreDriverMemory {
		c.Store = memstore.New()
		c.Tx = c.Store
		logger.Warn("Using in-memory store, data is lost on restart", nil)
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.DB = db
	c.Tx = txdb.NewPgxTxManager(db.Pool)
	return nil
}

// initCache - Redis lỗi không critical: fallback về no-op cache
func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		c.Cache = infraCache.NewNoopCache()
		return
	}

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			logger.Warn("Redis unavailable, caching disabled", map[string]interface{}{"error": err.Error()})
			_ = rc.Close()
			c.Cache = infraCache.NewNoopCache()
			return
		}
	}
	c.Cache = redisCache
}

func (c *Container) initRepositories() {
	if c.Store != nil {
		c.BookRepo = bookRepo.NewMemoryRepository(c.Store)
		c.DiscountRepo = discountRepo.NewMemoryRepository(c.Store)
		c.AnnouncementRepo = announcementRepo.NewMemoryRepository(c.Store)
		return
	}

	pool := c.DB.Pool
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.DiscountRepo = discountRepo.NewPostgresRepository(pool)
	c.AnnouncementRepo = announcementRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	catalogCfg := c.Config.Catalog

	c.BookService = bookService.NewService(c.BookRepo, c.Tx, c.Cache, bookService.Config{
		Paging: bookModel.Paging{
			DefaultPageSize: catalogCfg.DefaultPageSize,
			MaxPageSize:     catalogCfg.MaxPageSize,
		},
		CacheTTL: catalogCfg.CacheTTL,
		Now:      c.now,
	})
	c.CategoryService = categoryService.NewCategoryService(c.BookService, c.now)
	c.DiscountService = discountService.NewDiscountService(c.DiscountRepo, c.BookService, c.Tx, c.now)
	c.AnnouncementService = announcementService.NewAnnouncementService(c.AnnouncementRepo, c.BookService, c.Tx, c.now)

	c.Catalog = catalogService.NewCatalogService(
		c.Tx,
		c.BookService,
		c.CategoryService,
		c.DiscountService,
		c.AnnouncementService,
	)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.Catalog)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.Catalog)
	c.DiscountHandler = discountHandler.NewDiscountHandler(c.Catalog)
	c.AnnouncementHandler = announcementHandler.NewAnnouncementHandler(c.Catalog)
	c.ReconcileJob = discountJob.NewReconcileExpiredHandler(c.Catalog)
	c.RateLimiter = middleware.NewRateLimiter(c.Config.RateLimit.RPS, c.Config.RateLimit.Burst)
}

// ========================================
// HEALTH & CLEANUP
// ========================================

// HealthCheck ping store và cache; kết quả từng thành phần ("ok" hoặc lỗi)
func (c *Container) HealthCheck(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{}
	healthy := true

	var storeErr error
	if c.DB != nil {
		storeErr = c.DB.Ping(ctx)
	} else {
		storeErr = c.Store.Ping(ctx)
	}
	status["store"] = "ok"
	if storeErr != nil {
		status["store"] = storeErr.Error()
		healthy = false
	}

	// cache lỗi chỉ làm degraded, không fail health check
	status["cache"] = "ok"
	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = err.Error()
	}

	return status, healthy
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
}
