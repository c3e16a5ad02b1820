package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"recipebook-backend/internal/config"
	infraCache "recipebook-backend/internal/infrastructure/cache"
	"recipebook-backend/internal/infrastructure/database"
	"recipebook-backend/internal/infrastructure/memstore"
	"recipebook-backend/pkg/cache"
	txManager "recipebook-backend/pkg/database"
	"recipebook-backend/pkg/logger"

	recipeHandler "recipebook-backend/internal/domains/recipe/handler"
	recipeRepo "recipebook-backend/internal/domains/recipe/repository"
	recipeService "recipebook-backend/internal/domains/recipe/service"
	reviewHandler "recipebook-backend/internal/domains/review/handler"
	reviewRepo "recipebook-backend/internal/domains/review/repository"
	reviewService "recipebook-backend/internal/domains/review/service"
	userHandler "recipebook-backend/internal/domains/user/handler"
	userRepo "recipebook-backend/internal/domains/user/repository"
	userService "recipebook-backend/internal/domains/user/service"
	vocabRepo "recipebook-backend/internal/domains/vocabulary/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Init order: Config -> Store + Cache -> Repositories -> Services -> Handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config   *config.Config
	DB       *database.PostgresDB // nil with STORE_DRIVER=memory
	Memory   *memstore.Store      // nil with STORE_DRIVER=postgres
	TxMgr    txManager.TransactionManager
	Cache    cache.Cache
	CacheTTL cache.TTLConfig

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo   userRepo.UserRepository
	TokenRepo  userRepo.TokenRepository
	RecipeRepo recipeRepo.RecipeRepository
	ReviewRepo reviewRepo.ReviewRepository
	VocabRepo  vocabRepo.VocabularyRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService   userService.ServiceInterface
	RecipeService recipeService.ServiceInterface
	ReviewService reviewService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler   *userHandler.UserHandler
	RecipeHandler *recipeHandler.RecipeHandler
	ReviewHandler *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer loads the config and builds the whole dependency graph.
func NewContainer() (*Container, error) {
	// STEP 1: LOAD CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the graph for an already loaded config.
func NewWithConfig(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		CacheTTL: cache.TTLConfig{
			Entity:     cfg.Cache.EntityTTL,
			Collection: cfg.Cache.CollectionTTL,
		},
	}
	logger.Info("initializing container", map[string]interface{}{
		"env":          cfg.App.Environment,
		"store_driver": cfg.Store.Driver,
		"cache_driver": cfg.Cache.Driver,
	})

	// STEP 2: STORE
	if err := c.initStore(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3: CACHE
	c.initCache()

	// STEP 4-6: REPOSITORIES -> SERVICES -> HANDLERS
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore() error {
	if c.Config.Store.Driver == config.StoreDriverMemory {
		store := memstore.New()
		c.Memory = store
		c.TxMgr = store
		repos := memstore.NewRepositories(store)
		c.UserRepo = repos.Users
		c.TokenRepo = repos.Tokens
		c.RecipeRepo = repos.Recipes
		c.ReviewRepo = repos.Reviews
		c.VocabRepo = repos.Vocabulary
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.initPostgresRepositories(db.Pool)
	return nil
}

func (c *Container) initPostgresRepositories(pool *pgxpool.Pool) {
	c.TxMgr = txManager.NewPoolTransactionManager(pool)
	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.TokenRepo = userRepo.NewPostgresTokenRepository(pool)
	c.RecipeRepo = recipeRepo.NewPostgresRecipeRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.VocabRepo = vocabRepo.NewPostgresVocabularyRepository()
}

// initCache: a Redis failure is not critical, cache errors are served as misses.
func (c *Container) initCache() {
	if c.Config.Cache.Driver == config.CacheDriverMemory {
		c.Cache = infraCache.NewMemoryCache(c.Config.Cache.Capacity)
		return
	}

	client := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		logger.Warn("redis connection failed (non-critical)", err, map[string]interface{}{"host": c.Config.Redis.Host})
	} else {
		logger.Info("redis connected", map[string]interface{}{"host": c.Config.Redis.Host})
	}
	c.Cache = infraCache.NewRedisCache(client)
}

func (c *Container) initServices() {
	assoc := recipeService.NewAssociationManager(c.VocabRepo)
	cascade := recipeService.NewCascade(c.RecipeRepo, c.ReviewRepo, c.VocabRepo)

	c.UserService = userService.NewUserService(c.UserRepo, c.TokenRepo, cascade, c.TxMgr, c.Cache, c.CacheTTL)
	c.RecipeService = recipeService.NewRecipeService(
		c.RecipeRepo,
		c.ReviewRepo,
		c.UserRepo,
		assoc,
		cascade,
		c.TxMgr,
		c.Cache,
		c.CacheTTL,
	)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.RecipeRepo, c.TxMgr, c.Cache, c.CacheTTL)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Cache, c.CacheTTL)
	c.RecipeHandler = recipeHandler.NewRecipeHandler(c.RecipeService, c.Cache, c.CacheTTL)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService, c.Cache, c.CacheTTL)
}

// ========================================
// HEALTH & CLEANUP
// ========================================

// HealthCheck fails only when the store is unreachable. A cache outage is logged.
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			logger.Warn("cache ping failed", err, nil)
		}
	}
	if c.DB != nil {
		return c.DB.HealthCheck(ctx)
	}
	if c.Memory != nil {
		return c.Memory.Ping(ctx)
	}
	return fmt.Errorf("no store configured")
}

// Cleanup releases resources on shutdown.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Warn("failed to close cache", err, nil)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Warn("failed to close database", err, nil)
		}
	}
	logger.Info("container cleanup completed", nil)
}
