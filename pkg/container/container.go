package container

import (
	"context"
	"fmt"
	"log"

	"github.com/EchoNin9/orangewhip.surf/internal/auth"
	"github.com/EchoNin9/orangewhip.surf/internal/config"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/apikey"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/category"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/embed"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/group"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/press"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/profile"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/show"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/update"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/venue"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/ai"
	infraCache "github.com/EchoNin9/orangewhip.surf/internal/infrastructure/cache"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/storage"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

// Container chứa toàn bộ dependency graph của API process.
// Thứ tự initialization: Config → Store → Cache → Storage → Queue →
// Auth → Services → Handlers. Sai thứ tự → nil pointer.
type Container struct {
	Config *config.Config

	Store      store.Store
	PG         *store.PostgresStore
	Cache      *infraCache.RedisClient
	Storage    *storage.MinIOStorage
	Dispatcher *queue.Dispatcher
	Resolver   *auth.Resolver

	MediaResolver *media.Resolver

	ShowService     *show.Service
	VenueService    *venue.Service
	UpdateService   *update.Service
	PressService    *press.Service
	MediaService    *media.Service
	CategoryService *category.Service
	GroupService    *group.Service
	ProfileService  *profile.Service
	APIKeyService   *apikey.Service

	ShowHandler     *show.Handler
	VenueHandler    *venue.Handler
	UpdateHandler   *update.Handler
	PressHandler    *press.Handler
	MediaHandler    *media.Handler
	CategoryHandler *category.Handler
	GroupHandler    *group.Handler
	ProfileHandler  *profile.Handler
	APIKeyHandler   *apikey.Handler
	EmbedHandler    *embed.Handler
}

// NewContainer builds the whole graph and connects infrastructure.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")
	c := &Container{}
	ctx := context.Background()

	// Config trước tiên, không phụ thuộc ai
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Entity store
	log.Println("🗄️  Connecting to PostgreSQL...")
	pg := store.NewPostgresStore(cfg.Database)
	if err := pg.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	c.PG = pg
	c.Store = pg
	log.Println("✅ PostgreSQL connected")

	// Redis cache
	rdb := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rdb.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	c.Cache = rdb

	// Object storage
	log.Println("📦 Connecting to MinIO...")
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO, cfg.Media.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO connected")

	// Queue client
	c.Dispatcher = queue.NewDispatcher(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	// Auth
	c.Resolver = auth.NewResolver(cfg.Auth.JWTSecret, cfg.Auth.GroupsClaim, c.Store)

	// AI captioner, disabled khi không có endpoint
	var summarizer ai.Summarizer = ai.Disabled{}
	if cfg.AI.Endpoint != "" {
		summarizer = ai.NewHTTPSummarizer(cfg.AI.Endpoint, cfg.AI.Timeout)
	}

	// Services
	c.MediaResolver = media.NewResolver(c.Store, c.Storage)
	c.MediaService = media.NewService(c.Store, c.Storage, c.MediaResolver, c.Dispatcher, summarizer, cfg.Media.MaxFiles, cfg.Media.ImportMaxSize)
	c.VenueService = venue.NewService(c.Store)
	c.ShowService = show.NewService(c.Store, c.VenueService, c.MediaResolver)
	c.UpdateService = update.NewService(c.Store, c.MediaResolver)
	c.PressService = press.NewService(c.Store, c.Storage)
	c.CategoryService = category.NewService(c.Store)
	c.GroupService = group.NewService(c.Store)
	c.ProfileService = profile.NewService(c.Store, c.Storage)
	c.APIKeyService = apikey.NewService(c.Store, rdb.Client)

	// Handlers
	c.ShowHandler = show.NewHandler(c.ShowService)
	c.VenueHandler = venue.NewHandler(c.VenueService)
	c.UpdateHandler = update.NewHandler(c.UpdateService)
	c.PressHandler = press.NewHandler(c.PressService)
	c.MediaHandler = media.NewHandler(c.MediaService, c.Dispatcher, cfg.Auth.WebhookSecret)
	c.CategoryHandler = category.NewHandler(c.CategoryService)
	c.GroupHandler = group.NewHandler(c.GroupService)
	c.ProfileHandler = profile.NewHandler(c.ProfileService, c.GroupService)
	c.APIKeyHandler = apikey.NewHandler(c.APIKeyService)
	c.EmbedHandler = embed.NewHandler(c.ShowService, c.UpdateService)

	log.Println("✅ DI Container ready")
	return c, nil
}

// HealthCheck probes the shared infrastructure.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "ok", "redis": "ok"}
	if err := c.PG.HealthCheck(ctx); err != nil {
		status["database"] = err.Error()
	}
	if err := c.Cache.HealthCheck(ctx); err != nil {
		status["redis"] = err.Error()
	}
	return status
}

// Cleanup releases infrastructure connections, reverse of init order.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container...")
	if c.Dispatcher != nil {
		if err := c.Dispatcher.Close(); err != nil {
			log.Printf("⚠️  Queue client close failed: %v", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	if c.PG != nil {
		c.PG.Close()
	}
	log.Println("✅ Container cleaned up")
}
