package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/hr"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/pos"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/application/transport"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/cache"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/Comercio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	"github.com/jhoicas/Comercio-api/pkg/config"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	m := metrics.New("comercio")

	// Redis: caché de reportes y lock de nómina. Sin Redis, caché no-op y lock en proceso.
	var (
		reportCache ports.Cache  = cache.Noop{}
		locker      ports.Locker = memory.NewLocker()
	)
	if cfg.Redis.Enabled() {
		client := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		rc := cache.NewRedisCache(client)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rc.Close()
		reportCache = rc
		locker = cache.NewRedisLocker(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: reportes sin caché y lock de nómina local")
	}
	reportCache = m.InstrumentCache(reportCache)

	// Bitácora: MongoDB si está configurado; si no, en memoria del proceso.
	var auditRepo repository.AuditRepository
	if cfg.Mongo.Enabled() {
		client, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoAudit := mongodb.NewAuditRepository(client.Database(cfg.Mongo.Database))
		if err := mongoAudit.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Msg("índices de auditoría")
		}
		auditRepo = mongoAudit
	} else {
		log.Warn().Msg("MONGO_URI vacío: la bitácora se pierde al reiniciar")
		auditRepo = memory.New().Audit()
	}
	auditSvc := audit.NewService(auditRepo, log)

	renderer := infrapdf.NewMarotoRenderer()
	moduleSvc := usecase.NewModuleService(repos, auditSvc)
	authUC := auth.NewAuthUseCase(repos, moduleSvc, auditSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.Metrics(m))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comercio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:    usecase.NewCompanyUseCase(txRunner, repos, authUC, auditSvc),
		Modules:      moduleSvc,
		AuthUC:       authUC,
		CatalogUC:    usecase.NewCatalogUseCase(repos, auditSvc),
		ProductUC:    usecase.NewProductUseCase(repos, auditSvc),
		PartnerUC:    usecase.NewPartnerUseCase(repos, auditSvc),
		InventoryUC:  inventory.NewUseCase(txRunner, repos, auditSvc),
		PurchasingUC: purchasing.NewUseCase(txRunner, repos, auditSvc),
		POSUC:        pos.NewUseCase(txRunner, repos, auditSvc, renderer),
		TransportUC:  transport.NewUseCase(txRunner, repos, auditSvc),
		HRUC:         hr.NewUseCase(txRunner, repos, locker, auditSvc, renderer),
		LedgerUC:     accounting.NewLedgerUseCase(repos, auditSvc),
		ReportsUC:    reports.NewUseCase(repos, reportCache, excel.Exporter{}, log, cfg.Redis.CacheTTL),
		Audit:        auditSvc,
		JWTSecret:    cfg.JWT.Secret,
		PlatformKey:  cfg.App.PlatformKey,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
