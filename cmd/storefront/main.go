package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartmongo "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mongodb"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogmongo "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mongodb"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	chatapp "github.com/wyfcoding/storefront/internal/chat/application"
	chatdomain "github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/internal/chat/infrastructure/broadcast"
	chatmongo "github.com/wyfcoding/storefront/internal/chat/infrastructure/persistence/mongodb"
	chathttp "github.com/wyfcoding/storefront/internal/chat/interfaces/http"
	"github.com/wyfcoding/storefront/internal/chat/interfaces/ws"
	"github.com/wyfcoding/storefront/internal/server"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"github.com/wyfcoding/storefront/pkg/rdb"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("storefront stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// 3. 初始化指标
	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(cfg.ServiceName)
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		gatherer = reg
	}

	// 4. 初始化基础设施
	database, err := db.Init(ctx, db.Config{
		URI:                cfg.Mongo.URI,
		Database:           cfg.Mongo.Database,
		ConnectTimeout:     time.Duration(cfg.Mongo.ConnectTimeout) * time.Second,
		SlowQueryThreshold: time.Duration(cfg.Mongo.SlowQueryThreshold) * time.Millisecond,
		LogCommands:        cfg.Mongo.LogCommands,
		Observer:           m.RecordDBCommand,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Close(closeCtx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var redisClient *rdb.Client
	if cfg.Redis.Enabled() {
		redisClient, err = rdb.New(ctx, rdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	var publisher mq.Publisher = mq.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			TopicPrefix:  cfg.Kafka.TopicPrefix,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		defer producer.Close()
		publisher = producer
	}
	publisher = mq.NewObservedPublisher(publisher, m)

	// 5. 初始化仓储与应用服务
	productRepo := catalogmongo.NewProductRepository(database.Database)
	cartRepo := cartmongo.NewCartRepository(database.Database, catalogmongo.ProductCollection)
	messageRepo := chatmongo.NewMessageRepository(database.Database)

	catalogService := catalogapp.NewCatalogApplicationService(productRepo, publisher, m)
	cartService := cartapp.NewCartApplicationService(cartRepo, publisher, m)

	hub := ws.NewHub(m)
	var (
		chatBroadcaster chatdomain.Broadcaster = hub
		fanout          *broadcast.RedisBroadcaster
	)
	if redisClient != nil {
		fanout = broadcast.NewRedisBroadcaster(redisClient, cfg.Redis.ChatChannel)
		chatBroadcaster = fanout
	}
	relay := chatapp.NewRelay(messageRepo, chatBroadcaster, m)

	// 6. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}

	var (
		limiter      ratelimit.RateLimiter
		localLimiter *ratelimit.LocalRateLimiter
	)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Backend == "redis" {
			limiter = ratelimit.NewRedisRateLimiter(redisClient.Raw())
		} else {
			localLimiter = ratelimit.NewLocalRateLimiter(time.Duration(cfg.RateLimit.IdleTTL) * time.Second)
			limiter = localLimiter
		}
	}

	router := server.NewRouter(server.Options{
		Metrics:     m,
		Gatherer:    gatherer,
		MetricsPath: cfg.Metrics.Path,
		Limiter:     limiter,
		RateLimit:   cfg.RateLimit,
		Health:      database,
		Registrars: []server.RouteRegistrar{
			cataloghttp.NewProductHandler(catalogService),
			carthttp.NewCartHandler(cartService),
			ws.NewHandler(hub, relay),
			chathttp.NewChatViewHandler("/ws"),
		},
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. 启动服务
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if fanout != nil {
		g.Go(func() error {
			return fanout.Run(gctx, hub)
		})
	}

	if localLimiter != nil {
		g.Go(func() error {
			return localLimiter.Run(gctx, time.Minute)
		})
	}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 8. 优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
