package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitlog-service/internal/caption"
	"habitlog-service/internal/config"
	"habitlog-service/internal/domain/repository"
	domainservice "habitlog-service/internal/domain/service"
	"habitlog-service/internal/embedding"
	"habitlog-service/internal/imaging"
	cronpkg "habitlog-service/internal/infrastructure/cron"
	"habitlog-service/internal/infrastructure/kafka"
	redispkg "habitlog-service/internal/infrastructure/redis"
	"habitlog-service/internal/logger"
	"habitlog-service/internal/service"
	"habitlog-service/internal/similarity"
	"habitlog-service/internal/transport/grpc"
	"habitlog-service/internal/transport/http/handler"
	"habitlog-service/internal/transport/http/middleware"
	"habitlog-service/pkg/hash"
	"habitlog-service/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App represents the application
type App struct {
	config     *config.Config
	logger     *zap.Logger
	store      Store
	redis      *redis.Client
	events     domainservice.HabitEventPublisher
	httpServer *http.Server
	grpcServer *grpc.Server
	limiter    *middleware.RateLimiter
	refresher  *cronpkg.LeaderboardRefresher
}

// New creates a new application
func New() (*App, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(loggerConfig(cfg.Logging), cfg.Service.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{
		config: cfg,
		logger: log,
	}

	if err := app.init(context.Background()); err != nil {
		app.close()
		return nil, err
	}

	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.config

	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	a.store = store
	a.logger.Info("store connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if _, err := store.Migrate(ctx, a.logger); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	// Initialize perception backends
	captioner, err := caption.New(caption.Config{
		Backend:   cfg.Caption.Backend,
		APIKeys:   cfg.Caption.APIKeys,
		BaseURL:   cfg.Caption.BaseURL,
		Model:     cfg.Caption.Model,
		Prompt:    cfg.Caption.Prompt,
		MaxTokens: cfg.Caption.MaxTokens,
		Timeout:   cfg.Caption.Timeout,
		Endpoint:  cfg.Caption.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create caption provider: %w", err)
	}

	encoder, err := NewEncoder(cfg.Embedding)
	if err != nil {
		return err
	}

	// Optional cache and event stream
	var cache repository.LeaderboardCache
	if cfg.Redis.Enabled {
		client, err := redispkg.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.redis = client
		cache = redispkg.NewLeaderboardCache(client, cfg.Redis.LeaderboardTTL)
		a.logger.Info("leaderboard cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		a.events = kafka.NewProducer(cfg.Kafka, a.logger.Named("kafka"))
		a.logger.Info("event publishing enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	// Initialize services
	tokens := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)
	authService := service.NewAuthService(store.Users(), tokens, hash.NewHasher(hash.DefaultCost), a.logger.Named("auth"))
	habitService := service.NewHabitService(store, a.logger.Named("habits"))
	leaderboardService := service.NewLeaderboardService(store, cache, a.logger.Named("leaderboard"))
	verificationService := service.NewVerificationService(service.VerificationDeps{
		Store:       store,
		Normalizer:  imaging.NewNormalizer(cfg.Image.MaxWidth),
		Captioner:   captioner,
		Scorer:      similarity.NewScorer(encoder),
		Engine:      service.NewStreakEngine(store, a.logger.Named("streak")),
		Events:      a.events,
		Leaderboard: leaderboardService,
		Logger:      a.logger.Named("verification"),
	})

	if cfg.Scheduler.Enabled && cache != nil {
		a.refresher = cronpkg.NewLeaderboardRefresher(leaderboardService, cfg.Scheduler.LeaderboardRefreshInterval, a.logger.Named("cron"))
	}

	clock := handler.Clock{Location: cfg.Service.Location()}

	// HTTP
	if cfg.HTTP.RateLimitRequests > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}
	router := handler.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewHabitHandler(habitService, verificationService, clock, cfg.HTTP.MaxUploadBytes),
		handler.NewLeaderboardHandler(leaderboardService),
		middleware.NewAuthMiddleware(authService),
		a.limiter,
		a.logger.Named("http"),
	)
	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// gRPC
	if cfg.GRPC.Port > 0 {
		grpcHandler := grpc.NewHabitLogHandler(authService, verificationService, leaderboardService, clock.Today)
		a.grpcServer = grpc.NewServer(grpcHandler, cfg.GRPC, a.logger.Named("grpc"))
	}

	return nil
}

// NewEncoder creates the embedding encoder from configuration
func NewEncoder(cfg config.EmbeddingConfig) (*embedding.OpenAIEncoder, error) {
	encoder, err := embedding.NewOpenAIEncoder(embedding.Config{
		APIKeys: cfg.APIKeys,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding encoder: %w", err)
	}
	return encoder, nil
}

// Run starts the application and blocks until a shutdown signal
func (a *App) Run() error {
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	if a.refresher != nil {
		if err := a.refresher.Start(); err != nil {
			return fmt.Errorf("failed to start leaderboard refresher: %w", err)
		}
	}

	if a.limiter != nil {
		go a.limiter.Cleanup(ctx, 5*time.Minute)
	}

	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	if a.grpcServer != nil {
		go func() {
			if err := a.grpcServer.Start(); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	a.logger.Info("service started",
		zap.String("environment", a.config.Service.Environment),
		zap.String("version", a.config.Service.Version),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-errCh:
		a.logger.Error("server failed", zap.Error(runErr))
	}

	a.shutdown()

	return runErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if a.grpcServer != nil {
		a.grpcServer.Stop()
	}

	if a.refresher != nil {
		a.refresher.Stop()
	}

	a.close()

	a.logger.Info("server shutdown complete")
}

// close releases connections in reverse order of creation
func (a *App) close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("failed to close event producer", zap.Error(err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	_ = a.logger.Sync()
}

func loggerConfig(cfg config.LoggingConfig) logger.Config {
	return logger.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		OutputPath: cfg.OutputPath,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// NewLogger builds the service logger from configuration
func NewLogger(cfg *config.Config, service string) (*zap.Logger, error) {
	return logger.New(loggerConfig(cfg.Logging), service)
}
