package internal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "listing-site/internal/adapters/logger"
	rabbitmq_adapter "listing-site/internal/adapters/rabbitmq"
	"listing-site/internal/adapters/rest"
	"listing-site/internal/adapters/storage/memory"
	postgres_adapter "listing-site/internal/adapters/storage/postgres"
	redis_adapter "listing-site/internal/adapters/storage/redis"
	"listing-site/internal/adapters/xano_client"
	"listing-site/internal/configs"
	"listing-site/internal/core/port"
	"listing-site/internal/core/usecase"
	fluentlogger "listing-site/pkg/fluent_logger"
	"listing-site/pkg/postgres"
	"listing-site/pkg/rabbitmq/rabbitmq_common"
	"listing-site/pkg/rabbitmq/rabbitmq_producer"
	redispkg "listing-site/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

// App - основная структура приложения
type App struct {
	server   *rest.Server
	logger   port.LoggerPort
	sessions *usecase.SessionRegistry

	idleEviction time.Duration
	sweepers     []*memory.ClientStorage

	fluentClient *fluent.Fluent
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	connManager  *rabbitmq_common.ConnectionManager
	publisher    *rabbitmq_producer.Publisher
}

// NewApp создает и настраивает все компоненты приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{idleEviction: appConfig.Session.IdleEviction}

	// инициализация логеров
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		app.fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		// Префикс APP_NAME уже добавляет клиент, адаптеру остается только уровень
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(app.fluentClient, "", parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			app.fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	app.logger = baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger.Debug("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	ctx := context.Background()

	// Долговременное хранилище: токен, пользователь, фильтры
	var persistedStorage port.ClientStoragePort
	if appConfig.Postgres.DatabaseURL != "" {
		app.dbPool, err = postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:     appConfig.Postgres.DatabaseURL,
			ApplicationName: appConfig.AppName,
		})
		if err != nil {
			app.logger.Error("Failed to connect to postgres", err, nil)
			app.close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		pgStorage, err := postgres_adapter.NewPostgresClientStorage(app.dbPool)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to create postgres client storage: %w", err)
		}
		if err := pgStorage.EnsureSchema(ctx); err != nil {
			app.logger.Error("Failed to prepare client storage schema", err, nil)
			app.close()
			return nil, err
		}
		persistedStorage = pgStorage
		app.logger.Info("Persistent client storage: postgres", nil)
	} else {
		memStorage := memory.NewClientStorage(0)
		app.sweepers = append(app.sweepers, memStorage)
		persistedStorage = memStorage
		app.logger.Warn("DATABASE_URL is not set, persistent client storage is in-memory", nil)
	}

	// Хранилище на время вкладки: позиция прокрутки
	var sessionStorage port.ClientStoragePort
	if appConfig.Redis.Addr != "" {
		app.redisClient, err = redispkg.NewClient(ctx, redispkg.Config{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if err != nil {
			app.logger.Error("Failed to connect to redis", err, nil)
			app.close()
			return nil, err
		}
		sessionStorage = redis_adapter.NewRedisClientStorage(app.redisClient, appConfig.Session.ScrollTTL)
		app.logger.Info("Session client storage: redis", nil)
	} else {
		memStorage := memory.NewClientStorage(appConfig.Session.ScrollTTL)
		app.sweepers = append(app.sweepers, memStorage)
		sessionStorage = memStorage
		app.logger.Warn("REDIS_ADDR is not set, session client storage is in-memory", nil)
	}

	// События активности - только если настроен брокер
	var activityPublisher port.ActivityPublisherPort
	if appConfig.RabbitMQ.URL != "" {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		app.connManager, err = rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, connManagerBridge)
		if err != nil {
			app.logger.Error("Failed to connect to rabbitmq", err, nil)
			app.close()
			return nil, err
		}

		app.publisher, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName: appConfig.RabbitMQ.Exchange,
			ExchangeType: "topic",
			Durable:      true,
			Logger:       rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, app.connManager)
		if err != nil {
			app.logger.Error("Failed to create events publisher", err, nil)
			app.close()
			return nil, err
		}

		publisherAdapter, err := rabbitmq_adapter.NewActivityPublisherAdapter(app.publisher)
		if err != nil {
			app.close()
			return nil, err
		}
		activityPublisher = publisherAdapter
		app.logger.Info("Activity events enabled", port.Fields{"exchange": appConfig.RabbitMQ.Exchange})
	}

	api := xano_client.NewXanoAPIClient(appConfig.API.BaseURL, appConfig.API.AuthURL, newUpstreamHTTPClient())
	app.logger.Debug("Properties API client initialized", port.Fields{"base_url": appConfig.API.BaseURL})

	app.sessions = usecase.NewSessionRegistry(persistedStorage)

	handler := rest.NewListingSiteHandler(rest.UseCases{
		Login:           usecase.NewLoginUseCase(api, app.sessions, persistedStorage),
		Logout:          usecase.NewLogoutUseCase(app.sessions, persistedStorage),
		CurrentUser:     usecase.NewCurrentUserUseCase(app.sessions),
		Filters:         usecase.NewFilterStateUseCase(app.sessions, persistedStorage),
		Listing:         usecase.NewListingUseCase(api, app.sessions, activityPublisher, appConfig.API.DefaultPageSize),
		PropertyDetails: usecase.NewGetPropertyDetailsUseCase(api, app.sessions, activityPublisher, appConfig.API.FallbackEnabled),
		ScrollPosition:  usecase.NewScrollPositionUseCase(sessionStorage),
		Suggestions:     usecase.NewSuggestionsUseCase(api),
	})

	secret, err := sessionSecret(appConfig.Session.Secret, app.logger)
	if err != nil {
		app.close()
		return nil, err
	}
	sessionManager, err := rest.NewSessionManager(secret, appConfig.Session.TTL, appConfig.Session.CookieSecure)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	app.server = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Port,
		AllowedOrigins: appConfig.HTTP.AllowedOrigins,
	}, handler, sessionManager, baseLogger)

	return app, nil
}

// Run запускает приложение и управляет его жизненным циклом
func (a *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go a.runJanitor(janitorCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		a.logger.Debug("Listing site is shutting down...", port.Fields{"signal": sig.String()})
	case err := <-serverErr:
		if err != nil {
			a.close()
			return err
		}
	}

	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Stop(ctx); err != nil {
		a.logger.Error("REST server shutdown failed", err, nil)
	}

	a.close()
	a.logger.Info("Application shut down gracefully.", nil)
	return nil
}

// runJanitor выгружает неактивные сессии и чистит истекшие значения in-memory хранилищ
func (a *App) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := a.sessions.EvictIdle(a.idleEviction)
			swept := 0
			for _, s := range a.sweepers {
				swept += s.Sweep()
			}
			if evicted > 0 || swept > 0 {
				a.logger.Debug("Janitor pass finished", port.Fields{
					"evicted_sessions": evicted,
					"swept_values":     swept,
					"active_sessions":  a.sessions.Len(),
				})
			}
		}
	}
}

// close освобождает внешние ресурсы в порядке, обратном созданию
func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing events publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// newUpstreamHTTPClient без Timeout: запрос к API обрывается только отменой ctx
func newUpstreamHTTPClient() *http.Client {
	return &http.Client{}
}

// sessionSecret возвращает SESSION_SECRET или случайный ключ на время жизни процесса
func sessionSecret(configured string, logger port.LoggerPort) (string, error) {
	if configured != "" {
		return configured, nil
	}
	logger.Warn("SESSION_SECRET is not set, sessions will not survive restart", nil)
	return randomSecret()
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
