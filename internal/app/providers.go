package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"meetscribe/internal/api/server"
	v1routes "meetscribe/internal/api/v1/routes"
	"meetscribe/internal/app/auth"
	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/engine/httpengine"
	"meetscribe/internal/app/engine/whisperengine"
	"meetscribe/internal/app/importer"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/repository"
	"meetscribe/internal/app/repository/pg"
	"meetscribe/internal/app/repository/sqlite"
	"meetscribe/internal/app/retention"
	"meetscribe/internal/app/transcription"
	"meetscribe/internal/app/upload"
	"meetscribe/internal/config"
)

// Application bundles everything a running process needs.
type Application struct {
	Config    *config.Config
	Server    *server.Server
	Poller    *transcription.Poller
	Retention *retention.Manager
	Metrics   *metrics.Pipeline
	Logger    *slog.Logger
}

// Repositories groups the persistence layer behind one provider so the
// sqlite/postgres switch happens in a single place.
type Repositories struct {
	Jobs      repository.TranscriptionJobRepository
	Meetings  repository.MeetingRepository
	Decisions repository.DecisionRepository
	Actions   repository.ActionItemRepository
	Projects  repository.ProjectRepository
}

func ProvideLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideMetrics(registry *prometheus.Registry) *metrics.Pipeline {
	return metrics.NewPipeline(registry)
}

// ProvideDB opens the configured database and runs the schema.
func ProvideDB(cfg *config.Config) (*sql.DB, func(), error) {
	var db *sql.DB
	var err error
	switch cfg.Database {
	case "postgres":
		db, err = pg.Open(cfg.PostgresDSN)
	case "sqlite":
		db, err = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("unknown database %q (want sqlite or postgres)", cfg.Database)
	}
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

func ProvideRepositories(cfg *config.Config, db *sql.DB) *Repositories {
	if cfg.Database == "postgres" {
		return &Repositories{
			Jobs:      pg.NewJobRepository(db),
			Meetings:  pg.NewMeetingRepository(db),
			Decisions: pg.NewDecisionRepository(db),
			Actions:   pg.NewActionItemRepository(db),
			Projects:  pg.NewProjectRepository(db),
		}
	}
	return &Repositories{
		Jobs:      sqlite.NewJobRepository(db),
		Meetings:  sqlite.NewMeetingRepository(db),
		Decisions: sqlite.NewDecisionRepository(db),
		Actions:   sqlite.NewActionItemRepository(db),
		Projects:  sqlite.NewProjectRepository(db),
	}
}

// ProvideEngine builds the transcription engine adapter selected by
// SCRIBE_ENGINE.
func ProvideEngine(cfg *config.Config) (engine.Engine, error) {
	switch cfg.Engine {
	case "http":
		engineCfg, err := config.LoadEngineConfig(cfg.EngineConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load engine config: %w", err)
		}
		return httpengine.New(httpengine.Config{
			BaseURL:    engineCfg.BaseURL,
			SubmitPath: engineCfg.SubmitPath,
			JobPath:    engineCfg.JobPath,
			APIKey:     engineCfg.APIKey,
			Timeout:    engineCfg.Timeout(),
			Language:   engineCfg.Language,
			Headers:    engineCfg.Headers,
		}), nil
	case "whisper":
		return whisperengine.NewFromToken(cfg.OpenAIAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want http or whisper)", cfg.Engine)
	}
}

// ProvideStorage builds the deferred-upload backend. Without a MinIO
// endpoint the service is nil and only inline uploads work.
func ProvideStorage(cfg *config.Config, logger *slog.Logger) (upload.StorageService, func(), error) {
	if cfg.MinioEndpoint == "" {
		logger.Info("no MINIO_ENDPOINT configured, deferred uploads disabled")
		return nil, func() {}, nil
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	} else {
		logger.Warn("no REDIS_ADDR configured, upload credentials are only time-bounded")
	}

	storage, err := upload.NewMinioStorageService(context.Background(), upload.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, redisClient, logger)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}
	return storage, cleanup, nil
}

func ProvideSelector(cfg *config.Config) upload.Selector {
	return upload.NewSelector(cfg.InlineLimit)
}

func ProvideAccessChecker(repos *Repositories) auth.AccessChecker {
	return auth.NewRepositoryAccessChecker(repos.Meetings, repos.Projects)
}

func ProvideTranscriptionManager(
	repos *Repositories,
	access auth.AccessChecker,
	eng engine.Engine,
	storage upload.StorageService,
	selector upload.Selector,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *transcription.Manager {
	return transcription.NewManager(repos.Jobs, access, eng, storage, selector, m, logger)
}

func ProvidePoller(
	cfg *config.Config,
	repos *Repositories,
	eng engine.Engine,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *transcription.Poller {
	return transcription.NewPoller(repos.Jobs, eng, cfg.PollInterval, m, logger)
}

func ProvideRetentionManager(
	repos *Repositories,
	access auth.AccessChecker,
	storage upload.StorageService,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *retention.Manager {
	return retention.NewManager(repos.Jobs, access, storage, m, logger)
}

func ProvideImporter(repos *Repositories, logger *slog.Logger) *importer.Importer {
	return importer.New(repos.Meetings, repos.Decisions, repos.Actions, repos.Projects, logger)
}

func ProvideServiceContainer(
	manager *transcription.Manager,
	retentionManager *retention.Manager,
	imp *importer.Importer,
	storage upload.StorageService,
	m *metrics.Pipeline,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		TranscriptionManager: manager,
		RetentionManager:     retentionManager,
		Importer:             imp,
		Storage:              storage,
		Metrics:              m,
	}
}

func ProvideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		Environment:  cfg.Environment,
	}
}

func ProvideServer(
	serverCfg server.Config,
	container *v1routes.ServiceContainer,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *server.Server {
	return server.NewServer(serverCfg, container, registry, logger)
}
