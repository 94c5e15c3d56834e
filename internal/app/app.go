package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/internal/controller"
	"github.com/louismahl/got-companion/internal/playbacksync"
	connInmemory "github.com/louismahl/got-companion/internal/repository/connection/inmemory"
	playbackInmemory "github.com/louismahl/got-companion/internal/repository/playback/inmemory"
	playbackRedis "github.com/louismahl/got-companion/internal/repository/playback/redis"
	"github.com/louismahl/got-companion/internal/service/companion"
	"github.com/louismahl/got-companion/internal/storage"
	"github.com/louismahl/got-companion/pkg/ctxlogger"
	"github.com/louismahl/got-companion/pkg/redisclient"
)

const (
	SyncBackendRedis  = "redis"
	SyncBackendMemory = "memory"
)

type AppConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	LogLevel       string        `json:"log_level"`
	DataDir        string        `json:"data_dir"`
	DataURL        string        `json:"data_url"`
	VideoDir       string        `json:"video_dir"`
	VideoBucket    string        `json:"video_bucket"`
	VideoPrefix    string        `json:"video_prefix"`
	VideoURLExpiry time.Duration `json:"video_url_expiry"`
	S3Endpoint     string        `json:"s3_endpoint"`
	S3Region       string        `json:"s3_region"`
	S3AccessKey    string        `json:"-"`
	S3SecretKey    string        `json:"-"`
	SyncBackend    string        `json:"sync_backend"`
	SyncThrottle   time.Duration `json:"sync_throttle"`
	RedisPort      int           `json:"redis_port"`
	RedisHost      string        `json:"redis_host"`
	RedisPassword  string        `json:"-"`
	RedisDB        int           `json:"redis_db"`
	AllowedOrigins []string      `json:"allowed_origins"`
}

func (cfg *AppConfig) Validate() error {
	var errs []error

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535"))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", cfg.LogLevel))
	}
	if (cfg.DataDir == "") == (cfg.DataURL == "") {
		errs = append(errs, fmt.Errorf("exactly one of data dir and data url must be set"))
	}
	if cfg.VideoDir != "" && cfg.VideoBucket != "" {
		errs = append(errs, fmt.Errorf("video dir and video bucket are mutually exclusive"))
	}
	if !slices.Contains([]string{SyncBackendRedis, SyncBackendMemory}, cfg.SyncBackend) {
		errs = append(errs, fmt.Errorf("sync backend must be %q or %q", SyncBackendRedis, SyncBackendMemory))
	}
	if cfg.SyncThrottle < 0 {
		errs = append(errs, fmt.Errorf("sync throttle must not be negative"))
	}

	return errors.Join(errs...)
}

func newLogger(cfg *AppConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h)
}

type connLister interface {
	Conns() []*websocket.Conn
}

type components struct {
	handler  http.Handler
	connRepo connLister
	closers  []func() error
}

func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newStore(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (playbacksync.Store, func() error, error) {
	if cfg.SyncBackend == SyncBackendMemory {
		return playbackInmemory.NewRepo(), func() error { return nil }, nil
	}

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return playbackRedis.NewRepo(rc, logger), rc.Close, nil
}

func newSource(cfg *AppConfig) (catalog.Source, error) {
	if cfg.DataDir != "" {
		return catalog.NewDirSource(cfg.DataDir), nil
	}

	return catalog.NewHTTPSource(cfg.DataURL, &http.Client{})
}

func newVideoStore(ctx context.Context, cfg *AppConfig) (storage.VideoStore, error) {
	switch {
	case cfg.VideoBucket != "":
		return storage.NewS3(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.VideoBucket,
			Prefix:    cfg.VideoPrefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			URLExpiry: cfg.VideoURLExpiry,
		})
	case cfg.VideoDir != "":
		return storage.NewLocal(cfg.VideoDir), nil
	default:
		return nil, nil
	}
}

func build(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (*components, error) {
	c := &components{}

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeStore)

	source, err := newSource(cfg)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	videoStore, err := newVideoStore(ctx, cfg)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to create video store: %w", err)
	}

	connectionRepo := connInmemory.NewRepo(logger)
	companionService := companion.NewService(
		catalog.NewLoader(source, logger),
		store,
		connectionRepo,
		cfg.SyncThrottle,
		logger,
	)

	// A failed load leaves the server up; data endpoints answer 503 until a
	// reload succeeds.
	if _, err := companionService.ReloadCatalog(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to load catalog", "error", err)
	}

	controller := controller.NewController(&controller.Params{
		CompanionService: companionService,
		VideoStore:       videoStore,
		DataDir:          cfg.DataDir,
		AllowedOrigins:   cfg.AllowedOrigins,
		Logger:           logger,
	})
	c.handler = controller.GetMux()
	c.connRepo = connectionRepo

	return c, nil
}

func closeConns(conns []*websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		conn.Close()
	}
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logger := newLogger(cfg)

	comps, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.close()

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: comps.handler}
	server.RegisterOnShutdown(func() {
		closeConns(comps.connRepo.Conns())
	})

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
