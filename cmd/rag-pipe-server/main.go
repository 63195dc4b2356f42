package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rag-pipe/internal/dashboard"
	"rag-pipe/internal/handlers"
	"rag-pipe/pkg/config"
	"rag-pipe/pkg/ragpipe"
)

// version is set during build time via ldflags
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "Config file path (YAML or JSON)")
		dbPath      = flag.String("db", "", "Database path (overrides config)")
		host        = flag.String("host", "", "Server host (overrides config)")
		port        = flag.Int("port", 0, "Server port (overrides config)")
		chunkSize   = flag.Int("chunk-size", 0, "Chunk size in tokens (overrides config)")
		overlap     = flag.Int("chunk-overlap", -1, "Chunk overlap in tokens (overrides config)")
		noDashboard = flag.Bool("no-dashboard", false, "Disable the dashboard subprocess")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rag-pipe-server version %s\n", version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override with command line flags
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *chunkSize > 0 {
		cfg.Chunking.ChunkSize = *chunkSize
	}
	if *overlap >= 0 {
		cfg.Chunking.ChunkOverlap = *overlap
	}
	if *noDashboard {
		cfg.Dashboard.Enabled = false
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pipeline, err := ragpipe.New(&ragpipe.Config{
		DatabasePath: cfg.Database.Path,
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
		SplitterType: cfg.Chunking.SplitterType,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if err := pipeline.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	defer pipeline.Close()

	var dash *dashboard.Manager
	if cfg.Dashboard.Enabled {
		dash = dashboard.NewManager(cfg.Dashboard.Command, cfg.Dashboard.Args, logger)
		if err := dash.Start(); err != nil {
			return fmt.Errorf("failed to start dashboard: %w", err)
		}
	}

	handler := handlers.NewWithVersion(pipeline, logger, version)
	mux := http.NewServeMux()

	mux.Handle("/api/ingest", handler.Ingest())
	mux.Handle("/api/formats", handler.Formats())
	mux.Handle("/api/documents", handler.Documents())
	mux.Handle("/api/documents/", handler.DocumentRouter())
	mux.Handle("/api/health", handler.Health())
	mux.Handle("/api/metrics", handler.Metrics())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.LoggingMiddleware(logger)(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("version", version), zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if dash != nil {
		if err := dash.Stop(); err != nil {
			logger.Warn("failed to stop dashboard", zap.Error(err))
		}
	}

	return server.Shutdown(ctx)
}

func newLogger(cfg config.Logging) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
