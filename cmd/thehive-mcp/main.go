package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hivebridge/thehive-mcp/internal/audit"
	"github.com/hivebridge/thehive-mcp/internal/config"
	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
	"github.com/hivebridge/thehive-mcp/internal/server"
	"github.com/hivebridge/thehive-mcp/internal/tools"
)

func main() {
	transport := flag.String("transport", "stdio", "transport to serve on: stdio or sse")
	modules := flag.String("modules", "", "comma-separated tool modules to expose (default: all)")
	listen := flag.String("listen", "", "listen address for the sse transport (default: THEHIVE_MCP_SSE_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// On stdio the protocol owns stdout, so all logging goes to stderr.
	logger := mustBuildLogger(cfg.LogLevel, *transport == "stdio")
	defer logger.Sync() //nolint:errcheck // best-effort flush

	logger.Info("starting thehive mcp server",
		zap.String("version", server.Version),
		zap.String("transport", *transport),
		zap.String("hive_url", cfg.HiveURL),
		zap.Int("bulk_workers", cfg.BulkWorkers),
	)

	client := hive.NewClient(hive.Config{
		BaseURL:       cfg.HiveURL,
		APIKey:        cfg.HiveAPIKey,
		Timeout:       cfg.RequestTimeout,
		VerifyTLS:     cfg.VerifyTLS,
		RetryAttempts: cfg.RetryAttempts,
		RetryBackoff:  cfg.RetryBackoff,
		Logger:        logger,
	})

	// Audit — ClickHouse, Postgres, or log fallback
	var writer audit.EventWriter
	switch {
	case cfg.ClickHouseDSN != "":
		chWriter, err := audit.NewClickHouseWriter(cfg.ClickHouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = audit.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse audit writer connected")
		}
	case cfg.PostgresDSN != "":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to open postgres", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		pgWriter, err := audit.NewPostgresWriter(db, logger)
		if err != nil {
			logger.Fatal("failed to ping postgres", zap.Error(err))
		}
		writer = pgWriter
		logger.Info("postgres audit writer connected")
	default:
		writer = audit.NewLogWriter(logger)
		logger.Info("no audit DSN set, using log writer")
	}
	defer writer.Close()

	defs, err := tools.Definitions(client, cfg.BulkWorkers, splitModules(*modules))
	if err != nil {
		logger.Fatal("failed to build tool catalog", zap.Error(err))
	}

	reg := registry.New()
	if err := reg.RegisterAll(defs); err != nil {
		logger.Fatal("failed to register tools", zap.Error(err))
	}

	d := dispatch.New(reg, writer, logger)
	srv := server.New(reg, d, logger)

	switch *transport {
	case "stdio":
		if err := srv.ServeStdio(); err != nil {
			logger.Fatal("stdio server failed", zap.Error(err))
		}
	case "sse":
		addr := *listen
		if addr == "" {
			addr = cfg.SSEAddr
		}
		// On signal, stop the listener so main returns and the deferred
		// writer.Close drains the audit buffers.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("sse shutdown failed", zap.Error(err))
			}
		}()
		if err := srv.ServeSSE(addr); err != nil {
			logger.Fatal("sse server failed", zap.Error(err))
		}
	default:
		logger.Fatal("unknown transport", zap.String("transport", *transport))
	}
}

func splitModules(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mustBuildLogger(level string, stderrOnly bool) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	output := []string{"stdout"}
	if stderrOnly {
		output = []string{"stderr"}
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      output,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}
