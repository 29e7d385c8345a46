package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/logging"
	"github.com/Bigsy/brandcloud-mcp/internal/metrics"
	"github.com/Bigsy/brandcloud-mcp/internal/server"
	"github.com/Bigsy/brandcloud-mcp/internal/storage"
)

var (
	serveHTTP      bool
	serveHost      string
	servePort      int
	serveLogLevel  string
	serveLogFormat string
	serveReadOnly  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an MCP server",
	Long: `Run the BrandCloud MCP server.

Over stdio (the default) the API key comes from BRANDCLOUD_API_KEY or the
credential saved with 'brandcloud-mcp auth login'. Configure in an MCP client:

  {
    "brandcloud": {
      "command": "brandcloud-mcp",
      "args": ["serve", "--stdio"],
      "env": {"BRANDCLOUD_DOMAIN": "acme"}
    }
  }

With --http every request must carry its own key in the
x-brandcloud-api-key header; the configured key is never used.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("stdio", false, "Use stdio transport (default)")
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "Serve streamable HTTP on /mcp instead of stdio")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to listen on with --http (default: all)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on with --http (default: PORT or 3001)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "json", "Log format (json, console)")
	serveCmd.Flags().BoolVar(&serveReadOnly, "read-only", false, "Only expose tools that do not modify BrandCloud")
	serveCmd.MarkFlagsMutuallyExclusive("stdio", "http")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logging.Options{Level: serveLogLevel, Format: serveLogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveReadOnly {
		cfg.ReadOnly = true
	}
	for _, w := range cfg.Warnings {
		logger.Warn("config warning", zap.String("warning", w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()
	opts := brandcloud.Options{
		APIHost:  cfg.APIHost,
		Timeout:  cfg.Timeout(),
		Policy:   cfg.Policy(),
		Logger:   logger,
		Observer: collector,
	}
	if cfg.MirrorEnabled() {
		mirror, err := storage.NewS3Mirror(ctx, cfg.S3(), logger)
		if err != nil {
			return fmt.Errorf("failed to configure download mirror: %w", err)
		}
		opts.Mirror = mirror
	}

	srv, err := server.New(server.Options{
		Config:        cfg,
		Client:        brandcloud.NewClient(opts),
		Metrics:       collector,
		Logger:        logger,
		ServerVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("brandcloud-mcp starting",
		zap.String("version", version),
		zap.String("domain", cfg.Domain),
		zap.String("api_key_source", cfg.APIKeySource),
		zap.Bool("http", serveHTTP))

	if serveHTTP {
		port := servePort
		if port == 0 {
			port = cfg.ListenPort()
		}
		err = srv.ServeHTTP(ctx, net.JoinHostPort(serveHost, strconv.Itoa(port)))
	} else {
		err = srv.RunStdio(ctx)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("brandcloud-mcp exiting")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
