package cmd

import (
	"context"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
	"github.com/openshelf/shelfctl/internal/server"
	"github.com/openshelf/shelfctl/internal/server/handlers"
	"github.com/openshelf/shelfctl/pkg/folder"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP admin API",
	Long: `Run the admin API that exposes folder listings over HTTP.

Routes:
  GET /v1/buckets/{bucket}/folders?prefix=&subfolders=
  GET /health, /health/live, /health/ready, /health/startup
  GET /version

Examples:
  shelfctl serve
  shelfctl serve --host 0.0.0.0 --port 9090
  shelfctl serve --backend memory   # demo catalog, no store needed`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost    string
	servePort    int
	serveCatalog catalogFlags
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bind port (default from config)")
	serveCmd.Flags().StringVar(&serveCatalog.backend, "backend", "", "Catalog backend (postgres|s3|memory)")
	serveCmd.Flags().StringVar(&serveCatalog.dsn, "dsn", "", "Postgres connection string")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig

	cat, backend, err := openCatalog(ctx, cfg, serveCatalog)
	if err != nil {
		observability.ServerLogger.Error("Failed to open catalog", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to open catalog", err)
	}
	defer func() { _ = cat.Close() }()

	svc := folder.NewService(cat, folder.Options{
		Parallel:         cfg.Listing.Parallel,
		QueriesPerSecond: cfg.Listing.QueriesPerSecond,
		Logger:           observability.ServerLogger,
	})

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	handlers.InitHealthManager("shelfctl")
	handlers.RegisterHealthCheck("catalog", func(ctx context.Context) error {
		// Any round-trip verifies connectivity; the probed bucket does not
		// need to exist.
		_, err := cat.BucketExists(ctx, "healthcheck")
		return err
	})

	srv := server.New(host, port)
	srv.SetVersion(versionInfo.Version)
	srv.MountFolders(svc)

	observability.ServerLogger.Info("Starting admin server",
		zap.String("host", host),
		zap.Int("port", port),
		zap.String("backend", backend.String()),
	)

	return srv.Start(ctx, server.StartOptions{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
}
