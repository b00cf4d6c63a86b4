// Package cmd implements the shelfctl command tree.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/config"
	"github.com/openshelf/shelfctl/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "shelfctl",
	Short: "Storage administration for a Postgres-backed object store",
	Long: `shelfctl administers a Postgres-backed object store whose objects are
flat rows keyed by slash-delimited strings. Its core is the folder engine:
it derives the virtual folder tree implied by a bucket's keys on every
request and computes per-folder summary statistics, without the store ever
materializing a hierarchy.

Examples:
  shelfctl folders my-bucket
  shelfctl folders my-bucket --prefix logs/2025/ --no-subfolders
  shelfctl buckets
  shelfctl serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionInfo holds build-time version metadata.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build-time version metadata (set via ldflags in main).
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = version
}

var (
	rootLogLevel  string
	rootLogFormat string
)

// loadedConfig is the configuration resolved in the persistent pre-run.
var loadedConfig *config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "", "Log format (console|json)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context(), nil)
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to load configuration", err)
		}

		level := cfg.Logging.Level
		if rootLogLevel != "" {
			level = rootLogLevel
		}
		format := cfg.Logging.Format
		if rootLogFormat != "" {
			format = rootLogFormat
		}
		if err := observability.Init(level, format); err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to initialize logging", err)
		}

		loadedConfig = cfg
		return nil
	}
}

// cliError carries a foundry exit code alongside the underlying error.
type cliError struct {
	code foundry.ExitCode
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *cliError) Unwrap() error {
	return e.err
}

// exitError wraps an error with a message and a process exit code.
func exitError(code foundry.ExitCode, msg string, err error) error {
	return &cliError{code: code, msg: msg, err: err}
}

// Execute runs the root command and exits with the appropriate code.
func Execute(ctx context.Context) {
	defer observability.Sync()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	observability.CLILogger.Error("Command failed", zap.Error(err))
	fmt.Fprintf(os.Stderr, "shelfctl: %v\n", err)

	if ce, ok := err.(*cliError); ok {
		os.Exit(int(ce.code))
	}
	os.Exit(1)
}
