// Package observability holds the process-wide zap loggers.
//
// Commands log through CLILogger (console encoding, stderr) so stdout stays
// clean for JSONL and table output. The admin server logs through
// ServerLogger (JSON encoding).
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger for CLI commands. Defaults to a no-op until Init.
var CLILogger = zap.NewNop()

// ServerLogger is the logger for the admin server. Defaults to a no-op until Init.
var ServerLogger = zap.NewNop()

// Init configures both loggers.
//
// level is a zap level string ("debug", "info", "warn", "error"); unknown
// values fall back to info. format selects "console" or "json" encoding for
// the CLI logger; the server logger always uses JSON.
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cliCfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cliCfg = zap.NewProductionConfig()
	}
	cliCfg.Level = zap.NewAtomicLevelAt(lvl)
	cliCfg.OutputPaths = []string{"stderr"}
	cliCfg.ErrorOutputPaths = []string{"stderr"}

	cli, err := cliCfg.Build()
	if err != nil {
		return err
	}

	srvCfg := zap.NewProductionConfig()
	srvCfg.Level = zap.NewAtomicLevelAt(lvl)

	srv, err := srvCfg.Build()
	if err != nil {
		return err
	}

	CLILogger = cli
	ServerLogger = srv
	return nil
}

// Sync flushes both loggers. Safe to call on no-op loggers.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}
