package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file base name (shelfctl.yaml).
const FileName = "shelfctl"

// envPrefix namespaces environment overrides (SHELFCTL_SERVER_PORT etc).
const envPrefix = "SHELFCTL"

// Load resolves the configuration from defaults, config file, environment,
// and explicit overrides.
//
// A missing config file is not an error; everything has a default. A
// malformed config file is.
func Load(ctx context.Context, overrides map[string]any) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "shelfctl"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the built-in defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("catalog.backend", "postgres")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.max_open_conns", 10)
	v.SetDefault("catalog.s3_region", "")
	v.SetDefault("catalog.s3_endpoint", "")
	v.SetDefault("catalog.s3_profile", "")
	v.SetDefault("catalog.s3_force_path_style", false)

	v.SetDefault("listing.parallel", 8)
	v.SetDefault("listing.queries_per_second", 0.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// WriteDefault writes a commented starter config file at path.
//
// Fails if the file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg, err := Load(context.Background(), nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	header := []byte("# shelfctl configuration\n# Values here are overridden by SHELFCTL_* environment variables.\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
