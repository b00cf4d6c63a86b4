package cmd

import (
	"context"
	"fmt"

	"github.com/openshelf/shelfctl/internal/config"
	"github.com/openshelf/shelfctl/pkg/catalog"
	"github.com/openshelf/shelfctl/pkg/catalog/memory"
	"github.com/openshelf/shelfctl/pkg/catalog/postgres"
	"github.com/openshelf/shelfctl/pkg/catalog/s3"
)

// catalogFlags are the per-command backend overrides. Flag values take
// precedence over the config file.
type catalogFlags struct {
	backend     string
	dsn         string
	s3Region    string
	s3Endpoint  string
	s3Profile   string
	s3PathStyle bool
}

// openCatalog builds the catalog selected by flags and config.
func openCatalog(ctx context.Context, cfg *config.Config, flags catalogFlags) (catalog.Catalog, catalog.BackendType, error) {
	cc := cfg.Catalog

	backend := cc.Backend
	if flags.backend != "" {
		backend = flags.backend
	}
	if flags.dsn != "" {
		cc.DSN = flags.dsn
	}
	if flags.s3Region != "" {
		cc.S3Region = flags.s3Region
	}
	if flags.s3Endpoint != "" {
		cc.S3Endpoint = flags.s3Endpoint
	}
	if flags.s3Profile != "" {
		cc.S3Profile = flags.s3Profile
	}
	if flags.s3PathStyle {
		cc.S3ForcePathStyle = true
	}

	switch catalog.BackendType(backend) {
	case catalog.BackendPostgres:
		cat, err := postgres.Open(ctx, postgres.Config{
			DSN:          cc.DSN,
			MaxOpenConns: cc.MaxOpenConns,
		})
		if err != nil {
			return nil, catalog.BackendPostgres, err
		}
		return cat, catalog.BackendPostgres, nil

	case catalog.BackendS3:
		cat, err := s3.New(ctx, s3.Config{
			Region:         cc.S3Region,
			Endpoint:       cc.S3Endpoint,
			Profile:        cc.S3Profile,
			ForcePathStyle: cc.S3ForcePathStyle,
		})
		if err != nil {
			return nil, catalog.BackendS3, err
		}
		return cat, catalog.BackendS3, nil

	case catalog.BackendMemory:
		return demoCatalog(), catalog.BackendMemory, nil

	default:
		return nil, "", fmt.Errorf("unknown catalog backend %q", backend)
	}
}

// demoCatalog seeds a small in-memory catalog for trying the tool without a
// store.
func demoCatalog() *memory.Catalog {
	cat := memory.New()
	cat.CreateBucket("demo")

	put := func(key string, size int64) {
		cat.PutKey("demo", key, &size)
	}
	put("readme.md", 512)
	put("media/banner.png", 204800)
	put("media/video/intro.mp4", 10485760)
	put("media/video/outro.mp4", 8388608)
	put("docs/guide.pdf", 1048576)
	put("docs/archive/2024/notes.txt", 2048)

	return cat
}
