package folder

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// Listing is the complete response for one folder enumeration.
type Listing struct {
	// Bucket is the bucket that was listed.
	Bucket string `json:"bucket"`

	// Prefix is the caller-supplied scope, echoed back verbatim.
	Prefix string `json:"prefix"`

	// Count is len(Folders).
	Count int `json:"count"`

	// Folders holds per-folder stats in byte-wise lexicographic path order.
	Folders []Stats `json:"folders"`
}

// Options configures a Service.
type Options struct {
	// Parallel bounds concurrent per-folder stat queries.
	// Values below 1 use DefaultParallel.
	Parallel int

	// QueriesPerSecond rate-limits catalog round-trips. Zero disables.
	QueriesPerSecond float64

	// Logger receives progress and failure logs. Nil uses zap.NewNop().
	Logger *zap.Logger
}

// Service derives and aggregates folder listings against one catalog.
//
// Service holds no per-request state and is safe for concurrent use.
// Results are ephemeral point-in-time views: nothing is cached between
// calls, and there is no consistency guarantee across the per-folder
// sub-queries beyond "observed during this request".
type Service struct {
	cat    catalog.Catalog
	agg    *Aggregator
	logger *zap.Logger
}

// NewService creates a folder listing service over the given catalog.
func NewService(cat catalog.Catalog, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cat:    cat,
		agg:    NewAggregator(cat, opts.Parallel, opts.QueriesPerSecond),
		logger: logger,
	}
}

// ListFolders enumerates the folders implied by the bucket's keys under
// prefix and attaches per-folder stats.
//
// With includeSubfolders the full transitive closure of implied folders is
// returned; without it the set is pruned to one tree level relative to
// prefix, which must then end on a "/" boundary (ErrPrefixNotBoundary
// otherwise). A missing bucket fails with catalog.ErrBucketNotFound. The
// call is all-or-nothing: any catalog failure fails the whole listing.
func (s *Service) ListFolders(ctx context.Context, bucket, prefix string, includeSubfolders bool) (*Listing, error) {
	if !includeSubfolders {
		if err := ValidateShallowPrefix(prefix); err != nil {
			return nil, err
		}
	}

	exists, err := s.cat.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &catalog.CatalogError{
			Op:     "ListFolders",
			Bucket: bucket,
			Err:    catalog.ErrBucketNotFound,
		}
	}

	keys, err := s.cat.ListKeys(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	paths := DerivePaths(keys)
	if !includeSubfolders {
		paths = FilterShallow(prefix, paths)
	}
	sort.Strings(paths)

	s.logger.Debug("Derived folder paths",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("keys", len(keys)),
		zap.Int("folders", len(paths)),
	)

	folders, err := s.agg.StatsForAll(ctx, bucket, paths)
	if err != nil {
		return nil, err
	}

	return &Listing{
		Bucket:  bucket,
		Prefix:  prefix,
		Count:   len(folders),
		Folders: folders,
	}, nil
}
