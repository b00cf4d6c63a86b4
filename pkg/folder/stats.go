package folder

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// Stats is the per-folder summary attached to each listing entry.
type Stats struct {
	// Path is the normalized folder path, always ending in "/".
	Path string `json:"path"`

	// FileCount is the number of objects directly under Path.
	FileCount int64 `json:"file_count"`

	// SubfolderCount is the number of folders exactly one component deeper.
	SubfolderCount int64 `json:"subfolder_count"`

	// TotalSize is the byte-sum of the direct objects.
	TotalSize int64 `json:"total_size"`

	// HumanReadableSize is TotalSize rendered by FormatSize.
	HumanReadableSize string `json:"human_readable_size"`
}

// DefaultParallel bounds concurrent per-folder stat queries when the caller
// does not configure a limit.
const DefaultParallel = 8

// Aggregator computes per-folder stats against a catalog.
//
// Each folder's stats are computed independently through the catalog's count
// queries, with no shared state between folders and no incremental reuse of
// overlapping listings. That recomputes more than strictly necessary, but
// stays correct when the catalog mutates between sub-queries.
type Aggregator struct {
	cat catalog.Catalog

	// parallel bounds the number of in-flight stat queries so a bucket
	// with many folders cannot saturate the catalog's connection pool.
	parallel int

	// limiter optionally rate-limits catalog round-trips. Nil means no limit.
	limiter *rate.Limiter
}

// NewAggregator creates an aggregator over the given catalog.
//
// parallel values below 1 fall back to DefaultParallel. queriesPerSecond
// <= 0 disables rate limiting.
func NewAggregator(cat catalog.Catalog, parallel int, queriesPerSecond float64) *Aggregator {
	if parallel < 1 {
		parallel = DefaultParallel
	}

	var limiter *rate.Limiter
	if queriesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(queriesPerSecond), 1)
	}

	return &Aggregator{cat: cat, parallel: parallel, limiter: limiter}
}

// StatsFor computes the stats for a single folder path.
func (a *Aggregator) StatsFor(ctx context.Context, bucket, path string) (Stats, error) {
	if err := a.wait(ctx); err != nil {
		return Stats{}, err
	}
	direct, err := a.cat.CountDirect(ctx, bucket, path)
	if err != nil {
		return Stats{}, err
	}

	if err := a.wait(ctx); err != nil {
		return Stats{}, err
	}
	subfolders, err := a.cat.CountImmediateSubfolders(ctx, bucket, path)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Path:              path,
		FileCount:         direct.FileCount,
		SubfolderCount:    subfolders,
		TotalSize:         direct.TotalSize,
		HumanReadableSize: FormatSize(direct.TotalSize),
	}, nil
}

// StatsForAll computes stats for every path, preserving input order.
//
// Folders are processed concurrently up to the configured bound. A failure
// on any single folder fails the whole call: the result is presented as one
// complete snapshot, never a partial one.
func (a *Aggregator) StatsForAll(ctx context.Context, bucket string, paths []string) ([]Stats, error) {
	results := make([]Stats, len(paths))

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	sem := make(chan struct{}, a.parallel)

	for i, p := range paths {
		idx, path := i, p
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			stats, err := a.StatsFor(ctx, bucket, path)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			results[idx] = stats
		}()
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// wait blocks on the rate limiter when one is configured.
func (a *Aggregator) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}
