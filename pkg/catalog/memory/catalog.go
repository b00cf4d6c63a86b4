// Package memory implements an in-memory catalog backend.
//
// The memory catalog backs unit tests and the demo mode of the admin
// server. It holds the full key set per bucket and answers the count
// queries by scanning, which keeps it a faithful reference for the
// direct-member semantics the real backends must match.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// Catalog is an in-memory catalog keyed by bucket name.
//
// Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	buckets map[string][]catalog.KeyInfo
}

// Compile-time checks for the capability interfaces.
var (
	_ catalog.Catalog      = (*Catalog)(nil)
	_ catalog.BucketLister = (*Catalog)(nil)
)

// New creates an empty in-memory catalog.
func New() *Catalog {
	return &Catalog{buckets: make(map[string][]catalog.KeyInfo)}
}

// CreateBucket registers a bucket. Creating an existing bucket is a no-op.
func (c *Catalog) CreateBucket(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.buckets[name]; !ok {
		c.buckets[name] = nil
	}
}

// PutKey records a key in a bucket, creating the bucket if needed.
// size may be nil to model rows without size metadata.
func (c *Catalog) PutKey(bucket, key string, size *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buckets[bucket] = append(c.buckets[bucket], catalog.KeyInfo{Key: key, SizeBytes: size})
}

// BucketExists reports whether the named bucket exists.
func (c *Catalog) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.buckets[bucket]
	return ok, nil
}

// ListKeys returns the bucket's keys under prefix in lexicographic order.
func (c *Catalog) ListKeys(ctx context.Context, bucket, prefix string) ([]catalog.KeyInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, err := c.bucketKeys(bucket, "ListKeys")
	if err != nil {
		return nil, err
	}

	out := make([]catalog.KeyInfo, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k.Key, prefix) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// CountDirect counts objects directly under folderPath and sums their sizes.
func (c *Catalog) CountDirect(ctx context.Context, bucket, folderPath string) (catalog.DirectCounts, error) {
	if err := ctx.Err(); err != nil {
		return catalog.DirectCounts{}, err
	}

	keys, err := c.bucketKeys(bucket, "CountDirect")
	if err != nil {
		return catalog.DirectCounts{}, err
	}

	var counts catalog.DirectCounts
	for _, k := range keys {
		if !strings.HasPrefix(k.Key, folderPath) {
			continue
		}
		rest := k.Key[len(folderPath):]
		if strings.Contains(rest, "/") {
			continue
		}
		counts.FileCount++
		counts.TotalSize += k.Size()
	}

	return counts, nil
}

// CountImmediateSubfolders counts distinct immediate child folders under folderPath.
func (c *Catalog) CountImmediateSubfolders(ctx context.Context, bucket, folderPath string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	keys, err := c.bucketKeys(bucket, "CountImmediateSubfolders")
	if err != nil {
		return 0, err
	}

	children := make(map[string]struct{})
	for _, k := range keys {
		if !strings.HasPrefix(k.Key, folderPath) {
			continue
		}
		rest := k.Key[len(folderPath):]
		idx := strings.Index(rest, "/")
		if idx < 0 {
			continue
		}
		children[rest[:idx]] = struct{}{}
	}

	return int64(len(children)), nil
}

// ListBuckets returns all buckets with aggregate stats, sorted by name.
func (c *Catalog) ListBuckets(ctx context.Context) ([]catalog.BucketSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]catalog.BucketSummary, 0, len(c.buckets))
	for name, keys := range c.buckets {
		sum := catalog.BucketSummary{Name: name}
		for _, k := range keys {
			sum.ObjectCount++
			sum.TotalSize += k.Size()
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	return summaries, nil
}

// Close releases nothing; it satisfies the interface.
func (c *Catalog) Close() error {
	return nil
}

func (c *Catalog) bucketKeys(bucket, op string) ([]catalog.KeyInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, ok := c.buckets[bucket]
	if !ok {
		return nil, &catalog.CatalogError{
			Op:      op,
			Backend: catalog.BackendMemory,
			Bucket:  bucket,
			Err:     catalog.ErrBucketNotFound,
		}
	}
	return keys, nil
}
