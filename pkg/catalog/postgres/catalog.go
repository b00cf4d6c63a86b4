package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// Catalog implements catalog.Catalog over a Postgres object catalog.
type Catalog struct {
	db *sql.DB
}

// Compile-time checks for the capability interfaces.
var (
	_ catalog.Catalog      = (*Catalog)(nil)
	_ catalog.BucketLister = (*Catalog)(nil)
)

// Queries for the four capability operations.
//
// Prefix matching uses starts_with rather than LIKE so that "%" and "_" in
// caller-supplied prefixes stay literal. The direct-member predicate strips
// the folder path off the front of each name and asks whether any slash
// remains in the rest.
const (
	queryBucketExists = `SELECT EXISTS (SELECT 1 FROM storage.buckets WHERE name = $1)`

	queryListKeys = `SELECT o.name, o.size_bytes
		 FROM storage.objects o
		 JOIN storage.buckets b ON b.id = o.bucket_id
		 WHERE b.name = $1 AND starts_with(o.name, $2)
		 ORDER BY o.name`

	queryCountDirect = `SELECT COUNT(*), COALESCE(SUM(COALESCE(o.size_bytes, 0)), 0)
		 FROM storage.objects o
		 JOIN storage.buckets b ON b.id = o.bucket_id
		 WHERE b.name = $1
		   AND starts_with(o.name, $2)
		   AND strpos(substr(o.name, length($2) + 1), '/') = 0`

	queryCountSubfolders = `SELECT COUNT(DISTINCT split_part(substr(o.name, length($2) + 1), '/', 1))
		 FROM storage.objects o
		 JOIN storage.buckets b ON b.id = o.bucket_id
		 WHERE b.name = $1
		   AND starts_with(o.name, $2)
		   AND strpos(substr(o.name, length($2) + 1), '/') > 0`

	queryListBuckets = `SELECT b.name, COUNT(o.id), COALESCE(SUM(COALESCE(o.size_bytes, 0)), 0)
		 FROM storage.buckets b
		 LEFT JOIN storage.objects o ON o.bucket_id = b.id
		 GROUP BY b.name
		 ORDER BY b.name`
)

// BucketExists reports whether the named bucket exists.
func (c *Catalog) BucketExists(ctx context.Context, bucket string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx, queryBucketExists, bucket).Scan(&exists)
	if err != nil {
		return false, c.wrapError("BucketExists", bucket, "", err)
	}
	return exists, nil
}

// ListKeys returns the bucket's keys under prefix in lexicographic order.
func (c *Catalog) ListKeys(ctx context.Context, bucket, prefix string) ([]catalog.KeyInfo, error) {
	rows, err := c.db.QueryContext(ctx, queryListKeys, bucket, prefix)
	if err != nil {
		return nil, c.wrapError("ListKeys", bucket, prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var keys []catalog.KeyInfo
	for rows.Next() {
		var key catalog.KeyInfo
		var size sql.NullInt64

		if err := rows.Scan(&key.Key, &size); err != nil {
			return nil, c.wrapError("ListKeys", bucket, prefix, err)
		}
		if size.Valid {
			key.SizeBytes = &size.Int64
		}

		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrapError("ListKeys", bucket, prefix, err)
	}

	return keys, nil
}

// CountDirect counts objects directly under folderPath and sums their sizes.
func (c *Catalog) CountDirect(ctx context.Context, bucket, folderPath string) (catalog.DirectCounts, error) {
	var counts catalog.DirectCounts
	err := c.db.QueryRowContext(ctx, queryCountDirect, bucket, folderPath).
		Scan(&counts.FileCount, &counts.TotalSize)
	if err != nil {
		return catalog.DirectCounts{}, c.wrapError("CountDirect", bucket, folderPath, err)
	}
	return counts, nil
}

// CountImmediateSubfolders counts distinct immediate child folders under folderPath.
func (c *Catalog) CountImmediateSubfolders(ctx context.Context, bucket, folderPath string) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, queryCountSubfolders, bucket, folderPath).Scan(&count)
	if err != nil {
		return 0, c.wrapError("CountImmediateSubfolders", bucket, folderPath, err)
	}
	return count, nil
}

// ListBuckets returns all buckets with aggregate stats, sorted by name.
func (c *Catalog) ListBuckets(ctx context.Context) ([]catalog.BucketSummary, error) {
	rows, err := c.db.QueryContext(ctx, queryListBuckets)
	if err != nil {
		return nil, c.wrapError("ListBuckets", "", "", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []catalog.BucketSummary
	for rows.Next() {
		var sum catalog.BucketSummary
		if err := rows.Scan(&sum.Name, &sum.ObjectCount, &sum.TotalSize); err != nil {
			return nil, c.wrapError("ListBuckets", "", "", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrapError("ListBuckets", "", "", err)
	}

	return summaries, nil
}

// Close closes the underlying connection pool.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// wrapError converts query failures to catalog errors.
//
// Every database failure maps to ErrUnavailable: the catalog layer owns
// retry policy, so callers only need to know the capability was unreachable.
func (c *Catalog) wrapError(op, bucket, path string, err error) error {
	return &catalog.CatalogError{
		Op:      op,
		Backend: catalog.BackendPostgres,
		Bucket:  bucket,
		Path:    path,
		Err:     fmt.Errorf("%w: %v", catalog.ErrUnavailable, err),
	}
}
