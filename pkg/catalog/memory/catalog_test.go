package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

func sizep(v int64) *int64 { return &v }

func seed(t *testing.T) *Catalog {
	t.Helper()

	c := New()
	c.CreateBucket("docs")
	c.PutKey("docs", "a/b.txt", sizep(100))
	c.PutKey("docs", "a/c/d.txt", sizep(200))
	c.PutKey("docs", "e.txt", sizep(50))
	return c
}

func TestBucketExists(t *testing.T) {
	ctx := context.Background()
	c := seed(t)

	ok, err := c.BucketExists(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.BucketExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()
	c := seed(t)

	keys, err := c.ListKeys(ctx, "docs", "")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "a/b.txt", keys[0].Key)
	assert.Equal(t, "a/c/d.txt", keys[1].Key)
	assert.Equal(t, "e.txt", keys[2].Key)

	keys, err = c.ListKeys(ctx, "docs", "a/c/")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "a/c/d.txt", keys[0].Key)
}

func TestListKeys_MissingBucket(t *testing.T) {
	ctx := context.Background()
	c := seed(t)

	_, err := c.ListKeys(ctx, "missing", "")
	require.Error(t, err)
	assert.True(t, catalog.IsBucketNotFound(err))
}

func TestCountDirect(t *testing.T) {
	ctx := context.Background()
	c := seed(t)

	counts, err := c.CountDirect(ctx, "docs", "a/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.FileCount)
	assert.Equal(t, int64(100), counts.TotalSize)

	counts, err = c.CountDirect(ctx, "docs", "a/c/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.FileCount)
	assert.Equal(t, int64(200), counts.TotalSize)
}

func TestCountDirect_NilSize(t *testing.T) {
	ctx := context.Background()

	c := New()
	c.PutKey("docs", "a/unknown.bin", nil)
	c.PutKey("docs", "a/known.bin", sizep(7))

	counts, err := c.CountDirect(ctx, "docs", "a/")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.FileCount)
	assert.Equal(t, int64(7), counts.TotalSize)
}

func TestCountImmediateSubfolders(t *testing.T) {
	ctx := context.Background()

	c := New()
	c.CreateBucket("docs")
	c.PutKey("docs", "a/b.txt", sizep(1))
	c.PutKey("docs", "a/c/d.txt", sizep(1))
	c.PutKey("docs", "a/c/e.txt", sizep(1))
	c.PutKey("docs", "a/f/g/h.txt", sizep(1))

	n, err := c.CountImmediateSubfolders(ctx, "docs", "a/")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = c.CountImmediateSubfolders(ctx, "docs", "a/c/")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestListBuckets(t *testing.T) {
	ctx := context.Background()

	c := New()
	c.PutKey("zeta", "x.txt", sizep(10))
	c.PutKey("alpha", "y.txt", sizep(20))
	c.PutKey("alpha", "z.txt", sizep(30))

	summaries, err := c.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "alpha", summaries[0].Name)
	assert.Equal(t, int64(2), summaries[0].ObjectCount)
	assert.Equal(t, int64(50), summaries[0].TotalSize)
	assert.Equal(t, "zeta", summaries[1].Name)
}

func TestContextCancellation(t *testing.T) {
	c := seed(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListKeys(ctx, "docs", "")
	assert.ErrorIs(t, err, context.Canceled)
}
