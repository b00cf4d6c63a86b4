package folder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

func keysOf(names ...string) []catalog.KeyInfo {
	keys := make([]catalog.KeyInfo, 0, len(names))
	for _, n := range names {
		keys = append(keys, catalog.KeyInfo{Key: n})
	}
	return keys
}

func TestDerivePaths(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{
			name: "single nested key emits every ancestor",
			keys: []string{"a/b/c/file.txt"},
			want: []string{"a/", "a/b/", "a/b/c/"},
		},
		{
			name: "root level file contributes no folder",
			keys: []string{"file.txt"},
			want: []string{},
		},
		{
			name: "shared ancestors deduplicate",
			keys: []string{"a/b.txt", "a/c/d.txt", "e.txt"},
			want: []string{"a/", "a/c/"},
		},
		{
			name: "marker object implies its own folder",
			keys: []string{"a/b/"},
			want: []string{"a/", "a/b/"},
		},
		{
			name: "empty input",
			keys: nil,
			want: []string{},
		},
		{
			name: "duplicate keys",
			keys: []string{"x/y.txt", "x/y.txt"},
			want: []string{"x/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePaths(keysOf(tt.keys...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivePaths_Sorted(t *testing.T) {
	got := DerivePaths(keysOf("z/file", "a/file", "m/n/file"))
	require.Equal(t, []string{"a/", "m/", "m/n/", "z/"}, got)
}

func TestDerivePaths_Completeness(t *testing.T) {
	keys := []string{
		"logs/2025/01/app.log",
		"logs/2025/02/app.log",
		"media/img/banner.png",
		"top.txt",
	}

	got := DerivePaths(keysOf(keys...))

	// Every emitted path is a proper ancestor of at least one input key.
	for _, p := range got {
		assert.True(t, strings.HasSuffix(p, "/"), "path %q must end in /", p)
		found := false
		for _, k := range keys {
			if strings.HasPrefix(k, p) && len(k) > len(p) {
				found = true
				break
			}
		}
		assert.True(t, found, "path %q is not an ancestor of any key", p)
	}

	// Every implied ancestor is present.
	require.Equal(t, []string{
		"logs/", "logs/2025/", "logs/2025/01/", "logs/2025/02/",
		"media/", "media/img/",
	}, got)
}

func TestDerivePaths_NeverEmitsEmptyPath(t *testing.T) {
	got := DerivePaths(keysOf("", "/", "/leading/slash.txt"))
	for _, p := range got {
		assert.NotEmpty(t, p)
		assert.NotEqual(t, "/", p)
	}
}
