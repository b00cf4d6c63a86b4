// Package folder derives virtual folder hierarchies from a flat key namespace.
//
// Objects in the store are flat rows keyed by slash-delimited strings; no
// directory structure exists on disk or in the catalog. This package
// reconstructs the implied folder tree on every request: path derivation
// (DerivePaths), shallow filtering (RetainShallow), per-folder aggregation
// (Aggregator), and human-readable size rendering (FormatSize), orchestrated
// by Service.ListFolders. Nothing here is cached or persisted - every call
// recomputes from the catalog's current state.
package folder

import (
	"sort"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// DerivePaths returns the deduplicated, lexicographically sorted set of
// folder paths implied by the given keys.
//
// For each key, every non-empty proper prefix ending on a slash boundary is
// a folder. The trailing component after the last slash is a leaf and
// contributes nothing, so a key with no slash (a root-level file) implies no
// folder at all. A zero-byte marker object whose key itself ends in "/"
// still implies its own folder. The empty path is never emitted.
func DerivePaths(keys []catalog.KeyInfo) []string {
	set := make(map[string]struct{})

	for _, k := range keys {
		indexKey(k.Key, set)
	}

	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// indexKey adds every ancestor folder of key to set.
func indexKey(key string, set map[string]struct{}) {
	// Walk the key left to right, emitting the accumulated path at each
	// slash. This covers marker keys ("a/b/") the same as leaf keys
	// ("a/b/c.txt"): everything up to and including each slash is a folder.
	for i := 0; i < len(key); i++ {
		if key[i] != '/' {
			continue
		}
		if i == 0 {
			// A leading slash would imply the empty folder name; skip it.
			continue
		}
		set[key[:i+1]] = struct{}{}
	}
}
