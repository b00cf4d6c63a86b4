package folder

import (
	"errors"
	"strings"
)

// ErrPrefixNotBoundary is returned when shallow enumeration is requested
// with a prefix that does not end on a "/" component boundary. The shallow
// retention rule is only well-defined for boundary prefixes; mid-component
// prefixes are rejected rather than guessed at.
var ErrPrefixNotBoundary = errors.New("shallow listing requires a prefix ending in /")

// IsPrefixNotBoundary returns true if the error is ErrPrefixNotBoundary.
func IsPrefixNotBoundary(err error) bool {
	return errors.Is(err, ErrPrefixNotBoundary)
}

// RetainShallow reports whether folder path is kept when the caller asked
// for a single tree level relative to prefix.
//
// A path is retained iff it equals the prefix, does not start with the
// prefix at all, or is an immediate child of the prefix (the remainder
// after stripping the prefix contains no slash before its own trailing
// slash). This is a prefix-relative rule, not a global depth bound: paths
// outside the prefix pass through untouched.
func RetainShallow(prefix, path string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return true
	}

	rest := path[len(prefix):]
	return strings.Index(rest, "/") == len(rest)-1
}

// FilterShallow applies RetainShallow to a sorted path list, preserving order.
func FilterShallow(prefix string, paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if RetainShallow(prefix, p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ValidateShallowPrefix rejects prefixes the shallow rule cannot interpret.
// The empty prefix is a boundary (the bucket root); anything else must end
// in "/".
func ValidateShallowPrefix(prefix string) error {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return nil
	}
	return ErrPrefixNotBoundary
}
