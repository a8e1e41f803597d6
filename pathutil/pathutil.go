// Package pathutil splits slash-separated paths without allocating. Results
// are substrings of the input.
package pathutil

import "strings"

// Separator is the path separator recognised by this package.
const Separator = '/'

// NotFound is returned by BaseSplit when the path has no separator.
const NotFound = -1

// BaseSplit returns the index of the separator preceding the base of path,
// or NotFound.
func BaseSplit(path string) int {
	return strings.LastIndexByte(path, Separator)
}

// Base returns the final component of path: everything after the last
// separator, or path itself when there is none. A trailing separator yields
// an empty base.
func Base(path string) string {
	return path[BaseSplit(path)+1:]
}

// Dir returns everything before the last separator. It returns "." when
// path has no separator and "/" when the only separator is the leading one.
func Dir(path string) string {
	switch i := BaseSplit(path); i {
	case NotFound:
		return "."
	case 0:
		return "/"
	default:
		return path[:i]
	}
}
