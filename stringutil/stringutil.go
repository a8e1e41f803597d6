// Package stringutil holds helpers for NUL-terminated byte strings, the
// representation argv entries take at the exec boundary.
package stringutil

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/justjake/cc-wrapper/array"
)

// ErrEmbeddedNUL is returned when a Go string cannot be represented as a C
// string because it contains a NUL byte.
var ErrEmbeddedNUL = errors.New("string contains NUL byte")

// Clone returns a newly allocated, NUL-terminated copy of the C string in s.
// The string ends at the first NUL in s, or at the end of s if it has none.
func Clone(s []byte) []byte {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// CloneString is Clone for Go strings.
func CloneString(s string) ([]byte, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, fmt.Errorf("%q at offset %d: %w", s, i, ErrEmbeddedNUL)
	}
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out, nil
}

// String returns the contents of a NUL-terminated buffer as a Go string.
func String(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// ArrayFree zeroes every string in arr and releases it. It is the only
// release point for an array of owned strings; freeing the same array twice
// panics.
func ArrayFree(arr *array.Array[[]byte]) {
	arr.Release(func(s []byte) {
		for i := range s {
			s[i] = 0
		}
	})
}
