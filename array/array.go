// Package array provides a growable, ordered sequence with a single explicit
// release point. It is the container the argument list is built on.
package array

import (
	"errors"
	"fmt"
)

// ErrFull is returned by Push when the array already holds its limit.
var ErrFull = errors.New("array: limit reached")

// Array is an insertion-ordered sequence of T. An Array has exactly one
// owner. Once Release has been called, every method except Released panics.
type Array[T any] struct {
	items    []T
	limit    int
	released bool
}

// Option configures a new Array.
type Option func(*options)

type options struct {
	capacity int
	limit    int
}

// WithCapacity preallocates room for n elements.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithLimit caps the array at n elements. Zero means no limit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// New constructs an empty Array.
func New[T any](opts ...Option) *Array[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 0 {
		o.capacity = 0
	}
	if o.limit > 0 && o.capacity > o.limit {
		o.capacity = o.limit
	}
	return &Array[T]{
		items: make([]T, 0, o.capacity),
		limit: o.limit,
	}
}

// Push appends v. It returns ErrFull, leaving the array unchanged, if the
// array is at its limit.
func (a *Array[T]) Push(v T) error {
	a.mustLive("push")
	if a.limit > 0 && len(a.items) >= a.limit {
		return fmt.Errorf("push element %d: %w", len(a.items), ErrFull)
	}
	a.items = append(a.items, v)
	return nil
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	a.mustLive("len")
	return len(a.items)
}

// Get returns the element at index i. It panics if i is out of range.
func (a *Array[T]) Get(i int) T {
	a.mustLive("get")
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("array: index %d out of range [0:%d]", i, len(a.items)))
	}
	return a.items[i]
}

// Set replaces the element at index i and returns the previous one.
func (a *Array[T]) Set(i int, v T) T {
	a.mustLive("set")
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("array: index %d out of range [0:%d]", i, len(a.items)))
	}
	old := a.items[i]
	a.items[i] = v
	return old
}

// Each calls fn on every element in order until fn returns false.
func (a *Array[T]) Each(fn func(i int, v T) bool) {
	a.mustLive("iterate")
	for i, v := range a.items {
		if !fn(i, v) {
			return
		}
	}
}

// Release hands every element to fn, in order, then drops them. fn may be
// nil. Releasing an array twice panics.
func (a *Array[T]) Release(fn func(T)) {
	a.mustLive("release")
	if fn != nil {
		for _, v := range a.items {
			fn(v)
		}
	}
	var zero T
	for i := range a.items {
		a.items[i] = zero
	}
	a.items = nil
	a.released = true
}

// Released reports whether Release has been called.
func (a *Array[T]) Released() bool {
	return a.released
}

func (a *Array[T]) mustLive(op string) {
	if a.released {
		panic("array: " + op + " after release")
	}
}
