package arguments

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/justjake/cc-wrapper/array"
	"github.com/justjake/cc-wrapper/stringutil"
)

// ErrAllocation is returned when building an argument array would exceed
// the configured argument count or byte limits. Nothing built before the
// failure is kept.
var ErrAllocation = errors.New("argument allocation failed")

// ErrEmbeddedNUL is returned when an argument contains a NUL byte and so
// cannot be passed through exec.
var ErrEmbeddedNUL = stringutil.ErrEmbeddedNUL

const pointerSize = int(unsafe.Sizeof(uintptr(0)))

// Option sets a limit on an argument array.
type Option func(*limits)

type limits struct {
	maxArgs  int
	maxBytes int
}

// WithMaxArgs limits the number of arguments. Zero means no limit.
func WithMaxArgs(n int) Option {
	return func(l *limits) { l.maxArgs = n }
}

// WithMaxBytes limits the size of the raw array, counted the way the kernel
// counts ARG_MAX: every string with its terminator plus one pointer slot per
// argument and one for the sentinel. Zero means no limit.
func WithMaxBytes(n int) Option {
	return func(l *limits) { l.maxBytes = n }
}

func newLimits(opts []Option) limits {
	var l limits
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// owned is a sequence of NUL-terminated strings plus the nil-terminated
// pointer view over them. Both Arguments and Strings are built on it.
type owned struct {
	strs   *array.Array[[]byte]
	view   []*byte
	limits limits
	// size is the ARG_MAX-style byte count of the current contents.
	size int
}

func newOwned(l limits, hint int) *owned {
	opts := []array.Option{array.WithCapacity(hint)}
	if l.maxArgs > 0 {
		opts = append(opts, array.WithLimit(l.maxArgs))
	}
	return &owned{
		strs:   array.New[[]byte](opts...),
		limits: l,
		size:   pointerSize,
	}
}

// push takes ownership of s, which must be NUL-terminated.
func (o *owned) push(s []byte) error {
	n := o.strs.Len()
	grown := o.size + len(s) + pointerSize
	if o.limits.maxBytes > 0 && grown > o.limits.maxBytes {
		return fmt.Errorf("argument %d needs %d bytes, limit is %d: %w", n, grown, o.limits.maxBytes, ErrAllocation)
	}
	if err := o.strs.Push(s); err != nil {
		if errors.Is(err, array.ErrFull) {
			return fmt.Errorf("argument %d exceeds limit of %d arguments: %w", n, o.limits.maxArgs, ErrAllocation)
		}
		return err
	}
	o.size = grown
	return nil
}

// set replaces the string at i, zeroing the old one.
func (o *owned) set(i int, s []byte) error {
	grown := o.size - len(o.strs.Get(i)) + len(s)
	if o.limits.maxBytes > 0 && grown > o.limits.maxBytes {
		return fmt.Errorf("argument %d needs %d bytes, limit is %d: %w", i, grown, o.limits.maxBytes, ErrAllocation)
	}
	old := o.strs.Set(i, s)
	for j := range old {
		old[j] = 0
	}
	o.size = grown
	if o.view != nil {
		o.view[i] = &s[0]
	}
	return nil
}

// index rebuilds the pointer view. The previous view slice is left alone so
// that a caller still holding it keeps its terminator.
func (o *owned) index() {
	view := make([]*byte, o.strs.Len()+1)
	o.strs.Each(func(i int, s []byte) bool {
		view[i] = &s[0]
		return true
	})
	o.view = view
}

func (o *owned) get(i int) string {
	return stringutil.String(o.strs.Get(i))
}

func (o *owned) strings() []string {
	out := make([]string, 0, o.strs.Len())
	o.strs.Each(func(_ int, s []byte) bool {
		out = append(out, stringutil.String(s))
		return true
	})
	return out
}

func (o *owned) free() {
	for i := range o.view {
		o.view[i] = nil
	}
	o.view = nil
	stringutil.ArrayFree(o.strs)
}

func (o *owned) mustLive(what string) {
	if o.strs.Released() {
		panic(what + ": use after free")
	}
}
