// Package arguments owns the argument vector of a process about to be
// exec'd.
//
// An Arguments value exclusively owns its strings. It hands them out in two
// forms:
//
//   - Array borrows: a nil-terminated []*byte pointing straight into the
//     owned strings. It stays valid until the Arguments is mutated or freed
//     and must never be modified or freed by the holder.
//   - ArrayCopy transfers: a *Strings holding fresh copies, owned by the
//     caller and released with its own Free.
//
// Free releases everything. Using an Arguments or Strings after Free, or
// freeing it twice, panics. Neither type is safe for concurrent use.
package arguments

import (
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/justjake/cc-wrapper/logging"
	"github.com/justjake/cc-wrapper/stringutil"
)

// Arguments is an ordered list of argv strings. Index 0 is conventionally
// the program path.
type Arguments struct {
	o *owned
}

// FromArray copies a C-style argv into a new Arguments. Reading stops at the
// first nil pointer, or at the end of argv if there is none. argv itself is
// neither retained nor modified.
//
// On error no Arguments is returned and everything allocated so far has
// been released.
func FromArray(argv []*byte, opts ...Option) (*Arguments, error) {
	o := newOwned(newLimits(opts), len(argv))
	for _, p := range argv {
		if p == nil {
			break
		}
		s, err := stringutil.CloneString(unix.BytePtrToString(p))
		if err == nil {
			err = o.push(s)
		}
		if err != nil {
			o.free()
			return nil, err
		}
	}
	o.index()
	return &Arguments{o: o}, nil
}

// FromStrings copies a Go argv, such as os.Args, into a new Arguments. An
// argument containing a NUL byte fails with ErrEmbeddedNUL.
func FromStrings(argv []string, opts ...Option) (*Arguments, error) {
	o := newOwned(newLimits(opts), len(argv))
	for i, arg := range argv {
		s, err := stringutil.CloneString(arg)
		if err != nil {
			err = fmt.Errorf("argument %d: %w", i, err)
		} else {
			err = o.push(s)
		}
		if err != nil {
			o.free()
			return nil, err
		}
	}
	o.index()
	return &Arguments{o: o}, nil
}

// Free releases every owned string and the borrowed view. The Arguments
// must not be used afterwards.
func (a *Arguments) Free() {
	a.o.mustLive("arguments")
	a.o.free()
}

// Array returns the borrowed, nil-terminated view of the arguments. It does
// not allocate. The view must not be modified, and it is invalidated by
// Append, Set and Free.
func (a *Arguments) Array() []*byte {
	a.o.mustLive("arguments")
	return a.o.view
}

// ArrayCopy returns a mutable copy of the arguments that the caller owns and
// must release with Strings.Free. The copy is independent of a: freeing or
// changing either one does not affect the other. opts limit the copy; if it
// does not fit, ErrAllocation is returned and nothing is kept.
func (a *Arguments) ArrayCopy(opts ...Option) (*Strings, error) {
	a.o.mustLive("arguments")
	c := newOwned(newLimits(opts), a.o.strs.Len())
	var err error
	a.o.strs.Each(func(_ int, s []byte) bool {
		err = c.push(stringutil.Clone(s))
		return err == nil
	})
	if err != nil {
		c.free()
		return nil, err
	}
	c.index()
	return &Strings{o: c}, nil
}

// Print logs every argument, then a summary line with the quoted command,
// at the given level.
func (a *Arguments) Print(logger zerolog.Logger, level logging.Level) {
	a.o.mustLive("arguments")
	a.o.strs.Each(func(i int, s []byte) bool {
		logger.WithLevel(level).
			Int("index", i).
			Str("arg", stringutil.String(s)).
			Msg("argument")
		return true
	})
	logger.WithLevel(level).
		Int("argc", a.o.strs.Len()).
		Str("command", a.String()).
		Msg("arguments")
}

// Len returns the number of arguments.
func (a *Arguments) Len() int {
	a.o.mustLive("arguments")
	return a.o.strs.Len()
}

// Get returns argument i as a Go string.
func (a *Arguments) Get(i int) string {
	a.o.mustLive("arguments")
	return a.o.get(i)
}

// Strings returns the arguments as Go strings, for use with os/exec.
func (a *Arguments) Strings() []string {
	a.o.mustLive("arguments")
	return a.o.strings()
}

// Append adds arg to the end of the list. It invalidates views returned by
// Array.
func (a *Arguments) Append(arg string) error {
	a.o.mustLive("arguments")
	s, err := stringutil.CloneString(arg)
	if err != nil {
		return err
	}
	if err := a.o.push(s); err != nil {
		return err
	}
	a.o.index()
	return nil
}

// Set replaces argument i with arg and releases the old value. It
// invalidates views returned by Array. Set panics if i is out of range; the
// returned error only reports a NUL in arg or an exceeded byte limit.
func (a *Arguments) Set(i int, arg string) error {
	a.o.mustLive("arguments")
	s, err := stringutil.CloneString(arg)
	if err != nil {
		return err
	}
	return a.o.set(i, s)
}

// String renders the arguments as a shell-quoted command line. It is meant
// for diagnostics; the wrapper never runs it through a shell.
func (a *Arguments) String() string {
	if a.o.strs.Released() {
		return "<freed>"
	}
	return shellquote.Join(a.o.strings()...)
}

// Strings is a caller-owned copy of an argument array, returned by
// Arguments.ArrayCopy.
type Strings struct {
	o *owned
}

// Array returns the nil-terminated pointer array. Unlike Arguments.Array the
// entries may be rewritten by the owner, for example to drop or reorder
// arguments before exec.
func (s *Strings) Array() []*byte {
	s.o.mustLive("strings")
	return s.o.view
}

// Len returns the number of strings, not counting the sentinel.
func (s *Strings) Len() int {
	s.o.mustLive("strings")
	return s.o.strs.Len()
}

// Strings returns the copied strings as Go strings.
func (s *Strings) Strings() []string {
	s.o.mustLive("strings")
	return s.o.strings()
}

// Free zeroes and releases the copy.
func (s *Strings) Free() {
	s.o.mustLive("strings")
	s.o.free()
}
