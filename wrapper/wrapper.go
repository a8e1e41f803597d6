// Package wrapper decides which compiler a wrapper invocation runs and with
// what argv.
//
// The wrapper can be called two ways:
//
//	ccwrap gcc -c main.c     # by its own name, compiler in argv[1]
//	gcc -c main.c            # through a symlink named after the compiler
//
// In both cases the compiler is found on PATH, skipping any entry that is
// the wrapper itself, and receives an argv whose argv[0] is the compiler's
// basename.
package wrapper

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/justjake/cc-wrapper/arguments"
	"github.com/justjake/cc-wrapper/env"
	"github.com/justjake/cc-wrapper/pathutil"
)

var (
	// ErrNoProgram is returned for an empty argv.
	ErrNoProgram = errors.New("wrapper: empty argv")
	// ErrNoCompiler is returned when the wrapper is run by its own name
	// without a compiler to run.
	ErrNoCompiler = errors.New("wrapper: no compiler given")
	// ErrNotFound is returned when no executable other than the wrapper
	// itself matches the compiler name.
	ErrNotFound = errors.New("wrapper: compiler not found")
)

// Invocation is a planned compiler run. Args is owned by the Invocation.
type Invocation struct {
	// Path of the executable to run.
	Path string
	// Argv for the executable; argv[0] is the compiler basename.
	Args *arguments.Arguments
}

// Free releases the invocation's argv.
func (inv *Invocation) Free() {
	inv.Args.Free()
}

// Plan works out what the wrapper invoked as args should run. self is the
// path of the running wrapper binary and pathList a PATH-style list of
// directories.
func Plan(args *arguments.Arguments, cfg env.Config, pathList, self string) (*Invocation, error) {
	if args.Len() == 0 {
		return nil, ErrNoProgram
	}

	// Through a symlink only the link's name matters; by our own name,
	// argv[1] may be an explicit compiler path.
	start := 0
	name := pathutil.Base(args.Get(0))
	if name == pathutil.Base(self) {
		if args.Len() < 2 {
			return nil, ErrNoCompiler
		}
		start = 1
		name = args.Get(1)
	}

	path := cfg.Compiler
	if path == "" {
		var err error
		if path, err = LookPath(name, pathList, self); err != nil {
			return nil, err
		}
	}

	cp, err := args.ArrayCopy(cfg.Limits()...)
	if err != nil {
		return nil, err
	}
	defer cp.Free()
	argv, err := arguments.FromArray(cp.Array()[start:], cfg.Limits()...)
	if err != nil {
		return nil, err
	}
	if err := argv.Set(0, pathutil.Base(name)); err != nil {
		argv.Free()
		return nil, err
	}

	return &Invocation{Path: path, Args: argv}, nil
}

// LookPath finds an executable called name in pathList, skipping any file
// that is the same as self. A name containing a slash is checked as is.
func LookPath(name, pathList, self string) (string, error) {
	if name == "" {
		return "", ErrNotFound
	}
	if pathutil.BaseSplit(name) != pathutil.NotFound {
		if executable(name) && !sameFile(name, self) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	for _, dir := range strings.Split(pathList, string(os.PathListSeparator)) {
		if dir == "" {
			dir = "."
		}
		candidate := dir + string(pathutil.Separator) + name
		if !executable(candidate) || sameFile(candidate, self) {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

func executable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

// sameFile reports whether a and b resolve to the same file, following
// symlinks.
func sameFile(a, b string) bool {
	if b == "" {
		return false
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
