package env

import (
	"os"

	"github.com/justjake/cc-wrapper/arguments"
	"github.com/justjake/cc-wrapper/pathutil"
)

// Args provides accessors for an argv as received by a process.
type Args []string

// SystemArgs returns an Args instance populated with a copy of os.Args
func SystemArgs() Args {
	copied := make([]string, len(os.Args))
	copy(copied, os.Args)
	return Args(copied)
}

// ProcessName returns the basename of argv[0], or "" for an empty argv.
func (x Args) ProcessName() string {
	if len(x) == 0 {
		return ""
	}
	return pathutil.Base(x[0])
}

// Argv returns just the passed arguments
func (x Args) Argv() []string {
	if len(x) == 0 {
		return nil
	}
	return x[1:]
}

// Arguments copies x into an owned argument list.
func (x Args) Arguments(opts ...arguments.Option) (*arguments.Arguments, error) {
	return arguments.FromStrings(x, opts...)
}
