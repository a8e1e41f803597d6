// Package shell hands a finished argv to the operating system by replacing
// the current process, and renders argv for humans.
package shell

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrNoCommand is returned when asked to exec an empty argv.
var ErrNoCommand = errors.New("shell: empty argv")

// Shell replaces the current process with a program. No shell interpreter
// is involved: the path is used as given and argv is passed through
// untouched.
type Shell struct {
	// Environment for the new program, in "KEY=value" form. Nil means the
	// current process environment.
	Env []string
	// Replaces the process image. Defaults to unix.Exec.
	execve func(argv0 string, argv []string, envv []string) error
}

// Exec replaces the current process with the program at path, running argv
// in sh.Env. It only returns on failure. argv[0] is passed as given, so it
// may differ from path.
func (sh *Shell) Exec(path string, argv []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}
	run := sh.execve
	if run == nil {
		run = unix.Exec
	}
	env := sh.Env
	if env == nil {
		env = os.Environ()
	}
	if err := run(path, argv, env); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
