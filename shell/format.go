package shell

// This contains functions about turning argv values into shell-readable
// strings for diagnostics. Nothing here is ever handed to a shell.

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Raw strings will not be escaped by Escape or Join.
type Raw string

func (r Raw) GoString() string {
	return fmt.Sprintf("shell.Raw(%#v)", string(r))
}

// Escape a value.
func Escape(val interface{}) Raw {
	switch v := val.(type) {
	case Raw:
		return v
	case string:
		return Raw(shellquote.Join(v))
	default:
		return Raw(shellquote.Join(fmt.Sprint(v)))
	}
}

// Join escapes each argument and joins them with spaces, producing a command
// line that a user can paste into a shell to reproduce an invocation.
//   Join("cc", "-DMSG=a b", Raw("> log")) // cc '-DMSG=a b' > log
func Join(args ...interface{}) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = string(Escape(arg))
	}
	return strings.Join(parts, " ")
}
