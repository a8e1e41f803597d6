package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Vars is an in-process store for string key-value pairs that fall back to
// the system environment variables - or some other way of looking up names.
type Vars struct {
	// In-process variables, similar to unexported variables in a bash or make
	// script.
	Locals map[string]string
	// If defined, this function is used to look up variables not found in
	// Locals. Otherwise, Vars will look at the environment variables.
	LookupParent func(name string) (val string, found bool)
}

// NewVars constructs a new Vars.
func NewVars() *Vars {
	return &Vars{make(map[string]string), nil}
}

// LookupEnv returns the value for the given variable name and true if the
// variable is defined, or an empty string and false if the variable is not
// defined.
func (vars *Vars) LookupEnv(name string) (val string, found bool) {
	if val, found = vars.Locals[name]; found {
		return
	}

	if vars.LookupParent != nil {
		return vars.LookupParent(name)
	}

	return os.LookupEnv(name)
}

// Get a variable, if it is defined and is not an empty string. If the
// variable is empty, panic unless a default value is given - in which case,
// return the default value.
func (vars *Vars) Get(name string, defaultValue ...string) string {
	var res string
	if val, found := vars.LookupEnv(name); found {
		res = val
	}

	if res != "" {
		return res
	}

	if len(defaultValue) != 1 {
		panic(fmt.Errorf("Variable undefined or empty: %s", name))
	}

	return defaultValue[0]
}

// Set a value into the local store, but don't export it as a system
// environment variable.
func (vars *Vars) Set(name, value string) {
	vars.Locals[name] = value
}

// IsSet returns true if the given name is defined, even if it is empty.
func (vars *Vars) IsSet(name string) bool {
	_, set := vars.LookupEnv(name)
	return set
}

// Int reads name as a base-10 integer. An unset or empty variable yields
// defaultValue.
func (vars *Vars) Int(name string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(vars.Get(name, ""))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", name, raw)
	}
	return n, nil
}

// Bool reads name as a boolean: 1/0, true/false, yes/no, on/off. An unset or
// empty variable yields defaultValue.
func (vars *Vars) Bool(name string, defaultValue bool) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(vars.Get(name, "")))
	switch raw {
	case "":
		return defaultValue, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: not a boolean: %q", name, raw)
}
