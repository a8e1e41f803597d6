package env

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/justjake/cc-wrapper/arguments"
	"github.com/justjake/cc-wrapper/logging"
)

// Prefix namespaces every variable the wrapper reads, so that it does not
// collide with variables meant for the compiler.
const Prefix = "CCWRAP_"

// Config is the wrapper's configuration. Each field is read from the
// variable named by VarName, e.g. MaxBytes from CCWRAP_MAX_BYTES.
type Config struct {
	// Minimum level of diagnostics written to stderr.
	LogLevel logging.Level
	// Human-readable diagnostics instead of JSON.
	LogPretty bool
	// Print the planned command instead of executing it.
	DryRun bool
	// Upper bound on the argument count. 0 disables the check.
	MaxArgs int
	// Upper bound on the argv size in bytes, counted like ARG_MAX. 0
	// disables the check.
	MaxBytes int
	// Compiler to run, bypassing lookup by program name.
	Compiler string
}

// VarName returns the environment variable that holds the given Config
// field.
func VarName(field string) string {
	return Prefix + strcase.ToScreamingSnake(field)
}

// DefaultConfig is the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		LogLevel: logging.DefaultConfig().Level,
	}
}

// LoadConfig reads a Config from vars. Unset variables keep their defaults;
// malformed ones are reported.
func LoadConfig(vars *Vars) (Config, error) {
	cfg := DefaultConfig()
	var err error

	if raw := vars.Get(VarName("LogLevel"), ""); raw != "" {
		if cfg.LogLevel, err = logging.ParseLevel(raw); err != nil {
			return cfg, fmt.Errorf("%s: %w", VarName("LogLevel"), err)
		}
	}
	if cfg.LogPretty, err = vars.Bool(VarName("LogPretty"), cfg.LogPretty); err != nil {
		return cfg, err
	}
	if cfg.DryRun, err = vars.Bool(VarName("DryRun"), cfg.DryRun); err != nil {
		return cfg, err
	}
	if cfg.MaxArgs, err = vars.Int(VarName("MaxArgs"), cfg.MaxArgs); err != nil {
		return cfg, err
	}
	if cfg.MaxBytes, err = vars.Int(VarName("MaxBytes"), cfg.MaxBytes); err != nil {
		return cfg, err
	}
	if cfg.MaxArgs < 0 || cfg.MaxBytes < 0 {
		return cfg, fmt.Errorf("%s and %s must not be negative", VarName("MaxArgs"), VarName("MaxBytes"))
	}
	cfg.Compiler = vars.Get(VarName("Compiler"), "")

	return cfg, nil
}

// Logging returns the logger configuration selected by cfg.
func (cfg Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Pretty = cfg.LogPretty
	return lc
}

// Limits returns the argument limits selected by cfg.
func (cfg Config) Limits() []arguments.Option {
	return []arguments.Option{
		arguments.WithMaxArgs(cfg.MaxArgs),
		arguments.WithMaxBytes(cfg.MaxBytes),
	}
}
