// Command ccwrap runs a compiler on behalf of whatever invoked it.
//
// Install it on PATH ahead of the real toolchain under the compiler's name
// (gcc, cc, clang++, ...), or call it as `ccwrap gcc ...`. Configuration is
// read from CCWRAP_* environment variables, see env.Config.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/justjake/cc-wrapper/env"
	"github.com/justjake/cc-wrapper/logging"
	"github.com/justjake/cc-wrapper/shell"
	"github.com/justjake/cc-wrapper/wrapper"
)

func main() {
	self, err := os.Executable()
	if err != nil {
		self = ""
	}
	sh := &shell.Shell{}
	os.Exit(run(env.SystemArgs(), env.NewVars(), self, sh, os.Stdout))
}

func run(args env.Args, vars *env.Vars, self string, sh *shell.Shell, stdout io.Writer) int {
	cfg, err := env.LoadConfig(vars)
	if err != nil {
		logger := logging.New(logging.DefaultConfig())
		logger.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	logger := logging.New(cfg.Logging())

	list, err := args.Arguments(cfg.Limits()...)
	if err != nil {
		logger.Error().Err(err).Msg("reading arguments")
		return 1
	}
	defer list.Free()
	list.Print(logger, logging.TraceLevel)

	inv, err := wrapper.Plan(list, cfg, vars.Get("PATH", ""), self)
	if err != nil {
		logger.Error().Err(err).Str("program", args.ProcessName()).Msg("planning compiler invocation")
		return 1
	}
	defer inv.Free()
	logger.Debug().Str("path", inv.Path).Msg("compiler")
	inv.Args.Print(logger, logging.DebugLevel)

	argv := inv.Args.Strings()
	if cfg.DryRun {
		words := []interface{}{shell.Raw("exec -a"), argv[0], inv.Path}
		for _, arg := range argv[1:] {
			words = append(words, arg)
		}
		fmt.Fprintln(stdout, shell.Join(words...))
		return 0
	}

	err = sh.Exec(inv.Path, argv)
	logger.Error().Err(err).Msg("running compiler")
	return 1
}
