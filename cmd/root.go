// Package cmd provides the root command and CLI setup for proplens.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/adapter"
	"github.com/proplens/proplens/internal/config"
	"github.com/proplens/proplens/internal/domain"
	"github.com/proplens/proplens/internal/logger"
	m "github.com/proplens/proplens/internal/model"
)

var generatedFlags []string
var traceFlag string
var gdbProgramFlag string
var gdbPathFlag string
var prefixFlag string

// newSession and loadDebugInfo are package variables so tests can swap in
// fixtures without touching the environment.
var newSession = buildSession
var loadDebugInfo = buildDebugInfo

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proplens",
		Short: "Source-level debugging bridge for generated DSL code",
		Long: `Proplens lets you debug the generated low-level implementation of a DSL
in terms of the original source constructs: named properties,
sub-expressions and variable bindings, instead of generated statements
and temporaries.

It reads the debug directives the code generator left in generated
sources, inspects where the host debugger stopped, and translates between
DSL source locations and generated lines in both directions.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Setup(config.Load().LogLevel)
		},
	}

	cmd.PersistentFlags().StringArrayVarP(&generatedFlags, "generated", "g", nil,
		"generated source file with debug directives (can be repeated)")
	cmd.PersistentFlags().StringVarP(&traceFlag, "trace", "t", "",
		"recorded execution trace to replay instead of driving gdb")
	cmd.PersistentFlags().StringVar(&gdbProgramFlag, "gdb", "",
		"program to debug under gdb")
	cmd.PersistentFlags().StringVar(&gdbPathFlag, "gdb-path", "",
		"gdb binary to use (default \"gdb\")")
	cmd.PersistentFlags().StringVar(&prefixFlag, "prefix", "",
		"command prefix in the repl (default \"pl\")")

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// buildDebugInfo loads the debug info of every configured generated unit.
func buildDebugInfo() ([]*m.DebugInfo, error) {
	paths := generatedFlags
	if len(paths) == 0 {
		paths = config.Load().Generated
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no generated sources configured (use --generated or PROPLENS_GENERATED)")
	}

	return adapter.NewDebugInfoLoader().LoadAll(paths...)
}

// buildSession loads the debug info and connects the host debugger: a
// trace replay when one is configured, a live gdb otherwise.
func buildSession() (*domain.Session, error) {
	infos, err := loadDebugInfo()
	if err != nil {
		return nil, err
	}

	cfg := config.Load()

	tracePath := traceFlag
	if tracePath == "" {
		tracePath = cfg.Trace
	}

	if tracePath != "" {
		trace, err := adapter.LoadTrace(tracePath)
		if err != nil {
			return nil, err
		}

		return domain.NewSession(adapter.NewReplayHost(trace), infos...), nil
	}

	program := gdbProgramFlag
	if program == "" {
		program = cfg.GDB
	}

	if program == "" {
		return nil, fmt.Errorf("no host debugger configured (use --trace or --gdb)")
	}

	host, err := adapter.NewGDBHost(gdbPathFlag, program)
	if err != nil {
		return nil, err
	}

	return domain.NewSession(host, infos...), nil
}

func commandPrefix() string {
	if prefixFlag != "" {
		return prefixFlag
	}

	return config.Load().Prefix
}
