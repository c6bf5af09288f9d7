// Package config loads session defaults from the environment, optionally
// seeded from a .proplens.env file. Command-line flags override anything
// set here.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds the session defaults.
type Config struct {
	// Prefix prepended to command names in the repl, to keep them clear
	// of the host debugger's own commands.
	Prefix string
	// Generated lists the generated source files to load debug info from.
	Generated []string
	// Trace is a recorded execution to replay instead of driving gdb.
	Trace string
	// GDB is the program to debug under gdb when no trace is given.
	GDB string
	// LogLevel controls the diagnostics on stderr.
	LogLevel string
	// NoTTY forces plain output even on a terminal.
	NoTTY bool
}

// Load reads the configuration. A missing .proplens.env is fine; the
// environment alone is enough.
func Load() Config {
	_ = godotenv.Load(".proplens.env")

	c := Config{
		Prefix:   "pl",
		LogLevel: "info",
	}

	if v := os.Getenv("PROPLENS_PREFIX"); v != "" {
		c.Prefix = v
	}

	if v := os.Getenv("PROPLENS_GENERATED"); v != "" {
		for _, path := range strings.Split(v, ",") {
			if path = strings.TrimSpace(path); path != "" {
				c.Generated = append(c.Generated, path)
			}
		}
	}

	c.Trace = os.Getenv("PROPLENS_TRACE")
	c.GDB = os.Getenv("PROPLENS_GDB")

	if v := os.Getenv("PROPLENS_LOG"); v != "" {
		c.LogLevel = v
	}

	c.NoTTY = cast.ToBool(os.Getenv("PROPLENS_NO_TTY"))

	return c
}
