package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/adapter"
	"github.com/proplens/proplens/internal/domain"
	m "github.com/proplens/proplens/internal/model"
)

// fixtureInfo is the generated unit the command tests run against: one
// property with a binding in its opening scope and one tracked
// sub-expression in an inner scope, plus a codeless external property.
func fixtureInfo() *m.DebugInfo {
	inner := &m.Scope{
		Range: m.LineRange{First: 8, Last: 14},
		Events: []m.Event{
			m.ExprStart{
				ID:   1,
				Repr: "x + 1",
				Loc:  m.DSLLocation{File: "calc.dsl", Line: 4, Column: 5},
				Line: 10,
			},
			m.ExprDone{ID: 1, ResultVar: "R_1", Line: 12},
			m.ExprStart{
				ID:   2,
				Repr: "incr(x)",
				Loc:  m.DSLLocation{File: "calc.dsl", Line: 4, Column: 1},
				Line: 13,
			},
			m.ExprDone{ID: 2, ResultVar: "R_2", Line: 14},
		},
	}

	return &m.DebugInfo{
		Filename: "calc_impl.gen",
		Properties: []*m.Property{
			{
				Name:    "Calc.P_Incr",
				Loc:     m.DSLLocation{File: "calc.dsl", Line: 3},
				GenFile: "calc_impl.gen",
				Scope: &m.Scope{
					Range: m.LineRange{First: 2, Last: 16},
					Events: []m.Event{
						m.Binding{DSLName: "x", GenName: "X_1", Line: 5},
						inner,
					},
				},
			},
			{
				Name:    "Calc.P_Native",
				Loc:     m.DSLLocation{File: "calc.dsl", Line: 9},
				GenFile: "calc_impl.gen",
				Scope:   &m.Scope{Range: m.LineRange{First: 20, Last: 21}},
			},
		},
	}
}

// fixtureTrace stops at line 11 (between the expression's start and done
// markers) and carries the stop at line 12 where the result is available.
func fixtureTrace() adapter.Trace {
	return adapter.Trace{
		Unit: "calc_impl.gen",
		Stops: []adapter.TraceStop{
			{Line: 11, Vars: map[string]string{"x_1": "5"}},
			{Line: 12, Vars: map[string]string{"x_1": "5", "r_1": "6"}},
		},
	}
}

// useFixtureSession routes every command in the test through one shared
// replay-backed session, and restores the real wiring afterwards.
func useFixtureSession(t *testing.T) (*domain.Session, *adapter.ReplayHost) {
	t.Helper()

	host := adapter.NewReplayHost(fixtureTrace())
	session := domain.NewSession(host, fixtureInfo())

	originalSession := newSession
	originalLoad := loadDebugInfo
	newSession = func() (*domain.Session, error) { return session, nil }
	loadDebugInfo = func() ([]*m.DebugInfo, error) { return session.Infos, nil }

	t.Cleanup(func() {
		newSession = originalSession
		loadDebugInfo = originalLoad
	})

	return session, host
}

// runCommand executes one CLI invocation against a fresh command tree and
// returns what it printed.
func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	return runCommandInput(t, "", args...)
}

// runCommandInput is runCommand with scripted standard input, for the repl.
func runCommandInput(t *testing.T, input string, args ...string) string {
	t.Helper()

	root := newRootCmd()
	root.AddCommand(newStateCmd())
	root.AddCommand(newBreakCmd())
	root.AddCommand(newOutCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newReplCmd())

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}

	return buf.String()
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, buf
}
