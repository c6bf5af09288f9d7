package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/adapter"
	"github.com/proplens/proplens/internal/domain"
)

// replCmd represents the repl command.
var replCmd = newReplCmd()

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Debug interactively over one session",
		Long: `Open an interactive session and accept the state, break and out
commands under the configured prefix, the way they would be registered
with a host debugger. With a replay host, "step" advances to the next
recorded stop. "quit" leaves the session.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := newSession()
			if err != nil {
				return err
			}

			return runRepl(cmd, session, commandPrefix())
		},
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runRepl dispatches prefixed commands until the input ends or the user
// quits. Command misuse prints a message and keeps the session alive.
func runRepl(cmd *cobra.Command, session *domain.Session, prefix string) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprintf(out, "(%s) ", prefix)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error

		switch name {
		case prefix + "state":
			err = runStateCommand(cmd, session, rest)
		case prefix + "break":
			err = runBreakCommand(cmd, session, rest)
		case prefix + "out":
			if rest != "" {
				cmd.Println("This command takes no argument")
				continue
			}

			err = runOutCommand(cmd, session)
		case "step":
			stepReplay(cmd, session)
		case "quit", "exit":
			return nil
		default:
			cmd.Printf("Unknown command: %s\n", name)
		}

		// Infrastructure failures end the session; everything else was
		// already reported as a message.
		if err != nil {
			return err
		}
	}
}

// stepReplay advances a replay host by one recorded stop.
func stepReplay(cmd *cobra.Command, session *domain.Session) {
	replay, ok := session.Host.(*adapter.ReplayHost)
	if !ok {
		cmd.Println("step is only available with a replay host")
		return
	}

	if !replay.Step() {
		cmd.Println("End of the recorded trace")
		return
	}

	if frame, err := replay.SelectedFrame(); err == nil {
		cmd.Printf("Stopped at %s:%d\n", frame.Unit, frame.Line)
	}
}
