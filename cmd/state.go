package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/controller"
	"github.com/proplens/proplens/internal/domain"
)

// stateCmd represents the state command.
var stateCmd = newStateCmd()

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state [/flags]",
		Short: "Display the state of the currently running property",
		Long: `Display the state of the currently running property: its visible
bindings, completed sub-expressions with their values, and the
sub-expression being evaluated right now.

The command may be followed by a "/X" argument, where X is one or
several of:

    f   display the full image of values (no ellipsis)
    s   also print the generated variables that hold DSL values`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			session, err := newSession()
			if err != nil {
				return err
			}

			return runStateCommand(cmd, session, arg)
		},
	}
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

// runStateCommand parses the optional flag string and prints the decoded
// state. Malformed flags are reported and have no side effect.
func runStateCommand(cmd *cobra.Command, session *domain.Session, arg string) error {
	options := []controller.PrinterOption{}

	if arg != "" {
		if !strings.HasPrefix(arg, "/") {
			cmd.Println("Invalid argument")
			return nil
		}

		for _, c := range arg[1:] {
			switch c {
			case 'f':
				options = append(options, controller.WithEllipsis(false))
			case 's':
				options = append(options, controller.WithLocations(true))
			default:
				cmd.Printf("Invalid flag: '%c'\n", c)
				return nil
			}
		}
	}

	state, frame, err := session.DecodeCurrent()
	if err != nil {
		return err
	}

	printer := controller.NewStatePrinter(frame.Vars, options...)
	printer.Print(cmd.OutOrStdout(), state)

	return nil
}
