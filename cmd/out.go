package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/domain"
)

// outCmd represents the out command.
var outCmd = newOutCmd()

func newOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "out",
		Short: "Continue until the current sub-expression is evaluated",
		Long: `Continue execution until the end of the evaluation of the current
sub-expression, then display the value it evaluated to.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmd.Println("This command takes no argument")
				return nil
			}

			session, err := newSession()
			if err != nil {
				return err
			}

			return runOutCommand(cmd, session)
		},
	}
}

func init() {
	rootCmd.AddCommand(outCmd)
}

// runOutCommand performs one step-out and maps engine outcomes to user
// messages. Only infrastructure failures propagate as errors.
func runOutCommand(cmd *cobra.Command, session *domain.Session) error {
	result, err := session.StepOut().Run()

	var bug *domain.CodegenBugError
	var inconsistent *domain.ConsistencyError

	switch {
	case errors.Is(err, domain.ErrNotEvaluating):
		cmd.Println("Not evaluating any expression currently")
		return nil
	case errors.As(err, &bug):
		cmd.Printf("ERROR: %s.\n", bug.Error())
		return nil
	case errors.As(err, &inconsistent):
		cmd.Printf("ERROR: %s: something went wrong...\n", inconsistent.Check)
		return nil
	case err != nil:
		return err
	}

	cmd.Printf("%s evaluated to: %s\n", result.Repr, result.Value)

	return nil
}
