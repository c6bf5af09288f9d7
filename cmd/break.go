package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/controller"
	"github.com/proplens/proplens/internal/domain"
	m "github.com/proplens/proplens/internal/model"
)

// breakCmd represents the break command.
var breakCmd = newBreakCmd()

func newBreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "break <property-name | file:line>",
		Short: "Put a breakpoint on a property or a DSL source location",
		Long: `Put a breakpoint on generated code, designated in DSL terms. One of
the following forms is allowed:

  * a case-insensitive property qualified name, for instance:
        break MyNode.p_property

  * a DSL source location, for instance in spec.dsl, line 128:
        break spec.dsl:128`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession()
			if err != nil {
				return err
			}

			return runBreakCommand(cmd, session, strings.Join(args, " "))
		},
	}
}

func init() {
	rootCmd.AddCommand(breakCmd)
}

// runBreakCommand dispatches on the presence of the file/line separator and
// reports resolution failures without side effect.
func runBreakCommand(cmd *cobra.Command, session *domain.Session, spec string) error {
	spec = strings.TrimSpace(spec)

	if domain.IsLocationSpec(spec) {
		return breakOnLocation(cmd, session, spec)
	}

	return breakOnProperty(cmd, session, spec)
}

func breakOnProperty(cmd *cobra.Command, session *domain.Session, qual string) error {
	match, err := session.Resolver().ResolveName(qual)

	var noSuchProp *domain.NoSuchPropertyError
	var noCode *domain.NoCodeError

	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		cmd.Println("Missing breakpoint specification")
		return nil
	case errors.As(err, &noSuchProp):
		cmd.Printf("No such property: %s\n", noSuchProp.Name)
		return nil
	case errors.As(err, &noCode):
		cmd.Printf("%s has no code\n", noCode.Property.Name)
		return nil
	case err != nil:
		return err
	}

	return setBreakpoint(cmd, session, match)
}

func breakOnLocation(cmd *cobra.Command, session *domain.Session, spec string) error {
	loc, err := m.ParseDSLLocation(spec)
	if err != nil {
		cmd.Println(err)
		return nil
	}

	resolution := session.Resolver().ResolveLocation(loc)

	switch resolution.Outcome {
	case domain.ResolveNone:
		cmd.Printf("No match for %s\n", loc)
		return nil
	case domain.ResolveAmbiguous:
		cmd.Printf("Multiple matches for %s:\n", loc)
		controller.PrintMatches(cmd.OutOrStdout(), resolution.Matches)

		return nil
	default:
		return setBreakpoint(cmd, session, resolution.Matches[0])
	}
}

func setBreakpoint(cmd *cobra.Command, session *domain.Session, match m.Match) error {
	if err := session.SetBreakpoint(match); err != nil {
		return err
	}

	cmd.Printf("Breakpoint at %s:%d\n", match.Property.GenFile, match.Line)

	return nil
}
