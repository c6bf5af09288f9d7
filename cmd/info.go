package cmd

import (
	"github.com/spf13/cobra"

	"github.com/proplens/proplens/internal/config"
	"github.com/proplens/proplens/internal/controller"
	m "github.com/proplens/proplens/internal/model"
)

var infoTUIFlag bool

// infoCmd represents the info command.
var infoCmd = newInfoCmd()

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "List the properties known to the loaded debug info",
		Long: `List every property found in the configured generated sources, with
its DSL location, generated line range and tracked expression count.
No host debugger is needed.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := loadDebugInfo()
			if err != nil {
				return err
			}

			var props []*m.Property
			for _, info := range infos {
				props = append(props, info.Properties...)
			}

			useTTY := infoTUIFlag &&
				controller.IsTTY(cmd.OutOrStdout()) &&
				!config.Load().NoTTY

			return controller.NewInfoUI(cmd, useTTY).DisplayProperties(props)
		},
	}

	cmd.Flags().BoolVar(&infoTUIFlag, "tui", false, "browse properties interactively")

	return cmd
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
