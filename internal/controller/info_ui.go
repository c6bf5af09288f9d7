package controller

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/proplens/proplens/internal/model"
)

// InfoUI displays the property inventory of the loaded generated units.
// Implementations can use different output methods (simple text, TUI).
type InfoUI interface {
	DisplayProperties(props []*m.Property) error
}

// NewInfoUI creates an InfoUI based on whether TTY mode is enabled: the
// interactive browser for a terminal, a plain table otherwise.
func NewInfoUI(cmd *cobra.Command, useTTY bool) InfoUI {
	if useTTY {
		return NewTUIInfo(cmd.OutOrStdout())
	}

	return NewSimpleInfoUI(cmd)
}

// IsTTY reports whether the writer is an interactive terminal rather than
// a file or a pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// SimpleInfoUI implements InfoUI as a plain table on the command's output.
type SimpleInfoUI struct {
	cmd *cobra.Command
}

// NewSimpleInfoUI creates a SimpleInfoUI.
func NewSimpleInfoUI(cmd *cobra.Command) *SimpleInfoUI {
	return &SimpleInfoUI{cmd: cmd}
}

// DisplayProperties prints one row per property.
func (s *SimpleInfoUI) DisplayProperties(props []*m.Property) error {
	if len(props) == 0 {
		s.cmd.Println("No properties in the loaded debug info")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Property", "DSL Location", "Generated Lines", "Exprs"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	exprTotal := 0

	for _, prop := range props {
		genRange, exprs := "-", 0
		if prop.Scope != nil {
			genRange = prop.Scope.Range.String()
			exprs = prop.Scope.ExprCount()
		}

		table.Append([]string{
			prop.Name,
			prop.Loc.String(),
			genRange,
			fmt.Sprintf("%d", exprs),
		})

		exprTotal += exprs
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(props)),
		"", "",
		fmt.Sprintf("%d", exprTotal),
	})

	table.Render()
	s.cmd.Printf("%s", tableBuffer.String())

	return nil
}

// PrintMatches lists breakpoint candidates, one per line, in the format
// used when a location request is ambiguous.
func PrintMatches(w io.Writer, matches []m.Match) {
	for _, match := range matches {
		fmt.Fprintf(w, "  In %s, %s\n", match.Property.Name, match.Loc)
	}
}
