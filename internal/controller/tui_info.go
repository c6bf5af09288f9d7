package controller

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "github.com/proplens/proplens/internal/model"
)

// TUIInfo implements InfoUI as an interactive property browser.
type TUIInfo struct {
	output io.Writer
}

// NewTUIInfo creates a TUIInfo writing to output.
func NewTUIInfo(output io.Writer) *TUIInfo {
	return &TUIInfo{output: output}
}

// DisplayProperties runs the browser until the user closes it.
func (t *TUIInfo) DisplayProperties(props []*m.Property) error {
	if len(props) == 0 {
		_, err := fmt.Fprintln(t.output, "No properties in the loaded debug info")
		return err
	}

	model := newInfoModel(props)

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.list.SetSize(width, height)
		}
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	_, err := program.Run()

	return err
}

type propItem struct {
	prop *m.Property
}

func (i propItem) FilterValue() string { return i.prop.Name }

type infoModel struct {
	list list.Model
}

func newInfoModel(props []*m.Property) infoModel {
	items := make([]list.Item, 0, len(props))
	for _, prop := range props {
		items = append(items, propItem{prop: prop})
	}

	l := list.New(items, propDelegate{}, 0, 0)
	l.Title = "Properties"
	l.SetShowStatusBar(false)

	return infoModel{list: l}
}

func (mo infoModel) Init() tea.Cmd {
	return nil
}

func (mo infoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return mo, tea.Quit
		}
	case tea.WindowSizeMsg:
		mo.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	mo.list, cmd = mo.list.Update(msg)

	return mo, cmd
}

func (mo infoModel) View() string {
	return mo.list.View()
}

// propDelegate renders one property per row: expression count, name and
// DSL location.
type propDelegate struct{}

func (propDelegate) Height() int  { return 1 }
func (propDelegate) Spacing() int { return 0 }

func (propDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (propDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	p, ok := item.(propItem)
	if !ok {
		return
	}

	exprs := 0
	if p.prop.Scope != nil {
		exprs = p.prop.Scope.ExprCount()
	}

	var nameStyle, countStyle lipgloss.Style

	if index == l.Index() {
		nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		countStyle = nameStyle.Width(6).Align(lipgloss.Right)
	} else {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(6).
			Align(lipgloss.Right)
	}

	locStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	line := fmt.Sprintf("%s  %s  %s",
		countStyle.Render(fmt.Sprintf("%d", exprs)),
		nameStyle.Render(p.prop.Name),
		locStyle.Render(p.prop.Loc.String()),
	)
	_, _ = fmt.Fprint(w, line)
}
