// Package controller renders decoded debug state and property listings for
// the user.
package controller

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/proplens/proplens/internal/adapter"
	m "github.com/proplens/proplens/internal/model"
)

// ellipsisLimit is the length in characters above which values get
// truncated.
const ellipsisLimit = 50

// StatePrinter renders a State snapshot as a human-readable trace:
// bindings, completed sub-expressions with their values and the
// sub-expression currently being evaluated.
type StatePrinter struct {
	vars         adapter.VariableReader
	withEllipsis bool
	withLocs     bool
}

// PrinterOption configures a StatePrinter.
type PrinterOption func(*StatePrinter)

// WithEllipsis controls truncation of long values. It is on by default.
func WithEllipsis(enabled bool) PrinterOption {
	return func(p *StatePrinter) {
		p.withEllipsis = enabled
	}
}

// WithLocations controls printing of the generated variable backing each
// displayed value. It is off by default.
func WithLocations(enabled bool) PrinterOption {
	return func(p *StatePrinter) {
		p.withLocs = enabled
	}
}

// NewStatePrinter builds a printer reading values through vars.
func NewStatePrinter(vars adapter.VariableReader, options ...PrinterOption) *StatePrinter {
	p := &StatePrinter{vars: vars, withEllipsis: true}

	for _, option := range options {
		option(p)
	}

	return p
}

// Print writes the trace for state to w. A nil state is a valid input: it
// means the selected frame runs host code rather than a property.
func (p *StatePrinter) Print(w io.Writer, state *m.State) {
	if state == nil {
		fmt.Fprintln(w, "Selected frame is not in a property.")
		return
	}

	fmt.Fprintf(w, "Running %s\n", state.Property.Name)
	fmt.Fprintf(w, "from %s\n", state.Property.Loc)

	for _, scopeState := range state.Scopes {
		p.printScope(w, scopeState)
	}
}

// printScope emits one scope's items, preceded by a single blank line when
// the scope has anything to show at all.
func (p *StatePrinter) printScope(w io.Writer, ss *m.ScopeState) {
	f := &scopeFormatter{w: w}

	for _, b := range ss.Bindings {
		f.printf("%s%s = %s", b.DSLName, p.locImage(b.GenName), p.valueImage(b.GenName))
	}

	var lastStarted *m.ExpressionState

	for _, e := range ss.Expressions {
		switch e.Status {
		case m.StatusStarted:
			lastStarted = e
		case m.StatusDone:
			f.printf("%s%s -> %s", e.Repr, p.locImage(e.ResultVar), p.valueImage(e.ResultVar))
		}
	}

	if lastStarted != nil {
		f.printf("Currently evaluating %s", lastStarted.Repr)

		if !lastStarted.Loc.IsZero() {
			f.printf("from %s", lastStarted.Loc)
		}
	}
}

// locImage returns the parenthesized generated variable name, or nothing
// when locations are off.
func (p *StatePrinter) locImage(genName string) string {
	if !p.withLocs {
		return ""
	}

	return fmt.Sprintf(" (%s)", genName)
}

// valueImage reads and formats the value held by the generated variable.
// The name is lower-cased first: the host's lookup ignores case and some
// hosts only accept the canonical lower-case form.
func (p *StatePrinter) valueImage(genName string) string {
	value, err := p.vars.ReadVariable(strings.ToLower(genName))
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	if p.withEllipsis && utf8.RuneCountInString(value) > ellipsisLimit {
		value = string([]rune(value)[:ellipsisLimit]) + "..."
	}

	return value
}

// scopeFormatter prints one scope's items, emitting a leading blank line
// before the first of them and never otherwise.
type scopeFormatter struct {
	w       io.Writer
	printed bool
}

func (f *scopeFormatter) printf(format string, args ...any) {
	if !f.printed {
		fmt.Fprintln(f.w)

		f.printed = true
	}

	fmt.Fprintf(f.w, format+"\n", args...)
}
