// Package domain holds the debug-state reconstruction and navigation
// engine: decoding the running property's state from a frame, resolving
// breakpoint requests and stepping out of sub-expressions.
package domain

import (
	"path/filepath"

	"github.com/proplens/proplens/internal/adapter"
	m "github.com/proplens/proplens/internal/model"
)

// Decoder rebuilds a State snapshot from a frame and the static debug
// info. It performs read-only queries only; every stop gets a fresh State.
type Decoder struct {
	infos []*m.DebugInfo
}

// NewDecoder constructs a Decoder over the loaded generated units.
func NewDecoder(infos ...*m.DebugInfo) *Decoder {
	return &Decoder{infos: infos}
}

// Decode returns the evaluation state of the property the frame executes,
// or nil when the frame is outside any known property (host runtime code,
// prologue of an unknown unit). A recursive re-entry of a property is a
// distinct activation: only the selected frame is decoded, so each stop
// yields the state of that activation alone.
func (d *Decoder) Decode(frame *adapter.FrameSnapshot) *m.State {
	if frame == nil {
		return nil
	}

	info := d.infoFor(frame.Unit)
	if info == nil {
		return nil
	}

	prop := info.PropertyAt(frame.Line)
	if prop == nil {
		return nil
	}

	state := &m.State{Property: prop}
	decodeScope(prop.Scope, frame.Line, state)

	return state
}

func (d *Decoder) infoFor(unit string) *m.DebugInfo {
	for _, info := range d.infos {
		if info.Filename == unit || filepath.Base(info.Filename) == filepath.Base(unit) {
			return info
		}
	}

	return nil
}

// decodeScope computes the scope's state at the given line and recurses
// into the one subscope enclosing it. An event has happened iff its
// generated line is at or before the current line: the target stops before
// executing the line it reports, and done markers sit on the first line at
// which the result is available.
func decodeScope(scope *m.Scope, line int, state *m.State) {
	ss := &m.ScopeState{Scope: scope}

	var inner *m.Scope

	for _, event := range scope.Events {
		switch e := event.(type) {
		case m.Binding:
			if e.Line <= line {
				ss.Bindings = append(ss.Bindings, e)
			}
		case m.ExprStart:
			es := &m.ExpressionState{
				ID:     e.ID,
				Repr:   e.Repr,
				Loc:    e.Loc,
				Status: m.StatusNotStarted,
			}
			if e.Line <= line {
				es.Status = m.StatusStarted
			}

			ss.Expressions = append(ss.Expressions, es)
		case m.ExprDone:
			es := ss.Expression(e.ID)
			if es == nil {
				continue
			}

			es.ResultVar = e.ResultVar
			if e.Line <= line && es.Status == m.StatusStarted {
				es.Status = m.StatusDone
			}
		case *m.Scope:
			if e.Range.Contains(line) {
				inner = e
			}
		}
	}

	state.Scopes = append(state.Scopes, ss)

	if inner != nil {
		decodeScope(inner, line, state)
	}
}
