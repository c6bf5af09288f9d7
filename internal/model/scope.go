package model

import (
	"fmt"
	"strings"
)

// LineRange is an inclusive range of generated-code lines.
type LineRange struct {
	First int
	Last  int
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return r.First <= line && line <= r.Last
}

func (r LineRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Scope is a lexical region of generated code holding an ordered event log.
// Scopes nest, forming a tree rooted at a property.
type Scope struct {
	Range  LineRange
	Events []Event
}

// GenLine implements Event for nested scopes.
func (s *Scope) GenLine() int { return s.Range.First }

func (*Scope) event() {}

// Subscopes returns the directly nested scopes, in event order.
func (s *Scope) Subscopes() []*Scope {
	var subs []*Scope

	for _, e := range s.Events {
		if sub, ok := e.(*Scope); ok {
			subs = append(subs, sub)
		}
	}

	return subs
}

// InnermostAt returns the deepest scope in the tree whose range contains
// line, or nil when the line is outside this scope.
func (s *Scope) InnermostAt(line int) *Scope {
	if !s.Range.Contains(line) {
		return nil
	}

	for _, sub := range s.Subscopes() {
		if inner := sub.InnermostAt(line); inner != nil {
			return inner
		}
	}

	return s
}

// ExprCount returns the number of sub-expressions tracked under this scope,
// nested scopes included.
func (s *Scope) ExprCount() int {
	n := 0

	for _, e := range s.Events {
		switch e := e.(type) {
		case ExprStart:
			n++
		case *Scope:
			n += e.ExprCount()
		}
	}

	return n
}

// Property is a named DSL-level computation unit compiled into generated
// code. Properties are built once with the debug info and never mutated.
type Property struct {
	Name string
	Loc  DSLLocation
	// GenFile is the generated source file holding the property's code.
	GenFile string
	// Scope is the property's root scope, covering the whole body.
	Scope *Scope
}

// Subscopes returns the property's top-level inner scopes. An empty result
// means the property has no code of its own (external implementation).
func (p *Property) Subscopes() []*Scope {
	if p.Scope == nil {
		return nil
	}

	return p.Scope.Subscopes()
}

// DebugInfo is the static description of one generated unit: which
// properties it holds and where their scopes and events live. It is consumed
// read-only for the whole session.
type DebugInfo struct {
	Filename   string
	Properties []*Property
}

// PropertyByName finds a property by qualified name. Matching is
// case-insensitive as DSL names are.
func (di *DebugInfo) PropertyByName(qual string) *Property {
	for _, p := range di.Properties {
		if strings.EqualFold(p.Name, qual) {
			return p
		}
	}

	return nil
}

// PropertyAt returns the property whose root scope covers the given
// generated line, or nil when the line is outside any property.
func (di *DebugInfo) PropertyAt(line int) *Property {
	for _, p := range di.Properties {
		if p.Scope != nil && p.Scope.Range.Contains(line) {
			return p
		}
	}

	return nil
}
