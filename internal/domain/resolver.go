package domain

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/proplens/proplens/internal/model"
)

// ErrEmptyQuery is reported for a breakpoint request with no specification.
var ErrEmptyQuery = errors.New("missing breakpoint specification")

// NoSuchPropertyError is reported when no property matches a name request.
type NoSuchPropertyError struct {
	Name string
}

func (e *NoSuchPropertyError) Error() string {
	return fmt.Sprintf("no such property: %s", e.Name)
}

// NoCodeError is reported for a property with no inner scopes, typically
// one with an external implementation: there is nothing to break on.
type NoCodeError struct {
	Property *m.Property
}

func (e *NoCodeError) Error() string {
	return fmt.Sprintf("%s has no code", e.Property.Name)
}

// ResolveOutcome classifies the result of a by-location resolution.
type ResolveOutcome int

// Available ResolveOutcome values. Ambiguity is surfaced to the user, never
// silently narrowed to one candidate.
const (
	ResolveNone ResolveOutcome = iota
	ResolveUnique
	ResolveAmbiguous
)

// LocationResolution is the explicit trichotomy of a by-location request.
// Matches holds one entry for ResolveUnique and every candidate for
// ResolveAmbiguous.
type LocationResolution struct {
	Outcome ResolveOutcome
	Matches []m.Match
}

// Resolver translates breakpoint requests phrased in DSL terms (a
// qualified property name or a DSL source location) into generated-code
// lines, by querying the static debug info.
type Resolver struct {
	infos []*m.DebugInfo
}

// NewResolver constructs a Resolver over the loaded generated units.
func NewResolver(infos ...*m.DebugInfo) *Resolver {
	return &Resolver{infos: infos}
}

// IsLocationSpec reports whether a request designates a DSL location
// rather than a property name. The two forms are told apart by the
// file/line separator.
func IsLocationSpec(spec string) bool {
	return strings.Contains(spec, ":")
}

// ResolveName resolves a case-insensitive qualified property name to the
// first line of the property's first inner scope. Skipping the property's
// own opening scope makes the breakpoint land after the local-variable
// prologue, on the first evaluable statement.
func (r *Resolver) ResolveName(qual string) (m.Match, error) {
	qual = strings.TrimSpace(qual)
	if qual == "" {
		return m.Match{}, ErrEmptyQuery
	}

	var prop *m.Property

	for _, info := range r.infos {
		if prop = info.PropertyByName(qual); prop != nil {
			break
		}
	}

	if prop == nil {
		return m.Match{}, &NoSuchPropertyError{Name: qual}
	}

	subs := prop.Subscopes()
	if len(subs) == 0 {
		return m.Match{}, &NoCodeError{Property: prop}
	}

	return m.Match{
		Property: prop,
		Loc:      prop.Loc,
		Line:     subs[0].Range.First,
	}, nil
}

// ResolveLocation collects every expression whose DSL location matches the
// query, searching all scope trees recursively.
func (r *Resolver) ResolveLocation(query m.DSLLocation) LocationResolution {
	var matches []m.Match

	for _, info := range r.infos {
		for _, prop := range info.Properties {
			if prop.Scope != nil {
				matches = collectMatches(prop, prop.Scope, query, matches)
			}
		}
	}

	switch len(matches) {
	case 0:
		return LocationResolution{Outcome: ResolveNone}
	case 1:
		return LocationResolution{Outcome: ResolveUnique, Matches: matches}
	default:
		return LocationResolution{Outcome: ResolveAmbiguous, Matches: matches}
	}
}

func collectMatches(prop *m.Property, scope *m.Scope, query m.DSLLocation, matches []m.Match) []m.Match {
	for _, event := range scope.Events {
		switch e := event.(type) {
		case *m.Scope:
			matches = collectMatches(prop, e, query, matches)
		case m.ExprStart:
			if !e.Loc.IsZero() && e.Loc.Matches(query) {
				matches = append(matches, m.Match{
					Property: prop,
					Loc:      e.Loc,
					Line:     e.Line,
				})
			}
		}
	}

	return matches
}
