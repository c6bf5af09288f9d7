// Package model defines the data structures shared by debug-state decoding,
// breakpoint resolution and step navigation.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DSLLocation is a position in the original DSL source, as opposed to a line
// in the generated code. Column is optional: zero means "whole line".
type DSLLocation struct {
	File   string
	Line   int
	Column int
}

// ParseDSLLocation parses "file:line" or "file:line:column" forms.
func ParseDSLLocation(s string) (DSLLocation, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return DSLLocation{}, fmt.Errorf("invalid source location %q: expected file:line[:column]", s)
	}

	if parts[0] == "" {
		return DSLLocation{}, fmt.Errorf("invalid source location %q: missing file name", s)
	}

	line, err := strconv.Atoi(parts[1])
	if err != nil || line < 1 {
		return DSLLocation{}, fmt.Errorf("invalid source location %q: bad line number %q", s, parts[1])
	}

	loc := DSLLocation{File: parts[0], Line: line}

	if len(parts) == 3 {
		column, err := strconv.Atoi(parts[2])
		if err != nil || column < 1 {
			return DSLLocation{}, fmt.Errorf("invalid source location %q: bad column number %q", s, parts[2])
		}

		loc.Column = column
	}

	return loc, nil
}

// IsZero reports whether the location carries no position at all.
func (l DSLLocation) IsZero() bool {
	return l == DSLLocation{}
}

// Matches implements the partial-equality rule used for breakpoint requests:
// a query with no column matches any location on the same file and line, so
// user queries may be coarser than the stored data.
func (l DSLLocation) Matches(query DSLLocation) bool {
	if l.File != query.File || l.Line != query.Line {
		return false
	}

	return query.Column == 0 || query.Column == l.Column
}

func (l DSLLocation) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}

	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
