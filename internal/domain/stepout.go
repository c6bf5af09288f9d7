package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/proplens/proplens/internal/adapter"
	m "github.com/proplens/proplens/internal/model"
)

// ErrNotEvaluating is the no-op outcome of a step-out requested while no
// sub-expression is in progress. It is a normal result, not a failure.
var ErrNotEvaluating = errors.New("not evaluating any expression currently")

// CodegenBugError means the debug info has an expr-start with no matching
// expr-done in the same scope. That breaks a model invariant, so it points
// at a code-generation bug rather than user error.
type CodegenBugError struct {
	Expr *m.ExpressionState
}

func (e *CodegenBugError) Error() string {
	return fmt.Sprintf(
		"cannot find the end of evaluation for expression %s. Code generation may have a bug",
		e.Expr.Repr,
	)
}

// Consistency check names for the post-resumption validation. Each failed
// check gets its own diagnostic so what went wrong is never ambiguous.
const (
	CheckSameProperty = "we landed in another property"
	CheckExprFound    = "cannot find back the same expression"
	CheckExprDone     = "the expression is not evaluated yet"
)

// ConsistencyError reports which post-resumption check failed. It aborts
// the command but leaves the session usable.
type ConsistencyError struct {
	Check string
}

func (e *ConsistencyError) Error() string {
	return e.Check
}

// StepOutResult is the successful outcome of a step-out: the expression
// that completed and the value it evaluated to.
type StepOutResult struct {
	Repr  string
	Value string
}

// StepOut resumes the target until the currently in-progress
// sub-expression finishes evaluating, then validates the landing point.
type StepOut struct {
	host    adapter.HostDebugger
	decoder *Decoder
}

// NewStepOut builds the engine over a host debugger and a decoder.
func NewStepOut(host adapter.HostDebugger, decoder *Decoder) *StepOut {
	return &StepOut{host: host, decoder: decoder}
}

// Run performs one step-out. Over successive stops, a given expression of a
// given activation only ever moves forward (not started, started, done), so
// on success the target has necessarily made progress.
func (s *StepOut) Run() (*StepOutResult, error) {
	frame, err := s.host.SelectedFrame()
	if err != nil {
		return nil, err
	}

	state := s.decoder.Decode(frame)
	if state == nil {
		return nil, ErrNotEvaluating
	}

	scopeState, current := state.CurrentExpression()
	if current == nil {
		return nil, ErrNotEvaluating
	}

	untilLine := doneLineFor(scopeState.Scope, current.ID)
	if untilLine == 0 {
		return nil, &CodegenBugError{Expr: current}
	}

	if err := s.host.RunUntil(untilLine); err != nil {
		return nil, err
	}

	// The resumption may have gone anywhere: the user may have interrupted
	// the target, or the mapping may be stale. Re-decode and make sure we
	// landed where the model says we should have.
	newFrame, err := s.host.SelectedFrame()
	if err != nil {
		return nil, err
	}

	newState := s.decoder.Decode(newFrame)
	if newState == nil || newState.Property != state.Property {
		return nil, &ConsistencyError{Check: CheckSameProperty}
	}

	newExpr := newState.Expression(current.ID)
	if newExpr == nil {
		return nil, &ConsistencyError{Check: CheckExprFound}
	}

	if newExpr.Status != m.StatusDone {
		return nil, &ConsistencyError{Check: CheckExprDone}
	}

	value, err := newFrame.Vars.ReadVariable(strings.ToLower(newExpr.ResultVar))
	if err != nil {
		return nil, err
	}

	return &StepOutResult{Repr: current.Repr, Value: value}, nil
}

// doneLineFor finds the generated line at which the expression's
// evaluation completes, looking only at the scope that started it.
func doneLineFor(scope *m.Scope, id int) int {
	line := 0

	for _, event := range scope.Events {
		if done, ok := event.(m.ExprDone); ok && done.ID == id {
			line = done.Line
		}
	}

	return line
}
