package model

// ExprStatus is the evaluation status of one sub-expression at a stop.
// Across successive stops of a single activation the status only moves
// forward: not started, then started, then done.
type ExprStatus int

// Available ExprStatus values.
const (
	StatusNotStarted ExprStatus = iota
	StatusStarted
	StatusDone
)

func (s ExprStatus) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusDone:
		return "done"
	default:
		return "not started"
	}
}

// ExpressionState is the decoded status of one sub-expression of a scope.
type ExpressionState struct {
	ID   int
	Repr string
	Loc  DSLLocation
	// ResultVar is the generated variable holding the result once done.
	ResultVar string
	Status    ExprStatus
}

// ScopeState is the evaluation status of one scope at a point in time: the
// bindings already visible and the status of each tracked sub-expression.
type ScopeState struct {
	Scope       *Scope
	Bindings    []Binding
	Expressions []*ExpressionState
}

// Expression returns the state of the sub-expression with the given ID, or
// nil when the scope does not track it.
func (ss *ScopeState) Expression(id int) *ExpressionState {
	for _, e := range ss.Expressions {
		if e.ID == id {
			return e
		}
	}

	return nil
}

// LastStarted returns the scope's in-progress sub-expression, or nil.
// Evaluation is a strict recursive descent, so scanning in event order and
// keeping the last started-but-not-done entry identifies it.
func (ss *ScopeState) LastStarted() *ExpressionState {
	var last *ExpressionState

	for _, e := range ss.Expressions {
		if e.Status == StatusStarted {
			last = e
		}
	}

	return last
}

// State is a snapshot of the currently running property: which scopes
// enclose the execution point and how far each of their sub-expressions
// got. A State is decoded fresh at every debugger stop and discarded
// afterwards; it is never cached across resumptions.
type State struct {
	Property *Property
	// Scopes lists the enclosing scope states, outermost first.
	Scopes []*ScopeState
}

// CurrentExpression finds the innermost in-progress sub-expression, looking
// at innermost scopes first and within a scope at the latest started entry.
// Both results are nil when nothing is being evaluated.
func (st *State) CurrentExpression() (*ScopeState, *ExpressionState) {
	for i := len(st.Scopes) - 1; i >= 0; i-- {
		ss := st.Scopes[i]
		if e := ss.LastStarted(); e != nil {
			return ss, e
		}
	}

	return nil, nil
}

// Expression looks up a sub-expression by ID across all scope states.
func (st *State) Expression(id int) *ExpressionState {
	for _, ss := range st.Scopes {
		if e := ss.Expression(id); e != nil {
			return e
		}
	}

	return nil
}
