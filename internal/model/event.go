package model

// Event is one entry of a scope's ordered event log. The set of
// implementations is closed: Binding, ExprStart, ExprDone and *Scope.
type Event interface {
	// GenLine is the generated-code line the event is attached to.
	GenLine() int
	event()
}

// Binding declares a DSL-level variable and the generated variable that
// backs it.
type Binding struct {
	DSLName string
	GenName string
	Line    int
}

// GenLine implements Event.
func (b Binding) GenLine() int { return b.Line }

func (Binding) event() {}

// ExprStart marks the first generated line evaluating one sub-expression.
type ExprStart struct {
	ID   int
	Repr string
	Loc  DSLLocation // zero when the expression has no DSL location
	Line int
}

// GenLine implements Event.
func (e ExprStart) GenLine() int { return e.Line }

func (ExprStart) event() {}

// ExprDone marks the generated line at which the evaluation of the
// expression with the same ID is complete and its result stored.
type ExprDone struct {
	ID        int
	ResultVar string
	Line      int
}

// GenLine implements Event.
func (e ExprDone) GenLine() int { return e.Line }

func (ExprDone) event() {}
