package model

// Match is one candidate produced while resolving a breakpoint request: a
// property, the DSL location that matched and the generated line to break
// on.
type Match struct {
	Property *Property
	Loc      DSLLocation
	Line     int
}
