// Package adapter isolates the collaborators this tool drives but does not
// own: the host debugger controlling the target process, and the debug
// information the code generator embedded in generated sources.
package adapter

// VariableReader reads the display text of named variables in the currently
// selected frame. The host environment's lookup is case-insensitive; callers
// lower-case names before lookup to stay on the safe side.
type VariableReader interface {
	ReadVariable(name string) (string, error)
}

// FrameSnapshot is what the host debugger exposes about the selected frame
// at a stop: the generated unit it executes, the current generated line and
// access to its variables.
type FrameSnapshot struct {
	Unit string
	Line int
	Vars VariableReader
}

// HostDebugger is the control surface this tool needs from a debugger. The
// engine only decides where to resume and how to verify the landing point;
// actual execution control stays with the host.
type HostDebugger interface {
	VariableReader

	// SelectedFrame returns a snapshot of the currently selected frame.
	SelectedFrame() (*FrameSnapshot, error)
	// SetBreakpoint places a breakpoint at file:line in generated code.
	SetBreakpoint(file string, line int) error
	// RunUntil resumes the target until the given generated line is
	// reached in the current frame. It blocks for the whole resumption.
	RunUntil(line int) error
}
