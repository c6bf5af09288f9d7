package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/proplens/proplens/internal/logger"
)

// TraceStop is one recorded stop of the target: the generated line reached
// and the variables readable there.
type TraceStop struct {
	Line int               `json:"line"`
	Vars map[string]string `json:"vars"`
}

// Trace is a recorded execution of a generated unit, as an ordered list of
// stops. Traces back the replay host used by tests, examples and the repl.
type Trace struct {
	Unit  string      `json:"unit"`
	Stops []TraceStop `json:"stops"`
}

// LoadTrace reads a trace from a JSON file.
func LoadTrace(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("failed to read trace: %w", err)
	}

	var trace Trace
	if err := json.Unmarshal(data, &trace); err != nil {
		return Trace{}, fmt.Errorf("failed to parse trace %s: %w", path, err)
	}

	if len(trace.Stops) == 0 {
		return Trace{}, fmt.Errorf("trace %s has no stops", path)
	}

	return trace, nil
}

// ReplayHost is a HostDebugger that replays a recorded trace. Resuming
// moves forward through the recorded stops; variable reads hit the current
// stop's recorded values.
type ReplayHost struct {
	trace       Trace
	pos         int
	breakpoints []int
}

// NewReplayHost builds a replay host positioned at the first recorded stop.
func NewReplayHost(trace Trace) *ReplayHost {
	// Lower-case recorded names once so lookups behave like the
	// case-insensitive host environment they stand in for.
	for _, stop := range trace.Stops {
		for name, value := range stop.Vars {
			lower := strings.ToLower(name)
			if lower != name {
				stop.Vars[lower] = value
				delete(stop.Vars, name)
			}
		}
	}

	return &ReplayHost{trace: trace}
}

// SelectedFrame implements HostDebugger.
func (h *ReplayHost) SelectedFrame() (*FrameSnapshot, error) {
	return &FrameSnapshot{
		Unit: h.trace.Unit,
		Line: h.trace.Stops[h.pos].Line,
		Vars: h,
	}, nil
}

// ReadVariable implements VariableReader against the current stop.
func (h *ReplayHost) ReadVariable(name string) (string, error) {
	value, ok := h.trace.Stops[h.pos].Vars[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("no variable %q at line %d", name, h.trace.Stops[h.pos].Line)
	}

	return value, nil
}

// SetBreakpoint records the request; a replayed target has nothing to
// actually interrupt.
func (h *ReplayHost) SetBreakpoint(file string, line int) error {
	logger.Log.Debug("replay breakpoint", "file", file, "line", line)
	h.breakpoints = append(h.breakpoints, line)

	return nil
}

// RunUntil advances to the next recorded stop at the given line.
func (h *ReplayHost) RunUntil(line int) error {
	for i := h.pos + 1; i < len(h.trace.Stops); i++ {
		if h.trace.Stops[i].Line == line {
			h.pos = i
			return nil
		}
	}

	return fmt.Errorf("line %d is never reached in the recorded trace", line)
}

// Step advances to the next recorded stop. It reports false when the trace
// is exhausted.
func (h *ReplayHost) Step() bool {
	if h.pos+1 >= len(h.trace.Stops) {
		return false
	}

	h.pos++

	return true
}

// Breakpoints returns the generated lines breakpoints were requested at.
func (h *ReplayHost) Breakpoints() []int {
	return h.breakpoints
}
