package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrace() Trace {
	return Trace{
		Unit: "store_impl.gen",
		Stops: []TraceStop{
			{Line: 10, Vars: map[string]string{"Key_1": `"size"`}},
			{Line: 13, Vars: map[string]string{"key_1": `"size"`}},
			{Line: 14, Vars: map[string]string{"key_1": `"size"`, "expr_1": "42"}},
		},
	}
}

func TestReplayHostSelectedFrame(t *testing.T) {
	host := NewReplayHost(testTrace())

	frame, err := host.SelectedFrame()
	require.NoError(t, err)
	assert.Equal(t, "store_impl.gen", frame.Unit)
	assert.Equal(t, 10, frame.Line)
}

func TestReplayHostReadVariable_IgnoresCase(t *testing.T) {
	host := NewReplayHost(testTrace())

	// The trace records "Key_1"; any casing must resolve to it.
	for _, name := range []string{"key_1", "Key_1", "KEY_1"} {
		value, err := host.ReadVariable(name)
		require.NoError(t, err)
		assert.Equal(t, `"size"`, value)
	}

	_, err := host.ReadVariable("expr_1")
	assert.Error(t, err)
}

func TestReplayHostRunUntil(t *testing.T) {
	host := NewReplayHost(testTrace())

	require.NoError(t, host.RunUntil(14))

	frame, err := host.SelectedFrame()
	require.NoError(t, err)
	assert.Equal(t, 14, frame.Line)

	value, err := host.ReadVariable("expr_1")
	require.NoError(t, err)
	assert.Equal(t, "42", value)

	// Only forward motion: line 10 is behind us now.
	assert.Error(t, host.RunUntil(10))
}

func TestReplayHostStep(t *testing.T) {
	host := NewReplayHost(testTrace())

	assert.True(t, host.Step())
	assert.True(t, host.Step())
	assert.False(t, host.Step())

	frame, err := host.SelectedFrame()
	require.NoError(t, err)
	assert.Equal(t, 14, frame.Line)
}

func TestReplayHostSetBreakpoint(t *testing.T) {
	host := NewReplayHost(testTrace())

	require.NoError(t, host.SetBreakpoint("store_impl.gen", 7))
	assert.Equal(t, []int{7}, host.Breakpoints())
}

func TestLoadTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"unit": "u.gen", "stops": [{"line": 3, "vars": {"x_1": "1"}}]}`,
	), 0o644))

	trace, err := LoadTrace(path)
	require.NoError(t, err)
	assert.Equal(t, "u.gen", trace.Unit)
	require.Len(t, trace.Stops, 1)
	assert.Equal(t, 3, trace.Stops[0].Line)
}

func TestLoadTrace_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTrace(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"unit": "u.gen", "stops": []}`), 0o644))

	_, err = LoadTrace(empty)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o644))

	_, err = LoadTrace(garbage)
	assert.Error(t, err)
}
