package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCmd_ListsProperties(t *testing.T) {
	useFixtureSession(t)

	out := runCommand(t, "info")

	assert.Contains(t, out, "Calc.P_Incr")
	assert.Contains(t, out, "Calc.P_Native")
	assert.Contains(t, out, "calc.dsl:3")
	assert.Contains(t, out, "TOTAL 2")
}

func TestInfoCmd_NoGeneratedSources(t *testing.T) {
	t.Setenv("PROPLENS_GENERATED", "")

	originalFlags := generatedFlags
	generatedFlags = nil
	t.Cleanup(func() { generatedFlags = originalFlags })

	root := newRootCmd()
	root.AddCommand(newInfoCmd())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"info"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no generated sources configured")
}
