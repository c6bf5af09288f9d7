package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMIRecord_Done(t *testing.T) {
	record, err := parseMIRecord(`^done,value="42"`)
	require.NoError(t, err)
	assert.Equal(t, "done", record.Class)
	assert.Equal(t, "42", record.Results["value"])
}

func TestParseMIRecord_NoResults(t *testing.T) {
	record, err := parseMIRecord(`^running`)
	require.NoError(t, err)
	assert.Equal(t, "running", record.Class)
	assert.Empty(t, record.Results)
}

func TestParseMIRecord_Stopped(t *testing.T) {
	record, err := parseMIRecord(
		`*stopped,reason="end-stepping-range",frame={addr="0x1",func="p_lookup",line="14",fullname="/src/store_impl.gen"}`,
	)
	require.NoError(t, err)
	assert.Equal(t, "stopped", record.Class)
	assert.Equal(t, "end-stepping-range", record.Results["reason"])

	frame := parseMITuple(record.Results["frame"])
	assert.Equal(t, "14", frame["line"])
	assert.Equal(t, "/src/store_impl.gen", frame["fullname"])
}

func TestParseMIRecord_Error(t *testing.T) {
	record, err := parseMIRecord(`^error,msg="No symbol \"foo\" in current context."`)
	require.NoError(t, err)
	assert.Equal(t, "error", record.Class)
	assert.Equal(t, `No symbol "foo" in current context.`, record.Results["msg"])
}

func TestParseMIResults_StringEscapes(t *testing.T) {
	results := parseMIResults(`value="a \"quoted\" word",next="tab\there\nand a \\"`)
	assert.Equal(t, `a "quoted" word`, results["value"])
	assert.Equal(t, "tab\there\nand a \\", results["next"])
}

func TestParseMIRecord_NotARecord(t *testing.T) {
	_, err := parseMIRecord(`(gdb)`)
	assert.Error(t, err)

	_, err = parseMIRecord("")
	assert.Error(t, err)
}

func TestParseMIResults_NestedAggregates(t *testing.T) {
	results := parseMIResults(
		`bkpt={number="1",locations=[{number="1.1",line="7"}]},times="0"`,
	)
	assert.Equal(t, "0", results["times"])

	bkpt := parseMITuple(results["bkpt"])
	assert.Equal(t, "1", bkpt["number"])
	assert.Equal(t, `[{number="1.1",line="7"}]`, bkpt["locations"])
}
