package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/proplens/proplens/internal/model"
)

func writeGenerated(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

const lookupUnit = `-- generated, do not edit
--# property-start KV.Node.P_Lookup kv/store.dsl:12
procedure P_Lookup is
begin
   --# bind key Key_1
   Key_1 := Get_Key (Self);
   --# scope-start
   --# expr-start 1 "env.get(key)" kv/store.dsl:13:10
   Expr_1 := Env_Get (Self.Env, Key_1);
   --# expr-done 1 Expr_1
   --# scope-end
end P_Lookup;
--# property-end
--# property-start KV.Node.P_External kv/store.dsl:30
--# property-end
`

func TestLoaderLoad(t *testing.T) {
	path := writeGenerated(t, "store_impl.gen", lookupUnit)

	info, err := NewDebugInfoLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, info.Filename)
	require.Len(t, info.Properties, 2)

	lookup := info.Properties[0]
	assert.Equal(t, "KV.Node.P_Lookup", lookup.Name)
	assert.Equal(t, m.DSLLocation{File: "kv/store.dsl", Line: 12}, lookup.Loc)
	assert.Equal(t, path, lookup.GenFile)
	assert.Equal(t, m.LineRange{First: 2, Last: 13}, lookup.Scope.Range)

	// Root scope: one binding and one nested scope.
	require.Len(t, lookup.Scope.Events, 2)

	bind, ok := lookup.Scope.Events[0].(m.Binding)
	require.True(t, ok)
	assert.Equal(t, m.Binding{DSLName: "key", GenName: "Key_1", Line: 5}, bind)

	inner, ok := lookup.Scope.Events[1].(*m.Scope)
	require.True(t, ok)
	assert.Equal(t, m.LineRange{First: 7, Last: 11}, inner.Range)
	require.Len(t, inner.Events, 2)
	assert.Equal(t, m.ExprStart{
		ID:   1,
		Repr: "env.get(key)",
		Loc:  m.DSLLocation{File: "kv/store.dsl", Line: 13, Column: 10},
		Line: 8,
	}, inner.Events[0])
	assert.Equal(t, m.ExprDone{ID: 1, ResultVar: "Expr_1", Line: 10}, inner.Events[1])

	// External property: no inner scopes.
	external := info.Properties[1]
	assert.Equal(t, "KV.Node.P_External", external.Name)
	assert.Empty(t, external.Subscopes())
}

func TestLoaderLoad_NoLocationExpr(t *testing.T) {
	path := writeGenerated(t, "u.gen", strings.Join([]string{
		`--# property-start P a.dsl:1`,
		`--# scope-start`,
		`--# expr-start 1 "x and then y" -`,
		`--# expr-done 1 Expr_1`,
		`--# scope-end`,
		`--# property-end`,
	}, "\n"))

	info, err := NewDebugInfoLoader().Load(path)
	require.NoError(t, err)

	inner := info.Properties[0].Subscopes()[0]
	start := inner.Events[0].(m.ExprStart)
	assert.True(t, start.Loc.IsZero())
	assert.Equal(t, "x and then y", start.Repr)
}

func TestLoaderLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"unknown directive":       "--# frobnicate\n",
		"event outside property":  "--# bind x X_1\n",
		"unmatched scope-end":     "--# property-start P a.dsl:1\n--# scope-end\n",
		"nested property":         "--# property-start P a.dsl:1\n--# property-start Q a.dsl:2\n",
		"unclosed scope":          "--# property-start P a.dsl:1\n--# scope-start\n--# property-end\n",
		"missing property-end":    "--# property-start P a.dsl:1\n",
		"bad expr-start":          "--# property-start P a.dsl:1\n--# scope-start\n--# expr-start one \"x\" a.dsl:2\n",
		"bad expr-done id":        "--# property-start P a.dsl:1\n--# scope-start\n--# expr-done one Expr_1\n",
		"bad property location":   "--# property-start P nowhere\n",
		"bind without gen name":   "--# property-start P a.dsl:1\n--# bind x\n",
		"stray property-end":      "--# property-end\n",
		"unknown after directive": "--# property-start\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeGenerated(t, "bad.gen", content)

			_, err := NewDebugInfoLoader().Load(path)
			assert.Error(t, err)
			if err != nil {
				assert.Contains(t, err.Error(), path)
			}
		})
	}
}

func TestLoaderLoadAll(t *testing.T) {
	first := writeGenerated(t, "a.gen", lookupUnit)
	second := writeGenerated(t, "b.gen",
		"--# property-start Other.P a.dsl:1\n--# property-end\n")

	infos, err := NewDebugInfoLoader().LoadAll(first, second)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Input order is preserved despite concurrent parsing.
	assert.Equal(t, first, infos[0].Filename)
	assert.Equal(t, second, infos[1].Filename)
}

func TestLoaderLoadAll_PropagatesErrors(t *testing.T) {
	good := writeGenerated(t, "good.gen", lookupUnit)

	_, err := NewDebugInfoLoader().LoadAll(good, filepath.Join(t.TempDir(), "absent.gen"))
	assert.Error(t, err)
}
