package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]Definition{
		"missing name":     {Fields: []FieldDefinition{{Path: "a", Rules: []string{"required"}}}},
		"duplicate path":   {Name: "x", Fields: []FieldDefinition{{Path: "a"}, {Path: "a"}}},
		"unknown rule":     {Name: "x", Fields: []FieldDefinition{{Path: "a", Rules: []string{"uuid"}}}},
		"nested wildcard":  {Name: "x", Fields: []FieldDefinition{{Path: "a.*.b.*.c"}}},
		"nested elements":  {Name: "x", Fields: []FieldDefinition{{Path: "a.*.*"}}},
		"bare wildcard":    {Name: "x", Fields: []FieldDefinition{{Path: "*"}}},
		"bad comparator":   {Name: "x", Cross: []CrossRule{{Field: "a", Other: "b", Comparator: "before"}}},
		"top against row":  {Name: "x", Cross: []CrossRule{{Field: "a", Other: "rows.*.b", Comparator: Gte}}},
		"mixed rows":       {Name: "x", Cross: []CrossRule{{Field: "a.*.x", Other: "b.*.y", Comparator: Gte}}},
		"ceiling of field": {Name: "x", Ceilings: []CeilingRule{{Field: "a", Limit: "b"}}},
	}
	for name, def := range cases {
		_, err := Compile(def)
		assert.Error(t, err, name)
	}
}

func TestRuleSetDefinitionRoundTrip(t *testing.T) {
	def := Definition{
		Name:        "teacher",
		Description: "Teacher accounts",
		Fields: []FieldDefinition{
			{Path: "email", Rules: []string{"required", "email", "max:255", "unique:users,email,{except_id}"}},
			{Path: "class_ids.*.id", Rules: []string{"required", "exists:classes,id"}},
		},
	}
	rs, err := Compile(def)
	require.NoError(t, err)
	assert.Equal(t, def, rs.Definition())
	assert.Equal(t, []string{"email", "class_ids.*.id"}, rs.Paths())
}

func TestRuleSetBind(t *testing.T) {
	rs, err := Compile(Definition{
		Name:   "teacher",
		Fields: []FieldDefinition{{Path: "email", Rules: []string{"unique:users,email,{except_id}"}}},
	})
	require.NoError(t, err)

	bound := rs.Bind(map[string]string{"except_id": "42"})
	assert.Equal(t, "42", bound.Fields[0].Rules[0].ExceptID)
	assert.Equal(t, "{except_id}", rs.Fields[0].Rules[0].ExceptID)

	unbound := rs.Bind(nil)
	assert.Equal(t, "", unbound.Fields[0].Rules[0].ExceptID)
}

func TestCompileElementPaths(t *testing.T) {
	rs, err := Compile(Definition{
		Name: "teacher",
		Fields: []FieldDefinition{
			{Path: "class_ids", Rules: []string{"sometimes", "array"}},
			{Path: "class_ids.*", Rules: []string{"required", "exists:classes,id"}},
		},
	})
	require.NoError(t, err)

	top, _, rows := rs.plan()
	require.Len(t, top, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "class_ids", rows[0].Collection)
	assert.Equal(t, "", rows[0].Fields[0].Path)
	assert.False(t, rows[0].objectRows())
}
