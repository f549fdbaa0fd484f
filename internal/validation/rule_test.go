package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	rule, err := ParseRule("max:255")
	require.NoError(t, err)
	assert.Equal(t, Max(255), rule)

	rule, err = ParseRule(" in:exam, test ,quiz")
	require.NoError(t, err)
	assert.Equal(t, In("exam", "test", "quiz"), rule)

	rule, err = ParseRule("exists:students,id")
	require.NoError(t, err)
	assert.Equal(t, Exists("students", "id"), rule)

	rule, err = ParseRule("unique:users,email,{except_id}")
	require.NoError(t, err)
	assert.Equal(t, Unique("users", "email", "{except_id}"), rule)
	assert.Equal(t, "unique:users,email,{except_id}", rule.String())

	rule, err = ParseRule("Required")
	require.NoError(t, err)
	assert.Equal(t, Required(), rule)
}

func TestParseRuleRejectsMalformedRules(t *testing.T) {
	for _, raw := range []string{"regex:^a$", "max", "min:abc", "in:", "exists:students", "unique:a,b,c,d", "string:8"} {
		_, err := ParseRule(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRulesStopsAtFirstError(t *testing.T) {
	_, err := ParseRules([]string{"required", "bogus", "string"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	rules, err := ParseRules([]string{"required", "numeric", "min:0"})
	require.NoError(t, err)
	assert.Equal(t, []Rule{Required(), Numeric(), Min(0)}, rules)
}
