package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag(t *testing.T) {
	e, err := Tag("seniority", "senior", "mid")
	require.NoError(t, err)
	assert.Equal(t, []Clause{{Key: "seniority", Values: []string{"senior", "mid"}}}, e.Clauses())
	assert.False(t, e.IsEmpty())
}

func TestAndNot_Chain(t *testing.T) {
	e, err := Tag("category", "FINANCE")
	require.NoError(t, err)
	e, err = e.Not("seniority", "intern")
	require.NoError(t, err)

	assert.Equal(t, []Clause{
		{Key: "category", Values: []string{"FINANCE"}},
		{Key: "seniority", Values: []string{"intern"}, Negate: true},
	}, e.Clauses())
}

func TestExpression_Immutable(t *testing.T) {
	base, err := Tag("a", "1")
	require.NoError(t, err)

	_, err = base.And("b", "2")
	require.NoError(t, err)
	assert.Len(t, base.Clauses(), 1)

	values := []string{"x"}
	e, err := Tag("k", values...)
	require.NoError(t, err)
	values[0] = "mutated"
	assert.Equal(t, "x", e.Clauses()[0].Values[0])
}

func TestValidation(t *testing.T) {
	many := make([]string, MaxValuesPerClause+1)
	for i := range many {
		many[i] = "v"
	}

	tests := []struct {
		name    string
		key     string
		values  []string
		wantErr string
	}{
		{"empty key", "", []string{"x"}, "key is required"},
		{"no values", "k", nil, "at least one value"},
		{"blank value", "k", []string{"a", ""}, "empty value"},
		{"too many", "k", many, "too many values"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tag(tc.key, tc.values...)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	assert.True(t, Expression{}.IsEmpty())
	assert.Empty(t, Expression{}.Clauses())
}
