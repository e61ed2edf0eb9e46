// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []Filter
	}{
		{
			name:     "empty spec",
			spec:     "",
			expected: nil,
		},
		{
			name: "exact match",
			spec: "name=app/main.py",
			expected: []Filter{
				{Key: "name", Operand: "=", Value: "app/main.py"},
			},
		},
		{
			name: "numeric greater-than",
			spec: "misses>0",
			expected: []Filter{
				{Key: "misses", Operand: ">", Value: "0"},
			},
		},
		{
			name: "negated regex",
			spec: "name!/^vendor/",
			expected: []Filter{
				{Key: "name", Negate: true, Operand: "/", Value: "^vendor/"},
			},
		},
		{
			name: "multiple filters",
			spec: "misses>0,name^app",
			expected: []Filter{
				{Key: "misses", Operand: ">", Value: "0"},
				{Key: "name", Operand: "^", Value: "app"},
			},
		},
		{
			name:     "empty key skipped",
			spec:     "=value",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFilters_CustomDelimiter(t *testing.T) {
	t.Setenv("COVCTL_FILTER_DELIM", ";")

	result := BuildFilters("name@a,b;misses>0")

	assert.Equal(t, []Filter{
		{Key: "name", Operand: "@", Value: "a,b"},
		{Key: "misses", Operand: ">", Value: "0"},
	}, result)
}

func coverageDataset() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "app/main.py", "statements": 10, "misses": 4, "lineRate": 0.6},
		{"name": "app/util.py", "statements": 5, "misses": 0, "lineRate": 1.0},
		{"name": "vendor/dep.py", "statements": 8, "misses": 2, "lineRate": 0.75},
	}
}

func TestFilterDataset(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []string
	}{
		{
			name:     "no filters passes everything",
			spec:     "",
			expected: []string{"app/main.py", "app/util.py", "vendor/dep.py"},
		},
		{
			name:     "numeric greater-than",
			spec:     "misses>0",
			expected: []string{"app/main.py", "vendor/dep.py"},
		},
		{
			name:     "exact string",
			spec:     "name=app/util.py",
			expected: []string{"app/util.py"},
		},
		{
			name:     "prefix",
			spec:     "name^app",
			expected: []string{"app/main.py", "app/util.py"},
		},
		{
			name:     "negated regex",
			spec:     "name!/^vendor/",
			expected: []string{"app/main.py", "app/util.py"},
		},
		{
			name:     "contains",
			spec:     "name@util",
			expected: []string{"app/util.py"},
		},
		{
			name:     "conjunction",
			spec:     "misses>0,name^app",
			expected: []string{"app/main.py"},
		},
		{
			name:     "numeric equality on float",
			spec:     "lineRate=1",
			expected: []string{"app/util.py"},
		},
		{
			name:     "missing key fails row",
			spec:     "ghost=1",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterDataset(coverageDataset(), tt.spec)

			var names []string
			for _, row := range result {
				names = append(names, row["name"].(string))
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(5, Filter{Operand: "=", Value: "5"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "=", Value: "5", Negate: true}))
	assert.True(t, checkNumericOperand(5, Filter{Operand: ">", Value: "4"}))
	assert.True(t, checkNumericOperand(5, Filter{Operand: "<", Value: "6"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "=", Value: "junk"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "~", Value: "5"}))
}

func TestCheckStringOperand(t *testing.T) {
	assert.True(t, checkStringOperand("Abc", Filter{Operand: "~", Value: "abc"}))
	assert.False(t, checkStringOperand("Abc", Filter{Operand: "=", Value: "abc"}))
	assert.True(t, checkStringOperand("abcdef", Filter{Operand: "^", Value: "abc"}))
	assert.True(t, checkStringOperand("abcdef", Filter{Operand: "@", Value: "cde"}))
	assert.True(t, checkStringOperand("abcdef", Filter{Operand: "/", Value: "^a.*f$"}))
	assert.False(t, checkStringOperand("abcdef", Filter{Operand: "/", Value: "("}))
}
