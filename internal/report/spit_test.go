// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covctl/covctl/internal/differ"
)

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "75.00%", formatRate(0.75, false))
	assert.Equal(t, "0.00%", formatRate(0.0, false))
	assert.Equal(t, "100.00%", formatRate(1.0, false))
	assert.Equal(t, "-", formatRate("not a number", false))
	assert.Equal(t, "-", formatRate(nil, false))
}

func TestFormatMissingRanges(t *testing.T) {
	tests := []struct {
		name     string
		lines    interface{}
		expected string
	}{
		{"empty", []int{}, ""},
		{"nil", nil, ""},
		{"singleton", []int{5}, "5"},
		{"mixed", []int{1, 2, 3, 7, 8, 10}, "1-3, 7-8, 10"},
		{"generic slice", []interface{}{1.0, 2.0, 9.0}, "1-2, 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMissingRanges(tt.lines, false))
		})
	}
}

func TestFormatDeltaCount(t *testing.T) {
	assert.Equal(t, "+3", formatDeltaCount(3, false))
	assert.Equal(t, "-2", formatDeltaCount(-2, false))
	assert.Equal(t, "-", formatDeltaCount(0, false))
	assert.Equal(t, "-", formatDeltaCount(nil, false))
}

func TestFormatDeltaMisses_NoColor(t *testing.T) {
	assert.Equal(t, "+4", formatDeltaMisses(4, false))
	assert.Equal(t, "-1", formatDeltaMisses(-1, false))
	assert.Equal(t, "-", formatDeltaMisses(0, false))
}

func TestFormatDeltaRate(t *testing.T) {
	assert.Equal(t, "+12.50%", formatDeltaRate(0.125, false))
	assert.Equal(t, "-5.00%", formatDeltaRate(-0.05, false))
	assert.Equal(t, "-", formatDeltaRate(0.0, false))
}

func TestFormatDeltaMissing(t *testing.T) {
	entries := []differ.MissedLine{
		{Line: 3, IsNew: false},
		{Line: 5, IsNew: true},
		{Line: 9, IsNew: false},
	}

	assert.Equal(t, "-3, +5, -9", formatDeltaMissing(entries, false))
	assert.Equal(t, "", formatDeltaMissing([]differ.MissedLine{}, false))
	assert.Equal(t, "", formatDeltaMissing(nil, false))
}

// TestFormatDeltaMissing_GenericDataset verifies entries survive the generic
// map shape produced for the filter/sort pipeline.
func TestFormatDeltaMissing_GenericDataset(t *testing.T) {
	entries := []interface{}{
		map[string]interface{}{"line": 2.0, "isNew": true},
		map[string]interface{}{"line": 7.0, "isNew": false},
	}

	assert.Equal(t, "+2, -7", formatDeltaMissing(entries, false))
}

func TestInterfaceToString(t *testing.T) {
	assert.Equal(t, "abc", InterfaceToString("abc"))
	assert.Equal(t, "42", InterfaceToString(42))
	assert.Equal(t, "0.50", InterfaceToString(0.5))
	assert.Equal(t, "true", InterfaceToString(true))
	assert.Equal(t, "", InterfaceToString(nil))
	assert.Equal(t, "-", InterfaceToString(nil, "-"))
	assert.Equal(t, "-", InterfaceToString("", "-"))
}

func TestSortDataset(t *testing.T) {
	ds := []map[string]interface{}{
		{"name": "b.py", "misses": 2},
		{"name": "a.py", "misses": 5},
		{"name": "c.py", "misses": 2},
	}

	SortDataset(ds, "-misses,name")

	assert.Equal(t, "a.py", ds[0]["name"])
	assert.Equal(t, "b.py", ds[1]["name"])
	assert.Equal(t, "c.py", ds[2]["name"])
}

func TestSortDataset_CaseSensitive(t *testing.T) {
	ds := []map[string]interface{}{
		{"name": "a.py"},
		{"name": "B.py"},
	}

	SortDataset(ds, "!name")
	assert.Equal(t, "B.py", ds[0]["name"])

	SortDataset(ds, "name")
	assert.Equal(t, "a.py", ds[0]["name"])
}

func TestDeltaColumns(t *testing.T) {
	withSource := deltaColumns(nil, true)
	withoutSource := deltaColumns(nil, false)

	assert.Len(t, withSource, 5)
	assert.Len(t, withoutSource, 4)
	assert.Equal(t, "Missing", withSource[4].Title)
}
