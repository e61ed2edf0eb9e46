// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covctl/covctl/internal/cobertura"
	"github.com/covctl/covctl/internal/differ"
)

// buildSnapshot assembles a snapshot from file name to line number to hit.
func buildSnapshot(t *testing.T, files map[string]map[int]bool) *cobertura.Snapshot {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(`<coverage><packages><package name="pkg"><classes>`)
	for _, name := range names {
		fmt.Fprintf(&b, `<class name=%q filename=%q><lines>`, name, name)

		numbers := make([]int, 0, len(files[name]))
		for n := range files[name] {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		for _, n := range numbers {
			hits := 0
			if files[name][n] {
				hits = 1
			}
			fmt.Fprintf(&b, `<line number="%d" hits="%d"/>`, n, hits)
		}

		b.WriteString(`</lines></class>`)
	}
	b.WriteString(`</classes></package></packages></coverage>`)

	snap, err := cobertura.Parse([]byte(b.String()))
	require.NoError(t, err)
	return snap
}

func TestReporterRows(t *testing.T) {
	snap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: true, 2: false, 3: false},
		"b.py": {1: true, 2: true},
	})

	r := &Reporter{Snapshot: snap}

	rows, err := r.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		Name:            "a.py",
		TotalStatements: 3,
		TotalMisses:     2,
		LineRate:        1.0 / 3.0,
		MissedLines:     []int{2, 3},
	}, rows[0])

	assert.Equal(t, "b.py", rows[1].Name)
	assert.Empty(t, rows[1].MissedLines)

	footer := rows[2]
	assert.Equal(t, FooterName, footer.Name)
	assert.Equal(t, 5, footer.TotalStatements)
	assert.Equal(t, 2, footer.TotalMisses)
	assert.InDelta(t, 3.0/5.0, footer.LineRate, 1e-9)
	assert.Empty(t, footer.MissedLines)
}

// TestDeltaReporterRows_DropsUnchanged verifies class files with all-zero
// scalar deltas do not appear, while the footer always does.
func TestDeltaReporterRows_DropsUnchanged(t *testing.T) {
	oldSnap := buildSnapshot(t, map[string]map[int]bool{
		"same.py":    {1: true, 2: false},
		"changed.py": {1: true, 2: false},
	})
	newSnap := buildSnapshot(t, map[string]map[int]bool{
		"same.py":    {1: true, 2: false},
		"changed.py": {1: true, 2: true},
	})

	r := &DeltaReporter{Diff: differ.New(oldSnap, newSnap), IncludeSource: true}

	rows, err := r.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "changed.py", rows[0].Name)
	assert.Equal(t, 0, rows[0].Statements)
	assert.Equal(t, -1, rows[0].Misses)
	assert.Equal(t, []differ.MissedLine{{Line: 2, IsNew: false}}, rows[0].MissedLines)

	footer := rows[1]
	assert.Equal(t, FooterName, footer.Name)
	assert.Equal(t, -1, footer.Misses)
	assert.Empty(t, footer.MissedLines)
}

// TestDeltaReporterRows_NetZeroChurn verifies a pure line shuffle with equal
// in/out counts is treated as unchanged even though individual missed lines
// moved.
func TestDeltaReporterRows_NetZeroChurn(t *testing.T) {
	oldSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: false, 2: true, 3: true},
	})
	newSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: true, 2: false, 3: true},
	})

	r := &DeltaReporter{Diff: differ.New(oldSnap, newSnap), IncludeSource: true}

	rows, err := r.Rows()
	require.NoError(t, err)

	// Only the footer survives.
	require.Len(t, rows, 1)
	assert.Equal(t, FooterName, rows[0].Name)
}

// TestDeltaReporterRows_WithoutSource verifies MissedLines stays nil when the
// reporter was built without source detail.
func TestDeltaReporterRows_WithoutSource(t *testing.T) {
	oldSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: false},
	})
	newSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: true},
	})

	r := &DeltaReporter{Diff: differ.New(oldSnap, newSnap), IncludeSource: false}

	rows, err := r.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].MissedLines)
	assert.Nil(t, rows[1].MissedLines)
}

// TestDeltaReporterRows_AddedFile verifies absence-as-zero: a new file's full
// counts appear as positive deltas.
func TestDeltaReporterRows_AddedFile(t *testing.T) {
	oldSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py": {1: true},
	})
	newSnap := buildSnapshot(t, map[string]map[int]bool{
		"a.py":   {1: true},
		"new.py": {1: true, 2: false},
	})

	r := &DeltaReporter{Diff: differ.New(oldSnap, newSnap), IncludeSource: true}

	rows, err := r.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "new.py", rows[0].Name)
	assert.Equal(t, 2, rows[0].Statements)
	assert.Equal(t, 1, rows[0].Misses)
	assert.Equal(t, []differ.MissedLine{{Line: 2, IsNew: true}}, rows[0].MissedLines)
}

func TestDeltaRowChanged(t *testing.T) {
	assert.False(t, DeltaRow{}.Changed())
	assert.True(t, DeltaRow{Statements: 1}.Changed())
	assert.True(t, DeltaRow{Misses: -1}.Changed())
	assert.True(t, DeltaRow{LineRate: 0.01}.Changed())

	churn := DeltaRow{MissedLines: []differ.MissedLine{{Line: 1, IsNew: true}}}
	assert.False(t, churn.Changed())
}
