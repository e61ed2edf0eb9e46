// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/apex/log"

	"github.com/covctl/covctl/internal/cobertura"
	"github.com/covctl/covctl/internal/differ"
)

// FooterName labels the aggregate row appended to every report. The footer
// never carries per-line detail.
const FooterName = "TOTAL"

// Row is one line of a single-snapshot report.
type Row struct {
	Name            string  `json:"name" yaml:"name"`
	TotalStatements int     `json:"statements" yaml:"statements"`
	TotalMisses     int     `json:"misses" yaml:"misses"`
	LineRate        float64 `json:"lineRate" yaml:"lineRate"`
	MissedLines     []int   `json:"missedLines" yaml:"missedLines"`
}

// DeltaRow is one line of a delta report. All scalar fields are new-minus-old
// deltas. MissedLines is nil when the reporter was built without source
// detail; the footer always has it empty.
type DeltaRow struct {
	Name        string              `json:"name" yaml:"name"`
	Statements  int                 `json:"statements" yaml:"statements"`
	Misses      int                 `json:"misses" yaml:"misses"`
	LineRate    float64             `json:"lineRate" yaml:"lineRate"`
	MissedLines []differ.MissedLine `json:"missedLines,omitempty" yaml:"missedLines,omitempty"`
}

// Changed reports whether any of the three scalar deltas is nonzero. This is
// the row filter predicate: a pure line shuffle with equal in/out counts
// leaves all scalars at zero and is treated as unchanged.
func (r DeltaRow) Changed() bool {
	return r.Statements != 0 || r.Misses != 0 || r.LineRate != 0
}

// Reporter builds the rows of a single-snapshot report.
type Reporter struct {
	Snapshot *cobertura.Snapshot
}

// Rows returns one row per class file in document order, followed by the
// aggregate footer.
func (r *Reporter) Rows() ([]Row, error) {
	log.Debugf(">> Reporter.Rows()")

	names := r.Snapshot.ClassFiles()
	rows := make([]Row, 0, len(names)+1)

	for _, name := range names {
		statements, err := r.Snapshot.TotalStatements(name)
		if err != nil {
			return nil, err
		}
		misses, err := r.Snapshot.TotalMisses(name)
		if err != nil {
			return nil, err
		}
		lineRate, err := r.Snapshot.LineRate(name)
		if err != nil {
			return nil, err
		}
		missed, err := r.Snapshot.MissedLines(name)
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			Name:            name,
			TotalStatements: statements,
			TotalMisses:     misses,
			LineRate:        lineRate,
			MissedLines:     missed,
		})
	}

	statements, _ := r.Snapshot.TotalStatements()
	misses, _ := r.Snapshot.TotalMisses()
	lineRate, _ := r.Snapshot.LineRate()

	rows = append(rows, Row{
		Name:            FooterName,
		TotalStatements: statements,
		TotalMisses:     misses,
		LineRate:        lineRate,
		MissedLines:     []int{},
	})

	return rows, nil
}

// DeltaReporter builds the rows of a delta report from a diff of two
// snapshots. IncludeSource is an explicit switch for the optional missed-line
// detail; it is never inferred from the call site.
type DeltaReporter struct {
	Diff          *differ.Diff
	IncludeSource bool
}

// Rows returns one row per changed class file plus the aggregate footer.
// Unchanged files (all three scalar deltas zero) are dropped, though their
// counts still contribute to the footer. Order follows Diff.ClassFiles, footer
// last.
func (r *DeltaReporter) Rows() ([]DeltaRow, error) {
	log.Debugf(">> DeltaReporter.Rows()")

	names := r.Diff.ClassFiles()
	rows := make([]DeltaRow, 0, len(names)+1)

	for _, name := range names {
		row, err := r.classRow(name)
		if err != nil {
			return nil, err
		}

		// Don't report unchanged class files.
		if !row.Changed() {
			continue
		}

		rows = append(rows, row)
	}

	footer, err := r.footerRow()
	if err != nil {
		return nil, err
	}
	rows = append(rows, footer)

	return rows, nil
}

// classRow assembles the delta row for one class file.
func (r *DeltaReporter) classRow(name string) (DeltaRow, error) {
	statements, err := r.Diff.DiffTotalStatements(name)
	if err != nil {
		return DeltaRow{}, err
	}
	misses, err := r.Diff.DiffTotalMisses(name)
	if err != nil {
		return DeltaRow{}, err
	}
	lineRate, err := r.Diff.DiffLineRate(name)
	if err != nil {
		return DeltaRow{}, err
	}

	row := DeltaRow{
		Name:       name,
		Statements: statements,
		Misses:     misses,
		LineRate:   lineRate,
	}

	if r.IncludeSource {
		missed, err := r.Diff.DiffMissedLines(name)
		if err != nil {
			return DeltaRow{}, err
		}
		if missed == nil {
			missed = []differ.MissedLine{}
		}
		row.MissedLines = missed
	}

	return row, nil
}

// footerRow assembles the aggregate footer from the whole-snapshot deltas.
func (r *DeltaReporter) footerRow() (DeltaRow, error) {
	statements, err := r.Diff.DiffTotalStatements()
	if err != nil {
		return DeltaRow{}, err
	}
	misses, err := r.Diff.DiffTotalMisses()
	if err != nil {
		return DeltaRow{}, err
	}
	lineRate, err := r.Diff.DiffLineRate()
	if err != nil {
		return DeltaRow{}, err
	}

	footer := DeltaRow{
		Name:       FooterName,
		Statements: statements,
		Misses:     misses,
		LineRate:   lineRate,
	}

	if r.IncludeSource {
		footer.MissedLines = []differ.MissedLine{}
	}

	return footer, nil
}
