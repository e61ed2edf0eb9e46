// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/covctl/covctl/internal/cobertura"
	"github.com/covctl/covctl/internal/log"
)

// DefaultContext is how many unchanged lines are kept on each side of a
// change when grouping source lines into hunks. Overridable per Diff via
// WithContext and per invocation via the --context flag.
const DefaultContext = 3

// LineStatus classifies a source line within a hunk.
type LineStatus int

const (
	// StatusUnchanged tags a line whose miss state is identical in both
	// snapshots. Unchanged lines only survive grouping as StatusContext.
	StatusUnchanged LineStatus = iota
	// StatusContext is an unchanged line retained because it falls within the
	// context window of a change.
	StatusContext
	// StatusNewMiss is a line missed in the new snapshot but not the old.
	StatusNewMiss
	// StatusFixedMiss is a line missed in the old snapshot but not the new.
	StatusFixedMiss
)

// String returns the renderer-facing name of the status.
func (s LineStatus) String() string {
	switch s {
	case StatusContext:
		return "context"
	case StatusNewMiss:
		return "new-miss"
	case StatusFixedMiss:
		return "fixed-miss"
	default:
		return "unchanged"
	}
}

// Line is one annotated source line within a hunk.
type Line struct {
	Number int        `json:"number"`
	Text   string     `json:"text"`
	Status LineStatus `json:"status"`
}

// Hunk is a contiguous run of annotated source lines surrounding one or more
// coverage changes.
type Hunk struct {
	Lines []Line `json:"lines"`
}

// Start returns the first line number of the hunk.
func (h Hunk) Start() int {
	if len(h.Lines) == 0 {
		return 0
	}
	return h.Lines[0].Number
}

// Stop returns the last line number of the hunk.
func (h Hunk) Stop() int {
	if len(h.Lines) == 0 {
		return 0
	}
	return h.Lines[len(h.Lines)-1].Number
}

// ClassSourceHunks walks the union of both snapshots' source for the named
// class file, tags each line with the same new/fixed classification as
// DiffMissedLines, and groups the result into hunks. Runs of unchanged lines
// are collapsed so only the context window around each change survives. New-
// side text wins; old-side text fills in lines the new version no longer has.
// If either side lacks source, the result is empty and nil error: missing
// source is a degradation, not a failure.
func (d *Diff) ClassSourceHunks(name string) ([]Hunk, error) {
	log.Tracef("ClassSourceHunks(%s)", name)

	if !d.old.Has(name) && !d.new.Has(name) {
		return nil, fmt.Errorf("%w: %s", cobertura.ErrUnknownClass, name)
	}

	oldSrc := sideSource(d.old, name)
	newSrc := sideSource(d.new, name)
	if oldSrc == nil || newSrc == nil {
		return []Hunk{}, nil
	}

	changes, err := d.DiffMissedLines(name)
	if err != nil {
		return nil, err
	}

	newMiss := map[int]bool{}
	fixedMiss := map[int]bool{}
	for _, ml := range changes {
		if ml.IsNew {
			newMiss[ml.Line] = true
		} else {
			fixedMiss[ml.Line] = true
		}
	}

	lines := unionSource(oldSrc, newSrc)
	for i := range lines {
		switch {
		case newMiss[lines[i].Number]:
			lines[i].Status = StatusNewMiss
		case fixedMiss[lines[i].Number]:
			lines[i].Status = StatusFixedMiss
		default:
			lines[i].Status = StatusUnchanged
		}
	}

	return groupHunks(lines, d.context), nil
}

// sideSource loads one snapshot's source text. An absent class file or
// unreadable source yields nil so the caller can degrade to an empty result.
func sideSource(s *cobertura.Snapshot, name string) []cobertura.SourceLine {
	if !s.Has(name) {
		return nil
	}

	src, err := s.SourceLines(name)
	if err != nil {
		log.Debugf("degrading to no hunks: name=%s err=%v", name, err)
		return nil
	}

	return src
}

// unionSource merges the two sides' source by line number, preferring the new
// side's text and keeping old-side text for lines past the end of the new
// version.
func unionSource(oldSrc, newSrc []cobertura.SourceLine) []Line {
	max := len(newSrc)
	if len(oldSrc) > max {
		max = len(oldSrc)
	}

	lines := make([]Line, max)
	for i := 0; i < max; i++ {
		lines[i].Number = i + 1
		if i < len(newSrc) {
			lines[i].Text = newSrc[i].Text
		} else {
			lines[i].Text = oldSrc[i].Text
		}
	}

	return lines
}

// groupHunks keeps every changed line plus up to context unchanged neighbors
// on each side, relabels the survivors as context, and splits the result into
// contiguous hunks wherever collapsed lines leave a gap.
func groupHunks(lines []Line, context int) []Hunk {
	keep := make([]bool, len(lines))
	for i := range lines {
		if lines[i].Status == StatusUnchanged {
			continue
		}

		lo := i - context
		if lo < 0 {
			lo = 0
		}
		hi := i + context
		if hi > len(lines)-1 {
			hi = len(lines) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	hunks := []Hunk{}
	var current []Line
	for i, line := range lines {
		if !keep[i] {
			if len(current) > 0 {
				hunks = append(hunks, Hunk{Lines: current})
				current = nil
			}
			continue
		}

		if line.Status == StatusUnchanged {
			line.Status = StatusContext
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		hunks = append(hunks, Hunk{Lines: current})
	}

	return hunks
}
