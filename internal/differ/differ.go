// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"sort"

	"github.com/covctl/covctl/internal/cobertura"
	"github.com/covctl/covctl/internal/log"
)

// MissedLine is one entry of a per-class missed-line diff. IsNew is true when
// the line is missed in the new snapshot but not the old (a regression), false
// when it is missed in the old but not the new (a fix). Lines missed in both
// snapshots never appear.
type MissedLine struct {
	Line  int  `json:"line"`
	IsNew bool `json:"isNew"`
}

// Diff compares an old and a new coverage snapshot. It holds no state beyond
// the two read-only snapshots and its options, so a single value is safe to
// use from independent callers.
type Diff struct {
	old     *cobertura.Snapshot
	new     *cobertura.Snapshot
	context int
}

// Option customizes diff behavior.
type Option func(*Diff)

// WithContext overrides the number of unchanged lines kept around each change
// when building source hunks.
func WithContext(n int) Option {
	return func(d *Diff) {
		if n >= 0 {
			d.context = n
		}
	}
}

// New returns a Diff of new against old. Positive miss deltas mean regression;
// positive line-rate deltas mean improvement.
func New(oldSnap, newSnap *cobertura.Snapshot, opts ...Option) *Diff {
	d := &Diff{old: oldSnap, new: newSnap, context: DefaultContext}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ClassFiles returns the union of class files present in either snapshot. A
// file added or removed between the snapshots is still reportable. Order is
// stable: old-snapshot document order first, then new-only files.
func (d *Diff) ClassFiles() []string {
	names := append([]string{}, d.old.ClassFiles()...)

	for _, name := range d.new.ClassFiles() {
		if !d.old.Has(name) {
			names = append(names, name)
		}
	}

	return names
}

// DiffTotalStatements returns new minus old statement counts for the named
// class file, or for the whole snapshots when no name is given.
func (d *Diff) DiffTotalStatements(names ...string) (int, error) {
	return diffSides(d, (*cobertura.Snapshot).TotalStatements, names...)
}

// DiffTotalMisses returns new minus old missed-statement counts for the named
// class file, or for the whole snapshots when no name is given.
func (d *Diff) DiffTotalMisses(names ...string) (int, error) {
	return diffSides(d, (*cobertura.Snapshot).TotalMisses, names...)
}

// DiffLineRate returns the new minus old line rate. The result is floating
// point; callers must not compare it for exact equality against computed
// values.
func (d *Diff) DiffLineRate(names ...string) (float64, error) {
	return diffSides(d, (*cobertura.Snapshot).LineRate, names...)
}

// DiffMissedLines returns the symmetric difference of the two snapshots'
// missed-line sets for the named class file, sorted by line number ascending.
func (d *Diff) DiffMissedLines(name string) ([]MissedLine, error) {
	log.Tracef("DiffMissedLines(%s)", name)

	oldMissed, newMissed, err := d.missedSides(name)
	if err != nil {
		return nil, err
	}

	oldSet := make(map[int]bool, len(oldMissed))
	for _, n := range oldMissed {
		oldSet[n] = true
	}
	newSet := make(map[int]bool, len(newMissed))
	for _, n := range newMissed {
		newSet[n] = true
	}

	var result []MissedLine
	for _, n := range newMissed {
		if !oldSet[n] {
			result = append(result, MissedLine{Line: n, IsNew: true})
		}
	}
	for _, n := range oldMissed {
		if !newSet[n] {
			result = append(result, MissedLine{Line: n, IsNew: false})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Line < result[j].Line
	})

	return result, nil
}

// diffSides is the absence-as-zero policy, implemented once and used by every
// scalar diff operation: a class file missing from one snapshot contributes
// zero on that side, so an added file shows its full counts as a positive
// delta and a removed file a negative one. A name present in neither snapshot
// is a caller error.
func diffSides[T int | float64](
	d *Diff,
	get func(s *cobertura.Snapshot, names ...string) (T, error),
	names ...string,
) (T, error) {
	var zero T

	if len(names) == 0 {
		oldVal, err := get(d.old)
		if err != nil {
			return zero, err
		}
		newVal, err := get(d.new)
		if err != nil {
			return zero, err
		}
		return newVal - oldVal, nil
	}

	name := names[0]
	if !d.old.Has(name) && !d.new.Has(name) {
		return zero, fmt.Errorf("%w: %s", cobertura.ErrUnknownClass, name)
	}

	var oldVal, newVal T
	var err error
	if d.old.Has(name) {
		if oldVal, err = get(d.old, name); err != nil {
			return zero, err
		}
	}
	if d.new.Has(name) {
		if newVal, err = get(d.new, name); err != nil {
			return zero, err
		}
	}

	return newVal - oldVal, nil
}

// missedSides fetches both snapshots' missed-line lists under the same absence
// policy as the scalar diffs: an absent side contributes an empty set.
func (d *Diff) missedSides(name string) (oldMissed, newMissed []int, err error) {
	if !d.old.Has(name) && !d.new.Has(name) {
		return nil, nil, fmt.Errorf("%w: %s", cobertura.ErrUnknownClass, name)
	}

	if d.old.Has(name) {
		if oldMissed, err = d.old.MissedLines(name); err != nil {
			return nil, nil, err
		}
	}
	if d.new.Has(name) {
		if newMissed, err = d.new.MissedLines(name); err != nil {
			return nil, nil, err
		}
	}

	return oldMissed, newMissed, nil
}
