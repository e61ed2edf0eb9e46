// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cobertura

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// ErrUnknownClass is returned when a per-class accessor is asked about a class
// file the snapshot has never seen. This is a caller precondition violation,
// not a recoverable condition.
var ErrUnknownClass = errors.New("unknown class file")

// classFile accumulates per-file coverage facts during parsing and serves the
// per-class accessors afterward.
type classFile struct {
	name       string
	hits       map[int]bool
	statements int
	misses     int
	missed     []int
}

// Snapshot is one complete coverage dataset: per class file statement and miss
// counts plus the individual missed line numbers. Snapshots are read-only once
// constructed; accessors never mutate.
type Snapshot struct {
	sourceDir string
	order     []string
	classes   map[string]*classFile
}

// SourceLine pairs a 1-based line number with its text.
type SourceLine struct {
	Number int
	Text   string
}

// Load reads and parses a Cobertura document from a local path. The directory
// containing the file becomes the source-resolution fallback; an explicit
// WithSourceDir still wins.
func Load(path string, opts ...Option) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage file: %w", err)
	}

	// Options apply in order, so caller options override the fallback.
	opts = append([]Option{WithSourceDir(filepath.Dir(path))}, opts...)

	snap, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// ClassFiles returns the class file names present in the snapshot, in document
// order.
func (s *Snapshot) ClassFiles() []string {
	return s.order
}

// Has reports whether the snapshot contains the named class file.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.classes[name]
	return ok
}

// TotalStatements returns the statement count for the named class file, or the
// whole-snapshot aggregate when no name is given.
func (s *Snapshot) TotalStatements(names ...string) (int, error) {
	if len(names) == 0 {
		total := 0
		for _, cf := range s.classes {
			total += cf.statements
		}
		return total, nil
	}

	cf, ok := s.classes[names[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClass, names[0])
	}
	return cf.statements, nil
}

// TotalMisses returns the missed-statement count for the named class file, or
// the whole-snapshot aggregate when no name is given.
func (s *Snapshot) TotalMisses(names ...string) (int, error) {
	if len(names) == 0 {
		total := 0
		for _, cf := range s.classes {
			total += cf.misses
		}
		return total, nil
	}

	cf, ok := s.classes[names[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClass, names[0])
	}
	return cf.misses, nil
}

// LineRate returns covered/total for the named class file, or the aggregate
// rate when no name is given. A class with zero statements has a rate of 0.0
// rather than an error; empty files are legitimate inputs.
func (s *Snapshot) LineRate(names ...string) (float64, error) {
	statements, err := s.TotalStatements(names...)
	if err != nil {
		return 0, err
	}
	misses, err := s.TotalMisses(names...)
	if err != nil {
		return 0, err
	}

	return rate(statements, misses), nil
}

// MissedLines returns the ascending, duplicate-free missed line numbers for
// the named class file.
func (s *Snapshot) MissedLines(name string) ([]int, error) {
	cf, ok := s.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}
	return cf.missed, nil
}

// SourceLines reads the source text of the named class file. Missing source is
// reported as an error so callers can degrade; it is never fatal here.
func (s *Snapshot) SourceLines(name string) ([]SourceLine, error) {
	if !s.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	path := s.ResolveSourcePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("source unavailable: path=%s err=%v", path, err)
		return nil, fmt.Errorf("failed to read source for %s: %w", name, err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	raw := strings.Split(text, "\n")

	lines := make([]SourceLine, len(raw))
	for i, t := range raw {
		lines[i] = SourceLine{Number: i + 1, Text: t}
	}

	return lines, nil
}

// rate is the single place the line-rate convention lives: covered statements
// over total, 0.0 when there are no statements.
func rate(statements, misses int) float64 {
	if statements == 0 {
		return 0.0
	}
	return float64(statements-misses) / float64(statements)
}
