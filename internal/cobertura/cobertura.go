// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cobertura

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/apex/log"
)

// xmlCoverage is the subset of the Cobertura document we care about. Everything
// else in the format (branch rates, complexity, methods) is ignored.
type xmlCoverage struct {
	XMLName  xml.Name     `xml:"coverage"`
	Sources  []string     `xml:"sources>source"`
	Packages []xmlPackage `xml:"packages>package"`
}

type xmlPackage struct {
	Name    string     `xml:"name,attr"`
	Classes []xmlClass `xml:"classes>class"`
}

type xmlClass struct {
	Name     string    `xml:"name,attr"`
	Filename string    `xml:"filename,attr"`
	Lines    []xmlLine `xml:"lines>line"`
}

type xmlLine struct {
	Number int   `xml:"number,attr"`
	Hits   int64 `xml:"hits,attr"`
}

// Option customizes snapshot construction.
type Option func(*Snapshot)

// WithSourceDir overrides the directory used to resolve class file sources.
// Without it, the first <sources><source> entry from the document is used,
// falling back to the directory containing the coverage file itself.
func WithSourceDir(dir string) Option {
	return func(s *Snapshot) { s.sourceDir = dir }
}

// Parse builds a Snapshot from a Cobertura XML document.
func Parse(data []byte, opts ...Option) (*Snapshot, error) {
	log.Debugf(">> Parse()")

	var doc xmlCoverage
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse coverage document: %w", err)
	}

	snap := &Snapshot{classes: map[string]*classFile{}}
	for _, opt := range opts {
		opt(snap)
	}

	if snap.sourceDir == "" && len(doc.Sources) > 0 {
		snap.sourceDir = doc.Sources[0]
	}

	for _, pkg := range doc.Packages {
		for _, cls := range pkg.Classes {
			name := cls.Filename
			if name == "" {
				name = cls.Name
			}

			cf, ok := snap.classes[name]
			if !ok {
				cf = &classFile{name: name, hits: map[int]bool{}}
				snap.classes[name] = cf
				snap.order = append(snap.order, name)
			}

			// A line is covered if any entry for its number reports hits.
			// Duplicate entries show up when tools merge multiple runs.
			for _, line := range cls.Lines {
				cf.hits[line.Number] = cf.hits[line.Number] || line.Hits > 0
			}
		}
	}

	for _, cf := range snap.classes {
		cf.finalize()
	}

	log.Debugf("parsed %d class files", len(snap.order))

	return snap, nil
}

// finalize derives the statement/miss counts and the sorted missed-line list
// from the accumulated per-line hit map.
func (cf *classFile) finalize() {
	cf.statements = len(cf.hits)
	cf.missed = cf.missed[:0]
	for number, hit := range cf.hits {
		if !hit {
			cf.missed = append(cf.missed, number)
		}
	}
	sort.Ints(cf.missed)
	cf.misses = len(cf.missed)
}

// ResolveSourcePath returns the path a class file's source would be read from.
func (s *Snapshot) ResolveSourcePath(name string) string {
	if s.sourceDir == "" {
		return name
	}
	return filepath.Join(s.sourceDir, name)
}
