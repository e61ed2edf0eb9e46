// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/covctl/covctl/internal/cobertura"
)

// RawDiff renders a structural diff of the two snapshots' summary documents,
// one entry per class file plus the aggregate totals. It is the low-level
// companion to the row-based report: no filtering, no line detail, just what
// changed in the raw numbers.
func (d *Diff) RawDiff(color bool) (string, error) {
	log.Debugf(">> RawDiff()")

	oldDoc := summaryDoc(d.old)
	newDoc := summaryDoc(d.new)

	oldJSON, err := json.Marshal(oldDoc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	newJSON, err := json.Marshal(newDoc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	delta, err := gojsondiff.New().Compare(oldJSON, newJSON)
	if err != nil {
		return "", fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if !delta.Modified() {
		return "The snapshots are identical.", nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}

	out, err := formatter.NewAsciiFormatter(oldDoc, config).Format(delta)
	if err != nil {
		return "", err
	}

	return out, nil
}

// summaryDoc flattens a snapshot into the JSON shape used by RawDiff.
func summaryDoc(s *cobertura.Snapshot) map[string]interface{} {
	files := map[string]interface{}{}
	for _, name := range s.ClassFiles() {
		statements, _ := s.TotalStatements(name)
		misses, _ := s.TotalMisses(name)
		lineRate, _ := s.LineRate(name)
		files[name] = map[string]interface{}{
			"statements": statements,
			"misses":     misses,
			"lineRate":   lineRate,
		}
	}

	statements, _ := s.TotalStatements()
	misses, _ := s.TotalMisses()
	lineRate, _ := s.LineRate()

	return map[string]interface{}{
		"files": files,
		"totals": map[string]interface{}{
			"statements": statements,
			"misses":     misses,
			"lineRate":   lineRate,
		},
	}
}
