// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ranges

// Range is an inclusive run of consecutive line numbers. A singleton run has
// Start == Stop.
type Range struct {
	Start int
	Stop  int
}

// Rangify groups an ascending, duplicate-free sequence of line numbers into
// minimal contiguous ranges. Consecutive numbers (difference of 1) merge into
// the same range; output ranges are ascending and non-overlapping. An empty
// input yields an empty result. Single linear pass, no state.
func Rangify(lines []int) []Range {
	if len(lines) == 0 {
		return []Range{}
	}

	result := make([]Range, 0, len(lines))
	start := lines[0]
	stop := lines[0]

	for _, n := range lines[1:] {
		if n == stop+1 {
			// Still contiguous, extend the current run.
			stop = n
			continue
		}

		result = append(result, Range{Start: start, Stop: stop})
		start = n
		stop = n
	}

	result = append(result, Range{Start: start, Stop: stop})

	return result
}
