// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package ranges compresses sorted line-number sets into contiguous display
// ranges.
package ranges
