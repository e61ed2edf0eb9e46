// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes per-class and aggregate deltas between two coverage
// snapshots, classifies missed-line changes, and groups changed source into
// display hunks.
package differ
