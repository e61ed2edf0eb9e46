// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report shapes snapshot and delta data into flat rows and renders
// them in the formats commands emit.
package report
