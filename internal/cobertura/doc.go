// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cobertura parses Cobertura coverage documents into read-only
// snapshots and exposes per-class and aggregate coverage accessors.
package cobertura
