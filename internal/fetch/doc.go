// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fetch resolves coverage documents from local paths or S3 and turns
// them into snapshots.
package fetch
