// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads the covctl YAML config file and serves namespaced
// dotted-key lookups with fallbacks.
package config
