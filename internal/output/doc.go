// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders cache entries as text tables, JSON or YAML, and
// applies the --filter and --sort flags to them.
package output
