// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for pcache. It wires flags,
// validators, actions, and shell completion for subcommands. Every command
// opens its cache through cache.With so the file is flushed and closed on
// every exit path.
package command
