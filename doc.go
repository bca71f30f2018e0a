// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// pcachego is the main package for the pcache command line tool, a persistent
// key/value cache kept in a single file. It wires the CLI, delegates to
// internal packages, and serves as the entry point.
package main
