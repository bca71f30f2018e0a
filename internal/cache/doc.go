// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a persistent, map-like cache that mirrors itself to a
// single file so cached values survive between runs of a program.
//
// A Cache loads its backing file when it is created, keeps mutations in memory
// and writes the whole map back on Flush or Close. In sync mode every read
// reloads the file first and every effective mutation is written immediately.
//
// There is no locking across processes. Two processes flushing the same file
// race and the last writer wins. Sync mode only makes newer files visible at
// read time.
//
// Always release a Cache with Close, or use With so that Close runs on every
// exit path:
//
//	err := cache.With[string](path, func(c *cache.Cache[string]) error {
//		return c.Set("greeting", "hello")
//	})
package cache
