// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
)

// DefaultName is the cache file used when no --file is given.
const DefaultName = "default"

// Ext is the extension given to named cache files.
const Ext = ".cache"

// Dir resolves the base cache directory.
// Precedence:
//  1. PCACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/pcache
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("PCACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pcache"), true
	}
	return "", false
}

// Enabled returns true unless PCACHE_ENABLED explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("PCACHE_ENABLED")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// ResolvePath turns a --file value into a backing file path. Values containing
// a path separator or ending in Ext are used as-is; bare names are placed in
// the base directory. An empty value resolves to DefaultName.
func ResolvePath(spec string) (string, error) {
	if spec == "" {
		spec = DefaultName
	}
	if strings.ContainsRune(spec, filepath.Separator) || strings.HasSuffix(spec, Ext) {
		return spec, nil
	}
	base, ok := Dir()
	if !ok {
		return "", fmt.Errorf("failed to resolve cache directory for %q", spec)
	}
	return filepath.Join(base, spec+Ext), nil
}

// Key hashes a clear-text key with MD5 and returns the hex string. Used where
// the clear text is long or unwieldy, such as a full command line.
func Key(clearKey string) string {
	h := md5.New()
	_, _ = h.Write([]byte(clearKey))
	return hex.EncodeToString(h.Sum(nil))
}

// Purge removes files beneath the base directory whose base name matches
// pattern (filepath.Match syntax) and that are older than the provided number
// of hours. If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
// Returns the number of files removed.
func Purge(hours int, pattern string) (int, error) {
	base, ok := Dir()
	if !ok {
		return 0, nil
	}
	return PurgeDir(base, hours, pattern, true)
}

// PurgeDir is Purge over an arbitrary directory. Subdirectories are only
// descended into when recurse is set.
func PurgeDir(dir string, hours int, pattern string, recurse bool) (int, error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	maxAge := time.Duration(hours) * time.Hour
	removed := 0
	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			if !recurse && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, info.Name()); !ok {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				removed++
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}
