// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "errors"

// Sentinel errors returned by cache operations. Check them with [errors.Is].
var (
	// ErrClosed indicates the [Cache] has already been closed. This is a
	// programming error.
	ErrClosed = errors.New("cache: closed")

	// ErrInvalidPath indicates an empty backing file path was given to [New].
	ErrInvalidPath = errors.New("cache: invalid path")

	// ErrCorrupt indicates a snapshot could not be decoded. [Cache.Load] logs
	// it and starts empty instead of returning it.
	ErrCorrupt = errors.New("cache: corrupt")

	// ErrUnknownCodec indicates [CodecByName] was given a name it does not know.
	ErrUnknownCodec = errors.New("cache: unknown codec")
)
