// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// Snapshot layout:
//
//	[0:4]   magic "PCM1"
//	[4]     format version
//	[5]     codec id
//	[6]     flags
//	[7]     reserved
//	[8:16]  xxhash64 of the payload, little endian
//	[16:]   payload
const (
	snapshotMagic   = "PCM1"
	snapshotVersion = 1
	headerSize      = 16

	flagSnappy = 1 << 0
)

func encodeSnapshot(codec Codec, compress bool, v any) ([]byte, error) {
	payload, err := codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal with %s: %w", codec.Name(), err)
	}

	var flags byte
	if compress {
		payload = snappy.Encode(nil, payload)
		flags |= flagSnappy
	}

	buf := make([]byte, headerSize+len(payload))
	copy(buf[0:4], snapshotMagic)
	buf[4] = snapshotVersion
	buf[5] = codec.ID()
	buf[6] = flags
	binary.LittleEndian.PutUint64(buf[8:16], xxhash.Sum64(payload))
	copy(buf[headerSize:], payload)

	return buf, nil
}

// decodeSnapshot validates the header and unmarshals the payload into v. Every
// failure wraps ErrCorrupt.
func decodeSnapshot(codec Codec, data []byte, v any) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: file too small (%d bytes)", ErrCorrupt, len(data))
	}
	if string(data[0:4]) != snapshotMagic {
		return fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}
	if data[5] != codec.ID() {
		return fmt.Errorf("%w: written with codec %d, reading with %s", ErrCorrupt, data[5], codec.Name())
	}

	payload := data[headerSize:]
	if sum := binary.LittleEndian.Uint64(data[8:16]); sum != xxhash.Sum64(payload) {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	if data[6]&flagSnappy != 0 {
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		payload = decoded
	}

	if err := codec.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}
