// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Codec
		wantErr bool
	}{
		{name: "gob", want: Gob},
		{name: "JSON", want: JSON},
		{name: "Yaml", want: YAML},
		{name: "pickle", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodecByName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCodec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"gob", "json", "yaml"}, CodecNames())
}

func TestSnapshot_RoundTripAllCodecs(t *testing.T) {
	want := map[string]string{"a": "1", "b": "two", "c": "line\nbreak"}

	for _, codec := range codecs {
		for _, compress := range []bool{false, true} {
			name := codec.Name()
			if compress {
				name += "+snappy"
			}
			t.Run(name, func(t *testing.T) {
				buf, err := encodeSnapshot(codec, compress, want)
				require.NoError(t, err)
				assert.Equal(t, snapshotMagic, string(buf[:4]))
				assert.Equal(t, codec.ID(), buf[5])
				assert.Equal(t, compress, buf[6]&flagSnappy != 0)

				got := map[string]string{}
				require.NoError(t, decodeSnapshot(codec, buf, &got))
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestSnapshot_Corruption(t *testing.T) {
	good, err := encodeSnapshot(JSON, false, map[string]string{"k": "v"})
	require.NoError(t, err)

	mutate := func(f func([]byte)) []byte {
		b := append([]byte(nil), good...)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "too small", data: good[:headerSize-1]},
		{name: "bad magic", data: mutate(func(b []byte) { b[0] = 'X' })},
		{name: "future version", data: mutate(func(b []byte) { b[4] = snapshotVersion + 1 })},
		{name: "other codec", data: mutate(func(b []byte) { b[5] = YAML.ID() })},
		{name: "flipped payload byte", data: mutate(func(b []byte) { b[headerSize] ^= 0xff })},
		{name: "truncated payload", data: good[:len(good)-2]},
		{name: "snappy flag on plain payload", data: mutate(func(b []byte) { b[6] |= flagSnappy })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]string{}
			err := decodeSnapshot(JSON, tt.data, &got)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestCache_CompressedFileIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.cache")
	value := string(make([]byte, 4096))

	require.NoError(t, With[string](path, func(c *Cache[string]) error {
		return c.Set("big", value)
	}, WithCompression(true)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(value)), "snappy should shrink a run of zero bytes")

	// Compression is recorded in the header, so reading does not need the option.
	c, err := New[string](path)
	require.NoError(t, err)
	got, err := c.GetDefault("big", "")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
