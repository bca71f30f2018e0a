// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	t.Setenv("PCACHE_DIR", "/tmp/pcache-test")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/pcache-test", dir)

	t.Setenv("PCACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, ok = Dir()
	if ok {
		assert.Equal(t, "pcache", filepath.Base(dir))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "1", want: true},
		{value: "true", want: true},
		{value: "0", want: false},
		{value: "false", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("PCACHE_ENABLED", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "pcache")
	t.Setenv("PCACHE_DIR", base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("PCACHE_ENABLED", "0")
	_, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("PCACHE_DIR", "/base")

	tests := []struct {
		spec string
		want string
	}{
		{spec: "", want: "/base/default.cache"},
		{spec: "dns", want: "/base/dns.cache"},
		{spec: "dns.cache", want: "dns.cache"},
		{spec: "./local.db", want: "./local.db"},
		{spec: "/abs/path/file", want: "/abs/path/file"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ResolvePath(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Key(""))
	assert.Equal(t, Key("dig example.com"), Key("dig example.com"))
	assert.NotEqual(t, Key("dig example.com"), Key("dig example.org"))
	assert.Len(t, Key("anything"), 32)
}

func TestPurge(t *testing.T) {
	base := t.TempDir()
	t.Setenv("PCACHE_DIR", base)

	oldFile := filepath.Join(base, "memo-old.cache")
	newFile := filepath.Join(base, "memo-new.cache")
	otherFile := filepath.Join(base, "default.cache")
	past := time.Now().Add(-72 * time.Hour)
	for _, f := range []string{oldFile, newFile, otherFile} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
	}
	require.NoError(t, os.Chtimes(oldFile, past, past))
	require.NoError(t, os.Chtimes(otherFile, past, past))

	n, err := Purge(0, "*")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.FileExists(t, oldFile)

	n, err = Purge(24, "memo*"+Ext)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
	assert.FileExists(t, otherFile, "files outside the pattern are kept")
}

func TestPurgeDir_NoRecurse(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o700))

	past := time.Now().Add(-48 * time.Hour)
	top := filepath.Join(dir, "memo.cache")
	deep := filepath.Join(nested, "memo.cache")
	for _, f := range []string{top, deep} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
		require.NoError(t, os.Chtimes(f, past, past))
	}

	n, err := PurgeDir(dir, 1, "memo*"+Ext, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, top)
	assert.FileExists(t, deep)
}

func TestPurge_MissingBase(t *testing.T) {
	t.Setenv("PCACHE_DIR", filepath.Join(t.TempDir(), "does-not-exist"))
	n, err := Purge(1, "*")
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
