// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points PCACHE_CFG at a testdata file and resets the global
// Config so the next lookup reloads it.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("PCACHE_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "/var/tmp/pcache/default.cache", cfg.Data["file"])
				assert.Equal(t, "gob", cfg.Data["codec"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				memo, ok := cfg.Data["memo"].(map[string]interface{})
				require.True(t, ok, "memo should be a map")
				assert.Equal(t, "json", memo["codec"])
				assert.Equal(t, true, memo["sync"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, true, cfg.Data["compress"])
				assert.Equal(t, 2, cfg.Data["padding"])
				assert.Equal(t, 30.5, cfg.Data["ttl"])
				colors, ok := cfg.Data["colors"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, colors, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_Namespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	cfg, err := Load("memo")
	require.NoError(t, err)
	assert.Equal(t, "memo", cfg.Namespace)
	assert.Equal(t, "memo", Config.Namespace)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("PCACHE_CFG", "/nonexistent/path/pcache.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_PCACHE_CFG_IsDirectory(t *testing.T) {
	t.Setenv("PCACHE_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PCACHE_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", dir)

	_, err := Load()
	assert.Error(t, err)

	require.NoError(t, writeFile(filepath.Join(dir, FileName), "codec: json\n"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Source)
	assert.Equal(t, "json", cfg.Data["codec"])
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "codec",
			want:     "gob",
		},
		{
			name:     "nested string value",
			testFile: "nested.yaml",
			key:      "memo.file",
			want:     "/var/tmp/pcache/memo.cache",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "padding",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "padding",
			want:     2,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "ttl",
			want:     30,
		},
		{
			name:     "nested int value",
			testFile: "nested.yaml",
			key:      "cache.clean",
			want:     24,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []int{60},
			want:         60,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "codec",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")

	got, err := GetBool("compress")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("sync", true)
	assert.NoError(t, err)
	assert.False(t, got)

	got, err = GetBool("missing", true)
	assert.NoError(t, err)
	assert.True(t, got)

	_, err = GetBool("codec")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	_, err := Load()
	require.NoError(t, err)

	// Namespaced value wins over the bare key.
	Config.Namespace = "memo"
	val, err := Config.get("codec")
	assert.NoError(t, err)
	assert.Equal(t, "json", val)

	// Keys missing from the namespace fall back to the bare key.
	val, err = Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "text", val)

	Config.Namespace = "ls"
	val, err = Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "yaml", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	val, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "text", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	got, err := GetStringSlice("ls.wide")
	require.NoError(t, err)
	assert.Equal(t, []string{"-o text", "--titles"}, got)

	got, err = GetStringSlice("ls.single")
	require.NoError(t, err)
	assert.Equal(t, []string{"-o json"}, got)

	got, err = GetStringSlice("ls.missing", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	_, err = GetStringSlice("ls.missing")
	assert.Error(t, err)

	_, err = GetStringSlice("cache")
	assert.Error(t, err, "a map is not a list")
}
