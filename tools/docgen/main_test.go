// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/command"
)

func TestRenderMarkdown(t *testing.T) {
	cmd := &cli.Command{
		Name:      "get",
		Usage:     "print the value of a key",
		UsageText: "pcache get [options] KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "default", Aliases: []string{"d"}, Usage: "value to print when KEY is absent"},
			&cli.BoolFlag{Name: "secret", Hidden: true},
		},
	}

	md := renderMarkdown(cmd)
	assert.Contains(t, md, "pcache-get - print the value of a key")
	assert.Contains(t, md, "`pcache get [options] KEY`")
	assert.Contains(t, md, "**--default**, **-d**\n: value to print when KEY is absent")
	assert.NotContains(t, md, "secret")
	assert.Contains(t, md, "    pcache get {{key}}")
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("dump", "print the whole cache as a map", examples["dump"])
	assert.Equal(t, "# pcache-dump\n\n"+
		"> Print the whole cache as a map.\n"+
		"> More information: https://github.com/staranto/pcachego.\n\n"+
		"- Print the whole cache:\n\n"+
		"`pcache dump`\n", got)

	got = buildTLDR("nothing", "", nil)
	assert.Contains(t, got, "`pcache nothing --help`")
}

func TestGenerate(t *testing.T) {
	t.Setenv("PCACHE_CFG", filepath.Join(t.TempDir(), "missing.yaml"))

	app, err := command.InitApp(context.Background(), []string{"pcache"})
	require.NoError(t, err)

	root := t.TempDir()
	n, err := generate(app, root, true)
	require.NoError(t, err)
	assert.Equal(t, len(app.Commands), n)

	for _, name := range []string{"get", "memo", "shell"} {
		assert.FileExists(t, filepath.Join(root, "docs", "commands", "pcache-"+name+".md"))
		assert.FileExists(t, filepath.Join(root, "docs", "tldr", "pcache-"+name+".md"))

		man, err := os.ReadFile(filepath.Join(root, "docs", "man", "share", "man1", "pcache-"+name+".1"))
		require.NoError(t, err)
		assert.Contains(t, string(man), ".SH NAME")
	}

	// A second run with identical content leaves files alone.
	n, err = generate(app, root, true)
	require.NoError(t, err)
	assert.Equal(t, len(app.Commands), n)
}
