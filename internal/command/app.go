// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/config"
	"github.com/staranto/pcachego/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the pcache
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// Flags read their config file sources from cfg, so refresh it in case the
	// environment changed since init.
	cfg, _ = config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "pcache",
		Usage: "Persistent map cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "pcache version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		ClearCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
		DelCommandBuilder(app, meta),
		DiffCommandBuilder(app, meta),
		DumpCommandBuilder(app, meta),
		GetCommandBuilder(app, meta),
		ImportCommandBuilder(app, meta),
		InfoCommandBuilder(app, meta),
		LsCommandBuilder(app, meta),
		MemoCommandBuilder(app, meta),
		SetCommandBuilder(app, meta),
		ShellCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
