// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/cacheutil"
	"github.com/staranto/pcachego/internal/differ"
	"github.com/staranto/pcachego/internal/meta"
)

// ErrDifferent is returned by diff --exit-code when the caches differ.
var ErrDifferent = errors.New("caches differ")

// DiffCommandAction compares the selected cache with OTHER and prints the
// changes needed to turn the former into the latter.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	otherPath, err := cacheutil.ResolvePath(cmd.Args().First())
	if err != nil {
		return err
	}
	opts, err := CacheOptions(cmd)
	if err != nil {
		return err
	}

	var left, right map[string]string
	err = WithCache(cmd, func(c *cache.Cache[string]) (err error) {
		left, err = c.Items()
		return
	})
	if err != nil {
		return err
	}
	err = cache.With[string](otherPath, func(c *cache.Cache[string]) (err error) {
		right, err = c.Items()
		return
	}, opts...)
	if err != nil {
		return err
	}

	out, changed, err := differ.Diff(left, right, colorEnabled(cmd))
	if err != nil {
		return err
	}
	if !changed {
		log.Info("no differences")
		return nil
	}

	if _, err := fmt.Fprint(writer(cmd), out); err != nil {
		return err
	}
	if cmd.Bool("exit-code") {
		return ErrDifferent
	}
	return nil
}

// DiffCommandBuilder constructs the cli.Command definition for "diff".
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "diff",
		Usage:     "compare the cache with another cache file",
		UsageText: `pcache diff [options] OTHER`,
		Flags: []cli.Flag{
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output (default: on for a terminal)",
				Sources: chain("diff", "color"),
				Value:   false,
			},
			&cli.BoolFlag{
				Name:        "exit-code",
				Usage:       "fail when the caches differ",
				HideDefault: true,
			},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  DiffCommandAction,
		Meta:    meta,
	}).Build()
}
