// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
	"github.com/staranto/pcachego/internal/output"
)

// LsCommandAction lists the entries of the cache, filtered, sorted and
// rendered per the output flags.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	var items map[string]string
	err := WithCache(cmd, func(c *cache.Cache[string]) (err error) {
		items, err = c.Items()
		return
	})
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(writer(cmd), output.EntriesFromMap(items), OutputOptions(cmd))
}

// LsCommandBuilder constructs the cli.Command definition for "ls".
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "ls",
		Usage:     "list keys and values",
		UsageText: `pcache ls [options]`,
		Listing:   true,
		MaxArgs:   0,
		Action:    LsCommandAction,
		Meta:      meta,
	}).Build()
}
