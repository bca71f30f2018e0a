// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

// DelCommandAction removes every KEY given. Absent keys are ignored.
func DelCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithCache(cmd, func(c *cache.Cache[string]) error {
		for _, key := range cmd.Args().Slice() {
			if err := c.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// DelCommandBuilder constructs the cli.Command definition for "del".
func DelCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "del",
		Usage:     "delete keys",
		UsageText: `pcache del [options] KEY...`,
		MinArgs:   1,
		MaxArgs:   -1,
		Action:    DelCommandAction,
		Meta:      meta,
	}).Build()
}
