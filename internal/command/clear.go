// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithCache(cmd, func(c *cache.Cache[string]) error {
		return c.Clear()
	})
}

// ClearCommandBuilder constructs the cli.Command definition for "clear".
func ClearCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "clear",
		Usage:     "remove every entry",
		UsageText: `pcache clear [options]`,
		MaxArgs:   0,
		Action:    ClearCommandAction,
		Meta:      meta,
	}).Build()
}
