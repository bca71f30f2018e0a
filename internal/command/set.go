// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

// SetCommandAction stores VALUE under KEY. A VALUE of "-" reads the value from
// stdin, minus one trailing newline.
func SetCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().Get(0)
	value, err := readArgOrStdin(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}
	if cmd.Args().Get(1) == "-" {
		value = strings.TrimSuffix(value, "\n")
	}

	return WithCache(cmd, func(c *cache.Cache[string]) error {
		log.WithField("key", key).Debugf("set %d bytes", len(value))
		return c.Set(key, value)
	})
}

// SetCommandBuilder constructs the cli.Command definition for "set".
func SetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "set",
		Usage:     "store a value under a key",
		UsageText: `pcache set [options] KEY VALUE|-`,
		MinArgs:   2,
		MaxArgs:   2,
		Action:    SetCommandAction,
		Meta:      meta,
	}).Build()
}
