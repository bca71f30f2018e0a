// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

// DumpCommandAction prints the string form of the whole mapping.
func DumpCommandAction(ctx context.Context, cmd *cli.Command) error {
	var s string
	err := WithCache(cmd, func(c *cache.Cache[string]) (err error) {
		s, err = c.Dump()
		return
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer(cmd), s)
	return err
}

// DumpCommandBuilder constructs the cli.Command definition for "dump".
func DumpCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "dump",
		Usage:     "print the whole cache as a map",
		UsageText: `pcache dump [options]`,
		MaxArgs:   0,
		Action:    DumpCommandAction,
		Meta:      meta,
	}).Build()
}
