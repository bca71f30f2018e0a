// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

// ErrKeyNotFound is returned by get when the key is absent and no --default
// was given.
var ErrKeyNotFound = errors.New("key not found")

// GetCommandAction prints the value stored under KEY. With --path the value is
// treated as JSON and only the selected element is printed.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()

	var value string
	err := WithCache(cmd, func(c *cache.Cache[string]) error {
		v, ok, err := c.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			if !cmd.IsSet("default") {
				return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
			}
			v = cmd.String("default")
		}
		value = v
		return nil
	})
	if err != nil {
		return err
	}

	if path := cmd.String("path"); path != "" {
		if !gjson.Valid(value) {
			return fmt.Errorf("value of %s is not JSON", key)
		}
		result := gjson.Get(value, path)
		if !result.Exists() {
			return fmt.Errorf("path %s not found in %s", path, key)
		}
		value = result.String()
	}

	_, err = fmt.Fprintln(writer(cmd), value)
	return err
}

// GetCommandBuilder constructs the cli.Command definition for "get".
func GetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "get",
		Usage:     "print the value of a key",
		UsageText: `pcache get [options] KEY`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "default",
				Aliases: []string{"d"},
				Usage:   "value to print when KEY is absent",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "gjson path selecting part of a JSON value",
			},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  GetCommandAction,
		Meta:    meta,
	}).Build()
}
