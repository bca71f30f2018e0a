// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
	"github.com/staranto/pcachego/internal/output"
)

// InfoCommandAction describes the cache: where it lives, how big it is and
// when it last changed.
func InfoCommandAction(ctx context.Context, cmd *cli.Command) error {
	var stats cache.Stats
	err := WithCache(cmd, func(c *cache.Cache[string]) (err error) {
		stats, err = c.Stat()
		return
	})
	if err != nil {
		return err
	}

	size := "-"
	if fi, err := os.Stat(stats.Path); err == nil {
		size = humanize.IBytes(uint64(fi.Size()))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	entries := []output.Entry{
		{Key: "path", Value: stats.Path},
		{Key: "entries", Value: strconv.Itoa(stats.Entries)},
		{Key: "size", Value: size},
		{Key: "codec", Value: stats.Codec},
		{Key: "compressed", Value: strconv.FormatBool(stats.Compressed)},
		{Key: "sync", Value: strconv.FormatBool(stats.Sync)},
		{Key: "modified", Value: stats.ModTime.Format(time.RFC3339)},
		{Key: "age", Value: humanize.Time(stats.ModTime)},
	}

	opts := OutputOptions(cmd)
	opts.Sort = ""
	return output.SliceDiceSpit(writer(cmd), entries, opts)
}

// InfoCommandBuilder constructs the cli.Command definition for "info".
func InfoCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "info",
		Usage:     "describe the cache file",
		UsageText: `pcache info [options]`,
		Listing:   true,
		MaxArgs:   0,
		Action:    InfoCommandAction,
		Meta:      meta,
	}).Build()
}
