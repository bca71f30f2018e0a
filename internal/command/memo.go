// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/cacheutil"
	"github.com/staranto/pcachego/internal/config"
	"github.com/staranto/pcachego/internal/meta"
)

// memoFile is the cache memo uses unless --file or memo.file says otherwise.
const memoFile = "memo"

// MemoCommandAction runs CMD and prints its stdout, remembering it under a hash
// of the command line. Later runs of the same command line are served from
// the cache until --refresh is given or the memo file ages out (cache.clean
// hours). A failing command is never remembered.
func MemoCommandAction(ctx context.Context, cmd *cli.Command) error {
	argv := cmd.Args().Slice()
	if len(argv) > 0 && argv[0] == "--" {
		argv = argv[1:]
	}
	if len(argv) == 0 {
		return fmt.Errorf("memo: no command given")
	}
	w := writer(cmd)

	if !cacheutil.Enabled() {
		log.Debug("caching disabled, running directly")
		out, err := run(ctx, argv)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if err := purgeMemo(cmd.String("file")); err != nil {
		log.WithError(err).Warn("failed to purge memo files")
	}

	key := cacheutil.Key(strings.Join(argv, "\x00"))
	ctxLog := log.WithField("key", key)

	return WithCache(cmd, func(c *cache.Cache[string]) error {
		if !cmd.Bool("refresh") {
			if v, ok, err := c.Get(key); err != nil {
				return err
			} else if ok {
				ctxLog.Debug("memo hit")
				_, err = fmt.Fprint(w, v)
				return err
			}
		}

		ctxLog.Debugf("memo miss, running %v", argv)
		out, err := run(ctx, argv)
		if err != nil {
			return err
		}
		if err := c.Set(key, string(out)); err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})
}

// purgeMemo removes stale siblings of the memo cache file selected by --file,
// looking only in the directory that holds it.
func purgeMemo(file string) error {
	hours, err := config.GetInt("cache.clean", 0)
	if err != nil {
		return fmt.Errorf("invalid cache.clean: %w", err)
	}
	path, err := cacheutil.ResolvePath(file)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	pattern := strings.TrimSuffix(name, ext) + "*" + ext

	n, err := cacheutil.PurgeDir(filepath.Dir(path), hours, pattern, false)
	if n > 0 {
		log.Debugf("purged %d memo files matching %s", n, pattern)
	}
	return err
}

// run executes argv and returns its stdout. Stderr passes through.
func run(ctx context.Context, argv []string) ([]byte, error) {
	var stdout bytes.Buffer
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout = &stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return stdout.Bytes(), nil
}

// MemoCommandBuilder constructs the cli.Command definition for "memo".
func MemoCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "memo",
		Usage:     "run a command once and replay its output",
		UsageText: `pcache memo [options] -- CMD [ARGS...]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "run the command even when its output is cached",
				HideDefault: true,
			},
		},
		DefaultFile: memoFile,
		MinArgs:     1,
		MaxArgs:     -1,
		Action:      MemoCommandAction,
		Meta:        meta,
	}).Build()
}
