// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/cacheutil"
	"github.com/staranto/pcachego/internal/meta"
	"github.com/staranto/pcachego/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr pcache <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "pcache", subcmd)
			c.Stdout = writer(cmd)
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// CacheCommandBuilder constructs a cli.Command for the cache subcommands using
// a consistent pattern. The builder wires metadata, adds the tldr and cache
// flags (and output flags when Listing), and installs the argument count
// validator.
type CacheCommandBuilder struct {
	Name        string
	Usage       string
	UsageText   string
	Flags       []cli.Flag
	Listing     bool
	DefaultFile string
	MinArgs     int
	MaxArgs     int
	Action      func(context.Context, *cli.Command) error
	Meta        meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (ccb *CacheCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{NewTldrFlag()}, ccb.Flags...)
	flags = append(flags, NewCacheFlags(ccb.Name, ccb.DefaultFile)...)
	if ccb.Listing {
		flags = append(flags, NewOutputFlags(ccb.Name)...)
	}

	return &cli.Command{
		Name:      ccb.Name,
		Usage:     ccb.Usage,
		UsageText: ccb.UsageText,
		Metadata: map[string]any{
			"meta": ccb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("tldr") {
				return ctx, nil
			}
			return ArgCountValidator(ccb.MinArgs, ccb.MaxArgs)(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			m := GetMeta(c)
			log.Debugf("Executing action for %v", m.Args[min(1, len(m.Args)):])

			if ShortCircuitTLDR(ctx, c, ccb.Name) {
				return nil
			}
			return ccb.Action(ctx, c)
		},
	}
}

// CacheOptions turns the cache flags into cache.Options.
func CacheOptions(cmd *cli.Command) ([]cache.Option, error) {
	codec, err := cache.CodecByName(cmd.String("codec"))
	if err != nil {
		return nil, err
	}
	return []cache.Option{
		cache.WithSync(cmd.Bool("sync")),
		cache.WithCodec(codec),
		cache.WithCompression(cmd.Bool("compress")),
	}, nil
}

// WithCache opens the cache selected by --file and friends, hands it to fn and
// closes it afterwards, flushing any change fn made.
func WithCache(cmd *cli.Command, fn func(*cache.Cache[string]) error) error {
	path, err := cacheutil.ResolvePath(cmd.String("file"))
	if err != nil {
		return err
	}
	opts, err := CacheOptions(cmd)
	if err != nil {
		return err
	}

	log.WithField("path", path).Debug("opening cache")
	return cache.With[string](path, fn, opts...)
}

// OutputOptions collects the output flags. Color defaults to on when stdout is
// a terminal and neither the flag nor the config file says otherwise.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format:    cmd.String("output"),
		Filter:    cmd.String("filter"),
		Sort:      cmd.String("sort"),
		Titles:    cmd.Bool("titles"),
		Color:     colorEnabled(cmd),
		Transform: cmd.String("transform"),
	}
}

func colorEnabled(cmd *cli.Command) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	return output.IsTerminal(os.Stdout)
}

// writer is where command results go. Tests swap the root Writer for a
// buffer.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// reader is the command's standard input.
func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// readArgOrStdin returns value unless it is "-", in which case all of stdin
// is read and returned.
func readArgOrStdin(cmd *cli.Command, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	b, err := io.ReadAll(reader(cmd))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}
