// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/tailscale/hujson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/meta"
)

// ImportCommandAction merges a JSON object into the cache. Comments and
// trailing commas are accepted. String members are stored as-is; any other
// member is stored as its compact JSON text.
func ImportCommandAction(ctx context.Context, cmd *cli.Command) error {
	src := cmd.Args().First()

	var raw []byte
	if src == "-" {
		s, err := readArgOrStdin(cmd, src)
		if err != nil {
			return err
		}
		raw = []byte(s)
	} else {
		b, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		raw = b
	}

	entries, err := parseImport(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", src, err)
	}

	return WithCache(cmd, func(c *cache.Cache[string]) error {
		if cmd.Bool("replace") {
			log.Debug("replacing existing entries")
			if err := c.Clear(); err != nil {
				return err
			}
		}
		for k, v := range entries {
			if err := c.Set(k, v); err != nil {
				return err
			}
		}
		log.Infof("imported %d entries", len(entries))
		return nil
	})
}

func parseImport(raw []byte) (map[string]string, error) {
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(std, &members); err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(members))
	for k, m := range members {
		// null unmarshals into a string without error, so only quoted members
		// are taken as plain strings.
		if m = bytes.TrimSpace(m); len(m) > 0 && m[0] == '"' {
			var s string
			if err := json.Unmarshal(m, &s); err != nil {
				return nil, fmt.Errorf("member %s: %w", k, err)
			}
			entries[k] = s
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, m); err != nil {
			return nil, fmt.Errorf("member %s: %w", k, err)
		}
		entries[k] = compact.String()
	}

	return entries, nil
}

// ImportCommandBuilder constructs the cli.Command definition for "import".
func ImportCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "import",
		Usage:     "merge a JSON object into the cache",
		UsageText: `pcache import [options] FILE|-`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "replace",
				Usage:       "clear the cache before importing",
				HideDefault: true,
			},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  ImportCommandAction,
		Meta:    meta,
	}).Build()
}
