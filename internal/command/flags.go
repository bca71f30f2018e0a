// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewTldrFlag returns the --tldr flag, hidden when tldr is not installed.
func NewTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewCacheFlags returns the flags that select and configure the backing cache
// file. params[0] is the config namespace, params[1] (optional) the default
// cache name.
func NewCacheFlags(params ...string) (flags []cli.Flag) {
	ns := params[0]
	def := ""
	if len(params) > 1 {
		def = params[1]
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "codec",
			Usage:   "snapshot codec used when writing",
			Sources: chain(ns, "codec", cli.EnvVar("PCACHE_CODEC")),
			Value:   "gob",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, CodecValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "compress",
			Usage:       "snappy-compress the snapshot payload",
			Sources:     chain(ns, "compress"),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"F"},
			Usage:   "cache name or path to the backing file",
			Sources: chain(ns, "file", cli.EnvVar("PCACHE_FILE")),
			Value:   def,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "sync",
			Usage:       "reload before every read and save after every write",
			Sources:     chain(ns, "sync"),
			HideDefault: true,
		},
	}

	return
}

// NewOutputFlags returns the flags that control how entries are rendered.
func NewOutputFlags(params ...string) (flags []cli.Flag) {
	ns := params[0]

	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output (default: on for a terminal)",
			Sources: chain(ns, "color"),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: chain(ns, "output"),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "sort by key or value, prefix with - for descending",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:    "transform",
			Aliases: []string{"x"},
			Usage:   "comma-separated column:spec transforms, e.g. *:u,value:-40",
			Sources: chain(ns, "transform"),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: chain(ns, "titles"),
			Value:   false,
		},
	}

	return
}

// chain builds a value source chain of the given environment sources followed
// by the namespaced and global config file keys.
func chain(ns string, key string, env ...cli.ValueSource) cli.ValueSourceChain {
	sources := append([]cli.ValueSource{}, env...)
	if ns != "" {
		sources = append(sources, yaml.YAML(ns+"."+key, altsrc.StringSourcer(cfg.Source)))
	}
	sources = append(sources, yaml.YAML(key, altsrc.StringSourcer(cfg.Source)))
	return cli.NewValueSourceChain(sources...)
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
