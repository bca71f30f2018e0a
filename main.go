// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/pcachego/internal/cacheutil"
	"github.com/staranto/pcachego/internal/command"
	"github.com/staranto/pcachego/internal/config"
	mylog "github.com/staranto/pcachego/internal/log"
	"github.com/staranto/pcachego/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands argument sets. An @name argument is replaced by the
// arguments listed under <command>.name in the config file. Without an
// explicit set, <command>.defaults is inserted right after the command, if
// configured. Arguments after "--" are left alone.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	end := len(args)
	for i, a := range args[2:] {
		if a == "--" {
			end = i + 2
			break
		}
	}

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args[:end] {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	idx := 2
	set := "defaults"
	rest := append([]string{}, args[2:]...)
	for i, a := range rest[:end-2] {
		if !strings.HasPrefix(a, "@") {
			continue
		}
		if _, err := config.GetStringSlice(args[1] + "." + a[1:]); err != nil {
			continue
		}
		set = a[1:]
		idx += i
		rest = append(rest[:i], rest[i+1:]...)
		break
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	out := append(preamble, rest[:idx-2]...)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest[idx-2:]...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
