// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/cacheutil"
	"github.com/staranto/pcachego/internal/meta"
	"github.com/staranto/pcachego/internal/output"
)

var errQuit = errors.New("quit")

var shellVerbs = []string{
	"clear", "del", "dump", "exit", "flush", "get", "has", "help", "keys",
	"len", "load", "ls", "quit", "set", "time",
}

const shellHelp = `get KEY            print a value
set KEY VALUE...   store the rest of the line under KEY
del KEY...         delete keys
has KEY            report whether KEY is present
len                number of entries
keys               list keys
ls                 list keys and values
dump               print the whole mapping
clear              remove every entry
flush              write pending changes now
load [PATH]        discard pending changes and reread the file, or PATH
time               last modification time
exit, quit         flush and leave
`

// ShellCommandAction opens the cache once and reads commands interactively
// until EOF, Ctrl-C or exit. Changes are flushed when the shell ends.
func ShellCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)

	return WithCache(cmd, func(c *cache.Cache[string]) error {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		line.SetCompleter(func(s string) (out []string) {
			for _, v := range shellVerbs {
				if strings.HasPrefix(v, strings.ToLower(s)) {
					out = append(out, v)
				}
			}
			return
		})

		history := historyPath()
		if history != "" {
			if f, err := os.Open(history); err == nil {
				_, _ = line.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.Create(history); err == nil {
					_, _ = line.WriteHistory(f)
					f.Close()
				}
			}()
		}

		for {
			input, err := line.Prompt("pcache> ")
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(input) == "" {
				continue
			}
			line.AppendHistory(input)

			if err := execLine(c, w, input); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				if errors.Is(err, cache.ErrClosed) {
					return err
				}
				fmt.Fprintln(w, "error:", err)
			}
		}
	})
}

// execLine runs one shell command against c. It returns errQuit for exit and
// quit.
func execLine(c *cache.Cache[string], w io.Writer, input string) error {
	verb, rest := splitWord(strings.TrimSpace(input))
	args := strings.Fields(rest)
	log.Debugf("shell: %s %v", verb, args)

	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d argument(s)", verb, n)
		}
		return nil
	}

	switch strings.ToLower(verb) {
	case "get":
		if err := need(1); err != nil {
			return err
		}
		v, ok, err := c.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, args[0])
		}
		fmt.Fprintln(w, v)
	case "set":
		key, value := splitWord(rest)
		if key == "" {
			return fmt.Errorf("%s: expected KEY VALUE", verb)
		}
		return c.Set(key, value)
	case "del":
		if err := need(1); err != nil {
			return err
		}
		for _, k := range args {
			if err := c.Delete(k); err != nil {
				return err
			}
		}
	case "has":
		if err := need(1); err != nil {
			return err
		}
		ok, err := c.Contains(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ok)
	case "len":
		n, err := c.Len()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, strconv.Itoa(n))
	case "keys":
		keys, err := c.Keys()
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(w, k)
		}
	case "ls":
		items, err := c.Items()
		if err != nil {
			return err
		}
		return output.SliceDiceSpit(w, output.EntriesFromMap(items), output.Options{Format: "raw"})
	case "dump":
		s, err := c.Dump()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	case "clear":
		return c.Clear()
	case "flush":
		return c.Flush()
	case "load":
		var err error
		if len(args) > 0 {
			if st, serr := c.Stat(); serr == nil && st.Sync {
				fmt.Fprintf(w, "warning: sync mode rereads %s on the next command\n", st.Path)
			}
			_, err = c.Load(args[0])
		} else {
			_, err = c.Load()
		}
		return err
	case "time":
		t, err := c.Time()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, t.Format(time.RFC3339))
	case "help", "?":
		fmt.Fprint(w, shellHelp)
	case "exit", "quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", verb)
	}

	return nil
}

// splitWord splits s at the first run of whitespace.
func splitWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func historyPath() string {
	base, ok := cacheutil.Dir()
	if !ok {
		return ""
	}
	return filepath.Join(base, "shell_history")
}

// ShellCommandBuilder constructs the cli.Command definition for "shell".
func ShellCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "shell",
		Usage:     "interactive prompt over one open cache",
		UsageText: `pcache shell [options]`,
		MaxArgs:   0,
		Action:    ShellCommandAction,
		Meta:      meta,
	}).Build()
}
