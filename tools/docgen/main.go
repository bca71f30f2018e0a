// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/command"
)

// Doc generator driven by the CLI definition itself:
//   - docs/commands/pcache-<cmd>.md  markdown reference
//   - docs/man/share/man1/pcache-<cmd>.1 via md2man
//   - docs/tldr/pcache-<cmd>.md  tldr page read by --tldr

type example struct {
	Desc string
	Cmd  string
}

var examples = map[string][]example{
	"get": {
		{"Print a value", "pcache get {{key}}"},
		{"Print a value or a fallback", "pcache get --default {{none}} {{key}}"},
		{"Print one field of a JSON value", "pcache get --path {{addr}} {{key}}"},
	},
	"set": {
		{"Store a value", "pcache set {{key}} {{value}}"},
		{"Store stdin in a named cache", "{{command}} | pcache set -F {{name}} {{key}} -"},
	},
	"del":   {{"Delete keys", "pcache del {{key1}} {{key2}}"}},
	"ls":    {{"List entries whose key starts with dns:", "pcache ls --filter key^dns: --titles"}, {"List as JSON", "pcache ls -o json"}},
	"clear": {{"Empty a named cache", "pcache clear -F {{name}}"}},
	"dump":  {{"Print the whole cache", "pcache dump"}},
	"info":  {{"Describe the default cache", "pcache info"}},
	"import": {
		{"Merge a JSON or JSONC file", "pcache import {{path/to/file.json}}"},
		{"Replace the cache with stdin", "{{command}} | pcache import --replace -"},
	},
	"diff": {{"Compare two caches", "pcache diff -F {{left}} {{right}}"}},
	"memo": {
		{"Run a slow command once", "pcache memo -- {{command}} {{args}}"},
		{"Run it again and refresh the cached output", "pcache memo --refresh -- {{command}} {{args}}"},
	},
	"shell":      {{"Open an interactive prompt", "pcache shell -F {{name}}"}},
	"completion": {{"Load bash completion", "source <(pcache completion bash)"}},
}

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	app, err := command.InitApp(context.Background(), []string{"pcache"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	n, err := generate(app, repoRoot, writeOnlyIfChanged)
	if err != nil {
		fatalf("%v", err)
	}
	if n == 0 {
		fatalf("no commands found")
	}
}

// generate writes the markdown, man and tldr page of every command of app
// below root and returns how many commands were processed.
func generate(app *cli.Command, root string, onlyIfChanged bool) (int, error) {
	mdOutDir := filepath.Join(root, "docs", "commands")
	manOutDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(root, "docs", "tldr")

	for _, d := range []string{mdOutDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return 0, fmt.Errorf("creating output dir: %w", err)
		}
	}

	var processed int
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		md := renderMarkdown(cmd)
		name := "pcache-" + cmd.Name

		if err := writeFileIfChanged(filepath.Join(mdOutDir, name+".md"), []byte(md), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing markdown for %s: %w", cmd.Name, err)
		}
		if err := writeFileIfChanged(filepath.Join(manOutDir, name+".1"), md2man.Render([]byte(md)), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing man page for %s: %w", cmd.Name, err)
		}
		tldr := buildTLDR(cmd.Name, cmd.Usage, examples[cmd.Name])
		if err := writeFileIfChanged(filepath.Join(tldrOutDir, name+".md"), []byte(tldr), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing TLDR for %s: %w", cmd.Name, err)
		}

		processed++
	}

	return processed, nil
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// renderMarkdown produces a man-page shaped markdown reference for cmd.
func renderMarkdown(cmd *cli.Command) string {
	var b strings.Builder

	b.WriteString("# pcache-" + cmd.Name + " 1\n\n")
	b.WriteString("## NAME\n\n")
	b.WriteString("pcache-" + cmd.Name + " - " + cmd.Usage + "\n\n")

	if cmd.UsageText != "" {
		b.WriteString("## SYNOPSIS\n\n")
		b.WriteString("`" + cmd.UsageText + "`\n\n")
	}

	if lines := flagLines(cmd.Flags); len(lines) > 0 {
		b.WriteString("## OPTIONS\n\n")
		for _, ln := range lines {
			b.WriteString(ln + "\n\n")
		}
	}

	if exs := examples[cmd.Name]; len(exs) > 0 {
		b.WriteString("## EXAMPLES\n\n")
		for _, ex := range exs {
			b.WriteString(ex.Desc + ":\n\n")
			b.WriteString("    " + sanitizeCommand(ex.Cmd) + "\n\n")
		}
	}

	return b.String()
}

// flagLines renders one definition line per visible flag.
func flagLines(flags []cli.Flag) []string {
	var lines []string
	for _, f := range flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}
		var names []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "-"+n)
			} else {
				names = append(names, "--"+n)
			}
		}
		ln := "**" + strings.Join(names, "**, **") + "**"
		if u, ok := f.(interface{ GetUsage() string }); ok && u.GetUsage() != "" {
			ln += "\n: " + u.GetUsage()
		}
		lines = append(lines, ln)
	}
	return lines
}

func buildTLDR(cmd, short string, exs []example) string {
	var b strings.Builder
	// Header
	b.WriteString("# pcache-" + cmd + "\n\n")
	if short != "" {
		b.WriteString("> " + strings.ToUpper(short[:1]) + short[1:] + ".\n")
	} else {
		b.WriteString("> pcache " + cmd + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/pcachego.\n\n")

	if len(exs) == 0 {
		// Fallback examples
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`pcache " + cmd + " --help`\n")
		b.WriteString("\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(ex.Desc) + ":\n\n")
		b.WriteString("`" + sanitizeCommand(ex.Cmd) + "`\n")
	}
	return b.String()
}

func sanitizeCommand(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
