// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/staranto/pcachego/internal/config"
)

// Formats accepted by the --output flag.
var Formats = []string{"text", "json", "yaml", "raw"}

// Entry is one key/value pair as presented to the user.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Options control rendering.
type Options struct {
	Format    string
	Filter    string
	Sort      string
	Titles    bool
	Color     bool
	Transform string
}

// EntriesFromMap converts a cache snapshot into entries ordered by key.
func EntriesFromMap(m map[string]string) []Entry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// IsTerminal reports whether f is attached to a terminal. Used to pick the
// default for --color.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SliceDiceSpit filters, sorts and renders entries to w in the requested
// format.
func SliceDiceSpit(w io.Writer, entries []Entry, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	entries = FilterEntries(append([]Entry(nil), entries...), opts.Filter)
	SortEntries(entries, opts.Sort)
	ParseTransforms(opts.Transform).Apply(entries)

	switch opts.Format {
	case "json":
		if entries == nil {
			entries = []Entry{}
		}
		jsonOutput, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	case "raw":
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return TableWriter(w, entries, opts)
	}
}

// SortEntries orders entries in place. spec is "key" or "value", optionally
// prefixed with "-" for descending order. An empty spec keeps key order.
func SortEntries(entries []Entry, spec string) {
	if spec == "" {
		return
	}

	desc := strings.HasPrefix(spec, "-")
	field := strings.TrimPrefix(spec, "-")

	pick := func(e Entry) string { return e.Key }
	switch field {
	case "key":
	case "value":
		pick = func(e Entry) string { return e.Value }
	default:
		log.Errorf("invalid sort spec: %s", spec)
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return pick(entries[i]) > pick(entries[j])
		}
		return pick(entries[i]) < pick(entries[j])
	})
}

// TableWriter renders the entries in a tabular form honoring color, titles
// and padding options.
func TableWriter(w io.Writer, entries []Entry, opts Options) error {
	if len(entries) == 0 {
		return nil
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers("KEY", "VALUE").BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}
