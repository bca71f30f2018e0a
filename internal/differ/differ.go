// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ compares two cache snapshots and renders the difference.
package differ

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff compares left and right and returns an ASCII rendering of the changes
// and whether anything changed. Values that are themselves JSON documents are
// compared structurally.
func Diff(left, right map[string]string, color bool) (string, bool, error) {
	l := expand(left)
	r := expand(right)

	lj, err := json.Marshal(l)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal left snapshot: %w", err)
	}
	rj, err := json.Marshal(r)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal right snapshot: %w", err)
	}

	d, err := gojsondiff.New().Compare(lj, rj)
	if err != nil {
		return "", false, fmt.Errorf("failed to compare snapshots: %w", err)
	}
	if !d.Modified() {
		return "", false, nil
	}
	log.Debugf("%d top-level deltas", len(d.Deltas()))

	f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	out, err := f.Format(d)
	if err != nil {
		return "", true, fmt.Errorf("failed to format diff: %w", err)
	}

	return out, true, nil
}

// expand decodes values holding a JSON object or array so nested changes show
// up field by field. Everything else stays a string.
func expand(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		var nested interface{}
		if err := json.Unmarshal([]byte(v), &nested); err == nil {
			switch nested.(type) {
			case map[string]interface{}, []interface{}:
				out[k] = nested
				continue
			}
		}
		out[k] = v
	}
	return out
}
