// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Transforms maps a column ("key", "value" or "*" for both) to a transform
// spec. A spec is any combination of:
//
//	l, L  lower case
//	u, U  upper case
//	t, T  RFC3339 time converted to the TZ zone
//	N     truncate to N bytes
//	-N    keep both ends, eliding the middle to fit N bytes
//
// When the global "*" spec and a column spec disagree, the column spec wins.
type Transforms map[string]string

// ParseTransforms reads "column:spec,column:spec". Unknown columns are logged
// and skipped.
func ParseTransforms(spec string) Transforms {
	if spec == "" {
		return nil
	}

	t := Transforms{}
	for _, part := range strings.Split(spec, ",") {
		col, s, ok := strings.Cut(part, ":")
		if !ok {
			log.Errorf("invalid transform: %s", part)
			continue
		}
		switch col {
		case "*", "key", "value":
			t[col] = s
		default:
			log.Errorf("invalid transform column: %s", col)
		}
	}

	return t
}

// Apply rewrites entries in place.
func (t Transforms) Apply(entries []Entry) {
	if len(t) == 0 {
		return
	}

	keySpec := t.specFor("key")
	valueSpec := t.specFor("value")
	for i := range entries {
		entries[i].Key = transform(entries[i].Key, keySpec)
		entries[i].Value = transform(entries[i].Value, valueSpec)
	}
}

// specFor prepends the global spec so the column's own spec comes last.
func (t Transforms) specFor(col string) string {
	global, own := t["*"], t[col]
	switch {
	case global == "":
		return own
	case own == "":
		return global
	default:
		return global + "," + own
	}
}

func transform(value string, spec string) string {
	if spec == "" {
		return value
	}
	result := value

	// Only convert when told which zone to use.
	if strings.ContainsAny(spec, "tT") {
		if tz := os.Getenv("TZ"); tz != "" {
			if loc, err := time.LoadLocation(tz); err == nil {
				if ts, err := time.Parse(time.RFC3339, result); err == nil {
					result = ts.In(loc).Format("2006-01-02T15:04:05MST")
				}
			}
		}
	}

	// The later of the case letters wins.
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Likewise the last length.
	if match := lengthRegex.FindAllString(spec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := l
		if abs < 0 {
			abs = -abs
		}
		if len(result) > abs {
			if l < 0 {
				side := abs/2 - 1
				if side < 0 {
					side = 0
				}
				result = result[:side] + ".." + result[len(result)-side:]
			} else {
				result = result[:l]
			}
		}
	}

	return result
}
