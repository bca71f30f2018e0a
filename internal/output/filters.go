// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// filterRegex is the pattern used to parse filter expressions into key, operator, and target components.
// It matches: key + operator + target, where operator can be negated with !
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("PCACHE_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[2] is the operand. It may have a leading negation.
		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// FilterEntries returns the entries matching every filter in spec.
func FilterEntries(entries []Entry, spec string) []Entry {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return entries
	}

	//nolint:prealloc
	var filtered []Entry
	for _, e := range entries {
		if applyFilters(e, filters) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// applyFilters returns true if the entry matches all of the provided filters.
// Filter keys are "key", "value", or "value.<path>" which drills into a JSON
// value with gjson.
func applyFilters(e Entry, filters []Filter) bool {
	for _, filter := range filters {
		var value string
		switch {
		case filter.Key == "key":
			value = e.Key
		case filter.Key == "value":
			value = e.Value
		case strings.HasPrefix(filter.Key, "value."):
			res := gjson.Get(e.Value, strings.TrimPrefix(filter.Key, "value."))
			if !res.Exists() {
				return filter.Negate
			}
			value = res.String()
		default:
			log.Errorf("filter key not found: %s", filter.Key)
			continue
		}

		if !checkStringOperand(value, filter) {
			return false
		}
	}

	return true
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
