// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/cache"
	"github.com/staranto/pcachego/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func CodecValidator(value any) error {
	if _, err := cache.CodecByName(value.(string)); err != nil {
		return fmt.Errorf("must be one of %v", cache.CodecNames())
	}
	return nil
}

// ArgCountValidator returns a Before hook that rejects fewer than lo or, when
// hi >= 0, more than hi positional arguments.
func ArgCountValidator(lo, hi int) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, c *cli.Command) (context.Context, error) {
		n := c.Args().Len()
		switch {
		case n < lo:
			return ctx, fmt.Errorf("%s: expected at least %d argument(s), got %d", c.Name, lo, n)
		case hi >= 0 && n > hi:
			return ctx, fmt.Errorf("%s: expected at most %d argument(s), got %d", c.Name, hi, n)
		}
		return ctx, nil
	}
}
