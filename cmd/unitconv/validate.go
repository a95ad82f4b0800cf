package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/spf13/cobra"
)

const resultTolerance = 1e-9

// check tracks pass/fail for one fixture.
type check struct {
	name   string
	errors []string
}

func (c *check) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *check) passed() bool { return len(c.errors) == 0 }

func newValidateCommand(c *domain.Converter, root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FIXTURES.json",
		Short: "Check conversion fixtures against the engine",
		Long: `Check conversion fixtures against the engine.

Each fixture's request is resolved and its outcome, result and formatted result
compared with the recorded values. Exits non-zero if any fixture fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := readFixtures(args[0])
			if err != nil {
				return err
			}
			root.logger.Debug("loaded fixtures", "path", args[0], "count", len(fixtures))
			return runValidate(cmd.OutOrStdout(), c, fixtures)
		},
	}
}

func readFixtures(path string) ([]fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return fixtures, nil
}

func runValidate(w io.Writer, c *domain.Converter, fixtures []fixture) error {
	failed := 0
	for _, fx := range fixtures {
		chk := validateFixture(c, fx)
		if chk.passed() {
			fmt.Fprintf(w, "PASS  %s\n", chk.name)
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", chk.name)
		for _, e := range chk.errors {
			fmt.Fprintf(w, "      %s\n", e)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed\n", len(fixtures)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d fixtures failed", failed, len(fixtures))
	}
	return nil
}

func validateFixture(c *domain.Converter, fx fixture) *check {
	chk := &check{name: fx.Name}
	if chk.name == "" {
		chk.name = fx.Request.ID
	}

	res := c.Resolve(fx.Request)
	if res.Outcome() != fx.Outcome {
		chk.errorf("outcome: got %s, want %s", res.Outcome(), fx.Outcome)
		return chk
	}
	if res.Error != nil {
		return chk
	}

	if !closeEnough(res.Result, fx.Result) {
		chk.errorf("result: got %v, want %v", res.Result, fx.Result)
	}
	if fx.FormattedResult != "" && res.FormattedResult != fx.FormattedResult {
		chk.errorf("formatted result: got %q, want %q", res.FormattedResult, fx.FormattedResult)
	}
	return chk
}

func closeEnough(got, want float64) bool {
	diff := math.Abs(got - want)
	if diff <= resultTolerance {
		return true
	}
	return diff <= resultTolerance*math.Max(math.Abs(got), math.Abs(want))
}
