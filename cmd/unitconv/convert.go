package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/spf13/cobra"
)

type convertOpts struct {
	category string
	from     string
	to       string
	json     bool
}

func newConvertCommand(c *domain.Converter) *cobra.Command {
	opts := convertOpts{}

	cmd := &cobra.Command{
		Use:   "convert --category CATEGORY --from UNIT --to UNIT VALUE",
		Short: "Convert a value from one unit to another",
		Example: `  unitconv convert --category Length --from "Kilometers (km)" --to "Meters (m)" 1.5
  unitconv convert --category Temperature --from "Celsius (°C)" --to "Kelvin (K)" -- -40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), c, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.category, "category", "", "unit category, e.g. Length")
	f.StringVar(&opts.from, "from", "", "source unit label, e.g. \"Meters (m)\"")
	f.StringVar(&opts.to, "to", "", "target unit label")
	f.BoolVar(&opts.json, "json", false, "print the full result record as JSON")
	for _, name := range []string{"category", "from", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runConvert(w io.Writer, c *domain.Converter, opts convertOpts, value string) error {
	res := c.Resolve(domain.ConversionRequest{
		Category: opts.category,
		From:     opts.from,
		To:       opts.to,
		Value:    domain.InputValue(value),
	})

	if opts.json {
		if err := writeJSON(w, res); err != nil {
			return err
		}
	}
	if res.Error != nil {
		return errors.New(res.Error.UserMessage())
	}
	if opts.json {
		return nil
	}

	fmt.Fprintf(w, "%s %s = %s %s\n", res.FormattedValue, res.From, res.FormattedResult, res.To)
	if res.Calculation != "" {
		fmt.Fprintln(w, res.Calculation)
	}
	return nil
}
