package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/spf13/cobra"
)

// fixture is one expected conversion, in the format read by validate and by
// the pipeline tests.
type fixture struct {
	Name            string                   `json:"name"`
	Request         domain.ConversionRequest `json:"request"`
	Outcome         string                   `json:"outcome"`
	Result          float64                  `json:"result,omitempty"`
	FormattedResult string                   `json:"formatted_result,omitempty"`
}

type tableOpts struct {
	category string
	value    string
	json     bool
}

func newTableCommand(c *domain.Converter, root *rootOpts) *cobra.Command {
	opts := tableOpts{}

	cmd := &cobra.Command{
		Use:   "table --category CATEGORY",
		Short: "Print the conversion of one value across every ordered pair of units in a category",
		Long: `Print the conversion of one value across every ordered pair of units in a category.

With --json the table is written as conversion fixtures that validate can check
against later builds.`,
		Example: `  unitconv table --category Speed --value 10
  unitconv table --category Temperature --json > temperature.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := buildTable(c, opts.category, opts.value)
			if err != nil {
				return err
			}
			root.logger.Debug("built conversion table", "category", opts.category, "rows", len(fixtures))

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), fixtures)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, fx := range fixtures {
				fmt.Fprintf(tw, "%s\t->\t%s\t%s\n", fx.Request.From, fx.Request.To, fx.FormattedResult)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.category, "category", "", "unit category, e.g. Length")
	f.StringVar(&opts.value, "value", "1", "value to convert")
	f.BoolVar(&opts.json, "json", false, "write fixtures as JSON")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// buildTable converts value across every ordered unit pair of category.
func buildTable(c *domain.Converter, category, value string) ([]fixture, error) {
	units, err := c.Table().Lookup(category)
	if err != nil {
		return nil, err
	}

	fixtures := make([]fixture, 0, len(units)*len(units))
	for _, from := range units {
		for _, to := range units {
			req := domain.ConversionRequest{
				ID:       fmt.Sprintf("%s-%d", category, len(fixtures)+1),
				Category: category,
				From:     from,
				To:       to,
				Value:    domain.InputValue(value),
			}
			res := c.Resolve(req)
			if res.Error != nil {
				return nil, fmt.Errorf("%s: %s", req.ID, res.Error.UserMessage())
			}
			fixtures = append(fixtures, fixture{
				Name:            fmt.Sprintf("%s %s to %s", value, from, to),
				Request:         req,
				Outcome:         res.Outcome(),
				Result:          res.Result,
				FormattedResult: res.FormattedResult,
			})
		}
	}
	return fixtures, nil
}
