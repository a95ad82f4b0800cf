package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/spf13/cobra"
)

func newCategoriesCommand(c *domain.Converter) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List unit categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range c.Table().Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newUnitsCommand(c *domain.Converter) *cobra.Command {
	return &cobra.Command{
		Use:     "units CATEGORY",
		Short:   "List the units of a category with their scale factors",
		Example: `  unitconv units Volume`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := c.Table().Category(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			switch category := category.(type) {
			case *domain.LinearCategory:
				for _, u := range category.Entries() {
					fmt.Fprintf(tw, "%s\t%s\n", u.Label, domain.FormatFactor(u.Factor))
				}
			case *domain.TemperatureCategory:
				for _, u := range category.Entries() {
					fmt.Fprintf(tw, "%s\t%s\n", u.Label, u.Scale)
				}
			}
			return tw.Flush()
		},
	}
}
