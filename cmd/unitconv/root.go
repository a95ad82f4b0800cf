package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/couchcryptid/unit-converter-service/internal/observability"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCommand(c *domain.Converter) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:           "unitconv",
		Short:         "Convert values between units of length, mass, temperature, time, area, volume and speed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			opts.logger = observability.NewTextLogger(cmd.ErrOrStderr(), level)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newCategoriesCommand(c),
		newUnitsCommand(c),
		newConvertCommand(c),
		newTableCommand(c, opts),
		newValidateCommand(c, opts),
	)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
