package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/categorizer/internal/control"
	"github.com/vietddude/categorizer/internal/core/domain"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the categories config and show the compiled ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, opts)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			compiled, err := control.LoadConfig(cfg.Categories.Config)
			if err != nil {
				return err
			}
			return printConfig(cmd, compiled)
		},
	}
}

func printConfig(cmd *cobra.Command, cfg *domain.Config) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintf(w, "SOURCE\t%s\n", cfg.Source)
	_, _ = fmt.Fprintf(w, "KIND\t%s\n\n", cfg.Matcher)
	_, _ = fmt.Fprintln(w, "NAME\tLOWER\tUPPER")

	for _, c := range cfg.Categories {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, domain.FormatLimit(c.Range.Lower), domain.FormatLimit(c.Range.Upper))
	}

	// Sizes below the first lower limit are dropped as out of range.
	if n := len(cfg.Categories); n > 0 && cfg.Categories[n-1].Range.Unbounded() {
		covered := domain.Range{Lower: cfg.Categories[0].Range.Lower, Upper: cfg.Categories[n-1].Range.Upper}
		_, _ = fmt.Fprintf(w, "\nCOVERS\t%s\n", covered)
	}
	return w.Flush()
}
