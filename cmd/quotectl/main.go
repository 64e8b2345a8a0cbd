// Command quotectl prices quote files and single items from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/contractor-quote/internal/config"
	"github.com/Simplici0/contractor-quote/internal/pricing"
)

// defaultsFile is set from the --defaults flag.
var defaultsFile string

// noColor toggles ANSI color output off when set via --no-color flag.
var noColor bool

// defaults holds the pricing defaults every subcommand prices with.
var defaults pricing.PricingDefaults

var rootCmd = &cobra.Command{
	Use:           "quotectl",
	Short:         "quotectl prices contractor quotes",
	Long:          `quotectl recalculates quote files and runs single pricing models.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		d, err := config.LoadPricingDefaults(defaultsFile)
		if err != nil {
			return fmt.Errorf("failed to load pricing defaults: %w", err)
		}
		defaults = d
		return nil
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.PersistentFlags().StringVar(&defaultsFile, "defaults", os.Getenv("PRICING_DEFAULTS_FILE"), "path to a YAML pricing defaults file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
