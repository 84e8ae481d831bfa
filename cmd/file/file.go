package file

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mschleck/lcps-go/internal/analysis"
	"github.com/mschleck/lcps-go/internal/conf"
)

// Command creates a new file command for analyzing a single light curve file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [input]",
		Short: "Analyze a light curve file",
		Long:  "Analyze a single light curve file (FITS, CSV or whitespace separated text) for transit-like dips.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			settings.Output.File.Enabled = true
			analyzer, err := analysis.New(settings)
			if err != nil {
				return err
			}
			candidates, err := analyzer.FileAnalysis(settings.Input.Path)
			if err != nil {
				return err
			}
			fmt.Printf("Found %d transit candidate(s)\n", candidates)
			return nil
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the file command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output directory")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "", "Output format: table, csv")
}
