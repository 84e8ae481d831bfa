package directory

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/mschleck/lcps-go/internal/analysis"
	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/observability"
)

// Command creates a new cobra.Command for directory analysis.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory [path]",
		Short: "Analyze all light curve files in a directory",
		Long:  "Provide a directory path to analyze all supported light curve files within it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			settings.Output.File.Enabled = true
			analyzer, err := analysis.New(settings)
			if err != nil {
				return err
			}

			var wg sync.WaitGroup
			quitChan := make(chan struct{})
			if settings.Output.Telemetry.Enabled {
				endpoint, err := observability.NewEndpoint(settings, analyzer.Metrics())
				if err != nil {
					return err
				}
				endpoint.Start(&wg, quitChan)
			}

			err = analyzer.DirectoryAnalysis()
			close(quitChan)
			wg.Wait()
			return err
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags defines flags specific to the directory command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVarP(&settings.Input.Recursive, "recursive", "r", false, "Recursively analyze subdirectories")
	cmd.Flags().BoolVar(&settings.Input.Watch, "watch", false, "Watch the directory and analyze new files as they appear")
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output directory")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "", "Output format: table, csv")
}
