package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mschleck/lcps-go/cmd/directory"
	"github.com/mschleck/lcps-go/cmd/file"
	"github.com/mschleck/lcps-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lcps",
		Short: "Light curve pre-selection, a sliding window transit candidate scanner",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		file.Command(settings),
		directory.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().IntVarP(&settings.Dipsearch.WinSize, "winsize", "w", viper.GetInt("dipsearch.winsize"), "Sliding window length in samples")
	rootCmd.PersistentFlags().IntVar(&settings.Dipsearch.StepSize, "stepsize", viper.GetInt("dipsearch.stepsize"), "Samples the window advances per iteration")
	rootCmd.PersistentFlags().IntVarP(&settings.Dipsearch.Nneighb, "neighbors", "n", viper.GetInt("dipsearch.nneighb"), "Neighbor windows per side for the local median")
	rootCmd.PersistentFlags().IntVar(&settings.Dipsearch.MinDur, "mindur", viper.GetInt("dipsearch.mindur"), "Minimum dip duration in samples")
	rootCmd.PersistentFlags().IntVar(&settings.Dipsearch.MaxDur, "maxdur", viper.GetInt("dipsearch.maxdur"), "Maximum dip duration in samples")
	rootCmd.PersistentFlags().Float64VarP(&settings.Dipsearch.DetectionThresh, "threshold", "t", viper.GetFloat64("dipsearch.detectionthresh"), "Fraction of the local median below which a window triggers, value between 0.0 and 1.0")
	rootCmd.PersistentFlags().IntVarP(&settings.Dipsearch.Threads, "threads", "j", viper.GetInt("dipsearch.threads"), "Number of analysis threads, 0 to use all CPUs")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
