package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mschleck/lcps-go/cmd"
	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/logging"
)

// version is overridden at build time with ldflags.
var version = "dev"

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version

	logging.Init(settings.Debug)
	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		level := slog.LevelInfo
		if settings.Debug {
			level = slog.LevelDebug
		}
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, &settings.Main.Log, level)
		if err != nil {
			logging.Warn("Failed to open application log file", "error", err)
		} else {
			defer closeLog()
			logging.SetStructured(fileLogger)
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command execution error: %v\n", err)
		os.Exit(1)
	}
}
