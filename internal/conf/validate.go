package conf

import (
	"fmt"
)

// ValidateSettings checks the loaded settings for consistency before any
// light curve is opened. Dip search parameter violations surface here with
// the engine's own configuration error.
func ValidateSettings(settings *Settings) error {
	params := settings.Dipsearch.Params()
	if err := params.Validate(); err != nil {
		return err
	}

	if settings.Dipsearch.Threads < 0 {
		return fmt.Errorf("dipsearch threads must not be negative, got %d", settings.Dipsearch.Threads)
	}

	switch settings.Output.File.Type {
	case "", "table", "csv":
	default:
		return fmt.Errorf("invalid output type %q, must be table or csv", settings.Output.File.Type)
	}

	if settings.Output.Telemetry.Enabled && settings.Output.Telemetry.Listen == "" {
		return fmt.Errorf("telemetry listen address must be set when telemetry is enabled")
	}

	if settings.Output.MySQL.Enabled && settings.Output.SQLite.Enabled {
		return fmt.Errorf("only one database output may be enabled at a time")
	}

	return nil
}
