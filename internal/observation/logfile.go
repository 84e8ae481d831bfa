package observation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/errors"
)

// LogDipToFile appends one candidate line to the dip log configured in
// settings. The log mirrors the CSV columns of the original lcps batch
// tool: target, egress time and minimum relative flux.
func LogDipToFile(settings *conf.Settings, dip *Dip) error {
	dir := filepath.Dir(settings.Output.Log.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(fmt.Errorf("failed to create log directory: %w", err)).
				Component("observation").
				Category(errors.CategoryFileIO).
				Context("path", dir).
				Build()
		}
	}

	file, err := os.OpenFile(settings.Output.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.New(fmt.Errorf("failed to open dip log: %w", err)).
			Component("observation").
			Category(errors.CategoryFileIO).
			Context("path", settings.Output.Log.Path).
			Build()
	}
	defer file.Close()

	line := fmt.Sprintf("%d,%.6f,%.4f\n", dip.TargetID, dip.EgressTime, dip.MinFluxRatio)
	if _, err := file.WriteString(line); err != nil {
		return errors.New(fmt.Errorf("failed to write to dip log: %w", err)).
			Component("observation").
			Category(errors.CategoryFileIO).
			Context("path", settings.Output.Log.Path).
			Build()
	}
	return nil
}
