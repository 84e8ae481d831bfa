package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/errors"
	"github.com/mschleck/lcps-go/internal/lightcurve"
	"github.com/mschleck/lcps-go/internal/observation"
)

// FileAnalysis scans a single light curve file and writes the resulting
// transit candidates to the configured outputs. It returns the number of
// candidates found.
func (a *Analyzer) FileAnalysis(path string) (int, error) {
	if err := validateLightCurveFile(path); err != nil {
		a.metrics.FilesScanned.WithLabelValues("invalid").Inc()
		return 0, err
	}

	startTime := time.Now()

	lc, err := lightcurve.Load(path)
	if err != nil {
		a.metrics.FilesScanned.WithLabelValues("error").Inc()
		return 0, err
	}
	a.metrics.SamplesLoaded.Add(float64(len(lc.Samples)))

	dets, err := dipsearch.Detect(lc.Samples, a.Settings.Dipsearch.Params())
	if err != nil {
		a.metrics.FilesScanned.WithLabelValues("error").Inc()
		return 0, err
	}

	dips := make([]observation.Dip, 0, len(dets))
	for i := range dets {
		dips = append(dips, observation.New(a.Settings, a.ScanID, lc, &dets[i]))
	}

	if err := a.writeResults(path, dips); err != nil {
		return len(dips), err
	}

	a.metrics.FilesScanned.WithLabelValues("ok").Inc()
	a.metrics.ScanDuration.Observe(time.Since(startTime).Seconds())
	a.log.Info("Scan completed",
		"file", filepath.Base(path),
		"target", lc.TargetID,
		"samples", len(lc.Samples),
		"valid_samples", lc.ValidSamples(),
		"candidates", len(dips),
		"elapsed", time.Since(startTime).Round(time.Millisecond))

	return len(dips), nil
}

// validateLightCurveFile checks that the path points at a readable,
// non-empty regular file.
func validateLightCurveFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return errors.New(fmt.Errorf("error accessing file %s: %w", filepath.Base(path), err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if fileInfo.IsDir() {
		return errors.Newf("the path %s is a directory, not a file", filepath.Base(path)).
			Component("analysis").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}
	if fileInfo.Size() == 0 {
		return errors.Newf("file %s is empty", filepath.Base(path)).
			Component("analysis").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}
	return nil
}

// writeResults fans the candidates out to the enabled outputs: per-file
// table/CSV results, the append-only dip log and the database.
func (a *Analyzer) writeResults(inputPath string, dips []observation.Dip) error {
	var outputFile string
	if a.Settings.Output.File.Path != "" {
		outputFile = filepath.Join(a.Settings.Output.File.Path, filepath.Base(inputPath))
	}

	if a.Settings.Output.File.Enabled {
		switch a.Settings.Output.File.Type {
		case "", "table":
			if err := observation.WriteDipsTable(dips, outputFile); err != nil {
				return fmt.Errorf("failed to write candidate table: %w", err)
			}
		case "csv":
			if err := observation.WriteDipsCsv(dips, outputFile); err != nil {
				return fmt.Errorf("failed to write candidate CSV: %w", err)
			}
		}
	}

	for i := range dips {
		if a.Settings.Output.Log.Enabled {
			if err := observation.LogDipToFile(a.Settings, &dips[i]); err != nil {
				a.log.Error("Failed to log candidate", "error", err)
			} else {
				a.metrics.DipsDetected.WithLabelValues("log").Inc()
			}
		}
		if a.store != nil {
			if err := a.store.Save(&dips[i]); err != nil {
				a.log.Error("Failed to save candidate", "error", err)
			} else {
				a.metrics.DipsDetected.WithLabelValues("database").Inc()
			}
		}
	}
	return nil
}
