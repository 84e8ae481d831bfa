// Package observation turns engine detections into transit candidate
// records and persists them to the configured outputs: stdout tables, CSV
// files, an append-only dip log and optionally a database.
package observation

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/lightcurve"
)

// Dip represents a single transit candidate.
type Dip struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ScanID       string `gorm:"index"` // identifies the batch run that produced this candidate
	SourceNode   string
	Date         string `gorm:"index"`
	Time         string
	InputFile    string
	TargetID     int `gorm:"index"` // KEPLERID / EPIC number of the target star
	StartIndex   int
	EndIndex     int
	Duration     int     // dip duration in samples
	MinFluxRatio float64 // minimum flux relative to the local median
	CenterTime   float64 // time at the center of the dip
	EgressTime   float64 // time at the end of the dip
	Threshold    float64 // detection threshold in effect for this scan
}

// New creates a Dip record from one engine detection, stamped with the
// current date and time.
func New(settings *conf.Settings, scanID string, lc *lightcurve.LightCurve, det *dipsearch.Detection) Dip {
	now := time.Now()
	return Dip{
		ScanID:       scanID,
		SourceNode:   settings.Main.Name,
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		InputFile:    lc.Path,
		TargetID:     lc.TargetID,
		StartIndex:   det.StartIndex,
		EndIndex:     det.EndIndex,
		Duration:     det.Duration,
		MinFluxRatio: det.MinFluxRatio,
		CenterTime:   det.CenterTime,
		EgressTime:   egressTime(lc, det, &settings.Dipsearch),
		Threshold:    settings.Dipsearch.DetectionThresh,
	}
}

// egressTime reports the time of the last valid sample covered by the
// detection's final triggering window. EndIndex is one step past the final
// triggering window start, so the window covers samples up to
// EndIndex - StepSize + WinSize - 1.
func egressTime(lc *lightcurve.LightCurve, det *dipsearch.Detection, cfg *conf.DipsearchConfig) float64 {
	last := det.EndIndex - cfg.StepSize + cfg.WinSize - 1
	if last >= len(lc.Samples) {
		last = len(lc.Samples) - 1
	}
	for i := last; i >= 0; i-- {
		if lc.Samples[i].Valid {
			return lc.Samples[i].Time
		}
	}
	if len(lc.Samples) == 0 {
		return det.CenterTime
	}
	return lc.Samples[last].Time
}

// WriteDipsTable writes candidates as a tab separated table. The output
// goes to stdout when filename is empty, otherwise to the named file.
func WriteDipsTable(dips []Dip, filename string) error {
	var w io.Writer
	if filename == "" {
		w = os.Stdout
	} else {
		if !strings.HasSuffix(filename, ".txt") {
			filename += ".txt"
		}
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()
		w = file
	}

	header := "Selection\tTarget\tInput File\tStart\tEnd\tDuration\tCenter Time\tEgress Time\tMin Flux Ratio\n"
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var err error
	for i := range dips {
		d := &dips[i]
		line := fmt.Sprintf("%d\t%d\t%s\t%d\t%d\t%d\t%.6f\t%.6f\t%.4f\n",
			i+1, d.TargetID, d.InputFile, d.StartIndex, d.EndIndex, d.Duration,
			d.CenterTime, d.EgressTime, d.MinFluxRatio)
		if _, err = io.WriteString(w, line); err != nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write candidate: %w", err)
	}
	if filename != "" {
		fmt.Println("Output written to", filename)
	}
	return nil
}

// WriteDipsCsv writes candidates in CSV format, to stdout when filename is
// empty.
func WriteDipsCsv(dips []Dip, filename string) error {
	var w io.Writer
	if filename == "" {
		w = os.Stdout
	} else {
		if !strings.HasSuffix(filename, ".csv") {
			filename += ".csv"
		}
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", filename, err)
		}
		defer file.Close()
		w = file
	}

	header := "target,input_file,start_index,end_index,duration,center_time,egress_time,min_flux_ratio\n"
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write header to CSV: %w", err)
	}

	var err error
	for i := range dips {
		d := &dips[i]
		line := fmt.Sprintf("%d,%s,%d,%d,%d,%.6f,%.6f,%.4f\n",
			d.TargetID, d.InputFile, d.StartIndex, d.EndIndex, d.Duration,
			d.CenterTime, d.EgressTime, d.MinFluxRatio)
		if _, err = io.WriteString(w, line); err != nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write candidate to CSV: %w", err)
	}
	if filename != "" {
		fmt.Println("Output written to", filename)
	}
	return nil
}
