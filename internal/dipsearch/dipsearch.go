// Package dipsearch implements the sliding window dip search used to flag
// transit-like flux drops in photometric time series. The package is pure
// computation: it consumes a decoded sample sequence and produces detection
// records, leaving file decoding and result persistence to its callers.
package dipsearch

import (
	"fmt"

	"github.com/mschleck/lcps-go/internal/errors"
)

// Sample is a single photometric measurement. Invalid samples (NaN flux,
// quality-flagged cadences, gaps) are kept as placeholders so that window
// indexing matches the source cadence; they are excluded from all statistics.
type Sample struct {
	Time  float64 // observation time, e.g. BJD - 2454833 for Kepler
	Flux  float64 // PDCSAP or raw flux
	Valid bool
}

// Series is an ordered sample sequence with strictly increasing time.
type Series []Sample

// Params holds the tunables of a dip search.
type Params struct {
	WinSize         int     // window length in samples
	StepSize        int     // samples the window advances per iteration
	Nneighb         int     // neighbor windows per side for the local median
	MinDur          int     // minimum dip duration in samples
	MaxDur          int     // maximum dip duration in samples
	DetectionThresh float64 // fraction of local median below which a window triggers

	// MinValidFraction is the usability floor: windows whose valid sample
	// fraction falls below it are skipped. Zero selects DefaultMinValidFraction.
	MinValidFraction float64
	// MinNeighborSamples is the minimum number of valid neighbor samples
	// required for the local baseline to be considered determinate. Zero
	// selects DefaultMinNeighborSamples.
	MinNeighborSamples int
}

// Defaults for the data quality floors, applied when the corresponding
// Params field is left at zero.
const (
	DefaultMinValidFraction   = 0.5
	DefaultMinNeighborSamples = 3
)

// Detection is one merged run of triggering window positions. Indices are
// half open: the run covers window start positions [StartIndex, EndIndex).
// Duration is EndIndex - StartIndex, i.e. the triggering step count times
// StepSize, so duration bounds stay comparable across step sizes.
type Detection struct {
	StartIndex   int
	EndIndex     int
	Duration     int
	MinFluxRatio float64 // minimum windowFlux/localMedian over the run
	CenterTime   float64 // time of the central triggering window's midpoint
}

// ConfigError reports an invalid parameter combination. It is returned,
// wrapped, from Detect before any scanning has taken place.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErr(format string, args ...any) error {
	return errors.New(&ConfigError{msg: fmt.Sprintf(format, args...)}).
		Component("dipsearch").
		Category(errors.CategoryConfiguration).
		Build()
}

// Validate checks parameter consistency. It mirrors the checks Detect
// performs up front so that configuration layers can reject bad settings
// before any file is opened.
func (p *Params) Validate() error {
	switch {
	case p.WinSize <= 0:
		return configErr("window size must be positive, got %d", p.WinSize)
	case p.StepSize <= 0:
		return configErr("step size must be positive, got %d", p.StepSize)
	case p.StepSize > p.WinSize:
		return configErr("step size %d exceeds window size %d", p.StepSize, p.WinSize)
	case p.Nneighb <= 0:
		return configErr("neighbor window count must be positive, got %d", p.Nneighb)
	case p.MinDur <= 0:
		return configErr("minimum dip duration must be positive, got %d", p.MinDur)
	case p.MinDur > p.MaxDur:
		return configErr("minimum dip duration %d exceeds maximum %d", p.MinDur, p.MaxDur)
	case p.MaxDur >= p.WinSize:
		return configErr("maximum dip duration %d must be below window size %d", p.MaxDur, p.WinSize)
	case p.DetectionThresh <= 0 || p.DetectionThresh >= 1:
		return configErr("detection threshold must be within (0, 1), got %g", p.DetectionThresh)
	case p.MinValidFraction < 0 || p.MinValidFraction > 1:
		return configErr("minimum valid fraction must be within [0, 1], got %g", p.MinValidFraction)
	case p.MinNeighborSamples < 0:
		return configErr("minimum neighbor samples must not be negative, got %d", p.MinNeighborSamples)
	}
	return nil
}

func (p *Params) minValidFraction() float64 {
	if p.MinValidFraction == 0 {
		return DefaultMinValidFraction
	}
	return p.MinValidFraction
}

func (p *Params) minNeighborSamples() int {
	if p.MinNeighborSamples == 0 {
		return DefaultMinNeighborSamples
	}
	return p.MinNeighborSamples
}
