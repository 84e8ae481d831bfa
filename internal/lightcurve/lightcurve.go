// Package lightcurve decodes photometric time series files into the sample
// sequences consumed by the dip search. It understands Kepler/K2 long
// cadence FITS files and plain delimited text exports. Samples with NaN
// values or nonzero quality flags are kept as invalid placeholders so the
// cadence indexing of the source file is preserved.
package lightcurve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/errors"
)

// LightCurve is one decoded light curve file.
type LightCurve struct {
	TargetID int // KEPLERID/EPIC number from the FITS header, 0 when unknown
	Path     string
	Samples  dipsearch.Series
}

// ValidSamples reports how many samples carry usable flux.
func (lc *LightCurve) ValidSamples() int {
	n := 0
	for i := range lc.Samples {
		if lc.Samples[i].Valid {
			n++
		}
	}
	return n
}

// Load decodes the light curve file at path, dispatching on extension.
func Load(path string) (*LightCurve, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit":
		return FromFITS(path)
	case ".csv", ".txt", ".dat":
		return FromText(path)
	default:
		return nil, errors.Newf("unsupported light curve format: %s", filepath.Base(path)).
			Component("lightcurve").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
}

// SupportedFile reports whether name looks like a light curve file this
// package can decode.
func SupportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".fits", ".fit", ".csv", ".txt", ".dat":
		return true
	}
	return false
}

func parseErr(path string, err error) error {
	return errors.New(fmt.Errorf("failed to decode light curve %s: %w", filepath.Base(path), err)).
		Component("lightcurve").
		Category(errors.CategoryFileParsing).
		Context("path", path).
		Build()
}
