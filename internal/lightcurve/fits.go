package lightcurve

import (
	"fmt"
	"math"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/errors"
)

// keplerRow maps the light curve columns of a Kepler long cadence FITS
// binary table. PDCSAP flux is the pipeline conditioned photometry the dip
// search operates on.
type keplerRow struct {
	Time    float64 `fits:"TIME"`
	Flux    float64 `fits:"PDCSAP_FLUX"`
	Quality int32   `fits:"SAP_QUALITY"`
}

// FromFITS opens a light curve file in the usual Kepler FITS format and
// extracts the PDCSAP light curve from the first extension HDU. Cadences
// with NaN time or flux, or a nonzero quality flag, become invalid
// placeholder samples.
func FromFITS(path string) (*LightCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open FITS file: %w", err)).
			Component("lightcurve").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, parseErr(path, err)
	}
	defer fits.Close()

	if len(fits.HDUs()) < 2 {
		return nil, parseErr(path, fmt.Errorf("no light curve extension HDU"))
	}
	tbl, ok := fits.HDU(1).(*fitsio.Table)
	if !ok {
		return nil, parseErr(path, fmt.Errorf("extension HDU is not a binary table"))
	}

	lc := &LightCurve{
		Path:    path,
		Samples: make(dipsearch.Series, 0, tbl.NumRows()),
	}
	if card := tbl.Header().Get("KEPLERID"); card != nil {
		if id, ok := card.Value.(int); ok {
			lc.TargetID = id
		}
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, parseErr(path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row keplerRow
		if err := rows.Scan(&row); err != nil {
			return nil, parseErr(path, err)
		}
		lc.Samples = append(lc.Samples, dipsearch.Sample{
			Time:  row.Time,
			Flux:  row.Flux,
			Valid: !math.IsNaN(row.Time) && !math.IsNaN(row.Flux) && row.Quality == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, parseErr(path, err)
	}

	return lc, nil
}
