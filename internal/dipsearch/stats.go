package dipsearch

import (
	"math"
	"sort"
)

// median returns the order statistic median of v. The slice is sorted in
// place, callers must pass a scratch copy when order matters.
func median(v []float64) float64 {
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}

// localStats computes the robust local baseline for the window starting at
// winStart: the median and median absolute deviation of all valid fluxes in
// the Nneighb windows on each side of the target window. The target window
// itself is always excluded so that a dip cannot pollute its own baseline.
//
// Near a sequence boundary the neighbor reach is doubled so the thinner side
// is compensated by windows further toward the interior. When fewer than
// MinNeighborSamples valid neighbor samples exist the baseline is
// indeterminate and ok is false.
func localStats(s Series, winStart int, p *Params) (med, scatter float64, ok bool) {
	reach := p.Nneighb
	if winStart < p.Nneighb*p.WinSize || winStart > len(s)-(p.Nneighb+1)*p.WinSize {
		reach *= 2
	}

	lo := winStart - reach*p.WinSize
	if lo < 0 {
		lo = 0
	}
	hi := winStart + (1+reach)*p.WinSize
	if hi > len(s) {
		hi = len(s)
	}

	flux := make([]float64, 0, hi-lo)
	for i := lo; i < winStart; i++ {
		if s[i].Valid {
			flux = append(flux, s[i].Flux)
		}
	}
	for i := winStart + p.WinSize; i < hi; i++ {
		if s[i].Valid {
			flux = append(flux, s[i].Flux)
		}
	}

	if len(flux) < p.minNeighborSamples() {
		return 0, 0, false
	}

	med = median(flux)
	for i, f := range flux {
		flux[i] = math.Abs(f - med)
	}
	scatter = median(flux)
	return med, scatter, true
}
