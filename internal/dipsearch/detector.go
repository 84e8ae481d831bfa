package dipsearch

// Detect slides a window of p.WinSize samples across the series, compares
// each window's median flux against the local baseline reported by
// localStats, and merges consecutive triggering positions into Detection
// records. The scan is deterministic and single pass; calling Detect twice
// on the same inputs yields identical output.
//
// Invalid parameters are rejected before any scanning with an error
// wrapping *ConfigError. A series shorter than the window size yields an
// empty detection list, not an error.
func Detect(s Series, p Params) ([]Detection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(s) < p.WinSize {
		return nil, nil
	}

	var dips []Detection
	run := runAccumulator{}
	for start := 0; start <= len(s)-p.WinSize; start += p.StepSize {
		ratio, triggered := evaluateWindow(s, start, &p)
		if !triggered {
			// A single non-triggering step closes the run, two runs
			// separated by one gap step are never merged.
			if d, ok := run.close(s, &p); ok {
				dips = append(dips, d)
			}
			continue
		}
		run.extend(start, ratio)
	}
	// Close a run still open at the end of the sequence.
	if d, ok := run.close(s, &p); ok {
		dips = append(dips, d)
	}
	return dips, nil
}

// evaluateWindow decides whether the window starting at start triggers.
// Windows below the valid fraction floor and windows with an indeterminate
// or non-positive baseline are treated as non-triggering. The returned
// ratio is windowFlux/localMedian and is only meaningful when triggered.
func evaluateWindow(s Series, start int, p *Params) (ratio float64, triggered bool) {
	flux := make([]float64, 0, p.WinSize)
	for i := start; i < start+p.WinSize; i++ {
		if s[i].Valid {
			flux = append(flux, s[i].Flux)
		}
	}
	if float64(len(flux)) < p.minValidFraction()*float64(p.WinSize) {
		return 0, false
	}

	localMedian, _, ok := localStats(s, start, p)
	if !ok || localMedian <= 0 {
		return 0, false
	}

	windowFlux := median(flux)
	ratio = windowFlux / localMedian
	return ratio, windowFlux < p.DetectionThresh*localMedian
}

// runAccumulator is the idle/inRun state machine that merges consecutive
// triggering window positions into one candidate event. It keeps the index
// bookkeeping out of the scanning loop so duration handling stays auditable
// in isolation.
type runAccumulator struct {
	active     bool
	firstStart int     // window start of the first triggering position
	lastStart  int     // window start of the most recent triggering position
	minRatio   float64 // minimum flux ratio observed within the run
}

// extend transitions idle -> inRun on the first trigger and inRun -> inRun
// on subsequent ones.
func (r *runAccumulator) extend(start int, ratio float64) {
	if !r.active {
		r.active = true
		r.firstStart = start
		r.minRatio = ratio
	} else if ratio < r.minRatio {
		r.minRatio = ratio
	}
	r.lastStart = start
}

// close transitions inRun -> idle, evaluating the merged run against the
// duration bounds. Runs outside [MinDur, MaxDur] are dropped silently.
func (r *runAccumulator) close(s Series, p *Params) (Detection, bool) {
	if !r.active {
		return Detection{}, false
	}
	start, end := r.firstStart, r.lastStart+p.StepSize
	minRatio := r.minRatio
	*r = runAccumulator{}

	duration := end - start
	if duration < p.MinDur || duration > p.MaxDur {
		return Detection{}, false
	}

	return Detection{
		StartIndex:   start,
		EndIndex:     end,
		Duration:     duration,
		MinFluxRatio: minRatio,
		CenterTime:   centerTime(s, start, end, p),
	}, true
}

// centerTime reports the time at the midpoint of the run's central window,
// falling back to the nearest valid sample when the midpoint cadence is a
// placeholder.
func centerTime(s Series, start, end int, p *Params) float64 {
	mid := (start+end-1)/2 + p.WinSize/2
	if mid >= len(s) {
		mid = len(s) - 1
	}
	for off := 0; off < len(s); off++ {
		if i := mid - off; i >= 0 && s[i].Valid {
			return s[i].Time
		}
		if i := mid + off; i < len(s) && s[i].Valid {
			return s[i].Time
		}
	}
	return s[mid].Time
}
