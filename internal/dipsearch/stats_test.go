package dipsearch

import (
	"math"
	"testing"
)

// flatSeries builds an all-valid series with one sample per unit of time.
func flatSeries(n int, flux float64) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = Sample{Time: float64(i), Flux: flux, Valid: true}
	}
	return s
}

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{name: "Odd count", in: []float64{3, 1, 2}, want: 2},
		{name: "Even count", in: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "Single value", in: []float64{7}, want: 7},
		{name: "Repeated values", in: []float64{1, 1, 1, 5}, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := median(tt.in); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocalStatsExcludesTargetWindow(t *testing.T) {
	t.Parallel()

	// The dip sits entirely inside the target window, the baseline must not
	// see it. Mirrors the reference photometry of eleven cadences with a
	// window of four starting at index four.
	flux := []float64{1.00, 1.01, 0.99, 0.80, 0.75, 0.95, 0.99, 0.99, 1.00, 0.80, 1.01}
	s := make(Series, len(flux))
	for i, f := range flux {
		s[i] = Sample{Time: float64(i), Flux: f, Valid: true}
	}

	p := Params{WinSize: 4, Nneighb: 1, MinNeighborSamples: 1}
	med, _, ok := localStats(s, 4, &p)
	if !ok {
		t.Fatal("expected determinate baseline")
	}
	if med != 1.0 {
		t.Errorf("local median = %v, want 1.0", med)
	}
}

func TestLocalStatsScatter(t *testing.T) {
	t.Parallel()

	s := flatSeries(50, 1.0)
	p := Params{WinSize: 5, Nneighb: 2, MinNeighborSamples: 1}
	med, scatter, ok := localStats(s, 20, &p)
	if !ok {
		t.Fatal("expected determinate baseline")
	}
	if med != 1.0 {
		t.Errorf("local median = %v, want 1.0", med)
	}
	if scatter != 0 {
		t.Errorf("scatter of constant series = %v, want 0", scatter)
	}
}

func TestLocalStatsBoundary(t *testing.T) {
	t.Parallel()

	// At the head of the series all neighbors lie on the trailing side and
	// the reach doubles toward the interior.
	s := flatSeries(100, 2.0)
	p := Params{WinSize: 10, Nneighb: 2, MinNeighborSamples: 1}
	med, _, ok := localStats(s, 0, &p)
	if !ok {
		t.Fatal("expected determinate baseline at sequence head")
	}
	if med != 2.0 {
		t.Errorf("local median = %v, want 2.0", med)
	}
}

func TestLocalStatsIndeterminate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		series Series
	}{
		{
			// Series no longer than the window leaves no neighbor samples.
			name:   "No neighbors",
			series: flatSeries(10, 1.0),
		},
		{
			name: "All neighbors invalid",
			series: func() Series {
				s := flatSeries(50, 1.0)
				for i := range s {
					if i < 20 || i >= 30 {
						s[i].Valid = false
					}
				}
				return s
			}(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Params{WinSize: 10, Nneighb: 2}
			if _, _, ok := localStats(tt.series, len(tt.series)/2-5, &p); ok {
				t.Error("expected indeterminate baseline")
			}
		})
	}
}

func TestLocalStatsSkipsInvalidSamples(t *testing.T) {
	t.Parallel()

	s := flatSeries(60, 1.0)
	// A burst of NaN placeholders in the neighborhood must not leak into
	// the statistics.
	for i := 10; i < 15; i++ {
		s[i].Flux = math.NaN()
		s[i].Valid = false
	}
	p := Params{WinSize: 5, Nneighb: 2, MinNeighborSamples: 1}
	med, scatter, ok := localStats(s, 20, &p)
	if !ok {
		t.Fatal("expected determinate baseline")
	}
	if med != 1.0 || scatter != 0 {
		t.Errorf("got median %v scatter %v, want 1.0 and 0", med, scatter)
	}
}
