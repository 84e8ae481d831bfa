package observation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/lightcurve"
)

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Main.Name = "test-node"
	s.Dipsearch = conf.DipsearchConfig{
		WinSize:         5,
		StepSize:        1,
		Nneighb:         2,
		MinDur:          2,
		MaxDur:          4,
		DetectionThresh: 0.995,
	}
	return s
}

func testLightCurve() *lightcurve.LightCurve {
	samples := make(dipsearch.Series, 30)
	for i := range samples {
		samples[i] = dipsearch.Sample{Time: float64(i) * 0.5, Flux: 1.0, Valid: true}
	}
	return &lightcurve.LightCurve{TargetID: 205919993, Path: "target.fits", Samples: samples}
}

func TestNewDip(t *testing.T) {
	t.Parallel()

	det := dipsearch.Detection{
		StartIndex:   10,
		EndIndex:     13,
		Duration:     3,
		MinFluxRatio: 0.98,
		CenterTime:   6.5,
	}
	dip := New(testSettings(), "scan-1", testLightCurve(), &det)

	assert.Equal(t, "scan-1", dip.ScanID)
	assert.Equal(t, "test-node", dip.SourceNode)
	assert.Equal(t, 205919993, dip.TargetID)
	assert.Equal(t, "target.fits", dip.InputFile)
	assert.Equal(t, 3, dip.Duration)
	assert.InDelta(t, 0.98, dip.MinFluxRatio, 1e-12)
	assert.InDelta(t, 0.995, dip.Threshold, 1e-12)
	// Last sample of the final triggering window is index 16, at t=8.0.
	assert.InDelta(t, 8.0, dip.EgressTime, 1e-12)
	assert.NotEmpty(t, dip.Date)
	assert.NotEmpty(t, dip.Time)
}

func TestNewDipWideStep(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.Dipsearch.WinSize = 10
	s.Dipsearch.StepSize = 5
	det := dipsearch.Detection{StartIndex: 10, EndIndex: 20, Duration: 10}
	dip := New(s, "scan-1", testLightCurve(), &det)
	// The final triggering window starts at index 15, one step before
	// EndIndex; its last sample is index 24, at t=12.0.
	assert.InDelta(t, 12.0, dip.EgressTime, 1e-12)

	lc := testLightCurve()
	lc.Samples[24].Valid = false
	lc.Samples[23].Valid = false
	dip = New(s, "scan-1", lc, &det)
	assert.InDelta(t, 11.0, dip.EgressTime, 1e-12)
}

func TestEgressTimeSkipsInvalidSamples(t *testing.T) {
	t.Parallel()

	lc := testLightCurve()
	lc.Samples[16].Valid = false
	lc.Samples[15].Valid = false
	det := dipsearch.Detection{StartIndex: 10, EndIndex: 13, Duration: 3}
	dip := New(testSettings(), "scan-1", lc, &det)
	// Falls back to the nearest preceding valid sample, index 14 at t=7.0.
	assert.InDelta(t, 7.0, dip.EgressTime, 1e-12)
}

func TestWriteDipsCsv(t *testing.T) {
	t.Parallel()

	dips := []Dip{
		{TargetID: 1, InputFile: "a.fits", StartIndex: 5, EndIndex: 8, Duration: 3, CenterTime: 3.0, EgressTime: 4.5, MinFluxRatio: 0.97},
		{TargetID: 2, InputFile: "b.fits", StartIndex: 50, EndIndex: 53, Duration: 3, CenterTime: 26.0, EgressTime: 27.5, MinFluxRatio: 0.99},
	}
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteDipsCsv(dips, path))

	data, err := os.ReadFile(path + ".csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "target,input_file,start_index,end_index,duration,center_time,egress_time,min_flux_ratio", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,a.fits,5,8,3,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,b.fits,50,53,3,"))
}

func TestWriteDipsTable(t *testing.T) {
	t.Parallel()

	dips := []Dip{
		{TargetID: 7, InputFile: "c.fits", StartIndex: 5, EndIndex: 8, Duration: 3, CenterTime: 3.0, EgressTime: 4.5, MinFluxRatio: 0.97},
	}
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteDipsTable(dips, path))

	data, err := os.ReadFile(path + ".txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Target\tInput File")
	assert.Contains(t, string(data), "\t7\tc.fits\t")
}

func TestLogDipToFile(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Output.Log.Enabled = true
	settings.Output.Log.Path = filepath.Join(t.TempDir(), "dips.log")

	dip := Dip{TargetID: 205919993, EgressTime: 12.5, MinFluxRatio: 0.98}
	require.NoError(t, LogDipToFile(settings, &dip))
	require.NoError(t, LogDipToFile(settings, &dip))

	data, err := os.ReadFile(settings.Output.Log.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "205919993,12.500000,0.9800", lines[0])
}

func TestDataStoreSQLite(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "dips.db")

	ds, err := InitializeDatabase(settings)
	require.NoError(t, err)
	require.NotNil(t, ds)

	dip := New(settings, "scan-db", testLightCurve(), &dipsearch.Detection{
		StartIndex: 10, EndIndex: 13, Duration: 3, MinFluxRatio: 0.98, CenterTime: 6.5,
	})
	require.NoError(t, ds.Save(&dip))

	var got []Dip
	require.NoError(t, ds.db.Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, 205919993, got[0].TargetID)
	assert.Equal(t, "scan-db", got[0].ScanID)
}

func TestDataStoreDisabled(t *testing.T) {
	t.Parallel()

	ds, err := InitializeDatabase(testSettings())
	require.NoError(t, err)
	assert.Nil(t, ds)
	// A nil datastore silently drops saves so callers need no guard.
	require.NoError(t, ds.Save(&Dip{}))
}
