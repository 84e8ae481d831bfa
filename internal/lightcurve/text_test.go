package lightcurve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromTextCSV(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "target.csv",
		"time,flux,quality\n"+
			"0.0,1.00,0\n"+
			"1.0,1.01,0\n"+
			"2.0,0.99,0\n"+
			"3.0,0.80,0\n")

	lc, err := FromText(path)
	require.NoError(t, err)
	require.Len(t, lc.Samples, 4)
	assert.Equal(t, 4, lc.ValidSamples())
	assert.InDelta(t, 0.80, lc.Samples[3].Flux, 1e-12)
	assert.InDelta(t, 3.0, lc.Samples[3].Time, 1e-12)
}

func TestFromTextWhitespaceColumns(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "target.dat",
		"# TIME FLUX\n"+
			"0.0  1.00\n"+
			"1.0  1.01\n"+
			"\n"+
			"2.0  0.99\n")

	lc, err := FromText(path)
	require.NoError(t, err)
	require.Len(t, lc.Samples, 3)
	assert.Equal(t, 3, lc.ValidSamples())
}

func TestFromTextInvalidSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantTotal int
		wantValid int
	}{
		{
			name:      "NaN flux becomes placeholder",
			content:   "0.0,1.0,0\n1.0,NaN,0\n2.0,1.0,0\n",
			wantTotal: 3,
			wantValid: 2,
		},
		{
			name:      "Quality flagged cadence",
			content:   "0.0,1.0,0\n1.0,1.0,1088\n2.0,1.0,0\n",
			wantTotal: 3,
			wantValid: 2,
		},
		{
			name:      "NaN time kept as placeholder",
			content:   "0.0,1.0\nNaN,1.0\n2.0,1.0\n",
			wantTotal: 3,
			wantValid: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeTempFile(t, "target.csv", tt.content)
			lc, err := FromText(path)
			require.NoError(t, err)
			assert.Len(t, lc.Samples, tt.wantTotal)
			assert.Equal(t, tt.wantValid, lc.ValidSamples())
		})
	}
}

func TestFromTextMalformed(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "target.csv", "0.0,1.0\nbroken,line\n")
	_, err := FromText(path)
	assert.Error(t, err)
}

func TestFromTextMissingFile(t *testing.T) {
	t.Parallel()

	_, err := FromText(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadDispatch(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "target.txt", "0.0 1.0\n1.0 1.0\n")
	lc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, lc.Samples, 2)

	_, err = Load(writeTempFile(t, "target.bin", "junk"))
	assert.Error(t, err)
}

func TestSupportedFile(t *testing.T) {
	t.Parallel()

	assert.True(t, SupportedFile("ktwo205919993-c03_llc.fits"))
	assert.True(t, SupportedFile("lc.CSV"))
	assert.False(t, SupportedFile("notes.md"))
	assert.False(t, SupportedFile("archive.tar.gz"))
}
