package lightcurve

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mschleck/lcps-go/internal/dipsearch"
	"github.com/mschleck/lcps-go/internal/errors"
)

// FromText decodes a delimited text light curve: one sample per line with
// time and flux columns and an optional quality flag column. Comma
// separated files are parsed as CSV, anything else as whitespace separated
// columns. A header line is detected and skipped. Unparseable or
// quality-flagged samples become invalid placeholders.
func FromText(path string) (*LightCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open light curve file: %w", err)).
			Component("lightcurve").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	var records [][]string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		records, err = readCSV(f)
	} else {
		records, err = readColumns(f)
	}
	if err != nil {
		return nil, parseErr(path, err)
	}

	lc := &LightCurve{Path: path, Samples: make(dipsearch.Series, 0, len(records))}
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, parseErr(path, fmt.Errorf("line %d: expected at least time and flux columns", i+1))
		}
		sample, ok := parseSample(rec)
		if !ok {
			if i == 0 {
				// Header line.
				continue
			}
			return nil, parseErr(path, fmt.Errorf("line %d: malformed sample %q", i+1, strings.Join(rec, ",")))
		}
		lc.Samples = append(lc.Samples, sample)
	}
	return lc, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func readColumns(r io.Reader) ([][]string, error) {
	var records [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		records = append(records, strings.Fields(line))
	}
	return records, scanner.Err()
}

// parseSample converts one record into a Sample. ok is false when the time
// column is not numeric, which distinguishes a header line from a data line
// with missing flux.
func parseSample(rec []string) (dipsearch.Sample, bool) {
	t, err := strconv.ParseFloat(rec[0], 64)
	if err != nil {
		return dipsearch.Sample{}, false
	}

	valid := !math.IsNaN(t)
	flux, err := strconv.ParseFloat(rec[1], 64)
	if err != nil || math.IsNaN(flux) {
		// Missing or non-numeric flux keeps the cadence as a placeholder.
		flux = math.NaN()
		valid = false
	}

	if len(rec) >= 3 && valid {
		quality, err := strconv.ParseInt(rec[2], 10, 32)
		if err != nil || quality != 0 {
			valid = false
		}
	}

	return dipsearch.Sample{Time: t, Flux: flux, Valid: valid}, true
}
