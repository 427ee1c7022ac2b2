// Package catalog loads and validates raw stellar catalog rows.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MinFields is the number of leading numeric columns every row must carry:
// RA, Dec, parallax, apparent magnitude, color index.
const MinFields = 5

// ErrEmptyCatalog is returned when no row survives validation.
var ErrEmptyCatalog = errors.New("catalog has no valid rows")

// RawRecord is one validated catalog row.
type RawRecord struct {
	RAdeg       float64 // Right Ascension in degrees (J2000)
	DecDeg      float64 // Declination in degrees (J2000)
	ParallaxMas float64 // Parallax in milliarcseconds, always > 0
	ApparentMag float64 // Apparent magnitude (lower = brighter)
	ColorIndex  float64 // BP-RP color index
}

// Parse reads a comma-separated catalog: one header line, then one star per
// line. Rows that fail to parse, are too short, or have a non-positive or
// non-finite parallax are dropped; skipped reports how many. Records keep
// file order.
func Parse(r io.Reader) (records []RawRecord, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, ok := parseRow(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read catalog: %w", err)
	}

	if len(records) == 0 {
		return nil, skipped, ErrEmptyCatalog
	}
	return records, skipped, nil
}

// parseRow converts one data line. Columns past the fifth are ignored.
func parseRow(line string) (RawRecord, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < MinFields {
		return RawRecord{}, false
	}

	var vals [MinFields]float64
	for i := 0; i < MinFields; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return RawRecord{}, false
		}
		vals[i] = v
	}

	rec := RawRecord{
		RAdeg:       vals[0],
		DecDeg:      vals[1],
		ParallaxMas: vals[2],
		ApparentMag: vals[3],
		ColorIndex:  vals[4],
	}
	if rec.ParallaxMas <= 0 {
		return RawRecord{}, false
	}
	return rec, true
}
