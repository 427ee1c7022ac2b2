package starfield

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// Stats summarizes a field for headless output and the UI header.
type Stats struct {
	Count        int     `json:"count"`
	BrightestMag float64 `json:"brightest_mag"`
	FaintestMag  float64 `json:"faintest_mag"`
	NearestPc    float64 `json:"nearest_pc"`
	FarthestPc   float64 `json:"farthest_pc"`
	MinRadiusPc  float64 `json:"min_orbital_radius_pc"`
	MaxRadiusPc  float64 `json:"max_orbital_radius_pc"`
}

// ComputeStats walks the sample arena once.
func (f *Field) ComputeStats() Stats {
	if f.Len() == 0 {
		return Stats{}
	}

	st := Stats{
		Count:        len(f.Samples),
		BrightestMag: f.Samples[0].ApparentMag,
		FaintestMag:  f.Samples[len(f.Samples)-1].ApparentMag,
		NearestPc:    math.Inf(1),
		MinRadiusPc:  math.Inf(1),
	}
	for _, s := range f.Samples {
		st.NearestPc = math.Min(st.NearestPc, s.Distance)
		st.FarthestPc = math.Max(st.FarthestPc, s.Distance)
		st.MinRadiusPc = math.Min(st.MinRadiusPc, s.OrbitalRadius)
		st.MaxRadiusPc = math.Max(st.MaxRadiusPc, s.OrbitalRadius)
	}
	return st
}

// SnapshotExport is the JSON-serializable representation of a field.
type SnapshotExport struct {
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loaded_at"`
	Stats    Stats        `json:"stats"`
	Stars    []StarExport `json:"stars"`
}

// StarExport is a JSON-friendly star.
type StarExport struct {
	Rank          int        `json:"rank"`
	Position      [3]float64 `json:"position_pc"`
	GalacticL     float64    `json:"galactic_l"`
	GalacticB     float64    `json:"galactic_b"`
	OrbitalRadius float64    `json:"orbital_radius_pc"`
	InitialAngle  float64    `json:"initial_angle_rad"`
	Distance      float64    `json:"distance_pc"`
	ApparentMag   float64    `json:"apparent_mag"`
	AbsoluteMag   float64    `json:"absolute_mag"`
	Color         string     `json:"color"`
}

// ExportSnapshot converts a field to an exportable format. limit caps the
// number of stars exported (brightest first); limit <= 0 exports all.
func ExportSnapshot(f *Field, source string, loadedAt time.Time, limit int) *SnapshotExport {
	export := &SnapshotExport{
		Source:   source,
		LoadedAt: loadedAt,
	}
	if f.Len() == 0 {
		return export
	}
	export.Stats = f.ComputeStats()

	n := len(f.Samples)
	if limit > 0 && limit < n {
		n = limit
	}
	export.Stars = make([]StarExport, 0, n)
	for i, s := range f.Samples[:n] {
		l, b := f.SkyPosition(s)
		export.Stars = append(export.Stars, StarExport{
			Rank:          i + 1,
			Position:      [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			GalacticL:     l,
			GalacticB:     b,
			OrbitalRadius: s.OrbitalRadius,
			InitialAngle:  s.InitialAngle,
			Distance:      s.Distance,
			ApparentMag:   s.ApparentMag,
			AbsoluteMag:   s.AbsoluteMag,
			Color:         s.Color.Clamped().Hex(),
		})
	}
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a text summary with the brightest stars.
func WriteSummaryTable(w io.Writer, f *Field, source string, top int) {
	fmt.Fprintf(w, "Star field from %s\n", source)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if f.Len() == 0 {
		fmt.Fprintln(w, "No stars")
		return
	}

	st := f.ComputeStats()
	fmt.Fprintf(w, "Stars: %d   mag %.2f .. %.2f   distance %s .. %s\n",
		st.Count, st.BrightestMag, st.FaintestMag, FormatParsecs(st.NearestPc), FormatParsecs(st.FarthestPc))
	fmt.Fprintf(w, "Orbital radius: %s .. %s\n\n", FormatParsecs(st.MinRadiusPc), FormatParsecs(st.MaxRadiusPc))

	fmt.Fprintf(w, "%-5s %-7s %-7s %-10s %-9s %-9s %-8s\n",
		"Rank", "m", "M", "Distance", "l", "b", "Color")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	n := max(0, min(top, len(f.Samples)))
	for i, s := range f.Samples[:n] {
		l, b := f.SkyPosition(s)
		fmt.Fprintf(w, "%-5d %7.2f %7.2f %-10s %8.2f° %8.2f° %-8s\n",
			i+1, s.ApparentMag, s.AbsoluteMag, FormatParsecs(s.Distance), l, b, s.Color.Clamped().Hex())
	}
}

// FormatParsecs renders a distance with a unit that keeps it readable from
// stellar radii to kiloparsecs.
func FormatParsecs(pc float64) string {
	switch {
	case math.IsInf(pc, 0) || math.IsNaN(pc):
		return "-"
	case pc >= 1000:
		return fmt.Sprintf("%.2f kpc", pc/1000)
	case pc >= 0.01:
		return fmt.Sprintf("%.2f pc", pc)
	default:
		return fmt.Sprintf("%.0f AU", pc*206264.806)
	}
}
