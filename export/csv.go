// Package export writes run results as CSV tables and PNG renderings
// for external consumers. It accepts the result bundle as-is and never
// reaches back into the simulation pipeline.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chromalab/go-chroma/results"
)

// WriteKpiCSV writes the per-peak KPI table for every channel of a run.
func WriteKpiCSV(r *results.RunResult, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{
		"detector_id", "peak", "analyte", "retention_time_s", "area",
		"area_percent", "height", "signal_to_noise", "resolution", "tailing_factor",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rep := range r.Kpis {
		for _, p := range rep.Peaks {
			row := []string{
				rep.DetectorID,
				strconv.Itoa(p.Number),
				p.Analyte,
				formatFloat(p.RetentionTime),
				formatFloat(p.Area),
				formatFloat(p.AreaPercent),
				formatFloat(p.Height),
				formatFloat(p.SignalToNoise),
				formatFloat(p.Resolution),
				formatFloat(p.TailingFactor),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write peak row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteChromatogramCSV writes one detector trace as time/intensity
// rows.
func WriteChromatogramCSV(c results.Chromatogram, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time_s", "intensity"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range c.Time {
		row := []string{formatFloat(c.Time[i]), formatFloat(c.Intensity[i])}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveKpiCSV writes the KPI table to a file.
func SaveKpiCSV(r *results.RunResult, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	return WriteKpiCSV(r, f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
