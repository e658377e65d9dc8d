package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/chromalab/go-chroma/kpi"
	"github.com/chromalab/go-chroma/results"
)

func testResult() *results.RunResult {
	return &results.RunResult{
		Kpis: []kpi.Report{{
			DetectorID: "FID1",
			Peaks: []kpi.PeakKPI{
				{Number: 1, Analyte: "n-Hexane", RetentionTime: 181.5, Area: 19.6, AreaPercent: 100, Height: 24.5},
			},
			TotalPeaks: 1,
		}},
		Chromatograms: []results.Chromatogram{{
			DetectorID: "FID1",
			Time:       []float64{0, 0.1, 0.2},
			Intensity:  []float64{0, 1.5, 0},
		}},
	}
}

func TestWriteKpiCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteKpiCSV(testResult(), &buf); err != nil {
		t.Fatalf("WriteKpiCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 peak row, got %d rows", len(rows))
	}
	if rows[0][0] != "detector_id" {
		t.Errorf("Expected detector_id header, got %q", rows[0][0])
	}
	if rows[1][0] != "FID1" || rows[1][2] != "n-Hexane" {
		t.Errorf("Peak row wrong: %v", rows[1])
	}
	if rows[1][3] != "181.5" {
		t.Errorf("Expected retention time 181.5, got %q", rows[1][3])
	}
}

func TestWriteChromatogramCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChromatogramCSV(testResult().Chromatograms[0], &buf); err != nil {
		t.Fatalf("WriteChromatogramCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time_s,intensity" {
		t.Errorf("Header wrong: %q", lines[0])
	}
	if lines[2] != "0.1,1.5" {
		t.Errorf("Row wrong: %q", lines[2])
	}
}

func TestWriteChromatogramPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChromatogramPNG(testResult(), &buf, 400, 300); err != nil {
		t.Fatalf("WriteChromatogramPNG failed: %v", err)
	}
	// PNG magic bytes
	if buf.Len() < 8 || buf.Bytes()[1] != 'P' || buf.Bytes()[2] != 'N' || buf.Bytes()[3] != 'G' {
		t.Error("Output is not a PNG")
	}
}

func TestWritePNGRejectsEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChromatogramPNG(&results.RunResult{}, &buf, 400, 300); err == nil {
		t.Error("Expected error for a result with no chromatograms")
	}
}
