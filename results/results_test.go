package results

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/chromalab/go-chroma/kpi"
)

func reportWith(detectorID string, rts ...float64) kpi.Report {
	r := kpi.Report{DetectorID: detectorID}
	for i, rt := range rts {
		r.Peaks = append(r.Peaks, kpi.PeakKPI{
			Number:        i + 1,
			RetentionTime: rt,
			Area:          100 + rt,
			Height:        10 + rt/100,
		})
	}
	r.TotalPeaks = len(r.Peaks)
	return r
}

func TestCompareMatchesWithinTolerance(t *testing.T) {
	a := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 100, 200)}}
	b := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 102, 198)}}

	cmps := Compare(a, b, 5)
	if len(cmps) != 1 {
		t.Fatalf("Expected 1 comparison, got %d", len(cmps))
	}
	c := cmps[0]
	if len(c.Matched) != 2 {
		t.Fatalf("Expected 2 matched pairs, got %d", len(c.Matched))
	}
	if len(c.OnlyA) != 0 || len(c.OnlyB) != 0 {
		t.Errorf("Expected no unmatched peaks, got A=%v B=%v", c.OnlyA, c.OnlyB)
	}
	if math.Abs(c.Matched[0].DeltaRT-2) > 1e-9 {
		t.Errorf("Expected delta rt +2, got %f", c.Matched[0].DeltaRT)
	}
	if math.Abs(c.Matched[1].DeltaRT+2) > 1e-9 {
		t.Errorf("Expected delta rt -2, got %f", c.Matched[1].DeltaRT)
	}
}

func TestCompareReportsUnmatchedPeaks(t *testing.T) {
	a := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 100, 200)}}
	b := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 100, 400)}}

	cmps := Compare(a, b, 5)
	c := cmps[0]
	if len(c.Matched) != 1 {
		t.Fatalf("Expected 1 matched pair, got %d", len(c.Matched))
	}
	if len(c.OnlyA) != 1 || c.OnlyA[0] != 2 {
		t.Errorf("Expected peak 2 only in A, got %v", c.OnlyA)
	}
	if len(c.OnlyB) != 1 || c.OnlyB[0] != 2 {
		t.Errorf("Expected peak 2 only in B, got %v", c.OnlyB)
	}
}

func TestCompareSkipsMissingChannels(t *testing.T) {
	a := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 100), reportWith("TCD1", 100)}}
	b := &RunResult{Kpis: []kpi.Report{reportWith("FID1", 100)}}

	cmps := Compare(a, b, 5)
	if len(cmps) != 1 {
		t.Fatalf("Expected 1 comparison for the shared channel, got %d", len(cmps))
	}
	if cmps[0].DetectorID != "FID1" {
		t.Errorf("Expected FID1, got %q", cmps[0].DetectorID)
	}
}

func TestDownsampleKeepsEndpoints(t *testing.T) {
	c := Chromatogram{DetectorID: "FID1"}
	for i := 0; i < 1001; i++ {
		c.Time = append(c.Time, float64(i)*0.1)
		c.Intensity = append(c.Intensity, float64(i))
	}

	out := Downsample(c, 101)
	if len(out.Time) != 101 {
		t.Fatalf("Expected 101 points, got %d", len(out.Time))
	}
	if out.Time[0] != c.Time[0] {
		t.Errorf("First point lost: %f", out.Time[0])
	}
	if out.Time[100] != c.Time[1000] {
		t.Errorf("Last point lost: %f", out.Time[100])
	}
	// Values stay on the original curve.
	for i := range out.Time {
		if math.Abs(out.Intensity[i]-out.Time[i]*10) > 1e-9 {
			t.Fatalf("Point %d left the original curve: t=%f y=%f", i, out.Time[i], out.Intensity[i])
		}
	}
}

func TestDownsampleNoOpWhenSmall(t *testing.T) {
	c := Chromatogram{Time: []float64{0, 1, 2}, Intensity: []float64{0, 1, 0}}
	out := Downsample(c, 100)
	if len(out.Time) != 3 {
		t.Errorf("Expected unchanged chromatogram, got %d points", len(out.Time))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	r := &RunResult{
		Version: SchemaVersion,
		RunID:   "test-run",
		Chromatograms: []Chromatogram{{
			DetectorID: "FID1",
			Time:       []float64{0, 1, 2},
			Intensity:  []float64{0, 5, 0},
		}},
		Kpis: []kpi.Report{reportWith("FID1", 1)},
	}
	r.Metadata.Status = "success"
	r.Metadata.Seed = 42

	path := filepath.Join(t.TempDir(), "result.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got.RunID != "test-run" || got.Metadata.Seed != 42 {
		t.Errorf("Metadata lost in round trip: %+v", got.Metadata)
	}
	if len(got.Chromatograms) != 1 || got.Chromatograms[0].Intensity[1] != 5 {
		t.Errorf("Chromatogram lost in round trip: %+v", got.Chromatograms)
	}
	if got.Kpis[0].DetectorID != "FID1" {
		t.Errorf("KPI report lost in round trip: %+v", got.Kpis)
	}
}
