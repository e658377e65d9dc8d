package results

import (
	"math"

	"github.com/chromalab/go-chroma/kpi"
)

// Comparison aligns the peak tables of two runs so method presets can
// be evaluated against a baseline.
type Comparison struct {
	DetectorID string      `json:"detector_id"`
	Matched    []PeakDelta `json:"matched"`
	OnlyA      []int       `json:"only_a,omitempty"` // peak numbers present only in A
	OnlyB      []int       `json:"only_b,omitempty"`
}

// PeakDelta reports metric deltas for a pair of aligned peaks (B − A).
type PeakDelta struct {
	Analyte     string  `json:"analyte,omitempty"`
	RTa         float64 `json:"rt_a_s"`
	RTb         float64 `json:"rt_b_s"`
	DeltaRT     float64 `json:"delta_rt_s"`
	DeltaArea   float64 `json:"delta_area"`
	DeltaHeight float64 `json:"delta_height"`
}

// Compare aligns peaks of two results channel by channel. Peaks match
// when their retention times lie within tolerance seconds.
func Compare(a, b *RunResult, tolerance float64) []Comparison {
	if tolerance <= 0 {
		tolerance = 5
	}

	var out []Comparison
	for _, ka := range a.Kpis {
		kb := findReport(b, ka.DetectorID)
		if kb == nil {
			continue
		}

		cmp := Comparison{DetectorID: ka.DetectorID}
		usedB := make(map[int]bool)

		for _, pa := range ka.Peaks {
			best := -1
			bestDist := tolerance
			for j, pb := range kb.Peaks {
				if usedB[j] {
					continue
				}
				d := math.Abs(pb.RetentionTime - pa.RetentionTime)
				if d <= bestDist {
					best = j
					bestDist = d
				}
			}
			if best < 0 {
				cmp.OnlyA = append(cmp.OnlyA, pa.Number)
				continue
			}
			usedB[best] = true
			pb := kb.Peaks[best]
			cmp.Matched = append(cmp.Matched, PeakDelta{
				Analyte:     pa.Analyte,
				RTa:         pa.RetentionTime,
				RTb:         pb.RetentionTime,
				DeltaRT:     pb.RetentionTime - pa.RetentionTime,
				DeltaArea:   pb.Area - pa.Area,
				DeltaHeight: pb.Height - pa.Height,
			})
		}
		for j, pb := range kb.Peaks {
			if !usedB[j] {
				cmp.OnlyB = append(cmp.OnlyB, pb.Number)
			}
		}
		out = append(out, cmp)
	}
	return out
}

func findReport(r *RunResult, detectorID string) *kpi.Report {
	for i := range r.Kpis {
		if r.Kpis[i].DetectorID == detectorID {
			return &r.Kpis[i]
		}
	}
	return nil
}
