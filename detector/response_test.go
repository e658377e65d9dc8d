package detector

import (
	"math"
	"testing"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/peaks"
)

func testDetector() method.Detector {
	return method.Detector{ID: "FID1", Type: method.FID, DataRate: 10}
}

func testPeak() peaks.Peak {
	return peaks.Peak{Analyte: "x", RetentionTime: 30, Sigma: 2, Area: 100}
}

func TestRespondSampleCount(t *testing.T) {
	tr, err := Respond(testDetector(), nil, 60, NoiseOptions{})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	// 60s at 10 Hz inclusive of t=0.
	if len(tr.Time) != 601 {
		t.Errorf("Expected 601 samples, got %d", len(tr.Time))
	}
	if tr.Time[0] != 0 {
		t.Errorf("Expected first sample at t=0, got %f", tr.Time[0])
	}
	if math.Abs(tr.Time[len(tr.Time)-1]-60) > 1e-9 {
		t.Errorf("Expected last sample at t=60, got %f", tr.Time[len(tr.Time)-1])
	}
}

func TestRespondNoiseFreeMatchesPeakShape(t *testing.T) {
	det := testDetector()
	p := testPeak()
	tr, err := Respond(det, []peaks.Peak{p}, 60, NoiseOptions{})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	// FID gain is 1.0, so the trace reproduces the peak exactly.
	apexIdx := 300 // t = 30s
	want := p.Eval(30)
	if math.Abs(tr.Intensity[apexIdx]-want) > 1e-9 {
		t.Errorf("Expected apex %f, got %f", want, tr.Intensity[apexIdx])
	}
	if tr.Intensity[0] != 0 {
		t.Errorf("Expected zero baseline far from peak, got %f", tr.Intensity[0])
	}
}

func TestRespondDeterministicPerSeed(t *testing.T) {
	det := testDetector()
	pks := []peaks.Peak{testPeak()}
	opts := NoiseOptions{Noise: true, Drift: true, Seed: 12345}

	a, err := Respond(det, pks, 60, opts)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	b, err := Respond(det, pks, 60, opts)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	for i := range a.Intensity {
		if a.Intensity[i] != b.Intensity[i] {
			t.Fatalf("Sample %d differs between identical runs: %f vs %f",
				i, a.Intensity[i], b.Intensity[i])
		}
	}
}

func TestRespondSeedsAreIndependentPerChannel(t *testing.T) {
	pks := []peaks.Peak{testPeak()}
	opts := NoiseOptions{Noise: true, Seed: 1}

	a, _ := Respond(method.Detector{ID: "FID1", Type: method.FID, DataRate: 10}, pks, 60, opts)
	b, _ := Respond(method.Detector{ID: "FID2", Type: method.FID, DataRate: 10}, pks, 60, opts)

	same := true
	for i := range a.Intensity {
		if a.Intensity[i] != b.Intensity[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different noise streams for different detector ids")
	}
}

func TestRespondDifferentSeedsDiffer(t *testing.T) {
	det := testDetector()
	pks := []peaks.Peak{testPeak()}

	a, _ := Respond(det, pks, 60, NoiseOptions{Noise: true, Seed: 1})
	b, _ := Respond(det, pks, 60, NoiseOptions{Noise: true, Seed: 2})

	same := true
	for i := range a.Intensity {
		if a.Intensity[i] != b.Intensity[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different noise for different seeds")
	}
}

func TestRespondOffsetAndAttenuation(t *testing.T) {
	det := testDetector()
	det.Offset = 10
	det.Attenuation = 2
	p := testPeak()

	tr, err := Respond(det, []peaks.Peak{p}, 60, NoiseOptions{})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	want := 10 + p.Eval(30)/2
	if math.Abs(tr.Intensity[300]-want) > 1e-9 {
		t.Errorf("Expected attenuated apex %f, got %f", want, tr.Intensity[300])
	}
}

func TestRespondRejectsBadConfig(t *testing.T) {
	if _, err := Respond(method.Detector{ID: "d", Type: method.FID, DataRate: 0}, nil, 60, NoiseOptions{}); err == nil {
		t.Error("Expected error for zero data rate")
	}
	if _, err := Respond(method.Detector{ID: "d", Type: "NPD", DataRate: 10}, nil, 60, NoiseOptions{}); err == nil {
		t.Error("Expected error for unknown detector type")
	}
}

func TestAssembleSortsByDetectorID(t *testing.T) {
	traces := []*Trace{
		{DetectorID: "TCD1"},
		{DetectorID: "FID1"},
		{DetectorID: "SCD1"},
	}
	out := Assemble(traces)
	want := []string{"FID1", "SCD1", "TCD1"}
	for i, id := range want {
		if out[i].DetectorID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, out[i].DetectorID)
		}
	}
}
