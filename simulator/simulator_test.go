package simulator

import (
	"context"
	"math"
	"testing"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/validation"
)

func hexaneMethod() *method.Parameters {
	return &method.Parameters{
		Name: "hexane-screen",
		Inlets: []method.Inlet{{
			ID:          "inlet1",
			Temperature: 250,
			Carrier:     method.Helium,
			Mode:        method.SplitMode{Ratio: 50, TotalFlow: 51},
		}},
		Columns: []method.Column{{
			ID:            "col1",
			Length:        30,
			InnerDiameter: 0.25,
			FilmThickness: 0.25,
			FlowMode:      method.ConstantFlow{FlowRate: 1.0},
		}},
		Detectors: []method.Detector{{
			ID: "FID1", Type: method.FID, Temperature: 300, DataRate: 10,
		}},
		OvenProgram: []method.OvenStep{
			{StartTemp: 50, HoldTime: 2, RampRate: 10, EndTemp: 300},
		},
	}
}

func hexaneSample() *method.SampleProfile {
	return &method.SampleProfile{
		Name:            "hexane-std",
		InjectionVolume: 1.0,
		Analytes: []method.Analyte{{
			Name:            "n-Hexane",
			Concentration:   1000,
			RetentionFactor: 2.0,
			DiffusionCoeff:  0.1,
			ResponseFactor:  1.0,
		}},
	}
}

func TestRunSingleAnalyte(t *testing.T) {
	sim := New()
	opts := method.Options{IncludeNoise: true, IncludeBaselineDrift: true, Seed: 12345}

	result, err := sim.Run(context.Background(), hexaneMethod(), hexaneSample(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Chromatograms) != 1 {
		t.Fatalf("Expected 1 chromatogram, got %d", len(result.Chromatograms))
	}
	if len(result.Kpis) != 1 {
		t.Fatalf("Expected 1 KPI report, got %d", len(result.Kpis))
	}

	rep := result.Kpis[0]
	if rep.DetectorID != "FID1" {
		t.Errorf("Expected FID1 report, got %q", rep.DetectorID)
	}
	if rep.TotalPeaks != 1 {
		t.Fatalf("Expected exactly 1 peak, got %d", rep.TotalPeaks)
	}
	p := rep.Peaks[0]
	if p.Analyte != "n-Hexane" {
		t.Errorf("Expected the peak labeled n-Hexane, got %q", p.Analyte)
	}
	if p.RetentionTime <= 0 || p.RetentionTime >= rep.RunTime {
		t.Errorf("Retention time %f outside the run (0, %f)", p.RetentionTime, rep.RunTime)
	}
	if p.SignalToNoise <= 5 {
		t.Errorf("Expected a clearly detected peak, S/N %f", p.SignalToNoise)
	}

	if result.RunID == "" {
		t.Error("Expected a run id")
	}
	if result.Metadata.Status != "success" {
		t.Errorf("Expected success status, got %q", result.Metadata.Status)
	}
	if len(result.OvenSeries.Time) == 0 {
		t.Error("Expected an oven temperature series")
	}
	if len(result.FlowSeries) == 0 {
		t.Error("Expected flow series")
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	opts := method.Options{IncludeNoise: true, IncludeBaselineDrift: true, Seed: 12345}

	a, err := New().Run(context.Background(), hexaneMethod(), hexaneSample(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := New().Run(context.Background(), hexaneMethod(), hexaneSample(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ca, cb := a.Chromatograms[0], b.Chromatograms[0]
	if len(ca.Intensity) != len(cb.Intensity) {
		t.Fatalf("Sample counts differ: %d vs %d", len(ca.Intensity), len(cb.Intensity))
	}
	for i := range ca.Intensity {
		if ca.Intensity[i] != cb.Intensity[i] {
			t.Fatalf("Sample %d differs between identical seeded runs", i)
		}
	}
}

func TestRunDifferentSeedsDiffer(t *testing.T) {
	a, err := New().Run(context.Background(), hexaneMethod(), hexaneSample(),
		method.Options{IncludeNoise: true, Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := New().Run(context.Background(), hexaneMethod(), hexaneSample(),
		method.Options{IncludeNoise: true, Seed: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	same := true
	for i := range a.Chromatograms[0].Intensity {
		if a.Chromatograms[0].Intensity[i] != b.Chromatograms[0].Intensity[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different traces for different seeds")
	}
}

func TestRunEmptySampleYieldsFlatRun(t *testing.T) {
	sample := hexaneSample()
	sample.Analytes = nil

	result, err := New().Run(context.Background(), hexaneMethod(), sample, method.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Kpis[0].TotalPeaks != 0 {
		t.Errorf("Expected zero peaks for an empty sample, got %d", result.Kpis[0].TotalPeaks)
	}
	for i, y := range result.Chromatograms[0].Intensity {
		if y != 0 {
			t.Fatalf("Sample %d: expected a flat zero trace, got %f", i, y)
		}
	}
}

func TestRunNilProfileIsBlankInjection(t *testing.T) {
	result, err := New().Run(context.Background(), hexaneMethod(), nil, method.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Kpis[0].TotalPeaks != 0 {
		t.Errorf("Expected zero peaks without a sample, got %d", result.Kpis[0].TotalPeaks)
	}
	if result.Metadata.Status != "success" {
		t.Errorf("Expected success status, got %q", result.Metadata.Status)
	}
}

func TestRunHonorsCallerRunID(t *testing.T) {
	opts := method.Options{RunID: "run-42", Seed: 1}
	result, err := New().Run(context.Background(), hexaneMethod(), hexaneSample(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.RunID != "run-42" {
		t.Errorf("Expected the caller-supplied run id, got %q", result.RunID)
	}

	result, err = New().Run(context.Background(), hexaneMethod(), hexaneSample(), method.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.RunID == "" {
		t.Error("Expected an assigned run id when the caller supplies none")
	}
}

func TestRunZeroResponseFactor(t *testing.T) {
	sample := hexaneSample()
	sample.Analytes[0].ResponseFactor = 0

	result, err := New().Run(context.Background(), hexaneMethod(), sample, method.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Kpis[0].TotalPeaks != 0 {
		t.Errorf("Expected zero peaks when the response factor is zero, got %d",
			result.Kpis[0].TotalPeaks)
	}
}

func TestRunInvalidMethodFailsFast(t *testing.T) {
	params := hexaneMethod()
	params.OvenProgram = nil

	_, err := New().Run(context.Background(), params, hexaneSample(), method.Options{})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if _, ok := err.(*validation.Error); !ok {
		t.Errorf("Expected *validation.Error, got %T", err)
	}
}

func TestRunContextCancelDiscardsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, hexaneMethod(), hexaneSample(), method.Options{})
	if err == nil {
		t.Fatal("Expected context error")
	}
	if result != nil {
		t.Error("Expected no partial result on cancellation")
	}
}

func TestRunStageOrder(t *testing.T) {
	var stages []Stage
	sim := New()
	sim.OnStage = func(s Stage) { stages = append(stages, s) }

	if _, err := sim.Run(context.Background(), hexaneMethod(), hexaneSample(), method.Options{Seed: 1}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []Stage{
		StageValidating, StageModeling, StageRetaining, StageSynthesizing,
		StageDetecting, StageAssembling, StageExtracting, StageComplete,
	}
	if len(stages) != len(want) {
		t.Fatalf("Expected %d stage transitions, got %d: %v", len(want), len(stages), stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("Stage %d: expected %s, got %s", i, want[i], stages[i])
		}
	}
}

func TestRunTailedAnalyteTailsForward(t *testing.T) {
	sample := hexaneSample()
	sample.Analytes[0].Tailing = 10

	result, err := New().Run(context.Background(), hexaneMethod(), sample, method.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rep := result.Kpis[0]
	if rep.TotalPeaks != 1 {
		t.Fatalf("Expected 1 peak, got %d", rep.TotalPeaks)
	}
	if rep.Peaks[0].TailingFactor <= 1.05 {
		t.Errorf("Expected tailing factor above 1, got %f", rep.Peaks[0].TailingFactor)
	}
}

func TestSweepFindsBestValue(t *testing.T) {
	sim := New()
	opts := method.Options{IncludeNoise: true, Seed: 1}

	res, err := sim.Sweep(context.Background(), hexaneMethod(), hexaneSample(), opts,
		"flow", []float64{0.5, 1.0, 2.0},
		func(p *method.Parameters, v float64) {
			p.Columns[0].FlowMode = method.ConstantFlow{FlowRate: v}
		},
		TotalPeaksScorer())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(res.Scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(res.Scores))
	}
	best := math.Inf(-1)
	for _, s := range res.Scores {
		if s > best {
			best = s
		}
	}
	if res.Best.Score != best {
		t.Errorf("Best score %f is not the maximum %f", res.Best.Score, best)
	}
}
