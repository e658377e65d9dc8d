package peaks

import (
	"math"
	"testing"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/retention"
)

func integrate(p Peak, from, to, dt float64) float64 {
	sum := 0.0
	for t := from; t < to; t += dt {
		sum += 0.5 * (p.Eval(t) + p.Eval(t+dt)) * dt
	}
	return sum
}

func TestSynthesizeArea(t *testing.T) {
	preds := []retention.Prediction{{
		Analyte: method.Analyte{
			Name:           "n-Hexane",
			Concentration:  1000,
			ResponseFactor: 0.8,
		},
		ColumnID:      "col1",
		RetentionTime: 200,
		Sigma:         5,
	}}

	pks := Synthesize(preds, 1.0, 0.02)
	if len(pks) != 1 {
		t.Fatalf("Expected 1 peak, got %d", len(pks))
	}
	// 1000 ppm * 1 uL * 0.02 transfer * 0.8 response.
	if math.Abs(pks[0].Area-16) > 1e-9 {
		t.Errorf("Expected area 16, got %f", pks[0].Area)
	}
}

func TestZeroResponseFactorYieldsFlatPeak(t *testing.T) {
	p := Peak{RetentionTime: 100, Sigma: 5, Area: 0}
	for _, tm := range []float64{90, 100, 110} {
		if got := p.Eval(tm); got != 0 {
			t.Errorf("Eval(%f): expected 0, got %f", tm, got)
		}
	}
}

func TestGaussianShape(t *testing.T) {
	p := Peak{RetentionTime: 100, Sigma: 4, Area: 500}

	apex := p.Eval(100)
	want := 500 / (4 * sqrt2Pi)
	if math.Abs(apex-want) > 1e-9 {
		t.Errorf("Expected apex %f, got %f", want, apex)
	}
	if math.Abs(p.Height()-want) > 1e-9 {
		t.Errorf("Expected Height %f, got %f", want, p.Height())
	}

	// Symmetric about the retention time.
	if math.Abs(p.Eval(96)-p.Eval(104)) > 1e-12 {
		t.Error("Gaussian not symmetric about apex")
	}

	// Numeric integral recovers the area.
	area := integrate(p, 50, 150, 0.01)
	if math.Abs(area-500) > 0.5 {
		t.Errorf("Expected integrated area near 500, got %f", area)
	}
}

func TestEMGShape(t *testing.T) {
	p := Peak{RetentionTime: 100, Sigma: 4, Area: 500, Tau: 8}

	// The tail shifts mass to later times.
	if p.Eval(112) <= p.Eval(88) {
		t.Error("Expected trailing edge above leading edge for a tailed peak")
	}

	// Area is still conserved.
	area := integrate(p, 0, 400, 0.01)
	if math.Abs(area-500) > 1.0 {
		t.Errorf("Expected integrated area near 500, got %f", area)
	}

	// Far before the peak the Gaussian envelope underflows to zero.
	if got := p.Eval(-1e6); got != 0 {
		t.Errorf("Expected 0 far before the peak, got %f", got)
	}
}

func TestEMGShortTailApproachesGaussian(t *testing.T) {
	tailed := Peak{RetentionTime: 100, Sigma: 5, Area: 100, Tau: 0.05}
	gauss := Peak{RetentionTime: 100, Sigma: 5, Area: 100}

	// With tau much smaller than sigma the shape must stay close to
	// the symmetric Gaussian instead of vanishing.
	apex := gauss.Eval(100) // Area / (Sigma * sqrt(2pi))
	if got := tailed.Eval(100); math.Abs(got-apex)/apex > 0.02 {
		t.Errorf("Expected apex near %f for a short tail, got %f", apex, got)
	}
	for _, tm := range []float64{90, 95, 105, 110} {
		want := gauss.Eval(tm)
		if got := tailed.Eval(tm); math.Abs(got-want)/want > 0.05 {
			t.Errorf("Expected Eval(%0.f) near %f, got %f", tm, want, got)
		}
	}

	// Area is conserved through the scaled-complement branch.
	area := integrate(tailed, 50, 150, 0.01)
	if math.Abs(area-100) > 0.5 {
		t.Errorf("Expected integrated area near 100, got %f", area)
	}
}
