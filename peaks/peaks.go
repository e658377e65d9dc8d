// Package peaks converts retention predictions into analytic,
// sampleable peak-shape functions.
package peaks

import (
	"math"

	"github.com/chromalab/go-chroma/retention"
)

const sqrt2Pi = 2.5066282746310002

// Peak is an analytic peak shape. A zero Tau yields a symmetric
// Gaussian; a positive Tau yields an exponentially modified Gaussian
// with that tail time constant.
type Peak struct {
	Analyte       string
	RetentionTime float64 // seconds
	Sigma         float64 // seconds
	Area          float64 // signal units * seconds
	Tau           float64 // seconds
}

// Synthesize builds one peak per prediction. Amount is the on-column
// quantity: concentration scaled by injection volume and the inlet
// transfer fraction. Area is amount times the analyte response factor.
func Synthesize(preds []retention.Prediction, injectionVolume, transferFraction float64) []Peak {
	out := make([]Peak, 0, len(preds))
	for _, p := range preds {
		amount := p.Analyte.Concentration * injectionVolume * transferFraction
		out = append(out, Peak{
			Analyte:       p.Analyte.Name,
			RetentionTime: p.RetentionTime,
			Sigma:         p.Sigma,
			Area:          amount * p.Analyte.ResponseFactor,
			Tau:           p.Analyte.Tailing,
		})
	}
	return out
}

// Eval returns the peak's contribution at time t.
func (p Peak) Eval(t float64) float64 {
	if p.Sigma <= 0 || p.Area == 0 {
		return 0
	}
	if p.Tau > 0 {
		return p.emg(t)
	}
	z := (t - p.RetentionTime) / p.Sigma
	return p.Area / (p.Sigma * sqrt2Pi) * math.Exp(-0.5*z*z)
}

// Height returns the apex amplitude of the symmetric component; used
// for quick bounds checks, not metrology.
func (p Peak) Height() float64 {
	if p.Sigma <= 0 {
		return 0
	}
	return p.Area / (p.Sigma * sqrt2Pi)
}

// emg evaluates the exponentially modified Gaussian:
//
//	f(t) = A/(2tau) * exp(sigma^2/(2tau^2) - (t-tr)/tau)
//	     * erfc(sigma/(tau*sqrt2) - (t-tr)/(sigma*sqrt2))
//
// For small tau relative to sigma the exponential factor overflows
// while erfc underflows, so around the peak the product is computed
// through the scaled complement exp(x^2)*erfc(x), where it reduces to
// erfcx * the plain Gaussian envelope. On the tail side the exponent
// is negative and the direct form is stable.
func (p Peak) emg(t float64) float64 {
	dt := t - p.RetentionTime
	x := p.Sigma/(p.Tau*math.Sqrt2) - dt/(p.Sigma*math.Sqrt2)

	if x < 0 {
		arg := p.Sigma*p.Sigma/(2*p.Tau*p.Tau) - dt/p.Tau
		return p.Area / (2 * p.Tau) * math.Exp(arg) * math.Erfc(x)
	}
	z := dt / p.Sigma
	return p.Area / (2 * p.Tau) * erfcx(x) * math.Exp(-0.5*z*z)
}

// erfcx returns exp(x*x) * erfc(x) for x >= 0. Direct evaluation holds
// up to where erfc underflows; beyond that the asymptotic expansion
// 1/(x*sqrt(pi)) * (1 - 1/(2x^2) + 3/(4x^4)) takes over.
func erfcx(x float64) float64 {
	if x < 25 {
		return math.Exp(x*x) * math.Erfc(x)
	}
	q := 1 / (2 * x * x)
	return (1 - q*(1-3*q)) / (x * math.SqrtPi)
}
