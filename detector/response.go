// Package detector maps synthesized peaks to detector-specific signal
// traces, with seeded noise and baseline drift per channel.
package detector

import (
	"fmt"
	"math"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/peaks"
)

// characteristics holds the per-type response constants.
type characteristics struct {
	Gain       float64 // signal units per unit area density
	NoiseSigma float64 // standard deviation of the Gaussian noise floor
	DriftStep  float64 // random-walk step for baseline drift
}

// responseTable maps each detector type to its gain and noise model.
// FID is the sensitive reference channel; TCD is less sensitive and
// noisier; SCD sits between with a slow-drifting baseline.
var responseTable = map[method.DetectorType]characteristics{
	method.FID: {Gain: 1.0, NoiseSigma: 0.5, DriftStep: 0.02},
	method.TCD: {Gain: 0.25, NoiseSigma: 2.0, DriftStep: 0.05},
	method.SCD: {Gain: 0.6, NoiseSigma: 1.0, DriftStep: 0.08},
}

// NoiseOptions selects which stochastic terms the channel applies.
type NoiseOptions struct {
	Noise bool
	Drift bool
	Seed  int64
}

// Trace is the assembled signal for one detector channel.
type Trace struct {
	DetectorID   string              `json:"detector_id"`
	DetectorType method.DetectorType `json:"detector_type"`
	Time         []float64           `json:"time_s"`
	Intensity    []float64           `json:"intensity"`
}

// Respond samples the summed peak contributions for one detector at its
// configured data rate across runLength seconds, applies the
// type-specific gain, attenuation and offset, and adds seeded noise and
// drift when enabled.
func Respond(det method.Detector, pks []peaks.Peak, runLength float64, opts NoiseOptions) (*Trace, error) {
	if det.DataRate <= 0 {
		return nil, fmt.Errorf("detector %q: non-positive data rate", det.ID)
	}
	char, ok := responseTable[det.Type]
	if !ok {
		return nil, fmt.Errorf("detector %q: unknown type %q", det.ID, det.Type)
	}

	gain := char.Gain
	if det.Attenuation > 0 {
		gain /= det.Attenuation
	}

	dt := 1 / det.DataRate
	n := int(math.Floor(runLength/dt)) + 1

	tr := &Trace{
		DetectorID:   det.ID,
		DetectorType: det.Type,
		Time:         make([]float64, n),
		Intensity:    make([]float64, n),
	}

	rng := newChannelRand(opts.Seed, det.ID)
	drift := 0.0

	for i := 0; i < n; i++ {
		t := float64(i) * dt
		tr.Time[i] = t

		sum := 0.0
		for _, p := range pks {
			sum += p.Eval(t)
		}

		y := det.Offset + gain*sum

		if opts.Drift {
			drift += char.DriftStep * (rng.Float64()*2 - 1)
			y += drift
		}
		if opts.Noise {
			y += rng.NormFloat64() * char.NoiseSigma
		}

		tr.Intensity[i] = y
	}
	return tr, nil
}

// NoiseSigma exposes the modeled noise floor for a detector type; the
// KPI stage uses it for sanity checks in tests.
func NoiseSigma(t method.DetectorType) float64 {
	return responseTable[t].NoiseSigma
}
