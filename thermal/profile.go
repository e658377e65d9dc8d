// Package thermal expands an oven temperature program into a sampled
// temperature series.
package thermal

import (
	"math"

	"github.com/chromalab/go-chroma/method"
)

// DefaultResolution is the internal sampling interval in seconds.
const DefaultResolution = 1.0

// Profile is a sampled oven temperature series. Time is monotonically
// increasing by construction; the final sample defines the nominal run
// length.
type Profile struct {
	Time []float64 // seconds
	Temp []float64 // degrees C
	// Resolution is the sampling interval used to build the profile.
	Resolution float64
}

// Expand builds a temperature profile from an ordered oven program.
// Each step contributes a hold segment at its start temperature
// followed by a linear ramp to its end temperature. A resolution of
// zero or less selects DefaultResolution.
func Expand(steps []method.OvenStep, resolution float64) *Profile {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	p := &Profile{Resolution: resolution}
	if len(steps) == 0 {
		return p
	}

	t := 0.0
	p.Time = append(p.Time, 0)
	p.Temp = append(p.Temp, steps[0].StartTemp)

	for _, step := range steps {
		holdEnd := t + step.HoldTime*60
		for next := t + resolution; next <= holdEnd+1e-9; next += resolution {
			p.Time = append(p.Time, next)
			p.Temp = append(p.Temp, step.StartTemp)
		}
		t = holdEnd

		delta := step.EndTemp - step.StartTemp
		if delta != 0 && step.RampRate != 0 {
			rampDur := math.Abs(delta/step.RampRate) * 60
			rampEnd := t + rampDur
			for next := t + resolution; next < rampEnd-1e-9; next += resolution {
				frac := (next - t) / rampDur
				p.Time = append(p.Time, next)
				p.Temp = append(p.Temp, step.StartTemp+delta*frac)
			}
			p.Time = append(p.Time, rampEnd)
			p.Temp = append(p.Temp, step.EndTemp)
			t = rampEnd
		} else if len(p.Time) == 0 || p.Time[len(p.Time)-1] < t-1e-9 {
			p.Time = append(p.Time, t)
			p.Temp = append(p.Temp, step.EndTemp)
		}
	}

	return p
}

// RunLength returns the nominal run length in seconds.
func (p *Profile) RunLength() float64 {
	if len(p.Time) == 0 {
		return 0
	}
	return p.Time[len(p.Time)-1]
}

// At returns the temperature at time t by linear interpolation. Times
// outside the profile clamp to the nearest endpoint.
func (p *Profile) At(t float64) float64 {
	n := len(p.Time)
	if n == 0 {
		return 0
	}
	if t <= p.Time[0] {
		return p.Temp[0]
	}
	if t >= p.Time[n-1] {
		return p.Temp[n-1]
	}

	// The grid is near-uniform, so start from the estimated index.
	i := int(t / p.Resolution)
	if i >= n-1 {
		i = n - 2
	}
	for i > 0 && p.Time[i] > t {
		i--
	}
	for i < n-2 && p.Time[i+1] < t {
		i++
	}

	t0, t1 := p.Time[i], p.Time[i+1]
	if t1 == t0 {
		return p.Temp[i]
	}
	frac := (t - t0) / (t1 - t0)
	return p.Temp[i] + (p.Temp[i+1]-p.Temp[i])*frac
}
