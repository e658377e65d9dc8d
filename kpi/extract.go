// Package kpi peak-picks assembled chromatogram traces and computes
// per-peak and run-level analytical quality metrics.
package kpi

import (
	"math"
	"sort"
)

// PeakKPI holds the metrics for one detected peak. Peaks are numbered
// in elution order.
type PeakKPI struct {
	Number        int     `json:"number"`
	Analyte       string  `json:"analyte,omitempty"`
	RetentionTime float64 `json:"retention_time_s"`
	Area          float64 `json:"area"`
	AreaPercent   float64 `json:"area_percent"`
	Height        float64 `json:"height"`
	SignalToNoise float64 `json:"signal_to_noise,omitempty"`
	// Resolution from the immediately preceding peak; omitted for the
	// first peak.
	Resolution float64 `json:"resolution,omitempty"`
	// WidthBase is the baseline peak width used in the resolution
	// formula, seconds.
	WidthBase     float64 `json:"width_base_s"`
	TailingFactor float64 `json:"tailing_factor,omitempty"`
}

// Report bundles the per-peak metrics with run-level aggregates for one
// detector channel.
type Report struct {
	DetectorID        string    `json:"detector_id"`
	Peaks             []PeakKPI `json:"peaks"`
	TotalPeaks        int       `json:"total_peaks"`
	AverageResolution float64   `json:"average_resolution,omitempty"`
	RunTime           float64   `json:"run_time_s"`
	NoiseRMS          float64   `json:"noise_rms"`
}

// Expected links an analyte name to its predicted retention time so
// detected peaks can be labeled when their identity is traceable.
type Expected struct {
	Analyte       string
	RetentionTime float64
	Sigma         float64
}

// minPeakHeight is the absolute floor below which a local maximum is
// never accepted, keeping a clean flat baseline free of phantom peaks.
const minPeakHeight = 1e-6

// Extract peak-picks one trace and computes its KPI report.
func Extract(detectorID string, time, intensity []float64, expected []Expected) *Report {
	r := &Report{DetectorID: detectorID}
	if len(time) < 3 {
		return r
	}
	r.RunTime = time[len(time)-1]

	base := rollingBaseline(intensity)
	corrected := make([]float64, len(intensity))
	for i := range intensity {
		corrected[i] = intensity[i] - base[i]
	}

	noise := robustSigma(corrected)
	r.NoiseRMS = noise

	threshold := 5 * noise
	if threshold < minPeakHeight {
		threshold = minPeakHeight
	}

	dt := (time[len(time)-1] - time[0]) / float64(len(time)-1)
	apexes := findApexes(corrected, threshold, dt)

	totalArea := 0.0
	for _, apex := range apexes {
		p := measurePeak(time, corrected, apex)
		if p == nil {
			continue
		}
		if noise > 0 {
			p.SignalToNoise = p.Height / noise
		}
		r.Peaks = append(r.Peaks, *p)
		totalArea += p.Area
	}

	sort.Slice(r.Peaks, func(i, j int) bool {
		return r.Peaks[i].RetentionTime < r.Peaks[j].RetentionTime
	})

	resSum := 0.0
	resCount := 0
	for i := range r.Peaks {
		p := &r.Peaks[i]
		p.Number = i + 1
		if totalArea > 0 {
			p.AreaPercent = p.Area / totalArea * 100
		}
		if i > 0 {
			prev := r.Peaks[i-1]
			wsum := p.WidthBase + prev.WidthBase
			if wsum > 0 {
				p.Resolution = 2 * (p.RetentionTime - prev.RetentionTime) / wsum
				resSum += p.Resolution
				resCount++
			}
		}
		p.Analyte = label(p.RetentionTime, expected)
	}

	r.TotalPeaks = len(r.Peaks)
	if resCount > 0 {
		r.AverageResolution = resSum / float64(resCount)
	}
	return r
}

// rollingBaseline estimates the local baseline with a moving minimum
// followed by a moving mean over the same window.
func rollingBaseline(data []float64) []float64 {
	w := len(data) / 50
	if w < 5 {
		w = 5
	}

	mins := make([]float64, len(data))
	for i := range data {
		lo, hi := i-w, i+w
		if lo < 0 {
			lo = 0
		}
		if hi > len(data)-1 {
			hi = len(data) - 1
		}
		m := data[lo]
		for j := lo + 1; j <= hi; j++ {
			if data[j] < m {
				m = data[j]
			}
		}
		mins[i] = m
	}

	out := make([]float64, len(data))
	sum := 0.0
	count := 0
	// Moving mean via a simple sliding window over the minima.
	for i := range mins {
		hi := i + w
		if hi <= len(mins)-1 {
			sum += mins[hi]
			count++
		}
		lo := i - w - 1
		if lo >= 0 {
			sum -= mins[lo]
			count--
		}
		if i == 0 {
			// Initialize the window [0, w].
			sum = 0
			count = 0
			for j := 0; j <= w && j < len(mins); j++ {
				sum += mins[j]
				count++
			}
		}
		out[i] = sum / float64(count)
	}
	return out
}

// robustSigma estimates the noise standard deviation from the median
// absolute deviation of the baseline-corrected signal. Peaks occupy a
// small fraction of the trace, so the median is insensitive to them.
func robustSigma(corrected []float64) float64 {
	abs := make([]float64, len(corrected))
	for i, v := range corrected {
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)
	mad := abs[len(abs)/2]
	return 1.4826 * mad
}

// findApexes locates local maxima above the threshold, enforcing a
// minimum spacing so one noisy summit is not counted twice.
func findApexes(data []float64, threshold, dt float64) []int {
	minGap := int(1.0 / dt) // one second
	if minGap < 1 {
		minGap = 1
	}

	var apexes []int
	for i := 1; i < len(data)-1; i++ {
		if data[i] <= threshold {
			continue
		}
		if data[i] < data[i-1] || data[i] < data[i+1] {
			continue
		}
		if data[i] == data[i-1] && data[i] <= data[i+1] {
			continue // plateau; keep only the leading sample
		}
		if n := len(apexes); n > 0 && i-apexes[n-1] < minGap {
			// Within the spacing guard, keep the taller summit.
			if data[i] > data[apexes[n-1]] {
				apexes[n-1] = i
			}
			continue
		}
		apexes = append(apexes, i)
	}
	return apexes
}

// measurePeak integrates one peak between its valley boundaries and
// measures widths on the corrected trace.
func measurePeak(time, corrected []float64, apex int) *PeakKPI {
	height := corrected[apex]
	if height <= 0 {
		return nil
	}

	// Valley bounds: walk outward until the signal returns to local
	// baseline (a small fraction of the apex) or turns upward again.
	floor := 0.005 * height
	left := apex
	for left > 0 && corrected[left-1] > floor {
		if corrected[left-1] > corrected[left] {
			break
		}
		left--
	}
	right := apex
	for right < len(corrected)-1 && corrected[right+1] > floor {
		if corrected[right+1] > corrected[right] {
			break
		}
		right++
	}
	if right-left < 2 {
		return nil
	}

	area := 0.0
	for i := left; i < right; i++ {
		area += 0.5 * (corrected[i] + corrected[i+1]) * (time[i+1] - time[i])
	}

	w50 := widthAt(time, corrected, apex, left, right, 0.5*height)
	lead10, trail10 := edgesAt(time, corrected, apex, left, right, 0.1*height)

	p := &PeakKPI{
		RetentionTime: time[apex],
		Area:          area,
		Height:        height,
		// Base width from the half-height width of a Gaussian:
		// wb = 4*sigma = w50 * 4/2.3548.
		WidthBase: w50 * 4 / 2.3548200450309493,
	}
	if lead10 > 0 && trail10 > 0 {
		p.TailingFactor = trail10 / lead10
	}
	return p
}

// widthAt measures the full width of the peak at the given level by
// linear interpolation on both edges.
func widthAt(time, data []float64, apex, left, right int, level float64) float64 {
	lead, trail := edgesAt(time, data, apex, left, right, level)
	return lead + trail
}

// edgesAt returns the leading and trailing half-widths at a level:
// apex time minus the leading crossing, and the trailing crossing minus
// apex time.
func edgesAt(time, data []float64, apex, left, right int, level float64) (lead, trail float64) {
	tApex := time[apex]

	for i := apex; i > left; i-- {
		if data[i-1] <= level {
			frac := 0.0
			if data[i] != data[i-1] {
				frac = (level - data[i-1]) / (data[i] - data[i-1])
			}
			t := time[i-1] + frac*(time[i]-time[i-1])
			lead = tApex - t
			break
		}
	}
	for i := apex; i < right; i++ {
		if data[i+1] <= level {
			frac := 0.0
			if data[i] != data[i+1] {
				frac = (level - data[i]) / (data[i+1] - data[i])
			}
			t := time[i] + frac*(time[i+1]-time[i])
			trail = t - tApex
			break
		}
	}
	return lead, trail
}

// label attaches an analyte name when a predicted retention time lies
// close enough to the detected apex to be unambiguous.
func label(rt float64, expected []Expected) string {
	best := ""
	bestDist := math.Inf(1)
	for _, e := range expected {
		tol := 4 * e.Sigma
		if tol < 2 {
			tol = 2
		}
		d := math.Abs(rt - e.RetentionTime)
		if d <= tol && d < bestDist {
			best = e.Analyte
			bestDist = d
		}
	}
	return best
}
