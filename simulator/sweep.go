package simulator

import (
	"context"
	"encoding/json"
	"math"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/results"
)

// Scorer evaluates a run result and returns a score.
type Scorer func(r *results.RunResult) float64

// AverageResolutionScorer scores a run by the mean of the per-channel
// average resolutions. Higher is better separation.
func AverageResolutionScorer() Scorer {
	return func(r *results.RunResult) float64 {
		sum := 0.0
		n := 0
		for _, rep := range r.Kpis {
			if rep.AverageResolution > 0 {
				sum += rep.AverageResolution
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
}

// TotalPeaksScorer scores a run by the total number of detected peaks.
func TotalPeaksScorer() Scorer {
	return func(r *results.RunResult) float64 {
		total := 0
		for _, rep := range r.Kpis {
			total += rep.TotalPeaks
		}
		return float64(total)
	}
}

// Mutator applies one sweep value to a copy of the method document.
type Mutator func(p *method.Parameters, value float64)

// SweepResult holds the score for each swept value.
type SweepResult struct {
	Parameter string    `json:"parameter"`
	Values    []float64 `json:"values"`
	Scores    []float64 `json:"scores"`
	Best      struct {
		Value float64 `json:"value"`
		Score float64 `json:"score"`
	} `json:"best"`
}

// Sweep runs the simulation once per value, applying mutate to a deep
// copy of the base method each time. Runs execute sequentially; each
// run is itself internally parallel and deterministic.
func (s *Simulator) Sweep(ctx context.Context, params *method.Parameters, profile *method.SampleProfile, opts method.Options, name string, values []float64, mutate Mutator, score Scorer) (*SweepResult, error) {
	result := &SweepResult{
		Parameter: name,
		Values:    values,
		Scores:    make([]float64, len(values)),
	}
	result.Best.Score = math.Inf(-1)

	for i, val := range values {
		trial, err := cloneParameters(params)
		if err != nil {
			return nil, err
		}
		mutate(trial, val)

		r, err := s.Run(ctx, trial, profile, opts)
		if err != nil {
			return nil, err
		}

		sc := score(r)
		result.Scores[i] = sc
		if sc > result.Best.Score {
			result.Best.Value = val
			result.Best.Score = sc
		}
	}
	return result, nil
}

// cloneParameters deep-copies a method document through its JSON form,
// which round-trips the tagged variants exactly.
func cloneParameters(p *method.Parameters) (*method.Parameters, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out method.Parameters
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
