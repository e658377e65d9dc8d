// Package results defines the structured output bundle for simulation
// runs.
package results

import (
	"time"

	"github.com/chromalab/go-chroma/kpi"
	"github.com/chromalab/go-chroma/method"
)

const SchemaVersion = "1.0.0"

// RunResult contains the complete output of one simulation run. It is
// newly allocated per run and shares no mutable state with any other
// run.
type RunResult struct {
	Version          string   `json:"version"`
	RunID            string   `json:"run_id,omitempty"`
	SimulationTimeMs float64  `json:"simulation_time_ms"`
	Metadata         Metadata `json:"metadata"`

	Chromatograms []Chromatogram `json:"chromatograms"`
	OvenSeries    Series         `json:"oven_temperature_series"`
	FlowSeries    []FlowSeries   `json:"flow_series"`
	Kpis          []kpi.Report   `json:"kpis"`
	Warnings      []Warning      `json:"warnings,omitempty"`
}

// Metadata records execution information for a run.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	MethodName string    `json:"method_name,omitempty"`
	SampleName string    `json:"sample_name,omitempty"`
	Seed       int64     `json:"simulation_seed"`
	Status     string    `json:"status"` // success, failed, timeout
}

// Chromatogram is the assembled signal trace for one detector channel.
type Chromatogram struct {
	DetectorID   string              `json:"detector_id"`
	DetectorType method.DetectorType `json:"detector_type"`
	Time         []float64           `json:"time_s"`
	Intensity    []float64           `json:"intensity"`
}

// Series is a sampled environmental time series.
type Series struct {
	Time   []float64 `json:"time_s"`
	Values []float64 `json:"values"`
	Unit   string    `json:"unit,omitempty"`
}

// FlowSeries is a flow trace for one column or inlet stream.
type FlowSeries struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Time []float64 `json:"time_s"`
	Flow []float64 `json:"flow_ml_min"`
}

// Warning is a recovered per-analyte or per-channel error surfaced in
// the response instead of aborting the run.
type Warning struct {
	Stage   string `json:"stage"` // "flow", "retention", "detector"
	Subject string `json:"subject"`
	Message string `json:"message"`
}
