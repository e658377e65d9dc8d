package results

import (
	"math"
	"time"

	"github.com/chromalab/go-chroma/detector"
	"github.com/chromalab/go-chroma/flow"
	"github.com/chromalab/go-chroma/kpi"
	"github.com/chromalab/go-chroma/thermal"
)

// Builder constructs a RunResult from pipeline stage outputs.
type Builder struct {
	result RunResult
}

// NewBuilder creates a results builder.
func NewBuilder() *Builder {
	return &Builder{
		result: RunResult{
			Version: SchemaVersion,
			Metadata: Metadata{
				Timestamp: time.Now(),
				Status:    "success",
			},
		},
	}
}

// WithRun sets run identification and seed.
func (b *Builder) WithRun(runID, methodName, sampleName string, seed int64) *Builder {
	b.result.RunID = runID
	b.result.Metadata.MethodName = methodName
	b.result.Metadata.SampleName = sampleName
	b.result.Metadata.Seed = seed
	return b
}

// WithThermal sets the oven temperature series.
func (b *Builder) WithThermal(p *thermal.Profile) *Builder {
	b.result.OvenSeries = Series{
		Time:   append([]float64(nil), p.Time...),
		Values: append([]float64(nil), p.Temp...),
		Unit:   "C",
	}
	return b
}

// WithFlow sets the flow series.
func (b *Builder) WithFlow(series []flow.Series) *Builder {
	for _, s := range series {
		b.result.FlowSeries = append(b.result.FlowSeries, FlowSeries{
			ID:   s.ID,
			Kind: s.Kind,
			Time: append([]float64(nil), s.Time...),
			Flow: append([]float64(nil), s.Flow...),
		})
	}
	return b
}

// WithTraces sets the assembled chromatograms.
func (b *Builder) WithTraces(traces []*detector.Trace) *Builder {
	for _, tr := range traces {
		b.result.Chromatograms = append(b.result.Chromatograms, Chromatogram{
			DetectorID:   tr.DetectorID,
			DetectorType: tr.DetectorType,
			Time:         tr.Time,
			Intensity:    tr.Intensity,
		})
	}
	return b
}

// WithKpis sets the per-channel KPI reports.
func (b *Builder) WithKpis(reports []kpi.Report) *Builder {
	b.result.Kpis = reports
	return b
}

// AddWarning records a recovered error.
func (b *Builder) AddWarning(stage, subject, message string) *Builder {
	b.result.Warnings = append(b.result.Warnings, Warning{Stage: stage, Subject: subject, Message: message})
	return b
}

// WithTiming records the compute time.
func (b *Builder) WithTiming(elapsed time.Duration) *Builder {
	b.result.SimulationTimeMs = float64(elapsed.Microseconds()) / 1000
	return b
}

// Build returns the constructed result.
func (b *Builder) Build() *RunResult {
	return &b.result
}

// Downsample reduces a chromatogram to approximately targetPoints for
// UI payloads, always keeping the first and last samples.
func Downsample(c Chromatogram, targetPoints int) Chromatogram {
	if targetPoints < 2 || len(c.Time) <= targetPoints {
		return c
	}

	out := Chromatogram{
		DetectorID:   c.DetectorID,
		DetectorType: c.DetectorType,
		Time:         make([]float64, targetPoints),
		Intensity:    make([]float64, targetPoints),
	}
	step := float64(len(c.Time)-1) / float64(targetPoints-1)
	for i := 0; i < targetPoints; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > len(c.Time)-1 {
			idx = len(c.Time) - 1
		}
		out.Time[i] = c.Time[idx]
		out.Intensity[i] = c.Intensity[idx]
	}
	return out
}
