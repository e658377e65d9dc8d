// Package simulator sequences the virtual GC pipeline: validation,
// thermal and flow modeling, retention, peak synthesis, per-channel
// detector response, assembly, and KPI extraction.
//
// Each run is a pure function of its inputs. The simulator holds no
// state across runs, so any number of runs may execute concurrently.
package simulator

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chromalab/go-chroma/detector"
	"github.com/chromalab/go-chroma/flow"
	"github.com/chromalab/go-chroma/kpi"
	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/peaks"
	"github.com/chromalab/go-chroma/results"
	"github.com/chromalab/go-chroma/retention"
	"github.com/chromalab/go-chroma/thermal"
	"github.com/chromalab/go-chroma/validation"
)

// Stage identifies a pipeline phase. Stages advance strictly forward
// within a run; Failed is terminal and reachable only from Validating.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageModeling     Stage = "modeling"
	StageRetaining    Stage = "retaining"
	StageSynthesizing Stage = "synthesizing"
	StageDetecting    Stage = "detecting"
	StageAssembling   Stage = "assembling"
	StageExtracting   Stage = "extracting"
	StageComplete     Stage = "complete"
	StageFailed       Stage = "failed"
)

// Simulator runs simulations. The zero value is not usable; call New.
type Simulator struct {
	// Resolution is the internal thermal sampling interval in seconds.
	Resolution float64
	// OnStage, when set, is invoked at each stage transition. It is
	// called synchronously from the run and must be fast.
	OnStage func(stage Stage)
}

// New creates a simulator with the default internal resolution.
func New() *Simulator {
	return &Simulator{Resolution: thermal.DefaultResolution}
}

// Run executes one simulation. Validation errors abort before any
// modeling; per-analyte and per-channel errors are recovered into
// warnings. A context deadline discards the whole run: no partial
// result is returned.
func (s *Simulator) Run(ctx context.Context, params *method.Parameters, profile *method.SampleProfile, opts method.Options) (*results.RunResult, error) {
	started := time.Now()
	builder := results.NewBuilder()

	s.enter(StageValidating)
	if res := validation.NewValidator(params, profile).Validate(); !res.Valid {
		s.enter(StageFailed)
		return nil, res.Err()
	}
	if profile == nil {
		// Validation accepts a method-only document; the run then
		// proceeds as a blank injection.
		profile = &method.SampleProfile{}
	}

	// The flow model's viscosity correction consumes the thermal
	// profile, so the two modeling passes run back to back.
	s.enter(StageModeling)
	thermalProfile := thermal.Expand(params.OvenProgram, s.Resolution)
	runLength := thermalProfile.RunLength()

	flowSeries, flowErrs := flow.Compute(params, thermalProfile)
	for _, err := range flowErrs {
		if ie, ok := err.(*flow.InstabilityError); ok {
			builder.AddWarning("flow", ie.ColumnID, ie.Reason)
		} else {
			builder.AddWarning("flow", "", err.Error())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Retention runs per column; detectors are fed round-robin by
	// column index so multi-column methods exercise every column.
	s.enter(StageRetaining)
	colPreds := make(map[string][]retention.Prediction)
	for _, col := range params.Columns {
		fs := flow.ColumnSeries(flowSeries, col.ID)
		if fs == nil {
			continue // flow stage already recorded the warning
		}
		preds, errs := retention.Predict(col, profile.Analytes, thermalProfile, fs)
		for _, err := range errs {
			if re, ok := err.(*retention.Error); ok {
				builder.AddWarning("retention", re.Analyte, re.Reason)
			} else {
				builder.AddWarning("retention", "", err.Error())
			}
		}
		colPreds[col.ID] = preds
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.enter(StageSynthesizing)
	transfer := 1.0
	if len(params.Inlets) > 0 {
		transfer = flow.TransferFraction(params.Inlets[0].Mode)
	}
	colPeaks := make(map[string][]peaks.Peak, len(colPreds))
	for id, preds := range colPreds {
		colPeaks[id] = peaks.Synthesize(preds, profile.InjectionVolume, transfer)
	}

	s.enter(StageDetecting)
	detCols := assignColumns(params)
	traces := make([]*detector.Trace, len(params.Detectors))
	chanErrs := make([]error, len(params.Detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i := range params.Detectors {
		det := params.Detectors[i]
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr, err := detector.Respond(det, colPeaks[detCols[det.ID]], runLength, detector.NoiseOptions{
				Noise: opts.IncludeNoise,
				Drift: opts.IncludeBaselineDrift,
				Seed:  opts.Seed,
			})
			if err != nil {
				// Channel-level failure: record and continue; other
				// channels are unaffected.
				chanErrs[idx] = err
				return nil
			}
			traces[idx] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, err := range chanErrs {
		if err != nil {
			builder.AddWarning("detector", params.Detectors[i].ID, err.Error())
		}
	}

	s.enter(StageAssembling)
	assembled := detector.Assemble(compactTraces(traces))
	builder.WithTraces(assembled)

	s.enter(StageExtracting)
	reports := make([]kpi.Report, 0, len(assembled))
	for _, tr := range assembled {
		expected := expectedPeaks(colPreds[detCols[tr.DetectorID]])
		reports = append(reports, *kpi.Extract(tr.DetectorID, tr.Time, tr.Intensity, expected))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builder.WithThermal(thermalProfile)
	builder.WithFlow(flowSeries)
	builder.WithKpis(reports)
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	builder.WithRun(runID, params.Name, profile.Name, opts.Seed)
	builder.WithTiming(time.Since(started))

	s.enter(StageComplete)
	return builder.Build(), nil
}

func (s *Simulator) enter(stage Stage) {
	if s.OnStage != nil {
		s.OnStage(stage)
	}
}

// assignColumns maps each detector id to the column feeding it,
// round-robin by method order.
func assignColumns(params *method.Parameters) map[string]string {
	out := make(map[string]string, len(params.Detectors))
	if len(params.Columns) == 0 {
		return out
	}
	for i, det := range params.Detectors {
		out[det.ID] = params.Columns[i%len(params.Columns)].ID
	}
	return out
}

func compactTraces(traces []*detector.Trace) []*detector.Trace {
	out := make([]*detector.Trace, 0, len(traces))
	for _, tr := range traces {
		if tr != nil {
			out = append(out, tr)
		}
	}
	return out
}

func expectedPeaks(preds []retention.Prediction) []kpi.Expected {
	out := make([]kpi.Expected, 0, len(preds))
	for _, p := range preds {
		out = append(out, kpi.Expected{
			Analyte:       p.Analyte.Name,
			RetentionTime: p.RetentionTime,
			Sigma:         p.Sigma,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RetentionTime < out[j].RetentionTime })
	return out
}
