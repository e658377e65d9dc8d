// Package flow computes per-column carrier gas flow and linear velocity
// over the course of a run, including inlet split flow, gas-saver
// switching, and backflush windows.
package flow

import (
	"fmt"
	"math"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/thermal"
)

// viscosityExponent governs the temperature dependence of carrier gas
// viscosity: eta(T) ~ T^1.75 (absolute temperature). At constant head
// pressure the volumetric flow scales with 1/eta.
const viscosityExponent = 1.75

const kelvinOffset = 273.15

// Series is a sampled flow trace for one column or inlet stream.
type Series struct {
	ID       string    `json:"id"`   // column or inlet id
	Kind     string    `json:"kind"` // "column", "split_vent", "gas_saver"
	Time     []float64 `json:"time_s"`
	Flow     []float64 `json:"flow_ml_min"`
	Velocity []float64 `json:"velocity_cm_s,omitempty"`
	// Backflush marks the sample range [start, end) during which the
	// column flow is reversed. Nil when no window is configured.
	Backflush *method.BackflushWindow `json:"backflush,omitempty"`
}

// InstabilityError reports a degenerate flow configuration. The
// affected column is excluded from the run; other columns are not.
type InstabilityError struct {
	ColumnID string
	Reason   string
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("flow model unstable for column %q: %s", e.ColumnID, e.Reason)
}

// Compute derives flow series for every column plus the inlet-side
// split and gas-saver streams, sampled on the thermal profile's grid.
// Column series appear in method order. A column with a degenerate
// configuration yields an InstabilityError in errs and no series; the
// remaining columns are unaffected.
func Compute(params *method.Parameters, profile *thermal.Profile) (series []Series, errs []error) {
	for _, col := range params.Columns {
		s, err := computeColumn(col, profile)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		series = append(series, *s)
	}

	for _, inlet := range params.Inlets {
		series = append(series, computeInlet(inlet, params, profile, series)...)
	}
	return series, errs
}

// ColumnSeries returns the series for a column id, or nil.
func ColumnSeries(series []Series, id string) *Series {
	for i := range series {
		if series[i].Kind == "column" && series[i].ID == id {
			return &series[i]
		}
	}
	return nil
}

func computeColumn(col method.Column, profile *thermal.Profile) (*Series, error) {
	n := len(profile.Time)
	s := &Series{
		ID:        col.ID,
		Kind:      "column",
		Time:      append([]float64(nil), profile.Time...),
		Flow:      make([]float64, n),
		Velocity:  make([]float64, n),
		Backflush: col.Backflush,
	}

	// Cross-sectional area in cm^2; inner diameter arrives in mm.
	radius := col.InnerDiameter / 2 / 10
	area := math.Pi * radius * radius
	if area <= 0 {
		return nil, &InstabilityError{ColumnID: col.ID, Reason: "zero cross-sectional area"}
	}

	for i := 0; i < n; i++ {
		tempK := profile.Temp[i] + kelvinOffset
		if tempK <= 0 {
			return nil, &InstabilityError{ColumnID: col.ID, Reason: "temperature at or below absolute zero"}
		}

		var f float64
		switch mode := col.FlowMode.(type) {
		case method.ConstantFlow:
			f = mode.FlowRate
		case method.ConstantPressure:
			refK := mode.ReferenceTemp + kelvinOffset
			if refK <= 0 {
				return nil, &InstabilityError{ColumnID: col.ID, Reason: "reference temperature at or below absolute zero"}
			}
			f = mode.ReferenceFlow * math.Pow(refK/tempK, viscosityExponent)
		case method.ConstantVelocity:
			// u (cm/s) * area (cm^2) -> mL/s -> mL/min
			f = mode.Velocity * area * 60
		default:
			return nil, &InstabilityError{ColumnID: col.ID, Reason: "no flow mode configured"}
		}

		if !isFinite(f) || f <= 0 {
			return nil, &InstabilityError{ColumnID: col.ID, Reason: fmt.Sprintf("non-positive flow %.4f mL/min", f)}
		}

		if col.Backflush != nil && profile.Time[i] >= col.Backflush.Start && profile.Time[i] < col.Backflush.End {
			// Reversed flow carries nothing forward; model as zero
			// transfer for the retention stage.
			s.Flow[i] = 0
			s.Velocity[i] = 0
			continue
		}

		s.Flow[i] = f
		s.Velocity[i] = f / 60 / area
	}
	return s, nil
}

// computeInlet derives the split-vent and gas-saver streams for one
// inlet. The split flow is total flow minus the sum of column flows fed
// by the inlet; with a single column that is total minus column flow.
func computeInlet(inlet method.Inlet, params *method.Parameters, profile *thermal.Profile, columns []Series) []Series {
	n := len(profile.Time)

	var totalFlow, gasSaverFlow, gasSaverDelay float64
	switch mode := inlet.Mode.(type) {
	case method.SplitMode:
		totalFlow = mode.TotalFlow
		gasSaverFlow = mode.GasSaverFlow
		gasSaverDelay = mode.GasSaverDelay
	case method.SplitlessMode:
		totalFlow = mode.TotalFlow
	default:
		return nil
	}

	columnSum := make([]float64, n)
	for _, cs := range columns {
		if cs.Kind != "column" {
			continue
		}
		for i := 0; i < n && i < len(cs.Flow); i++ {
			columnSum[i] += cs.Flow[i]
		}
	}

	var out []Series
	if _, ok := inlet.Mode.(method.SplitMode); ok {
		vent := Series{ID: inlet.ID, Kind: "split_vent", Time: append([]float64(nil), profile.Time...), Flow: make([]float64, n)}
		for i := 0; i < n; i++ {
			v := totalFlow - columnSum[i]
			if v < 0 {
				v = 0
			}
			vent.Flow[i] = v
		}
		out = append(out, vent)
	}

	if gasSaverFlow > 0 {
		saver := Series{ID: inlet.ID, Kind: "gas_saver", Time: append([]float64(nil), profile.Time...), Flow: make([]float64, n)}
		for i := 0; i < n; i++ {
			if profile.Time[i] >= gasSaverDelay {
				saver.Flow[i] = gasSaverFlow
			} else {
				saver.Flow[i] = totalFlow
			}
		}
		out = append(out, saver)
	}
	return out
}

// TransferFraction returns the fraction of injected sample reaching the
// column for an inlet mode.
func TransferFraction(mode method.InletMode) float64 {
	switch m := mode.(type) {
	case method.SplitMode:
		if m.Ratio <= 0 {
			return 1
		}
		return 1 / (1 + m.Ratio)
	default:
		return 1
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
