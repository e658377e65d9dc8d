package flow

import (
	"math"
	"testing"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/thermal"
)

func isothermalProfile(tempC, length float64) *thermal.Profile {
	steps := []method.OvenStep{{StartTemp: tempC, HoldTime: length / 60, RampRate: 0, EndTemp: tempC}}
	return thermal.Expand(steps, 1.0)
}

func testColumn() method.Column {
	return method.Column{
		ID:            "col1",
		Length:        30,
		InnerDiameter: 0.25,
		FilmThickness: 0.25,
		FlowMode:      method.ConstantFlow{FlowRate: 1.0},
	}
}

func TestConstantFlowIsFlat(t *testing.T) {
	profile := isothermalProfile(100, 120)
	params := &method.Parameters{Columns: []method.Column{testColumn()}}

	series, errs := Compute(params, profile)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	cs := ColumnSeries(series, "col1")
	if cs == nil {
		t.Fatal("Column series not found")
	}
	for i, f := range cs.Flow {
		if math.Abs(f-1.0) > 1e-12 {
			t.Fatalf("Sample %d: expected 1.0 mL/min, got %f", i, f)
		}
	}
	// 0.25 mm ID -> radius 0.0125 cm -> area ~4.909e-4 cm^2.
	// u = (1/60) / area ~ 33.9 cm/s.
	if v := cs.Velocity[0]; math.Abs(v-33.95) > 0.1 {
		t.Errorf("Expected velocity near 33.95 cm/s, got %f", v)
	}
}

func TestConstantPressureFlowDropsWithTemperature(t *testing.T) {
	col := testColumn()
	col.FlowMode = method.ConstantPressure{ReferenceFlow: 1.0, ReferenceTemp: 50}
	steps := []method.OvenStep{{StartTemp: 50, HoldTime: 0, RampRate: 10, EndTemp: 300}}
	profile := thermal.Expand(steps, 1.0)

	series, errs := Compute(&method.Parameters{Columns: []method.Column{col}}, profile)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	cs := ColumnSeries(series, "col1")

	if math.Abs(cs.Flow[0]-1.0) > 1e-9 {
		t.Errorf("Expected reference flow at reference temp, got %f", cs.Flow[0])
	}
	last := cs.Flow[len(cs.Flow)-1]
	if last >= cs.Flow[0] {
		t.Errorf("Expected flow to fall as temperature rises, got %f -> %f", cs.Flow[0], last)
	}
	// (323.15/573.15)^1.75
	want := math.Pow(323.15/573.15, 1.75)
	if math.Abs(last-want) > 1e-6 {
		t.Errorf("Expected final flow %f, got %f", want, last)
	}
}

func TestConstantVelocityFlow(t *testing.T) {
	col := testColumn()
	col.FlowMode = method.ConstantVelocity{Velocity: 30}
	profile := isothermalProfile(100, 60)

	series, errs := Compute(&method.Parameters{Columns: []method.Column{col}}, profile)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	cs := ColumnSeries(series, "col1")
	for i, v := range cs.Velocity {
		if math.Abs(v-30) > 1e-9 {
			t.Fatalf("Sample %d: expected 30 cm/s, got %f", i, v)
		}
	}
}

func TestBackflushZeroesWindow(t *testing.T) {
	col := testColumn()
	col.Backflush = &method.BackflushWindow{Start: 30, End: 60}
	profile := isothermalProfile(100, 120)

	series, errs := Compute(&method.Parameters{Columns: []method.Column{col}}, profile)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	cs := ColumnSeries(series, "col1")
	for i, tm := range cs.Time {
		inWindow := tm >= 30 && tm < 60
		if inWindow && cs.Flow[i] != 0 {
			t.Fatalf("t=%f: expected zero flow inside backflush window, got %f", tm, cs.Flow[i])
		}
		if !inWindow && cs.Flow[i] == 0 {
			t.Fatalf("t=%f: expected nonzero flow outside backflush window", tm)
		}
	}
}

func TestZeroFlowIsInstability(t *testing.T) {
	col := testColumn()
	col.FlowMode = method.ConstantFlow{FlowRate: 0}
	profile := isothermalProfile(100, 60)

	series, errs := Compute(&method.Parameters{Columns: []method.Column{col}}, profile)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if _, ok := errs[0].(*InstabilityError); !ok {
		t.Errorf("Expected *InstabilityError, got %T", errs[0])
	}
	if ColumnSeries(series, "col1") != nil {
		t.Error("Expected no series for the unstable column")
	}
}

func TestSplitVentAndGasSaver(t *testing.T) {
	profile := isothermalProfile(100, 120)
	params := &method.Parameters{
		Inlets: []method.Inlet{{
			ID: "inlet1",
			Mode: method.SplitMode{
				Ratio:         50,
				TotalFlow:     51,
				GasSaverFlow:  20,
				GasSaverDelay: 60,
			},
		}},
		Columns: []method.Column{testColumn()},
	}

	series, errs := Compute(params, profile)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	var vent, saver *Series
	for i := range series {
		switch series[i].Kind {
		case "split_vent":
			vent = &series[i]
		case "gas_saver":
			saver = &series[i]
		}
	}
	if vent == nil || saver == nil {
		t.Fatal("Expected split_vent and gas_saver series")
	}

	if math.Abs(vent.Flow[0]-50) > 1e-9 {
		t.Errorf("Expected vent flow 50 mL/min, got %f", vent.Flow[0])
	}
	if saver.Flow[0] != 51 {
		t.Errorf("Expected full total flow before gas saver kicks in, got %f", saver.Flow[0])
	}
	last := saver.Flow[len(saver.Flow)-1]
	if last != 20 {
		t.Errorf("Expected gas saver flow 20 mL/min after delay, got %f", last)
	}
}

func TestTransferFraction(t *testing.T) {
	if got := TransferFraction(method.SplitMode{Ratio: 50}); math.Abs(got-1.0/51) > 1e-12 {
		t.Errorf("Expected 1/51, got %f", got)
	}
	if got := TransferFraction(method.SplitlessMode{}); got != 1 {
		t.Errorf("Expected 1 for splitless, got %f", got)
	}
	if got := TransferFraction(method.DirectMode{}); got != 1 {
		t.Errorf("Expected 1 for direct, got %f", got)
	}
}
