package validation

import (
	"fmt"
	"math"

	"github.com/chromalab/go-chroma/method"
)

// checkStructure validates that the method has the minimum hardware
// complement for a run.
func (v *Validator) checkStructure() {
	if len(v.params.Inlets) == 0 {
		v.AddError("structure", "inlets", "method has no inlets", "Add at least one inlet")
	}
	if len(v.params.Columns) == 0 {
		v.AddError("structure", "columns", "method has no columns", "Add at least one column")
	}
	if len(v.params.Detectors) == 0 {
		v.AddError("structure", "detectors", "method has no detectors", "Add at least one detector")
	}
	if len(v.params.OvenProgram) == 0 {
		v.AddError("structure", "oven_program", "oven program is empty", "Add at least one oven step")
	}
}

// checkOvenProgram verifies the temperature program forms a single
// continuous, non-negative-duration sequence with consistent ramps.
func (v *Validator) checkOvenProgram() {
	for i, step := range v.params.OvenProgram {
		field := fmt.Sprintf("oven_program[%d]", i)

		if step.HoldTime < 0 {
			v.AddError("oven", field+".hold_time_min",
				fmt.Sprintf("hold time is negative (%.2f min)", step.HoldTime),
				"Set hold time to zero or a positive value")
		}

		delta := step.EndTemp - step.StartTemp
		switch {
		case delta == 0:
			if step.RampRate != 0 {
				v.AddWarning("oven", field+".ramp_rate_c_min",
					"ramp rate set but start and end temperatures are equal",
					"Set ramp rate to zero for a pure hold step")
			}
		case delta > 0:
			if step.RampRate <= 0 {
				v.AddError("oven", field+".ramp_rate_c_min",
					fmt.Sprintf("heating step requires a positive ramp rate (got %.2f)", step.RampRate),
					"Set a positive ramp rate")
			}
		case delta < 0:
			if step.RampRate >= 0 {
				v.AddError("oven", field+".ramp_rate_c_min",
					fmt.Sprintf("cooling step requires a negative ramp rate (got %.2f)", step.RampRate),
					"Set a negative ramp rate")
			}
		}

		if i > 0 {
			prev := v.params.OvenProgram[i-1]
			if math.Abs(step.StartTemp-prev.EndTemp) > 1e-9 {
				v.AddError("oven", field+".start_temp_c",
					fmt.Sprintf("step starts at %.1f °C but previous step ends at %.1f °C", step.StartTemp, prev.EndTemp),
					"Make each step start where the previous one ends")
			}
		}
	}
}

// checkInlets verifies mode-specific inlet fields.
func (v *Validator) checkInlets() {
	seen := make(map[string]bool)
	for i, inlet := range v.params.Inlets {
		field := fmt.Sprintf("inlets[%d]", i)

		if inlet.ID == "" {
			v.AddError("inlet", field+".id", "inlet has no id", "Assign a unique inlet id")
		} else if seen[inlet.ID] {
			v.AddError("inlet", field+".id", fmt.Sprintf("duplicate inlet id %q", inlet.ID), "Assign a unique inlet id")
		}
		seen[inlet.ID] = true

		if inlet.Temperature <= 0 {
			v.AddWarning("inlet", field+".temperature_c",
				fmt.Sprintf("inlet temperature %.1f °C is unusually low", inlet.Temperature),
				"Typical inlet temperatures are 150-350 °C")
		}

		switch mode := inlet.Mode.(type) {
		case method.SplitMode:
			if mode.Ratio <= 0 {
				v.AddError("inlet", field+".mode.split_ratio",
					fmt.Sprintf("split ratio must be positive (got %.2f)", mode.Ratio),
					"Set a split ratio greater than zero")
			}
			if mode.TotalFlow <= 0 {
				v.AddError("inlet", field+".mode.total_flow_ml_min",
					fmt.Sprintf("total flow must be positive (got %.2f)", mode.TotalFlow),
					"Set a positive total inlet flow")
			}
			if mode.GasSaverFlow < 0 {
				v.AddError("inlet", field+".mode.gas_saver_flow_ml_min",
					"gas saver flow is negative", "Set gas saver flow to zero or a positive value")
			}
		case method.SplitlessMode:
			if mode.PurgeTime < 0 {
				v.AddError("inlet", field+".mode.purge_time_s",
					"purge time is negative", "Set purge time to zero or a positive value")
			}
			if mode.TotalFlow <= 0 {
				v.AddError("inlet", field+".mode.total_flow_ml_min",
					fmt.Sprintf("total flow must be positive (got %.2f)", mode.TotalFlow),
					"Set a positive total inlet flow")
			}
		case method.DirectMode:
			// no mode-specific fields
		case nil:
			v.AddError("inlet", field+".mode", "inlet mode is missing", "Set mode to split, splitless, or direct")
		}
	}
}

// checkColumns verifies geometry and flow-mode-specific fields.
func (v *Validator) checkColumns() {
	seen := make(map[string]bool)
	for i, col := range v.params.Columns {
		field := fmt.Sprintf("columns[%d]", i)

		if col.ID == "" {
			v.AddError("column", field+".id", "column has no id", "Assign a unique column id")
		} else if seen[col.ID] {
			v.AddError("column", field+".id", fmt.Sprintf("duplicate column id %q", col.ID), "Assign a unique column id")
		}
		seen[col.ID] = true

		if col.Length <= 0 {
			v.AddError("column", field+".length_m",
				fmt.Sprintf("column length must be positive (got %.2f m)", col.Length),
				"Set a positive column length")
		}
		if col.InnerDiameter <= 0 {
			v.AddError("column", field+".inner_diameter_mm",
				fmt.Sprintf("inner diameter must be positive (got %.3f mm)", col.InnerDiameter),
				"Set a positive inner diameter")
		}
		if col.FilmThickness < 0 {
			v.AddError("column", field+".film_thickness_um",
				"film thickness is negative", "Set film thickness to zero or a positive value")
		}

		switch mode := col.FlowMode.(type) {
		case method.ConstantFlow:
			if mode.FlowRate <= 0 {
				v.AddError("column", field+".flow_mode.flow_ml_min",
					fmt.Sprintf("constant-flow mode requires a positive flow (got %.3f)", mode.FlowRate),
					"Set a positive nominal flow")
			}
		case method.ConstantPressure:
			if mode.ReferenceFlow <= 0 {
				v.AddError("column", field+".flow_mode.reference_flow_ml_min",
					fmt.Sprintf("constant-pressure mode requires a positive reference flow (got %.3f)", mode.ReferenceFlow),
					"Set a positive reference flow")
			}
			if mode.ReferenceTemp <= -273.15 {
				v.AddError("column", field+".flow_mode.reference_temp_c",
					"reference temperature is below absolute zero", "Set a physical reference temperature")
			}
		case method.ConstantVelocity:
			if mode.Velocity <= 0 {
				v.AddError("column", field+".flow_mode.velocity_cm_s",
					fmt.Sprintf("constant-velocity mode requires a positive velocity (got %.3f)", mode.Velocity),
					"Set a positive linear velocity")
			}
		case nil:
			v.AddError("column", field+".flow_mode", "column flow mode is missing",
				"Set flow mode to constant_flow, constant_pressure, or constant_velocity")
		}

		if bf := col.Backflush; bf != nil {
			if bf.End <= bf.Start {
				v.AddError("column", field+".backflush",
					fmt.Sprintf("backflush window ends (%.1f s) before it starts (%.1f s)", bf.End, bf.Start),
					"Set the window end after its start")
			}
			if bf.Start < 0 {
				v.AddError("column", field+".backflush.start_s",
					"backflush window starts before the run", "Set a non-negative window start")
			}
		}
	}
}

// checkDetectors verifies detector configuration.
func (v *Validator) checkDetectors() {
	seen := make(map[string]bool)
	for i, det := range v.params.Detectors {
		field := fmt.Sprintf("detectors[%d]", i)

		if det.ID == "" {
			v.AddError("detector", field+".id", "detector has no id", "Assign a unique detector id")
		} else if seen[det.ID] {
			v.AddError("detector", field+".id", fmt.Sprintf("duplicate detector id %q", det.ID), "Assign a unique detector id")
		}
		seen[det.ID] = true

		switch det.Type {
		case method.FID, method.TCD, method.SCD:
		default:
			v.AddError("detector", field+".type",
				fmt.Sprintf("unknown detector type %q", det.Type), "Use FID, TCD, or SCD")
		}

		if det.DataRate <= 0 {
			v.AddError("detector", field+".data_rate_hz",
				fmt.Sprintf("data rate must be positive (got %.2f Hz)", det.DataRate),
				"Set a positive data rate")
		}
		if det.Attenuation < 0 {
			v.AddError("detector", field+".attenuation",
				"attenuation is negative", "Set attenuation to zero or a positive value")
		}
	}
}

// checkValves verifies the optional valve event program.
func (v *Validator) checkValves() {
	for i, ev := range v.params.ValveEvents {
		field := fmt.Sprintf("valve_events[%d]", i)

		if ev.Time < 0 {
			v.AddError("valve", field+".time_s",
				fmt.Sprintf("valve event time is negative (%.1f s)", ev.Time),
				"Set a non-negative event time")
		}
		if ev.Valve == "" {
			v.AddError("valve", field+".valve", "valve event has no valve id", "Name the valve being actuated")
		}
		switch ev.State {
		case "on", "off":
		default:
			v.AddError("valve", field+".state",
				fmt.Sprintf("unknown valve state %q", ev.State), `Use "on" or "off"`)
		}
	}
}

// checkProfile verifies the sample profile.
func (v *Validator) checkProfile() {
	if v.profile.InjectionVolume <= 0 {
		v.AddError("sample", "injection_volume_ul",
			fmt.Sprintf("injection volume must be positive (got %.2f µL)", v.profile.InjectionVolume),
			"Set a positive injection volume")
	}

	seen := make(map[string]bool)
	for i, a := range v.profile.Analytes {
		field := fmt.Sprintf("analytes[%d]", i)

		if a.Name == "" {
			v.AddError("sample", field+".name", "analyte has no name", "Name every analyte")
		} else if seen[a.Name] {
			v.AddError("sample", field+".name",
				fmt.Sprintf("duplicate analyte name %q", a.Name), "Analyte names must be unique within a profile")
		}
		seen[a.Name] = true

		if a.Concentration < 0 {
			v.AddError("sample", field+".concentration_ppm", "concentration is negative", "Set a non-negative concentration")
		}
		if a.RetentionFactor < 0 {
			v.AddError("sample", field+".retention_factor", "retention factor is negative", "Set a non-negative retention factor")
		}
		if a.DiffusionCoeff <= 0 {
			v.AddError("sample", field+".diffusion_coefficient_cm2_s",
				fmt.Sprintf("diffusion coefficient must be positive (got %.4f)", a.DiffusionCoeff),
				"Typical gas-phase values are 0.05-0.5 cm²/s")
		}
		if a.Tailing < 0 {
			v.AddError("sample", field+".tailing_s", "tailing constant is negative", "Set tailing to zero or a positive value")
		}
	}
}
