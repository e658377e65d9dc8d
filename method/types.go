// Package method defines the declarative instrument method and sample
// documents consumed by the simulator: inlets, columns, detectors, the
// oven temperature program, valve events, and the analyte profile.
//
// Inlet modes and column flow modes are tagged variants. Each variant
// carries exactly the fields its mode requires, so downstream stages
// never probe for optional fields at runtime.
package method

// CarrierGas identifies the carrier gas supplied to an inlet.
type CarrierGas string

const (
	Helium   CarrierGas = "helium"
	Hydrogen CarrierGas = "hydrogen"
	Nitrogen CarrierGas = "nitrogen"
)

// Parameters is a complete instrument method document.
type Parameters struct {
	Name        string       `json:"name,omitempty"`
	Inlets      []Inlet      `json:"inlets"`
	Columns     []Column     `json:"columns"`
	Detectors   []Detector   `json:"detectors"`
	OvenProgram []OvenStep   `json:"oven_program"`
	ValveEvents []ValveEvent `json:"valve_events,omitempty"`
}

// Inlet describes an injection port. Mode determines how much of the
// vaporized sample reaches the column.
type Inlet struct {
	ID          string     `json:"id"`
	Temperature float64    `json:"temperature_c"`
	Carrier     CarrierGas `json:"carrier_gas"`
	Mode        InletMode  `json:"mode"`
}

// InletMode is the tagged variant for inlet operating modes.
type InletMode interface {
	inletMode()
	// Kind returns the wire tag for this mode.
	Kind() string
}

// SplitMode vents a fixed fraction of the sample. The fraction reaching
// the column is 1/(1+Ratio).
type SplitMode struct {
	Ratio         float64 `json:"split_ratio"`
	TotalFlow     float64 `json:"total_flow_ml_min"`
	GasSaverFlow  float64 `json:"gas_saver_flow_ml_min,omitempty"`
	GasSaverDelay float64 `json:"gas_saver_delay_s,omitempty"`
}

// SplitlessMode transfers the whole sample, then purges the liner after
// PurgeTime.
type SplitlessMode struct {
	PurgeTime float64 `json:"purge_time_s"`
	TotalFlow float64 `json:"total_flow_ml_min"`
}

// DirectMode injects straight onto the column with no vent path.
type DirectMode struct{}

func (SplitMode) inletMode()     {}
func (SplitlessMode) inletMode() {}
func (DirectMode) inletMode()    {}

func (SplitMode) Kind() string     { return "split" }
func (SplitlessMode) Kind() string { return "splitless" }
func (DirectMode) Kind() string    { return "direct" }

// Column describes a capillary column and how its carrier flow is
// regulated over the run.
type Column struct {
	ID              string           `json:"id"`
	Length          float64          `json:"length_m"`
	InnerDiameter   float64          `json:"inner_diameter_mm"`
	FilmThickness   float64          `json:"film_thickness_um"`
	StationaryPhase string           `json:"stationary_phase,omitempty"`
	FlowMode        ColumnFlowMode   `json:"flow_mode"`
	Backflush       *BackflushWindow `json:"backflush,omitempty"`
}

// ColumnFlowMode is the tagged variant for column flow regulation.
type ColumnFlowMode interface {
	flowMode()
	// Kind returns the wire tag for this mode.
	Kind() string
}

// ConstantFlow holds the volumetric flow fixed across the run.
type ConstantFlow struct {
	FlowRate float64 `json:"flow_ml_min"`
}

// ConstantPressure holds head pressure fixed; volumetric flow falls as
// oven temperature raises carrier viscosity. ReferenceFlow is the flow
// delivered at ReferenceTemp.
type ConstantPressure struct {
	ReferenceFlow float64 `json:"reference_flow_ml_min"`
	ReferenceTemp float64 `json:"reference_temp_c"`
}

// ConstantVelocity holds the average linear velocity fixed.
type ConstantVelocity struct {
	Velocity float64 `json:"velocity_cm_s"`
}

func (ConstantFlow) flowMode()     {}
func (ConstantPressure) flowMode() {}
func (ConstantVelocity) flowMode() {}

func (ConstantFlow) Kind() string     { return "constant_flow" }
func (ConstantPressure) Kind() string { return "constant_pressure" }
func (ConstantVelocity) Kind() string { return "constant_velocity" }

// BackflushWindow reverses column flow between Start and End (seconds
// into the run). Analytes still on the column when the window opens are
// purged and never reach a detector.
type BackflushWindow struct {
	Start float64 `json:"start_s"`
	End   float64 `json:"end_s"`
}

// DetectorType selects the detection principle. The response stage maps
// each type to its gain and noise characteristics.
type DetectorType string

const (
	FID DetectorType = "FID" // flame ionization
	TCD DetectorType = "TCD" // thermal conductivity
	SCD DetectorType = "SCD" // sulfur chemiluminescence
)

// Detector describes one detector channel.
type Detector struct {
	ID          string       `json:"id"`
	Type        DetectorType `json:"type"`
	Temperature float64      `json:"temperature_c"`
	MakeupFlow  float64      `json:"makeup_flow_ml_min,omitempty"`
	FuelFlow    float64      `json:"fuel_flow_ml_min,omitempty"`
	AirFlow     float64      `json:"air_flow_ml_min,omitempty"`
	DataRate    float64      `json:"data_rate_hz"`
	Attenuation float64      `json:"attenuation,omitempty"`
	Offset      float64      `json:"offset,omitempty"`
}

// OvenStep is one segment of the oven temperature program: hold at
// StartTemp for HoldTime, then ramp at RampRate to EndTemp. A RampRate
// of zero means the step is a pure hold and EndTemp must equal
// StartTemp. Consecutive steps must be temperature-contiguous.
type OvenStep struct {
	StartTemp float64 `json:"start_temp_c"`
	HoldTime  float64 `json:"hold_time_min"`
	RampRate  float64 `json:"ramp_rate_c_min"`
	EndTemp   float64 `json:"end_temp_c"`
}

// ValveEvent is a time-stamped valve actuation. Events are validated
// and carried in the method document; they do not alter the signal
// model, which treats backflush windows as the only valve effect.
type ValveEvent struct {
	Time  float64 `json:"time_s"`
	Valve string  `json:"valve"`
	State string  `json:"state"` // "on" or "off"
}

// SampleProfile describes the injected sample.
type SampleProfile struct {
	Name            string    `json:"name,omitempty"`
	InjectionVolume float64   `json:"injection_volume_ul"`
	Solvent         string    `json:"solvent,omitempty"`
	Matrix          string    `json:"matrix,omitempty"`
	Analytes        []Analyte `json:"analytes"`
}

// Analyte is one chemical component of the sample.
type Analyte struct {
	Name string `json:"name"`
	// Concentration in ppm (mass fraction basis).
	Concentration float64 `json:"concentration_ppm"`
	// RetentionFactor is the dimensionless k at the reference
	// temperature; larger values elute later.
	RetentionFactor float64 `json:"retention_factor"`
	// DiffusionCoeff is the gas-phase diffusion coefficient in cm^2/s.
	DiffusionCoeff float64 `json:"diffusion_coefficient_cm2_s"`
	// ResponseFactor scales the detector signal per unit amount.
	ResponseFactor float64 `json:"response_factor"`
	// Tailing is the exponential tail time constant in seconds. Zero
	// produces a symmetric Gaussian peak.
	Tailing float64 `json:"tailing_s,omitempty"`
}

// Options controls the stochastic parts of a run. The export flags are
// advisory pass-through fields for external export collaborators; the
// simulator ignores them. RunID, when set by the caller, names the run
// and is echoed into the result; otherwise the simulator assigns one.
type Options struct {
	RunID                string `json:"run_id,omitempty"`
	IncludeNoise         bool   `json:"include_noise"`
	IncludeBaselineDrift bool   `json:"include_baseline_drift"`
	Seed                 int64  `json:"simulation_seed"`
	ExportCSV            bool   `json:"export_csv,omitempty"`
	ExportPNG            bool   `json:"export_png,omitempty"`
}
