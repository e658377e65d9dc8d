package method

import (
	"encoding/json"
	"fmt"
)

// The tagged variants serialize as an object with a "type" field next
// to the mode-specific fields, e.g.
//
//	{"type": "split", "split_ratio": 50, "total_flow_ml_min": 104}

// MarshalJSON encodes the inlet with its mode tag inlined.
func (in Inlet) MarshalJSON() ([]byte, error) {
	type alias Inlet
	shadow := struct {
		alias
		Mode json.RawMessage `json:"mode"`
	}{alias: alias(in)}

	mode, err := marshalTagged(in.Mode)
	if err != nil {
		return nil, fmt.Errorf("inlet %q: %w", in.ID, err)
	}
	shadow.Mode = mode
	return json.Marshal(shadow)
}

// UnmarshalJSON decodes the inlet, dispatching on the mode's type tag.
func (in *Inlet) UnmarshalJSON(data []byte) error {
	type alias Inlet
	shadow := struct {
		*alias
		Mode json.RawMessage `json:"mode"`
	}{alias: (*alias)(in)}

	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	if len(shadow.Mode) == 0 {
		in.Mode = nil
		return nil
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(shadow.Mode, &tag); err != nil {
		return err
	}

	switch tag.Type {
	case "split":
		var m SplitMode
		if err := json.Unmarshal(shadow.Mode, &m); err != nil {
			return err
		}
		in.Mode = m
	case "splitless":
		var m SplitlessMode
		if err := json.Unmarshal(shadow.Mode, &m); err != nil {
			return err
		}
		in.Mode = m
	case "direct":
		in.Mode = DirectMode{}
	default:
		return fmt.Errorf("inlet %q: unknown mode type %q", in.ID, tag.Type)
	}
	return nil
}

// MarshalJSON encodes the column with its flow mode tag inlined.
func (c Column) MarshalJSON() ([]byte, error) {
	type alias Column
	shadow := struct {
		alias
		FlowMode json.RawMessage `json:"flow_mode"`
	}{alias: alias(c)}

	mode, err := marshalTagged(c.FlowMode)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.ID, err)
	}
	shadow.FlowMode = mode
	return json.Marshal(shadow)
}

// UnmarshalJSON decodes the column, dispatching on the flow mode tag.
func (c *Column) UnmarshalJSON(data []byte) error {
	type alias Column
	shadow := struct {
		*alias
		FlowMode json.RawMessage `json:"flow_mode"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	if len(shadow.FlowMode) == 0 {
		c.FlowMode = nil
		return nil
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(shadow.FlowMode, &tag); err != nil {
		return err
	}

	switch tag.Type {
	case "constant_flow":
		var m ConstantFlow
		if err := json.Unmarshal(shadow.FlowMode, &m); err != nil {
			return err
		}
		c.FlowMode = m
	case "constant_pressure":
		var m ConstantPressure
		if err := json.Unmarshal(shadow.FlowMode, &m); err != nil {
			return err
		}
		c.FlowMode = m
	case "constant_velocity":
		var m ConstantVelocity
		if err := json.Unmarshal(shadow.FlowMode, &m); err != nil {
			return err
		}
		c.FlowMode = m
	default:
		return fmt.Errorf("column %q: unknown flow mode type %q", c.ID, tag.Type)
	}
	return nil
}

// marshalTagged serializes a variant and splices in its type tag.
func marshalTagged(v interface{ Kind() string }) (json.RawMessage, error) {
	if v == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", v.Kind()))
	return json.Marshal(fields)
}

// ParseParameters decodes a method document from JSON.
func ParseParameters(data []byte) (*Parameters, error) {
	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse method: %w", err)
	}
	return &p, nil
}

// ParseSampleProfile decodes a sample profile from JSON.
func ParseSampleProfile(data []byte) (*SampleProfile, error) {
	var s SampleProfile
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sample profile: %w", err)
	}
	return &s, nil
}
