package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Wire is the serialisable form of a Destination shared by every adapter.
type Wire struct {
	Kind        Kind    `json:"kind" yaml:"kind" mapstructure:"kind"`
	LiftID      *string `json:"lift_id,omitempty" yaml:"lift_id,omitempty" mapstructure:"lift_id"`
	VariationID *string `json:"variation_id,omitempty" yaml:"variation_id,omitempty" mapstructure:"variation_id"`
	SetID       *string `json:"set_id,omitempty" yaml:"set_id,omitempty" mapstructure:"set_id"`
}

// ToWire converts a destination into its wire form. A nil destination maps to Unknown.
func ToWire(d Destination) Wire {
	switch v := d.(type) {
	case Dashboard, Settings, Unknown:
		return Wire{Kind: v.Kind()}
	case LiftDetails:
		return Wire{Kind: v.Kind(), LiftID: &v.LiftID}
	case EditLift:
		return Wire{Kind: v.Kind(), LiftID: v.LiftID.ptr()}
	case VariationDetails:
		return Wire{Kind: v.Kind(), VariationID: &v.VariationID}
	case EditVariation:
		return Wire{Kind: v.Kind(), VariationID: &v.VariationID}
	case EditSet:
		return Wire{
			Kind:        v.Kind(),
			SetID:       v.SetID.ptr(),
			LiftID:      v.LiftID.ptr(),
			VariationID: v.VariationID.ptr(),
		}
	default:
		return Wire{Kind: KindUnknown}
	}
}

// FromWire builds the destination described by w.
// Identifiers that the variant does not carry are ignored.
func FromWire(w Wire) (Destination, error) {
	switch w.Kind {
	case KindDashboard:
		return Dashboard{}, nil
	case KindSettings:
		return Settings{}, nil
	case KindUnknown:
		return Unknown{}, nil
	case KindLiftDetails:
		id, err := required(w.Kind, "lift_id", w.LiftID)
		if err != nil {
			return nil, err
		}
		return LiftDetails{LiftID: id}, nil
	case KindEditLift:
		return EditLift{LiftID: optional(w.LiftID)}, nil
	case KindVariationDetails:
		id, err := required(w.Kind, "variation_id", w.VariationID)
		if err != nil {
			return nil, err
		}
		return VariationDetails{VariationID: id}, nil
	case KindEditVariation:
		id, err := required(w.Kind, "variation_id", w.VariationID)
		if err != nil {
			return nil, err
		}
		return EditVariation{VariationID: id}, nil
	case KindEditSet:
		return EditSet{
			SetID:       optional(w.SetID),
			LiftID:      optional(w.LiftID),
			VariationID: optional(w.VariationID),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}
}

func required(kind Kind, field string, v *string) (string, error) {
	if v == nil || *v == "" {
		return "", fmt.Errorf("%w: %s requires %s", ErrMissingField, kind, field)
	}
	return *v, nil
}

// DecodeMap decodes a loosely typed map (config files, tool arguments) into a destination.
// Numeric identifiers are accepted and converted to strings; unknown keys are rejected.
func DecodeMap(m map[string]any) (Destination, error) {
	var w Wire
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &w,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode destination: %w", err)
	}
	return FromWire(w)
}

// MarshalDestination encodes d as JSON in its wire form.
func MarshalDestination(d Destination) ([]byte, error) {
	return json.Marshal(ToWire(d))
}

// UnmarshalDestination decodes a JSON wire form.
func UnmarshalDestination(data []byte) (Destination, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal destination: %w", err)
	}
	return FromWire(w)
}
