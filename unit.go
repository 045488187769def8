package turbinesim

import (
	"errors"
	"fmt"
)

// ErrUnknownUnit is returned when a unit ID is not present in the registry.
var ErrUnknownUnit = errors.New("unknown unit")

// Status is the static operational classification of a unit as shown on the
// dashboard. It is configuration, not derived from telemetry.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNormal, StatusWarning, StatusCritical:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so a Status can be
// decoded from yaml entries via mapstructure's TextUnmarshallerHookFunc.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// BehaviorProfile selects which synthetic-data distributions a unit draws
// from. It is resolved once from the registry and threaded as a parameter
// into the generator functions.
type BehaviorProfile int

const (
	// ProfileNominal units track the expected power curve within the
	// baseline envelope and draw in-range factor values.
	ProfileNominal BehaviorProfile = iota
	// ProfileWarning units dip below the envelope mid-ramp and recover.
	// Their factor draws are identical to nominal units.
	ProfileWarning
	// ProfileCritical units are faulted: power output collapses to a low
	// baseline with failed recovery attempts, and factor draws shift
	// outside their normal ranges.
	ProfileCritical
)

var profileNames = map[BehaviorProfile]string{
	ProfileNominal:  "nominal",
	ProfileWarning:  "warning",
	ProfileCritical: "critical",
}

func (p BehaviorProfile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("BehaviorProfile(%d)", int(p))
}

// ParseBehaviorProfile converts a string into a BehaviorProfile.
func ParseBehaviorProfile(s string) (BehaviorProfile, error) {
	for profile, name := range profileNames {
		if name == s {
			return profile, nil
		}
	}
	return ProfileNominal, fmt.Errorf("unknown behavior profile: %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so a profile can be
// decoded from yaml entries via mapstructure's TextUnmarshallerHookFunc.
func (p *BehaviorProfile) UnmarshalText(text []byte) error {
	parsed, err := ParseBehaviorProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p BehaviorProfile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalYAML decodes a profile from its yaml string form. yaml.v2 does
// not consult TextUnmarshaler, so this is implemented directly.
func (p *BehaviorProfile) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(name))
}

// Unit is one monitored turbine in the catalogue. Units are immutable:
// yield and status are static configuration, not derived from telemetry.
type Unit struct {
	ID           int             `json:"id" yaml:"id" mapstructure:"id"`
	Name         string          `json:"name" yaml:"name" mapstructure:"name"`
	CurrentYield float64         `json:"currentYield" yaml:"current_yield" mapstructure:"current_yield"`
	Status       Status          `json:"status" yaml:"status" mapstructure:"status"`
	Profile      BehaviorProfile `json:"-" yaml:"profile" mapstructure:"profile"`
}

// Registry is the fixed catalogue of monitored units.
type Registry struct {
	units []Unit
	byID  map[int]Unit
}

// NewRegistry builds a registry from a unit catalogue, rejecting duplicate
// or non-positive IDs.
func NewRegistry(units []Unit) (*Registry, error) {
	if len(units) == 0 {
		return nil, errors.New("registry requires at least one unit")
	}

	byID := make(map[int]Unit, len(units))
	for _, u := range units {
		if u.ID <= 0 {
			return nil, fmt.Errorf("unit %q: id must be positive, got %d", u.Name, u.ID)
		}
		if _, exists := byID[u.ID]; exists {
			return nil, fmt.Errorf("duplicate unit id %d", u.ID)
		}
		byID[u.ID] = u
	}

	return &Registry{
		units: append([]Unit(nil), units...),
		byID:  byID,
	}, nil
}

// DefaultRegistry returns the built-in six-unit wind farm catalogue. Unit 4
// carries the degraded-but-recovering profile and unit 6 the faulted one.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(DefaultUnits())
	if err != nil {
		// The built-in catalogue is a compile-time constant; a failure
		// here is a programming error.
		panic(err)
	}
	return registry
}

// DefaultUnits returns the built-in unit catalogue.
func DefaultUnits() []Unit {
	return []Unit{
		{ID: 1, Name: "WTG-01", CurrentYield: 97.4, Status: StatusNormal, Profile: ProfileNominal},
		{ID: 2, Name: "WTG-02", CurrentYield: 95.1, Status: StatusNormal, Profile: ProfileNominal},
		{ID: 3, Name: "WTG-03", CurrentYield: 96.8, Status: StatusNormal, Profile: ProfileNominal},
		{ID: 4, Name: "WTG-04", CurrentYield: 81.3, Status: StatusWarning, Profile: ProfileWarning},
		{ID: 5, Name: "WTG-05", CurrentYield: 94.6, Status: StatusNormal, Profile: ProfileNominal},
		{ID: 6, Name: "WTG-06", CurrentYield: 42.7, Status: StatusCritical, Profile: ProfileCritical},
	}
}

// Units returns the catalogue in its configured order.
func (r *Registry) Units() []Unit {
	return append([]Unit(nil), r.units...)
}

// UnitByID returns the unit with the given ID, or ErrUnknownUnit.
func (r *Registry) UnitByID(id int) (Unit, error) {
	unit, ok := r.byID[id]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	return unit, nil
}
