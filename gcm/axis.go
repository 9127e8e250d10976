// Package gcm holds the canonical machining model: the normalized G-code
// state (gm/gmx), the per-axis configuration, the unit and work-offset
// kernel, and the machine/cycle/motion state automaton. It is the in-memory
// "where is the machine, what units, what coordinate system" layer that
// sits beneath the cm package's command surface.
package gcm

import "fmt"

// AxisCount is the compile-time arity of the machine. Six linear/rotary
// axes (X Y Z A B C) covers the conventional RS274/NGC set.
const AxisCount = 6

// Axis indexes into the fixed axis tuple.
type Axis int

// The conventional RS274/NGC axis tuple.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
)

var axisNames = [AxisCount]string{"X", "Y", "Z", "A", "B", "C"}

// String returns the single-letter axis name.
func (a Axis) String() string {
	if a < 0 || int(a) >= AxisCount {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// AxisFromLetter returns the Axis for a single-letter name, or an error if
// the letter is not one of the compiled-in axes.
func AxisFromLetter(s string) (Axis, error) {
	for i, n := range axisNames {
		if n == s {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Vector is a fixed-arity per-axis value, used throughout gm/gmx for
// targets, positions, and offsets. All values are mm or mm/min unless
// documented otherwise at the call site.
type Vector [AxisCount]float64

// Flags is a fixed-arity per-axis presence bitset, the gf half of an
// input-tier (gn, gf) pair (spec.md §3).
type Flags [AxisCount]bool

// AnySet reports whether any axis flag is set.
func (f Flags) AnySet() bool {
	for _, b := range f {
		if b {
			return true
		}
	}
	return false
}

// AxisMode is the operating mode of a single axis.
type AxisMode int

// Axis modes, per spec.md §3 per-axis configuration.
const (
	AxisModeDisabled AxisMode = iota
	AxisModeStandard
	AxisModeInhibited
	AxisModeRadius
)

// AxisConfig is the persistent, per-axis configuration (spec.md §3).
type AxisConfig struct {
	Mode AxisMode `yaml:"mode" koanf:"mode"`

	// FeedrateMax is the maximum feedrate, mm/min or deg/min.
	FeedrateMax float64 `yaml:"feedrateMax" koanf:"feedrateMax"`

	// VelocityMax is the maximum traverse velocity, mm/min or deg/min.
	VelocityMax float64 `yaml:"velocityMax" koanf:"velocityMax"`

	// TravelMax is the maximum travel, mm or deg.
	TravelMax float64 `yaml:"travelMax" koanf:"travelMax"`

	// TravelMin is the minimum travel, mm or deg.
	TravelMin float64 `yaml:"travelMin" koanf:"travelMin"`

	// JerkMax is the maximum jerk, mm/min^3, scaled by 1e6 in config files
	// for human readability; stored here already descaled.
	JerkMax float64 `yaml:"jerkMax" koanf:"jerkMax"`

	// JerkHoming is the homing jerk, same units as JerkMax.
	JerkHoming float64 `yaml:"jerkHoming" koanf:"jerkHoming"`

	// JunctionDeviation is the cornering tolerance, mm.
	JunctionDeviation float64 `yaml:"junctionDeviation" koanf:"junctionDeviation"`

	// RadiusMM is the rotary radius used for radius-mode conversion, mm.
	// Unused for linear axes.
	RadiusMM float64 `yaml:"radiusMM" koanf:"radiusMM"`

	Homing HomingConfig `yaml:"homing" koanf:"homing"`
}

// HomingConfig holds the per-axis homing cycle parameters (spec.md §3).
type HomingConfig struct {
	SearchVelocity float64 `yaml:"searchVelocity" koanf:"searchVelocity"`
	LatchVelocity  float64 `yaml:"latchVelocity" koanf:"latchVelocity"`
	LatchBackoff   float64 `yaml:"latchBackoff" koanf:"latchBackoff"`
	ZeroBackoff    float64 `yaml:"zeroBackoff" koanf:"zeroBackoff"`
}

// DefaultAxisConfig returns a conservative axis configuration suitable for
// power-on defaults before a config file is loaded.
func DefaultAxisConfig() AxisConfig {
	return AxisConfig{
		Mode:              AxisModeStandard,
		FeedrateMax:       1000,
		VelocityMax:       4000,
		TravelMax:         300,
		TravelMin:         0,
		JerkMax:           20_000_000,
		JerkHoming:        10_000_000,
		JunctionDeviation: 0.01,
		RadiusMM:          50,
		Homing: HomingConfig{
			SearchVelocity: 500,
			LatchVelocity:  50,
			LatchBackoff:   5,
			ZeroBackoff:    1,
		},
	}
}
