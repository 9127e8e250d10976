// Package cm is the canonical command API -- the cm_* surface the parser
// calls (spec.md §4.D). Every exported method validates its inputs, updates
// gm/gmx through the gcm.Store, and where it causes motion, hands a
// GCodeState snapshot to the downstream planner.
package cm

import (
	"fmt"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/mathx"
	"github.com/nasa-jpl/canon-mc/planner"
)

// OverrideLimits bounds the feed/traverse/spindle override factors that
// apply at M-code time (spec.md §7 "Range": override factor out of range
// is clamped, not an error).
type OverrideLimits struct {
	Feed     gcmLimiter
	Traverse gcmLimiter
	Spindle  gcmLimiter
}

// gcmLimiter is a [min, max] window clamped via mathx.Clamp.
type gcmLimiter struct {
	Min, Max float64
}

func (l gcmLimiter) clamp(v float64) float64 {
	return mathx.Clamp(v, l.Min, l.Max)
}

// DefaultOverrideLimits returns the conventional 10%-200% window used by
// most G-code controllers for feed/traverse and 50%-150% for spindle.
func DefaultOverrideLimits() OverrideLimits {
	return OverrideLimits{
		Feed:     gcmLimiter{Min: 0.1, Max: 2.0},
		Traverse: gcmLimiter{Min: 0.1, Max: 2.0},
		Spindle:  gcmLimiter{Min: 0.5, Max: 1.5},
	}
}

// Machine is the canonical machine: the gcm.Store + gcm.StateMachine it
// owns, the per-axis configuration it was built with, and the planner it
// dispatches motion into (spec.md §3 "Controller singleton").
type Machine struct {
	Store *gcm.Store
	State *gcm.StateMachine

	Axes      [gcm.AxisCount]gcm.AxisConfig
	Overrides OverrideLimits

	Planner planner.Planner

	// Machine keeps no G10 persistence flag of its own: SetCoordOffsets
	// writes through gcm.Store.SetOffset, which arms
	// gcm.Store.G10PersistFlag for the config store to poll on an idle
	// tick, as spec.md §6 describes.

	// jogEnabled, jogVelocity and jogSync back the manual/jog HTTP control
	// surface in jog.go. gm/gmx carry no notion of "is this axis armed for
	// manual motion" or "what velocity does MoveAbs/MoveRel use" -- those
	// are runtime-only state a downstream controller like aerotech.Ensemble
	// would track on the controller itself, so cm.Machine keeps the same
	// split here.
	jogEnabled  [gcm.AxisCount]bool
	jogVelocity [gcm.AxisCount]float64
	jogSync     bool
}

// New returns a Machine wired to the given planner and axis configuration,
// with gm/gmx at power-on defaults and the state machine initialized to
// READY.
func New(p planner.Planner, axes [gcm.AxisCount]gcm.AxisConfig) *Machine {
	m := &Machine{
		Store:     gcm.NewStore(),
		State:     gcm.NewStateMachine(),
		Axes:      axes,
		Overrides: DefaultOverrideLimits(),
		Planner:   p,
	}
	for i := range m.jogEnabled {
		m.jogEnabled[i] = true
	}
	m.State.Init()
	return m
}

// checkTravel enforces the soft-limit supplement from SPEC_FULL.md §11.1:
// a commanded target may not exceed the configured travel window. It
// returns ErrTravelExceeded rather than clamping, since spec.md §7 treats
// travel overrun as a validity/range error that discards the block (unlike
// override factors, which the same section says are "soft-clamped").
func (m *Machine) checkTravel(target gcm.Vector, flags gcm.Flags) error {
	for i := 0; i < gcm.AxisCount; i++ {
		if !flags[i] {
			continue
		}
		cfg := m.Axes[i]
		if cfg.Mode == gcm.AxisModeDisabled {
			continue
		}
		if target[i] > cfg.TravelMax || target[i] < cfg.TravelMin {
			return fmt.Errorf("%w: axis %s target %.4f outside [%.4f, %.4f]",
				gcm.ErrTravelExceeded, gcm.Axis(i), target[i], cfg.TravelMin, cfg.TravelMax)
		}
	}
	return nil
}

// requireNotAlarmed returns ErrAlarm if the machine is currently alarmed;
// every motion-causing cm_* call must check this first (spec.md §7).
func (m *Machine) requireNotAlarmed() error {
	if m.State.InAlarm() {
		return gcm.ErrAlarm
	}
	return nil
}

// enqueue reserves a planner buffer, snapshots gm into it, and commits it
// with the given kind -- the "copy gm to a planner buffer" step every
// motion command performs (spec.md §4.D, §9 "Snapshot semantics").
func (m *Machine) enqueue(kind planner.Kind, dwellSeconds float64) error {
	h, err := m.Planner.Reserve()
	if err != nil {
		return fmt.Errorf("%w: %v", gcm.ErrQueueFull, err)
	}
	var snap gcm.GCodeState
	m.Store.SnapshotInto(&snap)
	if err := m.Planner.Commit(h, snap, kind, dwellSeconds); err != nil {
		return fmt.Errorf("%w: %v", gcm.ErrQueueFull, err)
	}
	return nil
}

// Message delivers text to the reporter immediately, out-of-band (spec.md
// §4.D). The canonical machine has no reporter reference of its own (that
// lives in generichttp/canon), so Message is just a typed pass-through a
// caller can subscribe to.
type MessageFunc func(string)

func (m *Machine) Message(text string, sink MessageFunc) {
	if sink != nil {
		sink(text)
	}
}
