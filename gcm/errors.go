package gcm

import "errors"

// Error taxonomy per spec.md §7. Every cm_* operation returns one of these
// (wrapped with context via fmt.Errorf("...: %w", err)) or nil.
var (
	// ErrModalGroupViolation is returned when a block sets more than one
	// word of the same modal group (other than group 0 alongside group 1).
	ErrModalGroupViolation = errors.New("modal group violation")

	// ErrFeedRateNotSet is returned by straight_feed when feed_rate is zero
	// and inverse feed rate mode is not active.
	ErrFeedRateNotSet = errors.New("feed rate not set")

	// ErrArcAmbiguous is returned when both a radius and center-form IJK
	// are given for an arc.
	ErrArcAmbiguous = errors.New("arc specifies both radius and center offsets")

	// ErrArcUnderspecified is returned when neither a radius nor any of
	// IJK is given for an arc.
	ErrArcUnderspecified = errors.New("arc specifies neither radius nor center offsets")

	// ErrAxisNotHomed is returned when a motion command requires a homed
	// axis and homed[axis] is false.
	ErrAxisNotHomed = errors.New("axis not homed")

	// ErrInvalidCoordSystem is returned by set_coord_system for an index
	// outside the configured coordinate-system table.
	ErrInvalidCoordSystem = errors.New("invalid coordinate system index")

	// ErrInvalidAxis is returned when an axis letter does not map to a
	// compiled-in axis.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrTravelExceeded is returned when a commanded target would exceed
	// an axis's configured travel limits.
	ErrTravelExceeded = errors.New("target exceeds axis travel limit")

	// ErrQueueFull is a transient resource error: the planner has no free
	// buffer. Callers should retry the same block on the next dispatcher
	// iteration.
	ErrQueueFull = errors.New("planner queue full")

	// ErrIntegrity is raised when a memory-integrity check fails; it is
	// always fatal and forces the ALARM state.
	ErrIntegrity = errors.New("memory integrity check failed")

	// ErrProbeNotTriggered is returned when a probe cycle exhausts its
	// configured travel without a contact trigger.
	ErrProbeNotTriggered = errors.New("probe failed to trigger within travel")

	// ErrHomingSwitchNotFound is returned when a homing cycle exhausts its
	// search travel without finding the home switch.
	ErrHomingSwitchNotFound = errors.New("homing switch never hit")

	// ErrAlarm is returned by any motion command while the machine is in
	// the ALARM state.
	ErrAlarm = errors.New("machine is in alarm state, reset required")

	// ErrWrongState is returned when an operation is requested in a state
	// that cannot legally accept it (e.g. cycle_start with nothing queued).
	ErrWrongState = errors.New("operation not legal in current state")

	// ErrAxisDisabled is returned by manual/jog motion requests against an
	// axis that has not been armed via Enable.
	ErrAxisDisabled = errors.New("axis disabled")
)
