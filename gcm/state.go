package gcm

import "sync"

// MachineState is the top-level state of the automaton (spec.md §4.E).
type MachineState int

// Machine states.
const (
	MachineInitializing MachineState = iota
	MachineReady
	MachineAlarm
	MachineProgramStop
	MachineProgramEnd
	MachineCycle
)

func (m MachineState) String() string {
	switch m {
	case MachineInitializing:
		return "INITIALIZING"
	case MachineReady:
		return "READY"
	case MachineAlarm:
		return "ALARM"
	case MachineProgramStop:
		return "PROGRAM_STOP"
	case MachineProgramEnd:
		return "PROGRAM_END"
	case MachineCycle:
		return "CYCLE"
	default:
		return "UNKNOWN"
	}
}

// CycleState is the sub-state active while MachineState == MachineCycle.
type CycleState int

// Cycle states.
const (
	CycleOff CycleState = iota
	CycleMachining
	CycleProbe
	CycleHoming
	CycleJog
)

func (c CycleState) String() string {
	switch c {
	case CycleOff:
		return "OFF"
	case CycleMachining:
		return "MACHINING"
	case CycleProbe:
		return "PROBE"
	case CycleHoming:
		return "HOMING"
	case CycleJog:
		return "JOG"
	default:
		return "UNKNOWN"
	}
}

// MotionState describes whether the runtime is moving.
type MotionState int

// Motion states.
const (
	MotionStop MotionState = iota
	MotionRun
	MotionHold
)

func (m MotionState) String() string {
	switch m {
	case MotionStop:
		return "STOP"
	case MotionRun:
		return "RUN"
	case MotionHold:
		return "HOLD"
	default:
		return "UNKNOWN"
	}
}

// HoldState is the feedhold sub-FSM (spec.md §4.E).
type HoldState int

// Hold states.
const (
	HoldOff HoldState = iota
	HoldSync
	HoldPlan
	HoldDecel
	HoldHeld
	HoldEndHold
)

func (h HoldState) String() string {
	switch h {
	case HoldOff:
		return "OFF"
	case HoldSync:
		return "SYNC"
	case HoldPlan:
		return "PLAN"
	case HoldDecel:
		return "DECEL"
	case HoldHeld:
		return "HOLD"
	case HoldEndHold:
		return "END_HOLD"
	default:
		return "UNKNOWN"
	}
}

// HomingState is the coarse homing flag; the per-axis progression is
// tracked separately by the cycle sequencer (spec.md §4.F).
type HomingState int

// Homing states.
const (
	HomingNotHomed HomingState = iota
	HomingHomed
)

func (h HomingState) String() string {
	if h == HomingHomed {
		return "HOMED"
	}
	return "NOT_HOMED"
}

// CombinedState is the external, reporting-facing projection of the four
// sub-FSMs (spec.md §4.E table).
type CombinedState int

// Combined states, in the order spec.md's table lists them.
const (
	CombinedInitializing CombinedState = iota
	CombinedAlarm
	CombinedReady
	CombinedProgramStop
	CombinedProgramEnd
	CombinedHoming
	CombinedProbe
	CombinedJog
	CombinedRun
	CombinedHold
	CombinedCycle
)

func (c CombinedState) String() string {
	switch c {
	case CombinedInitializing:
		return "INITIALIZING"
	case CombinedAlarm:
		return "ALARM"
	case CombinedReady:
		return "READY"
	case CombinedProgramStop:
		return "PROGRAM_STOP"
	case CombinedProgramEnd:
		return "PROGRAM_END"
	case CombinedHoming:
		return "HOMING"
	case CombinedProbe:
		return "PROBE"
	case CombinedJog:
		return "JOG"
	case CombinedRun:
		return "RUN"
	case CombinedHold:
		return "HOLD"
	case CombinedCycle:
		return "CYCLE"
	default:
		return "UNKNOWN"
	}
}

// StateMachine holds the live machine/cycle/motion/hold/homing automaton
// state (spec.md §4.E) plus the per-axis homed flags. It is mutated only by
// the main dispatcher (spec.md §5); the mutex exists to let the reporting
// adapter read consistent snapshots from a concurrent HTTP handler without
// stepping on the dispatcher goroutine.
type StateMachine struct {
	mu sync.RWMutex

	machine MachineState
	cycle   CycleState
	motion  MotionState
	hold    HoldState
	homing  HomingState

	homed [AxisCount]bool
}

// NewStateMachine returns a StateMachine in the INITIALIZING state.
func NewStateMachine() *StateMachine {
	return &StateMachine{machine: MachineInitializing}
}

// Init transitions INITIALIZING -> READY. Idempotent.
func (s *StateMachine) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = MachineReady
}

// Combined computes the external combined-state projection per spec.md
// §4.E's table.
func (s *StateMachine) Combined() CombinedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combinedLocked()
}

func (s *StateMachine) combinedLocked() CombinedState {
	switch s.machine {
	case MachineInitializing:
		return CombinedInitializing
	case MachineAlarm:
		return CombinedAlarm
	case MachineReady:
		return CombinedReady
	case MachineProgramStop:
		return CombinedProgramStop
	case MachineProgramEnd:
		return CombinedProgramEnd
	case MachineCycle:
		switch {
		case s.cycle == CycleHoming:
			return CombinedHoming
		case s.cycle == CycleProbe:
			return CombinedProbe
		case s.cycle == CycleJog:
			return CombinedJog
		case s.motion == MotionRun:
			return CombinedRun
		case s.motion == MotionHold:
			return CombinedHold
		default:
			return CombinedCycle
		}
	default:
		return CombinedInitializing
	}
}

// CycleStart transitions READY|PROGRAM_STOP|PROGRAM_END -> CYCLE/MACHINING/RUN.
// It is idempotent if the machine is already cycling, and if currently
// holding it initiates end_hold instead (spec.md §4.E).
func (s *StateMachine) CycleStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == MachineCycle && s.hold == HoldHeld {
		s.hold = HoldEndHold
		return
	}
	if s.machine == MachineCycle {
		return // idempotent
	}
	switch s.machine {
	case MachineReady, MachineProgramStop, MachineProgramEnd:
		s.machine = MachineCycle
		s.cycle = CycleMachining
		s.motion = MotionRun
	}
}

// CycleEnd fires when the planner reports empty and no hold is active:
// cycle -> off, motion -> stop, machine -> program_stop.
func (s *StateMachine) CycleEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold != HoldOff {
		return
	}
	s.cycle = CycleOff
	s.motion = MotionStop
	s.machine = MachineProgramStop
}

// ProgramEnd implements M2/M30's state-machine half: cycle_end behavior,
// landing on PROGRAM_END rather than PROGRAM_STOP. Resetting gm/gmx is the
// caller's (cm package's) responsibility.
func (s *StateMachine) ProgramEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycle = CycleOff
	s.motion = MotionStop
	s.hold = HoldOff
	s.machine = MachineProgramEnd
}

// Feedhold requests a decel-to-stop. Only meaningful while cycling with
// motion running; a no-op (ignored, per spec.md §7 cycle errors) otherwise.
func (s *StateMachine) Feedhold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine != MachineCycle || s.motion != MotionRun {
		return
	}
	s.hold = HoldSync
}

// AdvanceHold steps the hold sub-FSM by one stage: sync -> plan -> decel ->
// hold. Called by the cycle sequencer once per dispatch tick while a hold
// is in progress (spec.md §4.F).
func (s *StateMachine) AdvanceHold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.hold {
	case HoldSync:
		s.hold = HoldPlan
	case HoldPlan:
		s.hold = HoldDecel
	case HoldDecel:
		s.hold = HoldHeld
		s.motion = MotionHold
	case HoldEndHold:
		s.hold = HoldOff
		s.motion = MotionRun
	}
}

// EnterCycle transitions to MACHINE_CYCLE/CYCLE_MACHINING/MOTION_RUN if not
// already there; every motion command calls this before enqueuing (spec.md
// §4.D).
func (s *StateMachine) EnterCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine != MachineCycle {
		s.machine = MachineCycle
		s.cycle = CycleMachining
	}
	if s.motion == MotionStop {
		s.motion = MotionRun
	}
}

// EnterSubCycle transitions into a non-machining cycle kind (homing, probe,
// jog) used by the cycle sequencer.
func (s *StateMachine) EnterSubCycle(c CycleState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = MachineCycle
	s.cycle = c
	s.motion = MotionRun
}

// ExitSubCycle returns from a non-machining cycle back to off/stop, used on
// homing/probe completion.
func (s *StateMachine) ExitSubCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycle = CycleOff
	s.motion = MotionStop
	s.machine = MachineProgramStop
}

// Alarm forces the ALARM state from any state; requires an explicit Clear.
func (s *StateMachine) Alarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = MachineAlarm
	s.cycle = CycleOff
	s.motion = MotionStop
	s.hold = HoldOff
	// an alarm invalidates any prior homing result (spec.md §3 invariant:
	// homed[axis] implies no alarm since the last successful homing cycle).
	for i := range s.homed {
		s.homed[i] = false
	}
}

// Clear resets from ALARM back to READY. It does not clear homed flags.
func (s *StateMachine) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == MachineAlarm {
		s.machine = MachineReady
	}
}

// InAlarm reports whether the machine is currently alarmed.
func (s *StateMachine) InAlarm() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine == MachineAlarm
}

// Hold returns the current hold sub-state.
func (s *StateMachine) Hold() HoldState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hold
}

// Motion returns the current motion sub-state.
func (s *StateMachine) Motion() MotionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.motion
}

// Cycle returns the current cycle sub-state.
func (s *StateMachine) Cycle() CycleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycle
}

// Machine returns the current top-level machine state.
func (s *StateMachine) Machine() MachineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine
}

// SetHomed marks an axis as homed or not. homed[axis] = true implies a
// prior successful homing cycle exists since the last alarm (spec.md
// invariant, §3).
func (s *StateMachine) SetHomed(a Axis, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homed[a] = v
}

// Homed reports whether an axis has completed homing since the last alarm.
func (s *StateMachine) Homed(a Axis) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.homed[a]
}

// AllHomed reports whether every axis whose mode is not disabled has been
// homed. Callers pass the config so disabled axes don't block readiness.
func (s *StateMachine) AllHomed(cfg *[AxisCount]AxisConfig) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 0; i < AxisCount; i++ {
		if cfg[i].Mode == AxisModeDisabled {
			continue
		}
		if !s.homed[i] {
			return false
		}
	}
	return true
}
