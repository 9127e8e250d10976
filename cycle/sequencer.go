// Package cycle is the cycle sequencer (spec.md §4.F): the cooperative,
// per-tick dispatcher that advances feedholds, homing cycles, and probe
// cycles without blocking the block-execution goroutine. Grounded on
// fsm.Disturbance's channel-driven play/pause/resume/stop loop, generalized
// from a fixed-playback cursor to the canonical machine's three latch
// classes, and rate-limited the way nkt.AddressScan paces its telegram
// loop with golang.org/x/time/rate.
package cycle

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/gcm"
)

// ErrNotRunning is returned by Stop when the sequencer's loop was never
// started.
var ErrNotRunning = errors.New("cycle sequencer is not running")

// Sensor abstracts the homing-switch and probe-trigger inputs the
// sequencer polls once per tick. The real controller backs this with
// limit-switch/probe hardware; tests and the demo cmd use a software
// fake (spec.md §6 "the homing switch and probe trigger are modeled as
// boolean inputs polled once per tick").
type Sensor interface {
	// HomeSwitch reports whether axis's home switch is currently tripped.
	HomeSwitch(axis gcm.Axis) bool
	// ProbeTripped reports whether the probe input is currently tripped.
	ProbeTripped() bool
}

// homingPhase is one axis's progress through its homing cycle.
type homingPhase int

const (
	phaseSearch homingPhase = iota
	phaseBackoffFromSwitch
	phaseLatch
	phaseZero
	phaseDone
)

type homingRun struct {
	axis  gcm.Axis
	phase homingPhase
	// traveled is the simulated distance covered in the current phase,
	// used only to bound phaseSearch against runaway travel.
	traveled float64
}

type probeRun struct {
	target   gcm.Vector
	flags    gcm.Flags
	traveled float64
	maxTravel float64
}

// Sequencer drives one Machine's feedhold sub-FSM, homing cycles, and
// probe cycles via a background goroutine that ticks at a configured
// rate. Requests are latched from any goroutine via the Request* methods,
// under a mutex held only long enough to set or read the latch, and
// drained one step per tick, so the caller issuing a request never blocks
// on how long homing or a decel actually takes (spec.md §4.F).
type Sequencer struct {
	Machine *cm.Machine
	Sensor  Sensor
	Axes    *[gcm.AxisCount]gcm.AxisConfig

	mu sync.Mutex

	feedholdRequested bool
	flushRequested    bool
	cycleStartRequest bool

	homing *homingRun
	probe  *probeRun

	limiter *rate.Limiter
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a Sequencer for machine, ticking at ticksPerSecond.
func New(machine *cm.Machine, sensor Sensor, axes *[gcm.AxisCount]gcm.AxisConfig, ticksPerSecond float64) *Sequencer {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 100
	}
	return &Sequencer{
		Machine: machine,
		Sensor:  sensor,
		Axes:    axes,
		limiter: rate.NewLimiter(rate.Limit(ticksPerSecond), 1),
	}
}

// Run starts the tick loop in a background goroutine. It returns
// immediately; call Stop to terminate the loop.
func (s *Sequencer) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			s.tick()
		}
	}()
}

// Stop terminates the tick loop and waits for it to exit.
func (s *Sequencer) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()
	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

// RequestFeedhold latches a feedhold request, consumed on the next tick.
func (s *Sequencer) RequestFeedhold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedholdRequested = true
}

// RequestQueueFlush latches a queue-flush request.
func (s *Sequencer) RequestQueueFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushRequested = true
}

// RequestCycleStart latches a cycle-start (or end-hold) request.
func (s *Sequencer) RequestCycleStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleStartRequest = true
}

// RequestHoming latches a homing cycle for axis, entering CYCLE_HOMING.
// A homing request already in progress for a different axis is ignored
// (spec.md §4.F: homing is serialized one axis at a time in this build).
func (s *Sequencer) RequestHoming(axis gcm.Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.homing != nil {
		return
	}
	s.homing = &homingRun{axis: axis, phase: phaseSearch}
	s.Machine.State.EnterSubCycle(gcm.CycleHoming)
}

// RequestProbe latches a probe cycle toward target, entering CYCLE_PROBE.
func (s *Sequencer) RequestProbe(target gcm.Vector, flags gcm.Flags, maxTravel float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.probe != nil {
		return
	}
	s.probe = &probeRun{target: target, flags: flags, maxTravel: maxTravel}
	s.Machine.State.EnterSubCycle(gcm.CycleProbe)
}

// tick runs exactly one step of whichever requests are pending, highest
// priority first: feedhold/hold-advance, then flush, then cycle-start,
// then homing, then probe, then ordinary cycle-end detection. This mirrors
// spec.md §4.F's stated priority ("a feedhold in progress takes precedence
// over completing a homing or probe step").
func (s *Sequencer) tick() {
	s.mu.Lock()
	feedhold := s.feedholdRequested
	flush := s.flushRequested
	cycleStart := s.cycleStartRequest
	s.feedholdRequested = false
	s.flushRequested = false
	s.cycleStartRequest = false
	s.mu.Unlock()

	if feedhold {
		s.Machine.State.Feedhold()
	}
	if hold := s.Machine.State.Hold(); hold != gcm.HoldOff {
		// a cycle-start request while fully held begins end_hold rather
		// than advancing the sync/plan/decel ladder -- AdvanceHold has no
		// case for HoldHeld, so without this the request's latch would be
		// cleared with nothing to show for it and the machine would never
		// leave HOLD (spec.md §4.F priority rule 3).
		if hold == gcm.HoldHeld && cycleStart {
			s.Machine.State.CycleStart()
		} else {
			s.Machine.State.AdvanceHold()
		}
		return
	}
	if flush {
		s.Machine.QueueFlush()
	}
	if cycleStart {
		s.Machine.State.CycleStart()
	}

	s.mu.Lock()
	homing := s.homing
	probe := s.probe
	s.mu.Unlock()

	switch {
	case homing != nil:
		s.stepHoming(homing)
	case probe != nil:
		s.stepProbe(probe)
	default:
		if s.Machine.Planner.QueueEmpty() && !s.Machine.Planner.RuntimeBusy() {
			s.Machine.State.CycleEnd()
		}
	}
}

// stepHoming advances one axis one phase per tick: search for the switch,
// back off it, latch in slowly, then zero the canonical position and mark
// the axis homed (spec.md §4.F "homing_callback").
func (s *Sequencer) stepHoming(run *homingRun) {
	cfg := s.Axes[run.axis]
	switch run.phase {
	case phaseSearch:
		run.traveled += cfg.Homing.SearchVelocity / 100 // one tick's worth of travel at this rate
		if s.Sensor.HomeSwitch(run.axis) {
			run.phase = phaseBackoffFromSwitch
			run.traveled = 0
			return
		}
		if run.traveled >= cfg.TravelMax-cfg.TravelMin {
			s.finishHoming(run, gcm.ErrHomingSwitchNotFound)
			return
		}
	case phaseBackoffFromSwitch:
		run.traveled += cfg.Homing.LatchBackoff / 10
		if run.traveled >= cfg.Homing.LatchBackoff {
			run.phase = phaseLatch
			run.traveled = 0
		}
	case phaseLatch:
		run.traveled += cfg.Homing.LatchVelocity / 100
		if s.Sensor.HomeSwitch(run.axis) {
			run.phase = phaseZero
		}
	case phaseZero:
		s.Machine.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) {
			gmx.Position[run.axis] = cfg.Homing.ZeroBackoff
		})
		run.phase = phaseDone
	case phaseDone:
		s.finishHoming(run, nil)
	}
}

func (s *Sequencer) finishHoming(run *homingRun, err error) {
	s.mu.Lock()
	s.homing = nil
	s.mu.Unlock()
	s.Machine.State.SetHomed(run.axis, err == nil)
	s.Machine.State.ExitSubCycle()
}

// stepProbe advances a probe cycle one increment per tick until the probe
// trips or the configured travel is exhausted (spec.md §4.F
// "probe_callback").
func (s *Sequencer) stepProbe(run *probeRun) {
	const stepMM = 0.05
	if s.Sensor.ProbeTripped() {
		gmx := s.Machine.Store.GMX()
		s.Machine.Store.MutateGMX(func(g *gcm.GCodeStateExt) {
			for i := 0; i < gcm.AxisCount; i++ {
				if run.flags[i] {
					g.Position[i] = gmx.Position[i]
				}
			}
		})
		s.finishProbe(nil)
		return
	}
	run.traveled += stepMM
	if run.traveled >= run.maxTravel {
		s.finishProbe(gcm.ErrProbeNotTriggered)
		return
	}
	gmx := s.Machine.Store.GMX()
	s.Machine.Store.MutateGMX(func(g *gcm.GCodeStateExt) {
		for i := 0; i < gcm.AxisCount; i++ {
			if !run.flags[i] {
				continue
			}
			dir := 1.0
			if run.target[i] < gmx.Position[i] {
				dir = -1.0
			}
			g.Position[i] += dir * stepMM
		}
	})
}

func (s *Sequencer) finishProbe(err error) {
	s.mu.Lock()
	s.probe = nil
	s.mu.Unlock()
	if err != nil {
		s.Machine.State.Alarm()
	}
	s.Machine.State.ExitSubCycle()
}
