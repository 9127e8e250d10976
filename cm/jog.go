// jog.go adapts aerotech.Ensemble's synchronous
// Enable/Disable/GetEnabled/Home/MoveAbs/MoveRel/GetPos/SetVelocity/
// GetVelocity/GetSynchronous/SetSynchronous/GetInPosition surface
// (aerotech/aerotech.go) to *Machine, giving the manual/jog HTTP control
// surface in generichttp/motion something to bind against -- separate
// from G-code program streaming through ExecuteBlock, the same way a real
// controller exposes both a jog panel and a program-execution path over
// the same axes.
package cm

import (
	"fmt"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

// Enable arms axis for jog motion. MoveAbs, MoveRel and Home all refuse a
// disabled axis.
func (m *Machine) Enable(axis string) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	m.jogEnabled[i] = true
	return nil
}

// Disable disarms axis for jog motion.
func (m *Machine) Disable(axis string) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	m.jogEnabled[i] = false
	return nil
}

// GetEnabled reports whether axis is armed for jog motion.
func (m *Machine) GetEnabled(axis string) (bool, error) {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return false, err
	}
	return m.jogEnabled[i], nil
}

func (m *Machine) requireJogEnabled(i gcm.Axis) error {
	if !m.jogEnabled[i] {
		return fmt.Errorf("%w: axis %s", gcm.ErrAxisDisabled, i)
	}
	return nil
}

// GetPos returns axis's current canonical position, mm, machine frame.
func (m *Machine) GetPos(axis string) (float64, error) {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return 0, err
	}
	return m.Store.GMX().Position[i], nil
}

// jogTo moves a single axis to an absolute target, reusing the same
// accepted-motion bookkeeping StraightTraverse performs (travel check,
// position commit, planner enqueue) but confined to one axis rather than
// a full block's target vector.
func (m *Machine) jogTo(i gcm.Axis, pos float64) error {
	if err := m.requireNotAlarmed(); err != nil {
		return err
	}
	if err := m.requireJogEnabled(i); err != nil {
		return err
	}
	target := m.Store.GMX().Position
	target[i] = pos
	var flags gcm.Flags
	flags[i] = true
	if err := m.checkTravel(target, flags); err != nil {
		return err
	}
	m.Store.SetTarget(target, flags)
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.MotionMode = gcm.MotionModeTraverse })
	m.commitPosition(target, flags)
	m.State.EnterCycle()
	return m.enqueue(planner.KindTraverse, 0)
}

// MoveAbs commands axis to an absolute position.
func (m *Machine) MoveAbs(axis string, pos float64) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	return m.jogTo(i, pos)
}

// MoveRel commands axis to move by a relative distance from its current
// canonical position.
func (m *Machine) MoveRel(axis string, dist float64) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	return m.jogTo(i, m.Store.GMX().Position[i]+dist)
}

// Home checks that axis may be homed (jog-enabled, machine not alarmed)
// and starts no motion itself; the search/latch/zero sequence runs only
// through cycle.Sequencer.RequestHoming, which drives this same Machine
// tick by tick (spec.md §4.D "homing_cycle").
func (m *Machine) Home(axis string) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	if err := m.requireJogEnabled(i); err != nil {
		return err
	}
	return m.requireNotAlarmed()
}

// Stop aborts in-progress motion on axis by requesting a feedhold; the
// jog surface has no per-axis abort, only the machine-wide one
// cycle.Sequencer.RequestFeedhold implements.
func (m *Machine) Stop(axis string) error {
	if _, err := gcm.AxisFromLetter(axis); err != nil {
		return err
	}
	m.State.Feedhold()
	return nil
}

// SetVelocity sets axis's jog traverse velocity, mm/min.
func (m *Machine) SetVelocity(axis string, vel float64) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	if vel <= 0 || vel > m.Axes[i].VelocityMax {
		return fmt.Errorf("%w: velocity %.4f outside (0, %.4f]", gcm.ErrTravelExceeded, vel, m.Axes[i].VelocityMax)
	}
	m.jogVelocity[i] = vel
	return nil
}

// GetVelocity gets axis's jog traverse velocity, mm/min.
func (m *Machine) GetVelocity(axis string) (float64, error) {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return 0, err
	}
	if m.jogVelocity[i] == 0 {
		return m.Axes[i].VelocityMax, nil
	}
	return m.jogVelocity[i], nil
}

// SetSynchronous places the jog surface in synchronous mode, where MoveAbs/
// MoveRel do not return until the planner buffer they enqueued drains
// (mirrored by the caller, cm.Machine itself has no blocking wait -- same
// scope caveat as aerotech.Ensemble.SetSynchronous: the axis argument is
// accepted but ignored, synchronicity is controller-wide).
func (m *Machine) SetSynchronous(axis string, useSync bool) error {
	if _, err := gcm.AxisFromLetter(axis); err != nil {
		return err
	}
	m.jogSync = useSync
	return nil
}

// GetSynchronous reports the jog surface's synchronous-mode setting.
func (m *Machine) GetSynchronous(axis string) (bool, error) {
	if _, err := gcm.AxisFromLetter(axis); err != nil {
		return false, err
	}
	return m.jogSync, nil
}

// GetInPosition reports whether axis's commanded and canonical positions
// match, i.e. the planner has nothing left queued that targets it.
func (m *Machine) GetInPosition(axis string) (bool, error) {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return false, err
	}
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	return gm.Target[i] == gmx.Position[i], nil
}

// Initialize brings axis out of ALARM and re-arms it for jog motion, the
// manual-control equivalent of gcm.StateMachine.Clear plus Enable.
func (m *Machine) Initialize(axis string) error {
	i, err := gcm.AxisFromLetter(axis)
	if err != nil {
		return err
	}
	m.State.Clear()
	m.jogEnabled[i] = true
	return nil
}
