package cm

import "github.com/nasa-jpl/canon-mc/gcm"

// SetFeedOverrideEnable implements M50 (enable)/M50 P0 (disable): gates
// whether FeedOverrideFactor is applied downstream.
func (m *Machine) SetFeedOverrideEnable(on bool) error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.FeedOverrideEnable = on })
	return nil
}

// SetTraverseOverrideEnable implements M50.1-class machines that gate
// traverse override separately from feed override.
func (m *Machine) SetTraverseOverrideEnable(on bool) error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.TraverseOverrideEnable = on })
	return nil
}

// SetSpindleOverrideEnable implements M51 (enable)/M51 P0 (disable).
func (m *Machine) SetSpindleOverrideEnable(on bool) error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.SpindleOverrideEnable = on })
	return nil
}

// OverrideAllOff implements M48/M49's combined form in some dialects: M49
// disables every override at once; this build exposes it as a convenience
// separate from the three individual M50/M51-class calls.
func (m *Machine) OverrideAllOff() error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) {
		gmx.FeedOverrideEnable = false
		gmx.TraverseOverrideEnable = false
		gmx.SpindleOverrideEnable = false
	})
	return nil
}

// SetFeedOverrideFactor sets the feed override factor, clamped to
// Overrides.Feed (spec.md §7: out-of-range override factors are clamped,
// not rejected).
func (m *Machine) SetFeedOverrideFactor(factor float64) error {
	factor = m.Overrides.Feed.clamp(factor)
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.FeedOverrideFactor = factor })
	return nil
}

// SetTraverseOverrideFactor sets the traverse override factor, clamped to
// Overrides.Traverse.
func (m *Machine) SetTraverseOverrideFactor(factor float64) error {
	factor = m.Overrides.Traverse.clamp(factor)
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.TraverseOverrideFactor = factor })
	return nil
}

// SetSpindleOverrideFactor sets the spindle override factor, clamped to
// Overrides.Spindle.
func (m *Machine) SetSpindleOverrideFactor(factor float64) error {
	factor = m.Overrides.Spindle.clamp(factor)
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.SpindleOverrideFactor = factor })
	return nil
}

// EffectiveFeedRate returns gm.FeedRate scaled by the feed override factor
// if enabled, the value the downstream runtime should actually execute at
// (spec.md §4.A "overrides apply at the runtime boundary, never mutate the
// stored command").
func (m *Machine) EffectiveFeedRate() float64 {
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	if !gmx.FeedOverrideEnable {
		return gm.FeedRate
	}
	return gm.FeedRate * gmx.FeedOverrideFactor
}

// EffectiveSpindleSpeed returns gm.SpindleSpeed scaled by the spindle
// override factor if enabled.
func (m *Machine) EffectiveSpindleSpeed() float64 {
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	if !gmx.SpindleOverrideEnable {
		return gm.SpindleSpeed
	}
	return gm.SpindleSpeed * gmx.SpindleOverrideFactor
}

// QueueFlush implements M0/M1-class and explicit flush requests: drops
// every not-yet-started planner buffer. It does not touch the state
// machine directly -- the cycle sequencer observes QueueEmpty() on its own
// and drives CycleEnd (spec.md §4.F).
func (m *Machine) QueueFlush() error {
	m.Planner.FlushQueue()
	return nil
}

// ProgramEnd implements M2/M30: resets gm/gmx to power-on defaults (minus
// the offset table, which is independent persistent state) and transitions
// the state machine to PROGRAM_END.
func (m *Machine) ProgramEnd() error {
	m.Planner.FlushQueue()
	m.Store.ResetToDefaults()
	m.State.ProgramEnd()
	return nil
}
