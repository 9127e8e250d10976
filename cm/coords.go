package cm

import (
	"fmt"

	"github.com/nasa-jpl/canon-mc/gcm"
)

// SetCoordSystem implements G54-G59 (and the extra G10-programmable slots
// this build carries, spec.md §3): selects which offset-table row
// active_coord_offset reads from.
func (m *Machine) SetCoordSystem(index int) error {
	if index < 0 || index >= gcm.CoordSystemCount {
		return fmt.Errorf("%w: %d", gcm.ErrInvalidCoordSystem, index)
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.CoordSystem = index })
	return nil
}

// SetCoordOffsets implements G10 L2 Pn: writes the flagged axes of offset
// into the offset table row for system, and arms G10PersistFlag so the
// config store writes it through on the next idle tick (spec.md §4.D, §6).
func (m *Machine) SetCoordOffsets(system int, offset gcm.Vector, flags gcm.Flags) error {
	if system < 0 || system >= gcm.CoordSystemCount {
		return fmt.Errorf("%w: %d", gcm.ErrInvalidCoordSystem, system)
	}
	m.Store.SetOffset(system, offset, flags)
	return nil
}

// SetOriginOffsets implements G92: sets the origin offset such that the
// current position reads as the given coordinates in the active system,
// and enables it (spec.md §4.D).
func (m *Machine) SetOriginOffsets(coords gcm.Vector, flags gcm.Flags) error {
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	coordOff := m.Store.Offset(gm.CoordSystem)
	m.Store.MutateGMX(func(gmx2 *gcm.GCodeStateExt) {
		for i := 0; i < gcm.AxisCount; i++ {
			if !flags[i] {
				continue
			}
			// origin_offset[axis] + coord_off[axis] + coords[axis] ==
			// position[axis], solved for origin_offset.
			gmx2.OriginOffset[i] = gmx.Position[i] - coordOff[i] - coords[i]
		}
		gmx2.OriginOffsetEnable = true
	})
	return nil
}

// ResetOriginOffsets implements G92.1: clears the origin offset to zero and
// disables it.
func (m *Machine) ResetOriginOffsets() error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) {
		gmx.OriginOffset = gcm.Vector{}
		gmx.OriginOffsetEnable = false
	})
	return nil
}

// SuspendOriginOffsets implements G92.2: disables the origin offset without
// clearing its stored value.
func (m *Machine) SuspendOriginOffsets() error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.OriginOffsetEnable = false })
	return nil
}

// ResumeOriginOffsets implements G92.3: re-enables a previously suspended
// origin offset without recomputing it.
func (m *Machine) ResumeOriginOffsets() error {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.OriginOffsetEnable = true })
	return nil
}

// SetG28Position implements G28.1: stores the current position as the G28
// reference point.
func (m *Machine) SetG28Position() error {
	gmx := m.Store.GMX()
	m.Store.MutateGMX(func(g *gcm.GCodeStateExt) { g.G28Position = gmx.Position })
	return nil
}

// SetG30Position implements G30.1: stores the current position as the G30
// reference point.
func (m *Machine) SetG30Position() error {
	gmx := m.Store.GMX()
	m.Store.MutateGMX(func(g *gcm.GCodeStateExt) { g.G30Position = gmx.Position })
	return nil
}

// GotoG28Position implements G28: an optional straight traverse to the
// points given by the block, followed by a straight traverse to the stored
// G28 reference position.
func (m *Machine) GotoG28Position(intermediate gcm.Vector, flags gcm.Flags) error {
	if flags.AnySet() {
		if err := m.StraightTraverse(intermediate, flags); err != nil {
			return err
		}
	}
	gmx := m.Store.GMX()
	return m.StraightTraverse(gmx.G28Position, allAxesFlag())
}

// GotoG30Position implements G30: the G30 analogue of GotoG28Position.
func (m *Machine) GotoG30Position(intermediate gcm.Vector, flags gcm.Flags) error {
	if flags.AnySet() {
		if err := m.StraightTraverse(intermediate, flags); err != nil {
			return err
		}
	}
	gmx := m.Store.GMX()
	return m.StraightTraverse(gmx.G30Position, allAxesFlag())
}

func allAxesFlag() gcm.Flags {
	var f gcm.Flags
	for i := range f {
		f[i] = true
	}
	return f
}

// SelectPlane implements G17/G18/G19 and updates the derived plane-axis
// triple that arc_feed consumes (spec.md §4.D).
func (m *Machine) SelectPlane(p gcm.Plane) error {
	a0, a1, a2 := gcm.AxisX, gcm.AxisY, gcm.AxisZ
	switch p {
	case gcm.PlaneXY:
		a0, a1, a2 = gcm.AxisX, gcm.AxisY, gcm.AxisZ
	case gcm.PlaneXZ:
		a0, a1, a2 = gcm.AxisX, gcm.AxisZ, gcm.AxisY
	case gcm.PlaneYZ:
		a0, a1, a2 = gcm.AxisY, gcm.AxisZ, gcm.AxisX
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.Plane = p })
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) {
		gmx.PlaneAxis0, gmx.PlaneAxis1, gmx.PlaneAxis2 = a0, a1, a2
	})
	return nil
}

// SetUnitsMode implements G20/G21. gm.Units only governs how the normalizer
// interprets future raw input words; stored state is already mm.
func (m *Machine) SetUnitsMode(u gcm.Units) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.Units = u })
	return nil
}

// SetDistanceMode implements G90/G91.
func (m *Machine) SetDistanceMode(d gcm.DistanceMode) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.DistanceMode = d })
	return nil
}

// SetFeedRate implements the F word: latches gm.FeedRate for subsequent
// feed moves, already normalized to mm/min by the block normalizer.
func (m *Machine) SetFeedRate(rate float64) error {
	if rate < 0 {
		return fmt.Errorf("%w: feed rate must be >= 0", gcm.ErrInvalidAxis)
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.FeedRate = rate })
	return nil
}

// SetInverseFeedRateMode implements G93/G94: toggles whether the F word
// means "minutes for this move" (G93) rather than units/min (G94).
func (m *Machine) SetInverseFeedRateMode(inverse bool) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.InverseFeedRate = inverse })
	return nil
}

// SetPathControl implements G61/G61.1/G64.
func (m *Machine) SetPathControl(p gcm.PathControl) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.PathControl = p })
	return nil
}
