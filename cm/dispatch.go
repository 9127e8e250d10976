package cm

import (
	"fmt"

	"github.com/nasa-jpl/canon-mc/gcm"
)

// ExecuteBlock is the block-normalizer-to-canonical-command entry point
// (spec.md §4.C step 5): it runs Normalize, then dispatches the resolved
// target to whichever motion command gn.NextAction names and, in the same
// block, whatever group-0 non-modal command gn.NonModal names. Motion and
// non-modal commands may coexist in one block (e.g. "G10 L2 P1 X1 G1 X2");
// the non-modal word runs first, matching RS274/NGC's execution order.
func (m *Machine) ExecuteBlock(gn gcm.GCodeInput, gf gcm.GCodeFlags) error {
	target, err := m.Store.Normalize(gn, gf)
	if err != nil {
		return err
	}
	if gf.Plane {
		// keep gmx's plane axes in step with the block's G17/G18/G19
		if err := m.SelectPlane(gn.Plane); err != nil {
			return err
		}
	}

	if gf.NonModal {
		units := m.Store.GM().Units
		for i := 0; i < gcm.AxisCount; i++ {
			if gf.CoordOffsetAxes[i] {
				gn.CoordOffset[i] = gcm.NormalizeLength(gn.CoordOffset[i], units)
			}
			if gf.OriginOffsetAxes[i] {
				gn.OriginOffset[i] = gcm.NormalizeLength(gn.OriginOffset[i], units)
			}
		}
		if err := m.dispatchNonModal(gn, gf, target); err != nil {
			return err
		}
	}

	switch gn.NextAction {
	case gcm.MotionModeNone, gcm.MotionModeDwell, gcm.MotionModeHoming, gcm.MotionModeProbe:
		// dwell/homing/probe are dispatched via NonModal/cycle sequencer,
		// not NextAction directly in this build.
		return nil
	case gcm.MotionModeTraverse:
		return m.StraightTraverse(target, gf.TargetAxes)
	case gcm.MotionModeFeed:
		return m.StraightFeed(target, gf.TargetAxes)
	case gcm.MotionModeArcCW, gcm.MotionModeArcCCW:
		form := ArcFormCenter
		if gf.ArcRadius {
			form = ArcFormRadius
		}
		if gf.ArcRadius && gf.ArcOffsets.AnySet() {
			return gcm.ErrArcAmbiguous
		}
		return m.ArcFeed(target, gf.TargetAxes, gn.NextAction == gcm.MotionModeArcCW, form,
			gn.ArcRadius, gn.ArcOffsetI, gn.ArcOffsetJ, gn.ArcOffsetK)
	default:
		return fmt.Errorf("%w: unrecognized motion mode %v", gcm.ErrModalGroupViolation, gn.NextAction)
	}
}

func (m *Machine) dispatchNonModal(gn gcm.GCodeInput, gf gcm.GCodeFlags, target gcm.Vector) error {
	switch gn.NonModal {
	case gcm.NonModalNone:
		return nil
	case gcm.NonModalDwell:
		return m.Dwell(gn.PWord)
	case gcm.NonModalSetCoordOffsets:
		return m.SetCoordOffsets(gn.CoordOffsetSystem, gn.CoordOffset, gf.CoordOffsetAxes)
	case gcm.NonModalGoto28:
		return m.GotoG28Position(target, gf.TargetAxes)
	case gcm.NonModalSet28:
		return m.SetG28Position()
	case gcm.NonModalGoto30:
		return m.GotoG30Position(target, gf.TargetAxes)
	case gcm.NonModalSet30:
		return m.SetG30Position()
	case gcm.NonModalSetOrigin:
		return m.SetOriginOffsets(gn.OriginOffset, gf.OriginOffsetAxes)
	case gcm.NonModalResetOrigin:
		return m.ResetOriginOffsets()
	case gcm.NonModalSuspendOrigin:
		return m.SuspendOriginOffsets()
	case gcm.NonModalResumeOrigin:
		return m.ResumeOriginOffsets()
	default:
		return fmt.Errorf("%w: unrecognized non-modal command %v", gcm.ErrModalGroupViolation, gn.NonModal)
	}
}
