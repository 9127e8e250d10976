package cm

import (
	"fmt"
	"math"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/mathx"
	"github.com/nasa-jpl/canon-mc/planner"
)

// chordalTolerance bounds the arc-segmenter's worst-case deviation from the
// true circle, mm. arc_feed picks a segment count that keeps every chord
// within this tolerance (spec.md §4.D "arc_feed").
const chordalTolerance = 0.01

// StraightTraverse implements G0: rapid motion to target at the configured
// traverse rate, ignoring feed_rate and feed overrides unless
// TraverseOverrideEnable is set (spec.md §4.D).
func (m *Machine) StraightTraverse(target gcm.Vector, flags gcm.Flags) error {
	if err := m.requireNotAlarmed(); err != nil {
		return err
	}
	if err := m.checkTravel(target, flags); err != nil {
		return err
	}
	m.Store.SetTarget(target, flags)
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.MotionMode = gcm.MotionModeTraverse })
	m.commitPosition(target, flags)
	m.State.EnterCycle()
	return m.enqueue(planner.KindTraverse, 0)
}

// StraightFeed implements G1: linear motion at feed_rate (or 1/move_time if
// inverse feed rate mode is active). Requires a nonzero feed rate unless
// inverse feed mode supplies the move time per block (spec.md §4.D).
func (m *Machine) StraightFeed(target gcm.Vector, flags gcm.Flags) error {
	if err := m.requireNotAlarmed(); err != nil {
		return err
	}
	gm := m.Store.GM()
	if !gm.InverseFeedRate && gm.FeedRate <= 0 {
		return gcm.ErrFeedRateNotSet
	}
	if err := m.checkTravel(target, flags); err != nil {
		return err
	}
	m.Store.SetTarget(target, flags)
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.MotionMode = gcm.MotionModeFeed })
	m.commitPosition(target, flags)
	m.State.EnterCycle()
	return m.enqueue(planner.KindFeed, 0)
}

// Dwell implements G4 Pn: a synchronized pause of n seconds. Dwell does not
// move any axis, so it skips the travel check (spec.md §4.D).
func (m *Machine) Dwell(seconds float64) error {
	if err := m.requireNotAlarmed(); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("%w: dwell seconds must be >= 0", gcm.ErrInvalidAxis)
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.MotionMode = gcm.MotionModeDwell })
	m.State.EnterCycle()
	return m.enqueue(planner.KindDwell, seconds)
}

// ArcForm distinguishes how an arc's center was specified.
type ArcForm int

// Arc specification forms.
const (
	ArcFormCenter ArcForm = iota // I/J/K offsets from the current position
	ArcFormRadius                // R word
)

// ArcFeed implements G2 (cw)/G3 (ccw): circular or helical motion in the
// active plane, plus optional linear motion along the plane's normal axis
// (helix). It resolves the center from either center-form (I/J/K) or
// radius-form (R) input -- exactly one may be given (spec.md §4.D) -- then
// segments the arc into chords within chordalTolerance and enqueues one
// KindArcSegment buffer per chord, so the planner never has to do circular
// interpolation itself.
func (m *Machine) ArcFeed(target gcm.Vector, flags gcm.Flags, clockwise bool, form ArcForm, radius float64, offsetI, offsetJ, offsetK float64) error {
	if err := m.requireNotAlarmed(); err != nil {
		return err
	}
	gm := m.Store.GM()
	if !gm.InverseFeedRate && gm.FeedRate <= 0 {
		return gcm.ErrFeedRateNotSet
	}
	if err := m.checkTravel(target, flags); err != nil {
		return err
	}

	gmx := m.Store.GMX()
	a0, a1, normal := gmx.PlaneAxis0, gmx.PlaneAxis1, gmx.PlaneAxis2
	start := gmx.Position

	var cx, cy, r float64
	switch form {
	case ArcFormRadius:
		r = radius
		cx, cy = arcCenterFromRadius(start[a0], start[a1], target[a0], target[a1], r, clockwise)
	case ArcFormCenter:
		cx = start[a0] + planeOffset(a0, offsetI, offsetJ, offsetK)
		cy = start[a1] + planeOffset(a1, offsetI, offsetJ, offsetK)
		r = math.Hypot(start[a0]-cx, start[a1]-cy)
	}
	if r <= 0 {
		return gcm.ErrArcUnderspecified
	}

	startAngle := math.Atan2(start[a1]-cy, start[a0]-cx)
	endAngle := math.Atan2(target[a1]-cy, target[a0]-cx)
	sweep := arcSweep(startAngle, endAngle, clockwise)

	segments := arcSegmentCount(r, sweep, chordalTolerance)
	helixTotal := target[normal] - start[normal]

	m.Store.MutateGM(func(gm *gcm.GCodeState) {
		if clockwise {
			gm.MotionMode = gcm.MotionModeArcCW
		} else {
			gm.MotionMode = gcm.MotionModeArcCCW
		}
	})
	m.State.EnterCycle()

	prev := start
	for seg := 1; seg <= segments; seg++ {
		frac := float64(seg) / float64(segments)
		angle := startAngle + sweep*frac
		if clockwise {
			angle = startAngle - math.Abs(sweep)*frac
		}
		next := prev
		next[a0] = mathx.Round(cx+r*math.Cos(angle), 1e-9)
		next[a1] = mathx.Round(cy+r*math.Sin(angle), 1e-9)
		next[normal] = start[normal] + helixTotal*frac
		if seg == segments {
			next = target // last segment lands exactly on the commanded target
		}

		m.Store.SetTarget(next, flags)
		m.commitPosition(next, gcm.Flags{true, true, true, true, true, true})
		if err := m.enqueue(planner.KindArcSegment, 0); err != nil {
			return err
		}
		prev = next
	}
	return nil
}

// commitPosition writes the flagged axes of target into gmx.Position. The
// canonical model's notion of position advances as soon as a move is
// accepted, independent of when the downstream runtime actually gets there
// (spec.md §4.A distinguishes gmx.Position from the planner's
// RuntimePosition query for exactly this reason).
func (m *Machine) commitPosition(target gcm.Vector, flags gcm.Flags) {
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) {
		for i := 0; i < gcm.AxisCount; i++ {
			if flags[i] {
				gmx.Position[i] = target[i]
			}
		}
	})
}

// planeOffset picks whichever of I/J/K corresponds to a given plane axis,
// by the RS274/NGC convention I<->X, J<->Y, K<->Z regardless of which plane
// is active.
func planeOffset(axis gcm.Axis, i, j, k float64) float64 {
	switch axis {
	case gcm.AxisX:
		return i
	case gcm.AxisY:
		return j
	case gcm.AxisZ:
		return k
	default:
		return 0
	}
}

// arcCenterFromRadius solves for the circle center given two points on its
// circumference and a signed radius (negative radius selects the major-arc
// solution, the RS274/NGC convention for R-form arcs greater than a
// semicircle).
func arcCenterFromRadius(x0, y0, x1, y1, r float64, clockwise bool) (cx, cy float64) {
	dx, dy := x1-x0, y1-y0
	chord := math.Hypot(dx, dy)
	if chord == 0 || math.Abs(r) < chord/2 {
		// degenerate input; fall back to the midpoint, the segmenter will
		// still produce a valid (if not geometrically exact) path rather
		// than dividing by zero.
		return (x0 + x1) / 2, (y0 + y1) / 2
	}
	mx, my := (x0+x1)/2, (y0+y1)/2
	h := math.Sqrt(r*r - (chord/2)*(chord/2))
	// unit normal to the chord
	nx, ny := -dy/chord, dx/chord
	sign := 1.0
	if (r < 0) != clockwise {
		sign = -1.0
	}
	return mx + sign*h*nx, my + sign*h*ny
}

// arcSweep returns the signed angular distance from startAngle to endAngle
// in the requested direction: in (0, 2*pi] counter-clockwise and in
// [-2*pi, 0) clockwise.
func arcSweep(startAngle, endAngle float64, clockwise bool) float64 {
	const twoPi = 2 * math.Pi
	diff := endAngle - startAngle
	if clockwise {
		for diff >= 0 {
			diff -= twoPi
		}
		for diff < -twoPi {
			diff += twoPi
		}
	} else {
		for diff <= 0 {
			diff += twoPi
		}
		for diff > twoPi {
			diff -= twoPi
		}
	}
	return diff
}

// arcSegmentCount returns how many equal-angle chords keep the worst-case
// sagitta within tol for a circle of the given radius and total sweep.
func arcSegmentCount(radius, sweep, tol float64) int {
	sweep = math.Abs(sweep)
	if radius <= 0 || sweep == 0 {
		return 1
	}
	// sagitta s = r(1 - cos(theta/2)) for a chord subtending angle theta;
	// solve for theta given the tolerance, then divide the sweep by it.
	ratio := 1 - tol/radius
	if ratio < -1 {
		ratio = -1
	}
	theta := 2 * math.Acos(ratio)
	if theta <= 0 {
		return 1
	}
	n := int(math.Ceil(sweep / theta))
	if n < 1 {
		n = 1
	}
	if n > 4096 {
		n = 4096 // backstop against pathological near-zero tolerances
	}
	return n
}
