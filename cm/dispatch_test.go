package cm_test

import (
	"math"
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

func TestExecuteBlockTraverseMovesAndEnqueues(t *testing.T) {
	m := newTestMachine(t)
	gn := gcm.GCodeInput{
		NextAction: gcm.MotionModeTraverse,
		Target:     gcm.Vector{10, 20, 0, 0, 0, 0},
	}
	gf := gcm.GCodeFlags{
		NextAction: true,
		TargetAxes: gcm.Flags{true, true, false, false, false, false},
	}
	if err := m.ExecuteBlock(gn, gf); err != nil {
		t.Fatalf("ExecuteBlock: %v", err)
	}
	pos := m.Store.GMX().Position
	if pos[gcm.AxisX] != 10 || pos[gcm.AxisY] != 20 {
		t.Errorf("Position = %v, want X=10 Y=20", pos)
	}
}

func TestExecuteBlockFeedWithoutFeedRateErrors(t *testing.T) {
	m := newTestMachine(t)
	gn := gcm.GCodeInput{
		NextAction: gcm.MotionModeFeed,
		Target:     gcm.Vector{10, 0, 0, 0, 0, 0},
	}
	gf := gcm.GCodeFlags{
		NextAction: true,
		TargetAxes: gcm.Flags{true, false, false, false, false, false},
	}
	if err := m.ExecuteBlock(gn, gf); err != gcm.ErrFeedRateNotSet {
		t.Fatalf("ExecuteBlock with no feed rate set: got %v, want ErrFeedRateNotSet", err)
	}
}

func TestExecuteBlockArcQuarterCircleLandsOnTarget(t *testing.T) {
	m := newTestMachine(t)
	// at chordalTolerance 0.01mm a radius-10 quarter circle is split into
	// 18 segments, more than newTestMachine's 8-slot planner holds.
	m.Planner = planner.NewMock(32)
	// set a feed rate first so ArcFeed's feed-rate-set check passes.
	feedGn := gcm.GCodeInput{FeedRate: 500}
	feedGf := gcm.GCodeFlags{FeedRate: true}
	if err := m.ExecuteBlock(feedGn, feedGf); err != nil {
		t.Fatalf("ExecuteBlock (set feed rate): %v", err)
	}

	// quarter circle CCW from (10, 0) about the origin to (0, 10).
	gn := gcm.GCodeInput{
		NextAction: gcm.MotionModeArcCCW,
		Target:     gcm.Vector{0, 10, 0, 0, 0, 0},
		ArcOffsetI: -10,
	}
	gf := gcm.GCodeFlags{
		NextAction: true,
		TargetAxes: gcm.Flags{true, true, false, false, false, false},
		ArcOffsets: gcm.Flags{true, false, false, false, false, false},
	}
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.Position[gcm.AxisX] = 10 })

	if err := m.ExecuteBlock(gn, gf); err != nil {
		t.Fatalf("ExecuteBlock (arc): %v", err)
	}
	pos := m.Store.GMX().Position
	if math.Abs(pos[gcm.AxisX]) > 1e-6 || math.Abs(pos[gcm.AxisY]-10) > 1e-6 {
		t.Errorf("final arc position = (%v, %v), want (0, 10)", pos[gcm.AxisX], pos[gcm.AxisY])
	}
}

func TestExecuteBlockRejectsModalConflict(t *testing.T) {
	m := newTestMachine(t)
	gf := gcm.GCodeFlags{ModalConflicts: []gcm.ModalGroup{gcm.ModalGroupMotion}}
	if err := m.ExecuteBlock(gcm.GCodeInput{}, gf); err != gcm.ErrModalGroupViolation {
		t.Fatalf("ExecuteBlock with a modal conflict: got %v, want ErrModalGroupViolation", err)
	}
}
