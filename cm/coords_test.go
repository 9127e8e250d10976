package cm_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestSetOriginOffsetsMakesCurrentPositionReadAsGivenCoords(t *testing.T) {
	m := newTestMachine(t)
	m.Store.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.Position[gcm.AxisX] = 50 })

	flags := gcm.Flags{true, false, false, false, false, false}
	if err := m.SetOriginOffsets(gcm.Vector{5, 0, 0, 0, 0, 0}, flags); err != nil {
		t.Fatalf("SetOriginOffsets: %v", err)
	}

	gm := m.Store.GM()
	gmx := m.Store.GMX()
	coordOff := m.Store.Offset(gm.CoordSystem)
	if got := gcm.WorkPosition(gcm.AxisX, gm, gmx, coordOff); got != 5 {
		t.Errorf("WorkPosition(X) after G92 X5 = %v, want 5", got)
	}
}

func TestResetOriginOffsetsClearsValueAndDisables(t *testing.T) {
	m := newTestMachine(t)
	flags := gcm.Flags{true, false, false, false, false, false}
	if err := m.SetOriginOffsets(gcm.Vector{5, 0, 0, 0, 0, 0}, flags); err != nil {
		t.Fatalf("SetOriginOffsets: %v", err)
	}
	if err := m.ResetOriginOffsets(); err != nil {
		t.Fatalf("ResetOriginOffsets: %v", err)
	}
	gmx := m.Store.GMX()
	if gmx.OriginOffsetEnable {
		t.Error("OriginOffsetEnable still true after G92.1")
	}
	if gmx.OriginOffset != (gcm.Vector{}) {
		t.Errorf("OriginOffset = %v, want zero vector", gmx.OriginOffset)
	}
}

func TestSuspendAndResumeOriginOffsetsPreserveStoredValue(t *testing.T) {
	m := newTestMachine(t)
	flags := gcm.Flags{true, false, false, false, false, false}
	if err := m.SetOriginOffsets(gcm.Vector{5, 0, 0, 0, 0, 0}, flags); err != nil {
		t.Fatalf("SetOriginOffsets: %v", err)
	}
	stored := m.Store.GMX().OriginOffset

	if err := m.SuspendOriginOffsets(); err != nil {
		t.Fatalf("SuspendOriginOffsets: %v", err)
	}
	if m.Store.GMX().OriginOffsetEnable {
		t.Error("OriginOffsetEnable true after G92.2")
	}
	if err := m.ResumeOriginOffsets(); err != nil {
		t.Fatalf("ResumeOriginOffsets: %v", err)
	}
	gmx := m.Store.GMX()
	if !gmx.OriginOffsetEnable {
		t.Error("OriginOffsetEnable false after G92.3")
	}
	if gmx.OriginOffset != stored {
		t.Errorf("OriginOffset = %v after resume, want unchanged %v", gmx.OriginOffset, stored)
	}
}

func TestSetCoordSystemRejectsOutOfRangeIndex(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SetCoordSystem(gcm.CoordSystemCount); err == nil {
		t.Fatal("expected an error for an out-of-range coordinate system index")
	}
	if err := m.SetCoordSystem(1); err != nil {
		t.Fatalf("SetCoordSystem(1): %v", err)
	}
	if got := m.Store.GM().CoordSystem; got != 1 {
		t.Errorf("CoordSystem = %v, want 1", got)
	}
}

func TestGotoG28PositionTraversesThroughIntermediate(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SetG28Position(); err != nil {
		t.Fatalf("SetG28Position: %v", err)
	}
	if err := m.MoveAbs("X", 40); err != nil {
		t.Fatalf("MoveAbs: %v", err)
	}

	intermediate := gcm.Vector{20, 0, 0, 0, 0, 0}
	flags := gcm.Flags{true, false, false, false, false, false}
	if err := m.GotoG28Position(intermediate, flags); err != nil {
		t.Fatalf("GotoG28Position: %v", err)
	}
	if got := m.Store.GMX().Position[gcm.AxisX]; got != 0 {
		t.Errorf("Position[X] after G28 = %v, want 0 (the stored reference point)", got)
	}
}
