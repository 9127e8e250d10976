package gcm_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestNormalizeDenormalizeLengthRoundTrip(t *testing.T) {
	mm := gcm.NormalizeLength(1, gcm.UnitsInches)
	if mm != 25.4 {
		t.Fatalf("NormalizeLength(1in) = %v, want 25.4", mm)
	}
	if got := gcm.DenormalizeLength(mm, gcm.UnitsInches); got != 1 {
		t.Errorf("DenormalizeLength(25.4mm) = %v, want 1", got)
	}
	if got := gcm.NormalizeLength(5, gcm.UnitsMM); got != 5 {
		t.Errorf("NormalizeLength(5mm, UnitsMM) = %v, want 5 (no-op)", got)
	}
}

func TestActiveCoordOffsetCombinesCoordAndOriginOffsets(t *testing.T) {
	gm := gcm.GCodeState{}
	gmx := gcm.GCodeStateExt{
		OriginOffsetEnable: true,
		OriginOffset:       gcm.Vector{1, 0, 0, 0, 0, 0},
	}
	coordOffset := gcm.Vector{100, 0, 0, 0, 0, 0}

	got := gcm.ActiveCoordOffset(gcm.AxisX, gm, gmx, coordOffset)
	if want := 101.0; got != want {
		t.Errorf("ActiveCoordOffset(X) = %v, want %v", got, want)
	}
}

func TestActiveCoordOffsetZeroUnderAbsoluteOverride(t *testing.T) {
	gm := gcm.GCodeState{AbsoluteOverride: true}
	gmx := gcm.GCodeStateExt{OriginOffsetEnable: true, OriginOffset: gcm.Vector{1, 0, 0, 0, 0, 0}}
	coordOffset := gcm.Vector{100, 0, 0, 0, 0, 0}

	if got := gcm.ActiveCoordOffset(gcm.AxisX, gm, gmx, coordOffset); got != 0 {
		t.Errorf("ActiveCoordOffset(X) under G53 = %v, want 0", got)
	}
}

func TestWorkPositionSubtractsActiveOffset(t *testing.T) {
	gm := gcm.GCodeState{}
	gmx := gcm.GCodeStateExt{Position: gcm.Vector{150, 0, 0, 0, 0, 0}}
	coordOffset := gcm.Vector{100, 0, 0, 0, 0, 0}

	if got := gcm.WorkPosition(gcm.AxisX, gm, gmx, coordOffset); got != 50 {
		t.Errorf("WorkPosition(X) = %v, want 50", got)
	}
	if got := gcm.AbsolutePosition(gcm.AxisX, gmx); got != 150 {
		t.Errorf("AbsolutePosition(X) = %v, want 150", got)
	}
}
