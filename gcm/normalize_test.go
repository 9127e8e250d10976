package gcm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestNormalizeConvertsInchesToMM(t *testing.T) {
	s := gcm.NewStore()
	gn := gcm.GCodeInput{
		UnitsMode: gcm.UnitsInches,
		Target:    gcm.Vector{1, 0, 0, 0, 0, 0},
	}
	gf := gcm.GCodeFlags{
		UnitsMode:  true,
		TargetAxes: gcm.Flags{true, false, false, false, false, false},
	}

	target, err := s.Normalize(gn, gf)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := 25.4; target[gcm.AxisX] != want {
		t.Errorf("target[X] = %v, want %v", target[gcm.AxisX], want)
	}
	if s.GM().Units != gcm.UnitsInches {
		t.Errorf("gm.Units not persisted: got %v", s.GM().Units)
	}
}

func TestNormalizeIncrementalAccumulatesOnPosition(t *testing.T) {
	s := gcm.NewStore()
	s.MutateGMX(func(gmx *gcm.GCodeStateExt) { gmx.Position[gcm.AxisX] = 10 })
	s.MutateGM(func(gm *gcm.GCodeState) { gm.DistanceMode = gcm.DistanceIncremental })

	gn := gcm.GCodeInput{Target: gcm.Vector{5, 0, 0, 0, 0, 0}}
	gf := gcm.GCodeFlags{TargetAxes: gcm.Flags{true, false, false, false, false, false}}

	target, err := s.Normalize(gn, gf)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if target[gcm.AxisX] != 15 {
		t.Errorf("target[X] = %v, want 15", target[gcm.AxisX])
	}
}

func TestNormalizeAbsoluteOverrideIgnoresCoordOffset(t *testing.T) {
	s := gcm.NewStore()
	s.SetOffset(1, gcm.Vector{100, 0, 0, 0, 0, 0}, gcm.Flags{true, false, false, false, false, false})

	gn := gcm.GCodeInput{
		Target:           gcm.Vector{5, 0, 0, 0, 0, 0},
		AbsoluteOverride: true,
	}
	gf := gcm.GCodeFlags{
		TargetAxes:       gcm.Flags{true, false, false, false, false, false},
		AbsoluteOverride: true,
	}

	target, err := s.Normalize(gn, gf)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if target[gcm.AxisX] != 5 {
		t.Errorf("G53 target[X] = %v, want 5 (offset ignored)", target[gcm.AxisX])
	}
}

func TestNormalizeRejectsModalConflict(t *testing.T) {
	s := gcm.NewStore()
	before := s.GM()

	gf := gcm.GCodeFlags{ModalConflicts: []gcm.ModalGroup{gcm.ModalGroupMotion}}
	_, err := s.Normalize(gcm.GCodeInput{}, gf)
	if err == nil {
		t.Fatal("expected an error for a modal-group conflict")
	}
	if diff := cmp.Diff(before, s.GM()); diff != "" {
		t.Errorf("gm mutated on a rejected block (-before +after):\n%s", diff)
	}
}

func TestNormalizeAbsoluteOverrideIsBlockScoped(t *testing.T) {
	s := gcm.NewStore()
	gn := gcm.GCodeInput{AbsoluteOverride: true}
	gf := gcm.GCodeFlags{AbsoluteOverride: true}
	if _, err := s.Normalize(gn, gf); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !s.GM().AbsoluteOverride {
		t.Fatal("expected AbsoluteOverride to be set after a G53 block")
	}

	// the next block doesn't specify G53, so it must not persist.
	if _, err := s.Normalize(gcm.GCodeInput{}, gcm.GCodeFlags{}); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.GM().AbsoluteOverride {
		t.Error("AbsoluteOverride persisted across blocks, want block-scoped")
	}
}
