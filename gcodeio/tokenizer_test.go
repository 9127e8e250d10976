package gcodeio_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/gcodeio"
)

func TestTokenizeStraightFeedWithAxesAndFeedRate(t *testing.T) {
	gn, gf, err := gcodeio.Tokenize("G1 X10 Y-5.5 F500", 1)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if gn.NextAction != gcm.MotionModeFeed || !gf.NextAction {
		t.Errorf("NextAction = %v (flag %v), want MotionModeFeed", gn.NextAction, gf.NextAction)
	}
	if gn.Target[gcm.AxisX] != 10 || !gf.TargetAxes[gcm.AxisX] {
		t.Errorf("Target[X] = %v, want 10", gn.Target[gcm.AxisX])
	}
	if gn.Target[gcm.AxisY] != -5.5 || !gf.TargetAxes[gcm.AxisY] {
		t.Errorf("Target[Y] = %v, want -5.5", gn.Target[gcm.AxisY])
	}
	if gn.FeedRate != 500 || !gf.FeedRate {
		t.Errorf("FeedRate = %v, want 500", gn.FeedRate)
	}
}

func TestTokenizeStripsParentheticalAndSemicolonComments(t *testing.T) {
	gn, _, err := gcodeio.Tokenize("G0 X1 (rapid to start) Y2 ; trailing note", 1)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if gn.Target[gcm.AxisX] != 1 || gn.Target[gcm.AxisY] != 2 {
		t.Errorf("Target = %v, want X=1 Y=2", gn.Target)
	}
}

func TestTokenizeDuplicateMotionWordsRecordsModalConflict(t *testing.T) {
	_, gf, err := gcodeio.Tokenize("G0 G1 X1", 1)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(gf.ModalConflicts) != 1 || gf.ModalConflicts[0] != gcm.ModalGroupMotion {
		t.Errorf("ModalConflicts = %v, want [ModalGroupMotion]", gf.ModalConflicts)
	}
}

func TestTokenizeArcOffsetsSetArcOffsetsFlags(t *testing.T) {
	gn, gf, err := gcodeio.Tokenize("G2 X10 Y0 I-5 J0", 1)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if gn.ArcOffsetI != -5 || !gf.ArcOffsets[gcm.AxisX] {
		t.Errorf("ArcOffsetI = %v, flag = %v, want -5/true", gn.ArcOffsetI, gf.ArcOffsets[gcm.AxisX])
	}
	if gn.NextAction != gcm.MotionModeArcCW {
		t.Errorf("NextAction = %v, want MotionModeArcCW", gn.NextAction)
	}
}

func TestTokenizeUnknownWordErrors(t *testing.T) {
	if _, _, err := gcodeio.Tokenize("Q5", 1); err == nil {
		t.Fatal("expected an error for an unrecognized word letter")
	}
}

func TestTokenizeG53SetsAbsoluteOverride(t *testing.T) {
	gn, gf, err := gcodeio.Tokenize("G53 G0 X1", 1)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if !gn.AbsoluteOverride || !gf.AbsoluteOverride {
		t.Error("expected AbsoluteOverride set by G53")
	}
}
