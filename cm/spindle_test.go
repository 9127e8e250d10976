package cm_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestSpindleControlSetsModeAndSpeed(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SpindleControl(gcm.SpindleCW, 1200, true); err != nil {
		t.Fatalf("SpindleControl: %v", err)
	}
	gm := m.Store.GM()
	if gm.SpindleMode != gcm.SpindleCW {
		t.Errorf("SpindleMode = %v, want SpindleCW", gm.SpindleMode)
	}
	if gm.SpindleSpeed != 1200 {
		t.Errorf("SpindleSpeed = %v, want 1200", gm.SpindleSpeed)
	}
}

func TestSpindleControlRejectsNegativeSpeed(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SpindleControl(gcm.SpindleCW, -1, true); err == nil {
		t.Fatal("expected an error for a negative spindle speed")
	}
}

func TestSpindleControlWithoutSpeedFlagLeavesSpeedUnchanged(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SetSpindleSpeed(800); err != nil {
		t.Fatalf("SetSpindleSpeed: %v", err)
	}
	if err := m.SpindleControl(gcm.SpindleCW, 0, false); err != nil {
		t.Fatalf("SpindleControl: %v", err)
	}
	if got := m.Store.GM().SpindleSpeed; got != 800 {
		t.Errorf("SpindleSpeed = %v, want 800 (unchanged)", got)
	}
}

func TestChangeToolCommitsSelectedTool(t *testing.T) {
	m := newTestMachine(t)
	if err := m.SelectTool(5); err != nil {
		t.Fatalf("SelectTool: %v", err)
	}
	if got := m.Store.GM().Tool; got != 0 {
		t.Errorf("Tool = %v before M6, want 0", got)
	}
	if err := m.ChangeTool(); err != nil {
		t.Fatalf("ChangeTool: %v", err)
	}
	if got := m.Store.GM().Tool; got != 5 {
		t.Errorf("Tool = %v after M6, want 5", got)
	}
}

func TestCoolantOffClearsBothMistAndFlood(t *testing.T) {
	m := newTestMachine(t)
	if err := m.MistCoolantControl(true); err != nil {
		t.Fatalf("MistCoolantControl: %v", err)
	}
	if err := m.FloodCoolantControl(true); err != nil {
		t.Fatalf("FloodCoolantControl: %v", err)
	}
	if err := m.CoolantOff(); err != nil {
		t.Fatalf("CoolantOff: %v", err)
	}
	gm := m.Store.GM()
	if gm.Mist || gm.Flood {
		t.Errorf("Mist=%v Flood=%v after M9, want both false", gm.Mist, gm.Flood)
	}
}
