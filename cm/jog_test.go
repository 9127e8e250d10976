package cm_test

import (
	"errors"
	"testing"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

func newTestMachine(t *testing.T) *cm.Machine {
	t.Helper()
	var axes [gcm.AxisCount]gcm.AxisConfig
	for i := range axes {
		axes[i] = gcm.DefaultAxisConfig()
	}
	return cm.New(planner.NewMock(8), axes)
}

func TestJogMoveAbsEnqueuesAndCommitsPosition(t *testing.T) {
	m := newTestMachine(t)
	if err := m.MoveAbs("X", 50); err != nil {
		t.Fatalf("MoveAbs: %v", err)
	}
	if got := m.Store.GMX().Position[gcm.AxisX]; got != 50 {
		t.Errorf("Position[X] = %v, want 50", got)
	}
	if got, want := m.State.Combined(), gcm.CombinedRun; got != want {
		t.Errorf("Combined() after MoveAbs = %v, want %v", got, want)
	}
}

func TestJogMoveRejectedWhenAxisDisabled(t *testing.T) {
	m := newTestMachine(t)
	if err := m.Disable("X"); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	err := m.MoveAbs("X", 10)
	if !errors.Is(err, gcm.ErrAxisDisabled) {
		t.Fatalf("MoveAbs on disabled axis: got %v, want ErrAxisDisabled", err)
	}
}

func TestJogMoveRejectedPastTravelLimit(t *testing.T) {
	m := newTestMachine(t)
	limit := m.Axes[gcm.AxisX].TravelMax
	err := m.MoveAbs("X", limit+1)
	if !errors.Is(err, gcm.ErrTravelExceeded) {
		t.Fatalf("MoveAbs past travel limit: got %v, want ErrTravelExceeded", err)
	}
}

func TestJogMoveRelAccumulatesOnCurrentPosition(t *testing.T) {
	m := newTestMachine(t)
	if err := m.MoveAbs("X", 10); err != nil {
		t.Fatalf("MoveAbs: %v", err)
	}
	if err := m.MoveRel("X", 5); err != nil {
		t.Fatalf("MoveRel: %v", err)
	}
	if got := m.Store.GMX().Position[gcm.AxisX]; got != 15 {
		t.Errorf("Position[X] = %v, want 15", got)
	}
}

func TestJogSetVelocityRejectsOutOfRange(t *testing.T) {
	m := newTestMachine(t)
	max := m.Axes[gcm.AxisX].VelocityMax
	if err := m.SetVelocity("X", max+1); err == nil {
		t.Fatal("expected an error setting velocity above VelocityMax")
	}
	if err := m.SetVelocity("X", max/2); err != nil {
		t.Fatalf("SetVelocity within range: %v", err)
	}
	got, err := m.GetVelocity("X")
	if err != nil {
		t.Fatalf("GetVelocity: %v", err)
	}
	if got != max/2 {
		t.Errorf("GetVelocity() = %v, want %v", got, max/2)
	}
}

func TestJogInitializeClearsAlarmAndReEnables(t *testing.T) {
	m := newTestMachine(t)
	m.State.Alarm()
	if err := m.Disable("X"); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := m.Initialize("X"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if m.State.InAlarm() {
		t.Error("still in alarm after Initialize")
	}
	enabled, err := m.GetEnabled("X")
	if err != nil {
		t.Fatalf("GetEnabled: %v", err)
	}
	if !enabled {
		t.Error("axis not re-enabled after Initialize")
	}
}
