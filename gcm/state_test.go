package gcm_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestStateMachineFeedholdSequence(t *testing.T) {
	s := gcm.NewStateMachine()
	s.Init()
	s.CycleStart()
	if got, want := s.Combined(), gcm.CombinedRun; got != want {
		t.Fatalf("Combined() after CycleStart = %v, want %v", got, want)
	}

	s.Feedhold()
	if got, want := s.Hold(), gcm.HoldSync; got != want {
		t.Fatalf("Hold() after Feedhold = %v, want %v", got, want)
	}

	// sync -> plan -> decel -> held
	s.AdvanceHold()
	s.AdvanceHold()
	s.AdvanceHold()
	if got, want := s.Hold(), gcm.HoldHeld; got != want {
		t.Fatalf("Hold() after three advances = %v, want %v", got, want)
	}
	if got, want := s.Combined(), gcm.CombinedHold; got != want {
		t.Fatalf("Combined() while held = %v, want %v", got, want)
	}

	// cycle-start while held requests end_hold instead of restarting.
	s.CycleStart()
	if got, want := s.Hold(), gcm.HoldEndHold; got != want {
		t.Fatalf("Hold() after cycle-start while held = %v, want %v", got, want)
	}
	s.AdvanceHold()
	if got, want := s.Hold(), gcm.HoldOff; got != want {
		t.Fatalf("Hold() after end_hold advance = %v, want %v", got, want)
	}
	if got, want := s.Motion(), gcm.MotionRun; got != want {
		t.Fatalf("Motion() after end_hold advance = %v, want %v", got, want)
	}
}

func TestStateMachineAlarmClearsHomedFlags(t *testing.T) {
	s := gcm.NewStateMachine()
	s.SetHomed(gcm.AxisX, true)
	s.Alarm()
	if s.Homed(gcm.AxisX) {
		t.Error("Homed(X) survived Alarm(), want cleared")
	}
	if !s.InAlarm() {
		t.Fatal("expected InAlarm() true after Alarm()")
	}
	s.Clear()
	if s.InAlarm() {
		t.Error("InAlarm() still true after Clear()")
	}
}

func TestStateMachineCycleEndIgnoredWhileHeld(t *testing.T) {
	s := gcm.NewStateMachine()
	s.Init()
	s.CycleStart()
	s.Feedhold()
	s.CycleEnd()
	if got, want := s.Machine(), gcm.MachineCycle; got != want {
		t.Fatalf("CycleEnd fired during a hold: Machine() = %v, want %v", got, want)
	}
}
