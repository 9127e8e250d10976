package cycle_test

import (
	"testing"
	"time"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/cycle"
	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

func newTestMachine() (*cm.Machine, *planner.Mock) {
	var axes [gcm.AxisCount]gcm.AxisConfig
	for i := range axes {
		axes[i] = gcm.DefaultAxisConfig()
	}
	p := planner.NewMock(8)
	return cm.New(p, axes), p
}

func TestSequencerHomingRunsToCompletion(t *testing.T) {
	m, _ := newTestMachine()
	sensor := cycle.NewMockSensor()
	seq := cycle.New(m, sensor, &m.Axes, 1000)

	seq.RequestHoming(gcm.AxisX)
	if got, want := m.State.Cycle(), gcm.CycleHoming; got != want {
		t.Fatalf("Cycle() right after RequestHoming = %v, want %v", got, want)
	}

	seq.Run()
	defer seq.Stop()

	// trip the home switch shortly after the search phase starts, then let
	// the sequencer latch/zero and finish.
	time.Sleep(5 * time.Millisecond)
	sensor.TripHomeSwitch(gcm.AxisX, true)

	deadline := time.After(2 * time.Second)
	for {
		if m.State.Homed(gcm.AxisX) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("homing never completed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSequencerFeedholdTakesPriorityOverCycleEnd(t *testing.T) {
	m, _ := newTestMachine()
	sensor := cycle.NewMockSensor()
	seq := cycle.New(m, sensor, &m.Axes, 1000)

	m.State.Init()
	m.State.CycleStart()
	seq.RequestFeedhold()

	seq.Run()
	defer seq.Stop()

	deadline := time.After(2 * time.Second)
	for m.State.Hold() != gcm.HoldHeld {
		select {
		case <-deadline:
			t.Fatal("feedhold never reached HoldHeld")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got, want := m.State.Machine(), gcm.MachineCycle; got != want {
		t.Errorf("Machine() while held = %v, want %v (queue_empty must not end the cycle during a hold)", got, want)
	}
}

func TestSequencerCycleStartResumesFromHeld(t *testing.T) {
	m, _ := newTestMachine()
	sensor := cycle.NewMockSensor()
	seq := cycle.New(m, sensor, &m.Axes, 1000)

	m.State.Init()
	m.State.CycleStart()
	// a queued move keeps the cycle running once the hold ends; with an
	// empty queue the next tick would end the cycle (motion STOP).
	if err := m.MoveAbs("X", 10); err != nil {
		t.Fatalf("MoveAbs: %v", err)
	}
	seq.RequestFeedhold()

	seq.Run()
	defer seq.Stop()

	deadline := time.After(2 * time.Second)
	for m.State.Hold() != gcm.HoldHeld {
		select {
		case <-deadline:
			t.Fatal("feedhold never reached HoldHeld")
		case <-time.After(5 * time.Millisecond):
		}
	}

	seq.RequestCycleStart()

	deadline = time.After(2 * time.Second)
	for m.State.Hold() != gcm.HoldOff {
		select {
		case <-deadline:
			t.Fatal("cycle-start never resumed from HoldHeld back to HoldOff")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got, want := m.State.Motion(), gcm.MotionRun; got != want {
		t.Errorf("Motion() after resuming from held = %v, want %v", got, want)
	}
}
