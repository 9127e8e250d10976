package planner_test

import (
	"testing"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

func TestMockReserveReturnsErrFullAtCapacity(t *testing.T) {
	m := planner.NewMock(2)
	for i := 0; i < 2; i++ {
		if _, err := m.Reserve(); err != nil {
			t.Fatalf("Reserve() %d: %v", i, err)
		}
		if err := m.Commit(planner.Handle(i), gcm.GCodeState{}, planner.KindTraverse, 0); err != nil {
			t.Fatalf("Commit() %d: %v", i, err)
		}
	}
	if _, err := m.Reserve(); err != planner.ErrFull {
		t.Fatalf("Reserve() at capacity: got %v, want ErrFull", err)
	}
}

func TestMockStepAdvancesRuntimePositionAndDrainsQueue(t *testing.T) {
	m := planner.NewMock(4)
	gm := gcm.GCodeState{LineNumber: 7, FeedRate: 250, Target: gcm.Vector{10, 0, 0, 0, 0, 0}}
	if _, err := m.Reserve(); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := m.Commit(0, gm, planner.KindFeed, 0); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if m.QueueEmpty() {
		t.Fatal("QueueEmpty() true right after Commit, want false")
	}

	b, ok := m.Step()
	if !ok {
		t.Fatal("Step() returned ok=false with one buffer pending")
	}
	if b.Kind != planner.KindFeed {
		t.Errorf("stepped buffer Kind = %v, want KindFeed", b.Kind)
	}
	if got := m.RuntimePosition(gcm.AxisX); got != 10 {
		t.Errorf("RuntimePosition(X) = %v, want 10", got)
	}
	if got := m.RuntimeVelocity(); got != 250 {
		t.Errorf("RuntimeVelocity() = %v, want 250", got)
	}
	if got := m.RuntimeLineNumber(); got != 7 {
		t.Errorf("RuntimeLineNumber() = %v, want 7", got)
	}
	if !m.QueueEmpty() {
		t.Error("QueueEmpty() false after draining the only buffer")
	}
	if m.RuntimeBusy() {
		t.Error("RuntimeBusy() true with no buffers left")
	}
}

func TestMockStepOnDwellDoesNotMoveRuntimePosition(t *testing.T) {
	m := planner.NewMock(4)
	m.Commit(0, gcm.GCodeState{Target: gcm.Vector{99, 0, 0, 0, 0, 0}}, planner.KindDwell, 1.5)
	if _, ok := m.Step(); !ok {
		t.Fatal("Step() returned ok=false")
	}
	if got := m.RuntimePosition(gcm.AxisX); got != 0 {
		t.Errorf("RuntimePosition(X) after a dwell step = %v, want 0 (dwell doesn't move)", got)
	}
}

func TestMockFlushQueueDropsPendingBuffers(t *testing.T) {
	m := planner.NewMock(4)
	m.Commit(0, gcm.GCodeState{}, planner.KindTraverse, 0)
	m.Commit(0, gcm.GCodeState{}, planner.KindTraverse, 0)
	if got := m.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}
	m.FlushQueue()
	if got := m.Pending(); got != 0 {
		t.Errorf("Pending() after FlushQueue = %d, want 0", got)
	}
	if !m.QueueEmpty() {
		t.Error("QueueEmpty() false after FlushQueue")
	}
}
