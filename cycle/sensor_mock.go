package cycle

import (
	"sync"

	"github.com/nasa-jpl/canon-mc/gcm"
)

// MockSensor is a software Sensor for the demo server/CLI and tests: it
// trips a per-axis home switch or the probe input only when told to by
// Trip, rather than reading real limit-switch/probe hardware. Grounded on
// planner.Mock's pattern of an in-memory stand-in driven by test code
// instead of a servo tick.
type MockSensor struct {
	mu          sync.Mutex
	homeSwitch  [gcm.AxisCount]bool
	probeTripped bool
}

// NewMockSensor returns a MockSensor with every input untripped.
func NewMockSensor() *MockSensor {
	return &MockSensor{}
}

// TripHomeSwitch marks axis's home switch as tripped (or not).
func (s *MockSensor) TripHomeSwitch(axis gcm.Axis, tripped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homeSwitch[axis] = tripped
}

// TripProbe marks the probe input as tripped (or not).
func (s *MockSensor) TripProbe(tripped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeTripped = tripped
}

// HomeSwitch implements Sensor.
func (s *MockSensor) HomeSwitch(axis gcm.Axis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.homeSwitch[axis]
}

// ProbeTripped implements Sensor.
func (s *MockSensor) ProbeTripped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probeTripped
}
