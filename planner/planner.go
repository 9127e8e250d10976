// Package planner describes the downstream motion-planner collaborator
// (spec.md §6) that the canonical machine enqueues into, and provides an
// in-memory mock implementation for tests and the demo commands. The real
// planner (jerk-limited trajectory buffer, arc segmenter, step/runtime
// executor) is out of scope per spec.md §1; this package only models the
// boundary the canonical machine calls across.
package planner

import (
	"errors"
	"sync"

	"github.com/nasa-jpl/canon-mc/gcm"
)

// ErrFull is returned by Reserve when every buffer slot is occupied; the
// canonical machine treats this as a transient, retryable resource error
// (spec.md §7 "Resource").
var ErrFull = errors.New("planner queue full")

// Kind tags what a committed buffer represents, used by the runtime
// executor (out of scope here) to choose how to step the move.
type Kind int

// Buffer kinds.
const (
	KindTraverse Kind = iota
	KindFeed
	KindArcSegment
	KindDwell
	KindNonMotion // coolant/spindle/tool-change synchronized commands
)

// Handle identifies a reserved buffer slot.
type Handle int

// Buffer is one entry in the downstream motion queue: a snapshot of gm plus
// the kind tag and any kind-specific payload (spec.md GLOSSARY).
type Buffer struct {
	GM   gcm.GCodeState
	Kind Kind

	// DwellSeconds is only meaningful for KindDwell.
	DwellSeconds float64

	// started and done are not written by Mock: Step pops a buffer off
	// the FIFO instead of marking it, and runtime_busy/queue_empty follow
	// the FIFO length.
	started bool
	done    bool
}

// Planner is the interface the canonical machine's command API (cm
// package) calls across (spec.md §6 downstream interfaces):
//
//	reserve_buffer() -> BufferHandle | full
//	commit_buffer(handle, kind)
//	queue_empty() -> bool
//	runtime_busy() -> bool
//	flush_queue()
type Planner interface {
	// Reserve returns a handle to a free slot, or ErrFull if none are
	// available. The canonical machine then writes a GCodeState snapshot
	// into it (via gcm.Store.SnapshotInto) before calling Commit.
	Reserve() (Handle, error)

	// Commit publishes a reserved slot with its GCodeState snapshot
	// already written, tagging it with kind. Once committed, the
	// canonical machine must never mutate the buffer's copy again
	// (spec.md invariant: "every planner buffer holds a copy ... captured
	// at enqueue time").
	Commit(h Handle, gm gcm.GCodeState, kind Kind, dwellSeconds float64) error

	// QueueEmpty reports whether there is no pending (not-yet-started)
	// work.
	QueueEmpty() bool

	// RuntimeBusy reports whether the runtime executor is currently
	// stepping a buffer.
	RuntimeBusy() bool

	// FlushQueue drops every not-yet-started buffer; it is the only
	// cancellation primitive (spec.md §5).
	FlushQueue()

	// RuntimePosition reports the runtime's notion of an axis's current
	// position -- a read-only query into the downstream runtime (spec.md
	// §6), distinct from gmx.Position which is the canonical machine's
	// own bookkeeping.
	RuntimePosition(axis gcm.Axis) float64

	// RuntimeVelocity reports the runtime's current scalar feed velocity,
	// mm/min (spec.md §6 "runtime_velocity").
	RuntimeVelocity() float64

	// RuntimeLineNumber reports the line number of the block the runtime
	// is currently executing (spec.md §6 "runtime_line_number").
	RuntimeLineNumber() int
}

// Mock is an in-memory Planner for tests and the demo cmd. It executes
// buffers instantly on Step() rather than on a real servo tick, which is
// enough to exercise the canonical machine's enqueue/drain/flush contracts
// without a real trajectory generator. Grounded on newport's
// MockController / pi's mock.go pattern: a mutex-guarded FIFO slice
// standing in for hardware state.
type Mock struct {
	mu sync.Mutex

	capacity int
	buffers  []*Buffer // FIFO; index 0 is oldest

	runtimePos    gcm.Vector
	runtimeBusy   bool
	runtimeVel    float64
	runtimeLine   int
}

// NewMock returns a Mock planner with the given buffer capacity.
func NewMock(capacity int) *Mock {
	if capacity <= 0 {
		capacity = 1
	}
	return &Mock{capacity: capacity}
}

// Reserve implements Planner.
func (m *Mock) Reserve() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.buffers) >= m.capacity {
		return 0, ErrFull
	}
	// the handle is just the eventual FIFO position; Commit appends, so
	// reservation here is logical (the real planner would hold a slot
	// open between Reserve and Commit, but the mock has no concurrent
	// writers to race against).
	return Handle(len(m.buffers)), nil
}

// Commit implements Planner.
func (m *Mock) Commit(h Handle, gm gcm.GCodeState, kind Kind, dwellSeconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.buffers) >= m.capacity {
		return ErrFull
	}
	m.buffers = append(m.buffers, &Buffer{GM: gm, Kind: kind, DwellSeconds: dwellSeconds})
	return nil
}

// QueueEmpty implements Planner.
func (m *Mock) QueueEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers) == 0
}

// RuntimeBusy implements Planner.
func (m *Mock) RuntimeBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtimeBusy
}

// FlushQueue implements Planner.
func (m *Mock) FlushQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffers = nil
	m.runtimeBusy = false
}

// RuntimePosition implements Planner.
func (m *Mock) RuntimePosition(axis gcm.Axis) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtimePos[axis]
}

// RuntimeVelocity implements Planner.
func (m *Mock) RuntimeVelocity() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtimeVel
}

// RuntimeLineNumber implements Planner.
func (m *Mock) RuntimeLineNumber() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtimeLine
}

// Step executes the oldest pending buffer instantly, advancing the mock
// runtime position to the buffer's target and popping it off the queue.
// Test and demo-cmd code calls this to emulate the runtime ISR advancing
// real motion; the real controller never calls it (the real runtime steps
// on its own timer).
func (m *Mock) Step() (Buffer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.buffers) == 0 {
		m.runtimeBusy = false
		return Buffer{}, false
	}
	m.runtimeBusy = true
	b := m.buffers[0]
	m.buffers = m.buffers[1:]
	if b.Kind != KindNonMotion && b.Kind != KindDwell {
		m.runtimePos = b.GM.Target
	}
	m.runtimeVel = b.GM.FeedRate
	m.runtimeLine = b.GM.LineNumber
	m.runtimeBusy = len(m.buffers) > 0
	return *b, true
}

// Pending returns the number of not-yet-started buffers.
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}
