package gcm

import "sync"

// OffsetTable is the coordinate-offset table: machine (index 0) plus
// G54..G59 and friends (spec.md §3), persisted across power cycles by the
// config store.
type OffsetTable [CoordSystemCount]Vector

// Store owns gm, gmx, the offset table, and the power-on defaults (spec.md
// §4.B). All mutation happens from the single dispatcher goroutine; the
// mutex only guards the snapshot path against the interrupt-like read from
// an HTTP reporting goroutine.
type Store struct {
	mu sync.RWMutex

	gm  GCodeState
	gmx GCodeStateExt

	offsets OffsetTable

	defaultGM  GCodeState
	defaultGMX GCodeStateExt

	// G10PersistFlag is set by SetCoordOffsets and cleared by the config
	// store once it has written the table through (spec.md §6).
	G10PersistFlag bool
}

// NewStore returns a Store reset to power-on defaults.
func NewStore() *Store {
	s := &Store{
		defaultGM:  DefaultGCodeState(),
		defaultGMX: DefaultGCodeStateExt(),
	}
	s.ResetToDefaults()
	return s
}

// ResetToDefaults copies the configured defaults into gm/gmx; called on
// init and on program end (M2/M30).
func (s *Store) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gm = s.defaultGM
	s.gmx = s.defaultGMX
}

// GM returns a copy of the canonical model. Copying (not returning a
// pointer) keeps callers from accidentally aliasing the live model -- the
// same discipline spec.md §9 calls for around ACTIVE_MODEL.
func (s *Store) GM() GCodeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gm
}

// GMX returns a copy of the extended model.
func (s *Store) GMX() GCodeStateExt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gmx
}

// MutateGM applies fn to the live gm under lock. Used by the block
// normalizer and canonical command API, which are the only callers allowed
// to mutate gm (spec.md §5).
func (s *Store) MutateGM(fn func(*GCodeState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.gm)
}

// MutateGMX applies fn to the live gmx under lock.
func (s *Store) MutateGMX(fn func(*GCodeStateExt)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.gmx)
}

// SnapshotInto bit-copies gm into dest, the planner-buffer-slot pattern
// from spec.md §4.B. The RLock is the "masked briefly" half of the
// atomicity requirement; the planner is responsible for not publishing dest
// until the copy returns.
func (s *Store) SnapshotInto(dest *GCodeState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	*dest = s.gm
}

// SetTarget writes gm.Target[axis] for each axis flagged present. The
// input is already in mm; distance-mode resolution happens in the
// normalizer before this is called (spec.md §4.B).
func (s *Store) SetTarget(target Vector, flags Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < AxisCount; i++ {
		if flags[i] {
			s.gm.Target[i] = target[i]
		}
	}
}

// Offset returns the offset table row for a coordinate system.
func (s *Store) Offset(system int) Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offsets[system]
}

// SetOffset writes the offset table row for a coordinate system, flagged
// axes only, and arms G10PersistFlag.
func (s *Store) SetOffset(system int, offset Vector, flags Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < AxisCount; i++ {
		if flags[i] {
			s.offsets[system][i] = offset[i]
		}
	}
	s.G10PersistFlag = true
}

// LoadOffsetTable replaces the whole offset table, e.g. from the config
// store at init.
func (s *Store) LoadOffsetTable(t OffsetTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets = t
}

// OffsetTableSnapshot returns a copy of the whole offset table, e.g. for
// the config store to persist when G10PersistFlag is set.
func (s *Store) OffsetTableSnapshot() OffsetTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offsets
}

// ClearPersistFlag clears G10PersistFlag once the config store has written
// the table through.
func (s *Store) ClearPersistFlag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.G10PersistFlag = false
}
