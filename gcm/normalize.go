package gcm

// Normalize implements spec.md §4.C steps 1-4 against the given (gn, gf)
// input tier: it applies G20/G21, converts linear words to mm, checks for
// modal-group conflicts, and writes the flagged fields into gm/gmx. Step 5
// (dispatch to the corresponding canonical command) is the caller's job --
// Normalize only prepares gm/gmx and returns the resolved target so the
// caller (the cm package) can dispatch on gn.NextAction.
//
// On error, gm/gmx are left completely unmutated, per spec.md's
// propagation policy ("the canonical state is not partially mutated").
func (s *Store) Normalize(gn GCodeInput, gf GCodeFlags) (target Vector, err error) {
	if len(gf.ModalConflicts) > 0 {
		return Vector{}, ErrModalGroupViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// step 1: units mode applies to this block's own later words, so
	// resolve it before converting anything.
	units := s.gm.Units
	if gf.UnitsMode {
		units = gn.UnitsMode
	}

	// step 2: convert the block's length words to mm: the flagged target
	// axes, arc radius and IJK here, and the F word in step 4 (only in
	// units-per-minute mode; an inverse-time F is 1/min and is kept as
	// given). Override factors are ratios and are not converted.
	rawTarget := gn.Target
	for i := 0; i < AxisCount; i++ {
		if gf.TargetAxes[i] {
			rawTarget[i] = NormalizeLength(rawTarget[i], units)
		}
	}
	arcRadius := NormalizeLength(gn.ArcRadius, units)
	arcI := NormalizeLength(gn.ArcOffsetI, units)
	arcJ := NormalizeLength(gn.ArcOffsetJ, units)
	arcK := NormalizeLength(gn.ArcOffsetK, units)

	// step 4: write flagged fields into gm/gmx per the mapping table.
	if gf.UnitsMode {
		s.gm.Units = gn.UnitsMode
	}
	if gf.DistanceMode {
		s.gm.DistanceMode = gn.DistanceMode
	}
	if gf.Plane {
		s.gm.Plane = gn.Plane
	}
	if gf.CoordSystem {
		s.gm.CoordSystem = gn.CoordSystem
	}
	if gf.AbsoluteOverride {
		s.gm.AbsoluteOverride = gn.AbsoluteOverride
	} else {
		// absolute override is block-scoped (spec.md §3): it does not
		// persist unless re-specified.
		s.gm.AbsoluteOverride = false
	}
	if gf.FeedRate {
		inverse := s.gm.InverseFeedRate
		if gf.InverseFeedRate {
			inverse = gn.InverseFeedRate
		}
		s.gm.FeedRate = gn.FeedRate
		if !inverse {
			s.gm.FeedRate = NormalizeLength(gn.FeedRate, units)
		}
	}
	if gf.InverseFeedRate {
		s.gm.InverseFeedRate = gn.InverseFeedRate
	}
	if gf.ToolSelect {
		s.gm.ToolSelect = gn.ToolSelect
	}
	if gf.Mist {
		s.gm.Mist = gn.Mist
	}
	if gf.Flood {
		s.gm.Flood = gn.Flood
	}
	if gf.SpindleMode {
		s.gm.SpindleMode = gn.SpindleMode
	}
	if gf.SpindleSpeed {
		s.gm.SpindleSpeed = gn.SpindleSpeed
	}
	if gf.PWord {
		s.gm.PWord = gn.PWord
	}
	if gf.PathControl {
		s.gm.PathControl = gn.PathControl
	}
	if gf.LWord {
		s.gmx.LWord = gn.LWord
	}
	if gf.ArcRadius {
		s.gmx.ArcRadius = arcRadius
	}
	if gf.ArcOffsets[0] {
		s.gmx.ArcOffsetI = arcI
	}
	if gf.ArcOffsets[1] {
		s.gmx.ArcOffsetJ = arcJ
	}
	if gf.ArcOffsets[2] {
		s.gmx.ArcOffsetK = arcK
	}
	if gf.FeedOverrideEnable && gn.FeedOverrideEnable != nil {
		s.gmx.FeedOverrideEnable = *gn.FeedOverrideEnable
	}
	if gf.TraverseOverrideEnable && gn.TraverseOverrideEnable != nil {
		s.gmx.TraverseOverrideEnable = *gn.TraverseOverrideEnable
	}
	if gf.SpindleOverrideEnable && gn.SpindleOverrideEnable != nil {
		s.gmx.SpindleOverrideEnable = *gn.SpindleOverrideEnable
	}

	s.gm.LineNumber = gn.LineNumber

	// resolve the canonical target per spec.md §4.C's distance-mode rule.
	// Unflagged axes inherit gmx.position[axis].
	resolved := s.gmx.Position
	coordOff := s.offsets[s.gm.CoordSystem]
	incremental := s.gm.DistanceMode == DistanceIncremental && !s.gm.AbsoluteOverride
	for i := 0; i < AxisCount; i++ {
		if !gf.TargetAxes[i] {
			continue
		}
		if incremental {
			resolved[i] = s.gmx.Position[i] + rawTarget[i]
		} else {
			resolved[i] = rawTarget[i] + ActiveCoordOffset(Axis(i), s.gm, s.gmx, coordOff)
		}
	}
	s.gm.Target = resolved

	return resolved, nil
}
