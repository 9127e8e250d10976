package gcm

// mmPerInch is the exact inch-to-millimeter conversion factor.
const mmPerInch = 25.4

// NormalizeLength converts a length value from the given unit mode to
// millimeters. Pure: no side effects on the store (spec.md §4.A).
func NormalizeLength(value float64, units Units) float64 {
	if units == UnitsInches {
		return value * mmPerInch
	}
	return value
}

// DenormalizeLength converts a millimeter value to the display units, the
// inverse of NormalizeLength, used only by the reporting adapter (spec.md
// §4.A: "converted to the active display units by the reporter, never
// stored").
func DenormalizeLength(mm float64, units Units) float64 {
	if units == UnitsInches {
		return mm / mmPerInch
	}
	return mm
}

// ActiveCoordOffset returns the sum of the offset for the currently
// selected coordinate system plus the G92 origin offset when enabled, or
// zero for any axis while AbsoluteOverride is set (spec.md §4.A). Pure: the
// caller provides the gm/gmx snapshot and offset-table row so this never
// touches the store directly.
func ActiveCoordOffset(axis Axis, gm GCodeState, gmx GCodeStateExt, coordOffset Vector) float64 {
	if gm.AbsoluteOverride {
		return 0
	}
	off := coordOffset[axis]
	if gmx.OriginOffsetEnable {
		off += gmx.OriginOffset[axis]
	}
	return off
}

// WorkPosition returns gmx.Position[axis] - ActiveCoordOffset(axis), still
// in mm; the reporter converts to display units, it is never stored in mm
// form (spec.md §4.A).
func WorkPosition(axis Axis, gm GCodeState, gmx GCodeStateExt, coordOffset Vector) float64 {
	return gmx.Position[axis] - ActiveCoordOffset(axis, gm, gmx, coordOffset)
}

// AbsolutePosition returns gmx.Position[axis] verbatim: always mm, machine
// frame (spec.md §4.A).
func AbsolutePosition(axis Axis, gmx GCodeStateExt) float64 {
	return gmx.Position[axis]
}
