package gcm

// Units is the active unit mode (G20/G21).
type Units int

// Unit modes.
const (
	UnitsMM Units = iota
	UnitsInches
)

// Plane is the active plane selection (G17/G18/G19).
type Plane int

// Plane selections.
const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// DistanceMode is G90 (absolute) or G91 (incremental).
type DistanceMode int

// Distance modes.
const (
	DistanceAbsolute DistanceMode = iota
	DistanceIncremental
)

// PathControl is the active path-control mode (G61/G61.1/G64).
type PathControl int

// Path control modes.
const (
	PathExactStop PathControl = iota
	PathExactPath
	PathContinuous
)

// MotionMode is modal group 1: the motion mode latched across blocks that
// don't specify a new one.
type MotionMode int

// Motion modes.
const (
	MotionModeNone MotionMode = iota
	MotionModeTraverse            // G0
	MotionModeFeed                // G1
	MotionModeArcCW               // G2
	MotionModeArcCCW               // G3
	MotionModeDwell                // G4
	MotionModeProbe                 // G38.2 class
	MotionModeHoming                // G28/G30
)

// SpindleMode is the spindle rotation direction/state.
type SpindleMode int

// Spindle modes.
const (
	SpindleOff SpindleMode = iota
	SpindleCW
	SpindleCCW
)

// CoordSystemCount is the machine coordinate system (index 0) plus G54..G59
// (spec.md §3 "nine G10-programmable work offsets" — six standard slots are
// modeled here; G54.1 P1..P3 style extra slots round the table to nine).
const CoordSystemCount = 10

// GCodeState is the canonical model, "gm" in spec.md §3. Every value is in
// millimeters, millimeters-per-minute, or RPM regardless of the active unit
// mode. It is the thing snapshot_into copies by value into planner buffers.
type GCodeState struct {
	LineNumber int

	MotionMode MotionMode
	Target     Vector

	// WorkOffset is a reporting snapshot only; it is not authoritative
	// (the offset table in the store is) but travels with a planner
	// buffer copy so an in-flight move reports the offset active when it
	// was enqueued.
	WorkOffset Vector

	MoveTime        float64 // minutes
	MinFeasibleTime float64 // minutes
	FeedRate        float64 // mm/min, or 1/min if InverseFeedRate
	SpindleSpeed    float64 // RPM
	PWord           float64 // generic P parameter

	InverseFeedRate  bool
	Plane            Plane
	Units            Units
	CoordSystem      int // index into the offset table
	AbsoluteOverride bool
	PathControl      PathControl
	DistanceMode     DistanceMode
	Tool             int
	ToolSelect       int
	Mist             bool
	Flood            bool
	SpindleMode      SpindleMode
}

// GCodeStateExt is the extended model, "gmx" in spec.md §3. It is owned
// only by the canonical machine and is never copied into planner buffers.
type GCodeStateExt struct {
	// Position is the current canonical model position, mm, machine frame.
	Position Vector

	// OriginOffset is the G92 origin offset.
	OriginOffset Vector

	// OriginOffsetEnable gates whether OriginOffset is added in
	// active_coord_offset (spec.md §4.A).
	OriginOffsetEnable bool

	// G28Position and G30Position are the stored reference positions for
	// G28.1/G30.1 and G28/G30.
	G28Position Vector
	G30Position Vector

	InverseFeedRateVal float64

	FeedOverrideFactor     float64
	FeedOverrideEnable     bool
	TraverseOverrideFactor float64
	TraverseOverrideEnable bool
	SpindleOverrideFactor  float64
	SpindleOverrideEnable  bool

	LWord int

	// PlaneAxis0/1/2 name the in-plane, in-plane, and normal axes for the
	// active plane selection, used by arc_feed.
	PlaneAxis0, PlaneAxis1, PlaneAxis2 Axis

	BlockDelete bool

	// ArcRadius, ArcOffsetI/J/K hold the most recent R/I/J/K words, in mm.
	// The normalizer writes each one only when the block flags it and
	// never clears them; ExecuteBlock passes the block's own gn values to
	// arc_feed rather than reading these fields.
	ArcRadius                   float64
	ArcOffsetI, ArcOffsetJ, ArcOffsetK float64
}

// DefaultGCodeState returns the power-on default canonical model: mm,
// absolute, plane XY, G54, path continuous, no motion mode latched.
func DefaultGCodeState() GCodeState {
	return GCodeState{
		MotionMode:   MotionModeNone,
		Units:        UnitsMM,
		Plane:        PlaneXY,
		CoordSystem:  1, // G54
		DistanceMode: DistanceAbsolute,
		PathControl:  PathContinuous,
	}
}

// DefaultGCodeStateExt returns the power-on default extended model.
func DefaultGCodeStateExt() GCodeStateExt {
	return GCodeStateExt{
		FeedOverrideFactor:     1,
		TraverseOverrideFactor: 1,
		SpindleOverrideFactor:  1,
		PlaneAxis0:             AxisX,
		PlaneAxis1:             AxisY,
		PlaneAxis2:             AxisZ,
	}
}
