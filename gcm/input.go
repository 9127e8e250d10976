package gcm

// GCodeInput is "gn" in spec.md §3: the raw values of the currently-parsed
// block, in the units it was written (inches allowed). Reset at the start
// of every block.
type GCodeInput struct {
	LineNumber int

	NextAction   MotionMode // the motion mode this block requests, if any
	Target       Vector     // raw axis words, not yet unit-normalized
	FeedRate     float64
	SpindleSpeed float64
	PWord        float64

	UnitsMode        Units
	Plane            Plane
	CoordSystem      int
	AbsoluteOverride bool
	PathControl      PathControl
	DistanceMode     DistanceMode
	InverseFeedRate  bool
	ToolSelect       int
	Mist             bool
	Flood            bool
	SpindleMode      SpindleMode

	FeedOverrideEnable     *bool // M48/M49 class: nil means "not in this block"
	TraverseOverrideEnable *bool
	SpindleOverrideEnable  *bool
	FeedOverrideFactor     float64
	TraverseOverrideFactor float64
	SpindleOverrideFactor  float64

	LWord int

	ArcRadius  float64
	ArcOffsetI float64
	ArcOffsetJ float64
	ArcOffsetK float64

	CoordOffset     Vector // G10 L2 Pn operand
	CoordOffsetSystem int  // G10 L2 Pn operand's coordinate-system index
	OriginOffset    Vector // G92 operand
	Message         string

	// NonModal carries group-0 commands (G4, G10, G28/G28.1, G30/G30.1,
	// G92/G92.1/G92.2/G92.3) -- words that coexist with a group-1 motion
	// word in the same block rather than replacing it (spec.md §4.C step
	// 3). ExecuteBlock dispatches this in addition to, not instead of,
	// NextAction.
	NonModal NonModalCommand
}

// NonModalCommand identifies a modal-group-0 word present in a block.
type NonModalCommand int

// Non-modal commands.
const (
	NonModalNone NonModalCommand = iota
	NonModalDwell                // G4
	NonModalSetCoordOffsets      // G10 L2
	NonModalGoto28               // G28
	NonModalSet28                // G28.1
	NonModalGoto30               // G30
	NonModalSet30                // G30.1
	NonModalSetOrigin            // G92
	NonModalResetOrigin          // G92.1
	NonModalSuspendOrigin        // G92.2
	NonModalResumeOrigin         // G92.3
)

// GCodeFlags is "gf" in spec.md §3: a parallel present-in-this-block
// bitset for GCodeInput. Reset alongside gn each block.
type GCodeFlags struct {
	TargetAxes Flags

	NextAction   bool
	FeedRate     bool
	SpindleSpeed bool
	PWord        bool

	UnitsMode        bool
	Plane            bool
	CoordSystem      bool
	AbsoluteOverride bool
	PathControl      bool
	DistanceMode     bool
	InverseFeedRate  bool
	ToolSelect       bool
	Mist             bool
	Flood            bool
	SpindleMode      bool

	FeedOverrideEnable     bool
	TraverseOverrideEnable bool
	SpindleOverrideEnable  bool
	FeedOverrideFactor     bool
	TraverseOverrideFactor bool
	SpindleOverrideFactor  bool

	LWord bool

	ArcRadius        bool
	ArcOffsets       Flags // I, J, K map onto axis 0/1/2 slots by convention
	CoordOffsetAxes  Flags
	OriginOffsetAxes Flags
	Message          bool
	NonModal         bool

	// ModalConflicts is populated by the block source (gcodeio) when a
	// single block carries more than one word from the same modal group
	// (e.g. "G0 G1 X1"); by the time gn/gf reach the normalizer, a later
	// word has already overwritten the matching gn field, so the raw
	// conflict must be flagged here instead of re-derived.
	ModalConflicts []ModalGroup
}

// ModalGroup identifies the mutual-exclusion group a word belongs to
// (spec.md §4.C step 3).
type ModalGroup int

// Modal groups relevant to block validation. Group 0 is non-modal and may
// coexist with group 1; everything else allows at most one active word.
const (
	ModalGroupNonModal ModalGroup = iota // group 0: G4, G10, G28, G30, G92*
	ModalGroupMotion                     // group 1: G0,G1,G2,G3,G38.2,G80..G89
	ModalGroupPlane                      // group 2: G17,G18,G19
	ModalGroupDistance                   // group 3: G90,G91
	ModalGroupFeedMode                   // group 5: G93,G94
	ModalGroupUnits                      // group 6: G20,G21
	ModalGroupCoordSystem                // group 12: G54..G59
	ModalGroupPathControl                // group 13: G61,G61.1,G64
)

