// report.go is the reporting adapter (spec.md §4.G): a command-object
// interface where each named field is backed by a getter (and, for
// configuration fields, a setter), keyed by the short token spec.md §6
// lists. Grounded on generichttp.HumanPayload's typed-token envelope and
// aerotech.Status's bitfield-to-named-field decoding (aerotech/ancilary.go)
// generalized here to gm/gmx/cm field access instead of a status word.
package cm

import "github.com/nasa-jpl/canon-mc/gcm"

// Report is a point-in-time, read-only snapshot of every field the
// external reporter needs. ReportAdapter.Snapshot builds one without
// holding the store locked for the reporter's full formatting pass.
type Report struct {
	Stat string // combined-state word, e.g. "CYCLE/MACHINING/RUN"
	Line int
	MLine int // runtime's in-flight line number

	Pos  gcm.Vector // gmx.Position, machine frame, mm
	Mpo  gcm.Vector // work position: Pos - active coordinate offset
	Ofs  gcm.Vector // active coordinate-system offset
	Vel  float64    // runtime scalar feed velocity

	Units  gcm.Units
	Coor   int
	Momo   gcm.MotionMode
	Plane  gcm.Plane
	Path   gcm.PathControl
	Dist   gcm.DistanceMode
	Frmo   bool // inverse feed rate mode
	Tool   int

	AxisMax   [gcm.AxisCount]float64 // am: travel max
	FeedMax   [gcm.AxisCount]float64 // fr: feedrate max
	VelMax    [gcm.AxisCount]float64 // vm: velocity max
	TravelMin [gcm.AxisCount]float64 // tm
	JerkMax   [gcm.AxisCount]float64 // jm
	JerkHome  [gcm.AxisCount]float64 // jh
	JuncDev   [gcm.AxisCount]float64 // jd
	RadiusMM  [gcm.AxisCount]float64 // ra

	SearchVel [gcm.AxisCount]float64 // sn
	LatchVel  [gcm.AxisCount]float64 // sv -- latch search velocity
	LatchBack [gcm.AxisCount]float64 // lb
	ZeroBack  [gcm.AxisCount]float64 // zb

	// Sx reports whether each axis has been successfully homed.
	Sx [gcm.AxisCount]bool

	Cofs [gcm.CoordSystemCount]gcm.Vector // cofs: full offset table
	Cpos int                              // cpos: active coordinate system index
}

// activeCoordOffset returns the coordinate offset currently in force:
// the selected work-offset row, plus the origin offset when enabled
// (spec.md §4.A "active_coord_offset").
func (m *Machine) activeCoordOffset() gcm.Vector {
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	off := m.Store.Offset(gm.CoordSystem)
	if gmx.OriginOffsetEnable {
		for i := 0; i < gcm.AxisCount; i++ {
			off[i] += gmx.OriginOffset[i]
		}
	}
	return off
}

// Snapshot builds a Report from the current gm/gmx/cm state plus whatever
// the downstream planner will answer for runtime queries.
func (m *Machine) Snapshot() Report {
	gm := m.Store.GM()
	gmx := m.Store.GMX()
	ofs := m.activeCoordOffset()

	var mpo gcm.Vector
	for i := 0; i < gcm.AxisCount; i++ {
		mpo[i] = gmx.Position[i] - ofs[i]
	}

	r := Report{
		Stat:  m.State.Combined().String(),
		Line:  gm.LineNumber,
		MLine: m.Planner.RuntimeLineNumber(),
		Pos:   gmx.Position,
		Mpo:   mpo,
		Ofs:   ofs,
		Vel:   m.Planner.RuntimeVelocity(),
		Units: gm.Units,
		Coor:  gm.CoordSystem,
		Momo:  gm.MotionMode,
		Plane: gm.Plane,
		Path:  gm.PathControl,
		Dist:  gm.DistanceMode,
		Frmo:  gm.InverseFeedRate,
		Tool:  gm.Tool,
		Cpos:  gm.CoordSystem,
	}
	for i := 0; i < gcm.AxisCount; i++ {
		cfg := m.Axes[i]
		r.AxisMax[i] = cfg.TravelMax
		r.FeedMax[i] = cfg.FeedrateMax
		r.VelMax[i] = cfg.VelocityMax
		r.TravelMin[i] = cfg.TravelMin
		r.JerkMax[i] = cfg.JerkMax
		r.JerkHome[i] = cfg.JerkHoming
		r.JuncDev[i] = cfg.JunctionDeviation
		r.RadiusMM[i] = cfg.RadiusMM
		r.SearchVel[i] = cfg.Homing.SearchVelocity
		r.LatchVel[i] = cfg.Homing.LatchVelocity
		r.LatchBack[i] = cfg.Homing.LatchBackoff
		r.ZeroBack[i] = cfg.Homing.ZeroBackoff
		r.Sx[i] = m.State.Homed(gcm.Axis(i))
	}
	for s := 0; s < gcm.CoordSystemCount; s++ {
		r.Cofs[s] = m.Store.Offset(s)
	}
	return r
}

// Field looks up a single named value by its spec.md §6 token, for
// callers (generichttp/canon) that want one field rather than a full
// Report. ok is false for an unrecognized token.
func (m *Machine) Field(token string) (interface{}, bool) {
	rep := m.Snapshot()
	switch token {
	case "stat":
		return rep.Stat, true
	case "line":
		return rep.Line, true
	case "mline":
		return rep.MLine, true
	case "pos":
		return rep.Pos, true
	case "mpo":
		return rep.Mpo, true
	case "ofs":
		return rep.Ofs, true
	case "vel":
		return rep.Vel, true
	case "unit":
		return rep.Units, true
	case "coor":
		return rep.Coor, true
	case "momo":
		return rep.Momo, true
	case "plan":
		return rep.Plane, true
	case "path":
		return rep.Path, true
	case "dist":
		return rep.Dist, true
	case "frmo":
		return rep.Frmo, true
	case "tool":
		return rep.Tool, true
	case "am":
		return rep.AxisMax, true
	case "fr":
		return rep.FeedMax, true
	case "vm":
		return rep.VelMax, true
	case "tm":
		return rep.TravelMin, true
	case "jm":
		return rep.JerkMax, true
	case "jh":
		return rep.JerkHome, true
	case "jd":
		return rep.JuncDev, true
	case "ra":
		return rep.RadiusMM, true
	case "sn":
		return rep.SearchVel, true
	case "sv":
		return rep.LatchVel, true
	case "lv":
		return rep.LatchVel, true
	case "lb":
		return rep.LatchBack, true
	case "zb":
		return rep.ZeroBack, true
	case "sx":
		return rep.Sx, true
	case "cofs":
		return rep.Cofs, true
	case "cpos":
		return rep.Cpos, true
	default:
		return nil, false
	}
}
