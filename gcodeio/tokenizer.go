// Package gcodeio turns a line of G-code text into the (gcm.GCodeInput,
// gcm.GCodeFlags) pair the block normalizer consumes, and provides a
// checksum-framed line transport for streaming blocks to a downstream
// runtime over comm.RemoteDevice. Grounded on nkt/telegram.go's
// pack/unpack/CRC-verify pattern, generalized from NKT's binary telegram
// framing to a GRBL-style "line*checksum\n" ASCII framing.
package gcodeio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nasa-jpl/canon-mc/gcm"
)

// ErrUnknownWord is returned when a line contains a letter this tokenizer
// does not recognize.
var ErrUnknownWord = fmt.Errorf("unrecognized G-code word")

// word is one letter+number pair parsed from a line, e.g. "G1" or "X12.5".
type word struct {
	letter byte
	value  float64
}

// Tokenize parses one line of G-code text into a (GCodeInput, GCodeFlags)
// pair. It strips comments (parenthetical and ';'-to-end-of-line), detects
// same-modal-group word collisions and records them in
// GCodeFlags.ModalConflicts rather than erroring immediately (spec.md
// §4.C step 3 is the normalizer's job, not the tokenizer's -- see
// gcm.GCodeFlags.ModalConflicts's doc comment for why).
func Tokenize(line string, lineNumber int) (gcm.GCodeInput, gcm.GCodeFlags, error) {
	line = stripComments(line)
	words, err := splitWords(line)
	if err != nil {
		return gcm.GCodeInput{}, gcm.GCodeFlags{}, err
	}

	var gn gcm.GCodeInput
	var gf gcm.GCodeFlags
	gn.LineNumber = lineNumber

	seenGroups := map[gcm.ModalGroup]bool{}
	markGroup := func(g gcm.ModalGroup) {
		if g == gcm.ModalGroupNonModal {
			return // group 0 words may repeat/coexist freely
		}
		if seenGroups[g] {
			gf.ModalConflicts = append(gf.ModalConflicts, g)
		}
		seenGroups[g] = true
	}

	for _, w := range words {
		switch w.letter {
		case 'X':
			gn.Target[gcm.AxisX] = w.value
			gf.TargetAxes[gcm.AxisX] = true
		case 'Y':
			gn.Target[gcm.AxisY] = w.value
			gf.TargetAxes[gcm.AxisY] = true
		case 'Z':
			gn.Target[gcm.AxisZ] = w.value
			gf.TargetAxes[gcm.AxisZ] = true
		case 'A':
			gn.Target[gcm.AxisA] = w.value
			gf.TargetAxes[gcm.AxisA] = true
		case 'B':
			gn.Target[gcm.AxisB] = w.value
			gf.TargetAxes[gcm.AxisB] = true
		case 'C':
			gn.Target[gcm.AxisC] = w.value
			gf.TargetAxes[gcm.AxisC] = true
		case 'F':
			gn.FeedRate = w.value
			gf.FeedRate = true
		case 'S':
			gn.SpindleSpeed = w.value
			gf.SpindleSpeed = true
		case 'P':
			gn.PWord = w.value
			gf.PWord = true
		case 'L':
			gn.LWord = int(w.value)
			gf.LWord = true
		case 'R':
			gn.ArcRadius = w.value
			gf.ArcRadius = true
		case 'I':
			gn.ArcOffsetI = w.value
			gf.ArcOffsets[0] = true
		case 'J':
			gn.ArcOffsetJ = w.value
			gf.ArcOffsets[1] = true
		case 'K':
			gn.ArcOffsetK = w.value
			gf.ArcOffsets[2] = true
		case 'T':
			gn.ToolSelect = int(w.value)
			gf.ToolSelect = true
		case 'N':
			gn.LineNumber = int(w.value)
		case 'G':
			if err := applyGWord(w.value, &gn, &gf, markGroup); err != nil {
				return gn, gf, err
			}
		case 'M':
			if err := applyMWord(w.value, &gn, &gf); err != nil {
				return gn, gf, err
			}
		default:
			return gn, gf, fmt.Errorf("%w: %q", ErrUnknownWord, string(w.letter))
		}
	}

	// G10/G92 reference the block's axis words (X/Y/Z/...), which may
	// appear anywhere in the line relative to the G word itself -- so the
	// coordinate/origin offset the NonModal command carries can only be
	// resolved once every word has been seen, not at the point the G word
	// was parsed.
	switch gn.NonModal {
	case gcm.NonModalSetCoordOffsets:
		gn.CoordOffset = gn.Target
		gf.CoordOffsetAxes = gf.TargetAxes
		gn.CoordOffsetSystem = int(gn.PWord)
	case gcm.NonModalSetOrigin:
		gn.OriginOffset = gn.Target
		gf.OriginOffsetAxes = gf.TargetAxes
	}

	return gn, gf, nil
}

func applyGWord(v float64, gn *gcm.GCodeInput, gf *gcm.GCodeFlags, markGroup func(gcm.ModalGroup)) error {
	switch v {
	case 0:
		markGroup(gcm.ModalGroupMotion)
		gn.NextAction = gcm.MotionModeTraverse
		gf.NextAction = true
	case 1:
		markGroup(gcm.ModalGroupMotion)
		gn.NextAction = gcm.MotionModeFeed
		gf.NextAction = true
	case 2:
		markGroup(gcm.ModalGroupMotion)
		gn.NextAction = gcm.MotionModeArcCW
		gf.NextAction = true
	case 3:
		markGroup(gcm.ModalGroupMotion)
		gn.NextAction = gcm.MotionModeArcCCW
		gf.NextAction = true
	case 4:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalDwell
		gf.NonModal = true
	case 10:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalSetCoordOffsets
		gf.NonModal = true
	case 17:
		markGroup(gcm.ModalGroupPlane)
		gn.Plane = gcm.PlaneXY
		gf.Plane = true
	case 18:
		markGroup(gcm.ModalGroupPlane)
		gn.Plane = gcm.PlaneXZ
		gf.Plane = true
	case 19:
		markGroup(gcm.ModalGroupPlane)
		gn.Plane = gcm.PlaneYZ
		gf.Plane = true
	case 20:
		markGroup(gcm.ModalGroupUnits)
		gn.UnitsMode = gcm.UnitsInches
		gf.UnitsMode = true
	case 21:
		markGroup(gcm.ModalGroupUnits)
		gn.UnitsMode = gcm.UnitsMM
		gf.UnitsMode = true
	case 28:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalGoto28
		gf.NonModal = true
	case 28.1:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalSet28
		gf.NonModal = true
	case 30:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalGoto30
		gf.NonModal = true
	case 30.1:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalSet30
		gf.NonModal = true
	case 53:
		gn.AbsoluteOverride = true
		gf.AbsoluteOverride = true
	case 54, 55, 56, 57, 58, 59:
		markGroup(gcm.ModalGroupCoordSystem)
		gn.CoordSystem = int(v) - 53
		gf.CoordSystem = true
	case 61:
		markGroup(gcm.ModalGroupPathControl)
		gn.PathControl = gcm.PathExactStop
		gf.PathControl = true
	case 61.1:
		markGroup(gcm.ModalGroupPathControl)
		gn.PathControl = gcm.PathExactPath
		gf.PathControl = true
	case 64:
		markGroup(gcm.ModalGroupPathControl)
		gn.PathControl = gcm.PathContinuous
		gf.PathControl = true
	case 90:
		markGroup(gcm.ModalGroupDistance)
		gn.DistanceMode = gcm.DistanceAbsolute
		gf.DistanceMode = true
	case 91:
		markGroup(gcm.ModalGroupDistance)
		gn.DistanceMode = gcm.DistanceIncremental
		gf.DistanceMode = true
	case 92:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalSetOrigin
		gf.NonModal = true
	case 92.1:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalResetOrigin
		gf.NonModal = true
	case 92.2:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalSuspendOrigin
		gf.NonModal = true
	case 92.3:
		markGroup(gcm.ModalGroupNonModal)
		gn.NonModal = gcm.NonModalResumeOrigin
		gf.NonModal = true
	case 93:
		markGroup(gcm.ModalGroupFeedMode)
		gn.InverseFeedRate = true
		gf.InverseFeedRate = true
	case 94:
		markGroup(gcm.ModalGroupFeedMode)
		gn.InverseFeedRate = false
		gf.InverseFeedRate = true
	default:
		return fmt.Errorf("%w: G%v", ErrUnknownWord, v)
	}
	return nil
}

func applyMWord(v float64, gn *gcm.GCodeInput, gf *gcm.GCodeFlags) error {
	on, off := true, false
	switch v {
	case 3:
		gn.SpindleMode = gcm.SpindleCW
		gf.SpindleMode = true
	case 4:
		gn.SpindleMode = gcm.SpindleCCW
		gf.SpindleMode = true
	case 5:
		gn.SpindleMode = gcm.SpindleOff
		gf.SpindleMode = true
	case 7:
		gn.Mist = true
		gf.Mist = true
	case 8:
		gn.Flood = true
		gf.Flood = true
	case 9:
		gn.Mist, gn.Flood = false, false
		gf.Mist, gf.Flood = true, true
	case 48:
		gn.FeedOverrideEnable, gn.TraverseOverrideEnable, gn.SpindleOverrideEnable = &on, &on, &on
		gf.FeedOverrideEnable, gf.TraverseOverrideEnable, gf.SpindleOverrideEnable = true, true, true
	case 49:
		gn.FeedOverrideEnable, gn.TraverseOverrideEnable, gn.SpindleOverrideEnable = &off, &off, &off
		gf.FeedOverrideEnable, gf.TraverseOverrideEnable, gf.SpindleOverrideEnable = true, true, true
	case 50:
		gn.FeedOverrideEnable = &on
		gf.FeedOverrideEnable = true
	case 51:
		gn.SpindleOverrideEnable = &on
		gf.SpindleOverrideEnable = true
	default:
		return fmt.Errorf("%w: M%v", ErrUnknownWord, v)
	}
	return nil
}

func stripComments(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		start := strings.IndexByte(line, '(')
		if start < 0 {
			break
		}
		end := strings.IndexByte(line[start:], ')')
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

func splitWords(line string) ([]word, error) {
	var words []word
	i := 0
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		letter := strings.ToUpper(string(c))[0]
		i++
		start := i
		for i < len(line) && (isDigit(line[i]) || line[i] == '.' || line[i] == '-' || line[i] == '+') {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: %q has no numeric value after %q", ErrUnknownWord, line, string(letter))
		}
		v, err := strconv.ParseFloat(line[start:i], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing numeric value in %q: %w", line, err)
		}
		words = append(words, word{letter: letter, value: v})
	}
	return words, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
