package cm

import (
	"fmt"

	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/planner"
)

// MistCoolantControl implements M7 (on)/M9 (off, shared with flood).
func (m *Machine) MistCoolantControl(on bool) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.Mist = on })
	return m.enqueue(planner.KindNonMotion, 0)
}

// FloodCoolantControl implements M8 (on)/M9 (off, shared with mist).
func (m *Machine) FloodCoolantControl(on bool) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.Flood = on })
	return m.enqueue(planner.KindNonMotion, 0)
}

// CoolantOff implements M9: turns off both mist and flood.
func (m *Machine) CoolantOff() error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) {
		gm.Mist = false
		gm.Flood = false
	})
	return m.enqueue(planner.KindNonMotion, 0)
}

// SpindleControl implements M3 (CW)/M4 (CCW)/M5 (stop), optionally setting
// the commanded speed in the same block (S word).
func (m *Machine) SpindleControl(mode gcm.SpindleMode, speed float64, speedFlag bool) error {
	if speedFlag && speed < 0 {
		return fmt.Errorf("%w: spindle speed must be >= 0", gcm.ErrInvalidAxis)
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) {
		gm.SpindleMode = mode
		if speedFlag {
			gm.SpindleSpeed = speed
		}
	})
	return m.enqueue(planner.KindNonMotion, 0)
}

// SetSpindleSpeed implements a bare S word with no M3/M4/M5 in the same
// block: it only latches the commanded speed for when the spindle is next
// turned on.
func (m *Machine) SetSpindleSpeed(speed float64) error {
	if speed < 0 {
		return fmt.Errorf("%w: spindle speed must be >= 0", gcm.ErrInvalidAxis)
	}
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.SpindleSpeed = speed })
	return nil
}

// SelectTool implements the T word: latches the next tool to change to
// without performing the change (spec.md §4.D "select_tool").
func (m *Machine) SelectTool(tool int) error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.ToolSelect = tool })
	return nil
}

// ChangeTool implements M6: commits the previously selected tool as the
// active tool. A synchronized (non-motion) operation that waits for the
// queue to drain before the downstream runtime may act on it (spec.md §5
// "synchronized command" class).
func (m *Machine) ChangeTool() error {
	m.Store.MutateGM(func(gm *gcm.GCodeState) { gm.Tool = gm.ToolSelect })
	return m.enqueue(planner.KindNonMotion, 0)
}
