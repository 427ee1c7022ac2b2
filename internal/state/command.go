package state

import (
	"errors"
	"fmt"
)

// CommandType identifies a change requested by the UI or another driver.
type CommandType string

const (
	CmdSetSizeMultiplier    CommandType = "SET_SIZE"
	CmdScaleSize            CommandType = "SCALE_SIZE"
	CmdSetDensity           CommandType = "SET_DENSITY"
	CmdAdjustDensity        CommandType = "ADJUST_DENSITY"
	CmdSetBackgroundOpacity CommandType = "SET_OPACITY"
	CmdAdjustOpacity        CommandType = "ADJUST_OPACITY"
	CmdSetSpeed             CommandType = "SET_SPEED"
	CmdAdjustSpeed          CommandType = "ADJUST_SPEED"
	CmdSetTimeScale         CommandType = "SET_TIME_SCALE"
	CmdTogglePause          CommandType = "TOGGLE_PAUSE"
	CmdSetLOD               CommandType = "SET_LOD"
	CmdToggleLOD            CommandType = "TOGGLE_LOD"
	CmdResetTime            CommandType = "RESET_TIME"
)

// Size multiplier bounds.
const (
	MinSizeMultiplier = 0.01
	MaxSizeMultiplier = 1e6
)

// ErrUnknownCommand is returned by Apply for unrecognized command types.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a single requested change. Value carries the argument: an
// absolute value for Set commands, a delta or factor for Adjust and Scale.
// Toggle commands ignore it.
type Command struct {
	Type  CommandType
	Value float64
}

// apply mutates sim and render for cmd and describes the change. Callers hold
// the manager lock.
func (m *Manager) apply(cmd Command) (Event, error) {
	ev := Event{Type: EventConfigChanged, Command: cmd.Type}

	switch cmd.Type {
	case CmdSetSizeMultiplier:
		ev.Field = "size"
		ev.Old = m.render.SizeMultiplier
		m.render.SizeMultiplier = clampFloat(cmd.Value, MinSizeMultiplier, MaxSizeMultiplier)
		ev.New = m.render.SizeMultiplier

	case CmdScaleSize:
		if cmd.Value <= 0 {
			return Event{}, fmt.Errorf("%s: factor must be positive, got %v", cmd.Type, cmd.Value)
		}
		ev.Field = "size"
		ev.Old = m.render.SizeMultiplier
		m.render.SizeMultiplier = clampFloat(m.render.SizeMultiplier*cmd.Value, MinSizeMultiplier, MaxSizeMultiplier)
		ev.New = m.render.SizeMultiplier

	case CmdSetDensity, CmdAdjustDensity:
		ev.Field = "density"
		ev.Old = m.render.Density
		v := cmd.Value
		if cmd.Type == CmdAdjustDensity {
			v += m.render.Density
		}
		m.render.Density = clampFloat(v, 0, 1)
		ev.New = m.render.Density

	case CmdSetBackgroundOpacity, CmdAdjustOpacity:
		ev.Field = "opacity"
		ev.Old = m.render.BackgroundOpacity
		v := cmd.Value
		if cmd.Type == CmdAdjustOpacity {
			v += m.render.BackgroundOpacity
		}
		m.render.BackgroundOpacity = clampFloat(v, 0, 1)
		ev.New = m.render.BackgroundOpacity

	case CmdSetSpeed, CmdAdjustSpeed:
		ev.Field = "speed"
		ev.Old = m.slider
		v := cmd.Value
		if cmd.Type == CmdAdjustSpeed {
			v += m.slider
		}
		m.slider = clampFloat(v, SliderMin, SliderMax)
		m.sim.TimeScale = SpeedFromSlider(m.slider, m.minSpeed, m.maxSpeed)
		ev.New = m.slider

	case CmdSetTimeScale:
		if cmd.Value < 0 {
			return Event{}, fmt.Errorf("%s: time scale must not be negative, got %v", cmd.Type, cmd.Value)
		}
		ev.Field = "time_scale"
		ev.Old = m.sim.TimeScale
		m.sim.TimeScale = cmd.Value
		m.slider = SliderFromSpeed(cmd.Value, m.minSpeed, m.maxSpeed)
		ev.New = m.sim.TimeScale

	case CmdTogglePause:
		ev.Field = "paused"
		ev.Old = boolValue(m.sim.Paused)
		m.sim.Paused = !m.sim.Paused
		ev.New = boolValue(m.sim.Paused)

	case CmdSetLOD:
		ev.Field = "lod"
		ev.Old = float64(m.render.LOD)
		m.render.LOD = lodPolicy(cmd.Value)
		ev.New = float64(m.render.LOD)

	case CmdToggleLOD:
		ev.Field = "lod"
		ev.Old = float64(m.render.LOD)
		m.render.LOD = lodPolicy(1 - float64(m.render.LOD))
		ev.New = float64(m.render.LOD)

	case CmdResetTime:
		ev.Field = "time"
		ev.Old = m.sim.Time
		m.sim.Time = 0
		ev.New = 0

	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	return ev, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
