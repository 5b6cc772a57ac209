package main

import (
	"fmt"
	"io"

	"github.com/bendahl/uinput"
)

// KeyEvent is a resolved transition ready for emission: the logical
// identity, the calibration it came from, and for scan-mode presses the
// voltage that triggered it.
type KeyEvent struct {
	ID         KeyID
	Cal        *KeyCalibration
	Transition Transition
	Voltage    float64
	HasVoltage bool
}

// Emitter turns resolved key events into OS-level actions (or trace
// records). The only component with external side effects.
type Emitter interface {
	Emit(ev KeyEvent) error
}

// virtualKeyboard is the slice of the uinput keyboard the emitter uses.
type virtualKeyboard interface {
	KeyPress(key int) error
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// UinputEmitter injects key events through a uinput virtual keyboard.
type UinputEmitter struct {
	vkbd virtualKeyboard
}

// NewUinputEmitter creates the virtual keyboard device.
func NewUinputEmitter() (*UinputEmitter, error) {
	vkbd, err := uinput.CreateKeyboard("/dev/uinput", []byte("displaywriter"))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}
	return &UinputEmitter{vkbd: vkbd}, nil
}

// Emit performs the key action. Keys flagged press_and_release are sent
// as an atomic tap on the press transition; their release transition is
// a no-op because the OS already saw the key go up.
func (e *UinputEmitter) Emit(ev KeyEvent) error {
	switch ev.Transition {
	case TransitionPress:
		if ev.Cal.PressAndRelease {
			return e.vkbd.KeyPress(ev.ID.Code)
		}
		return e.vkbd.KeyDown(ev.ID.Code)
	case TransitionRelease:
		if ev.Cal.PressAndRelease {
			return nil
		}
		return e.vkbd.KeyUp(ev.ID.Code)
	}
	return nil
}

// Close releases the virtual keyboard device.
func (e *UinputEmitter) Close() error {
	return e.vkbd.Close()
}

// TraceEmitter writes human-readable trace records instead of touching
// the OS. Used by --dry-run.
type TraceEmitter struct {
	w io.Writer
}

// NewTraceEmitter writes trace records to w.
func NewTraceEmitter(w io.Writer) *TraceEmitter {
	return &TraceEmitter{w: w}
}

func (e *TraceEmitter) Emit(ev KeyEvent) error {
	switch ev.Transition {
	case TransitionPress:
		if ev.HasVoltage {
			fmt.Fprintf(e.w, "Pressing: %s %+v (measured voltage: %g)\n", ev.ID.Label, *ev.Cal, ev.Voltage)
		} else {
			fmt.Fprintf(e.w, "Pressing: %s %+v\n", ev.ID.Label, *ev.Cal)
		}
	case TransitionRelease:
		fmt.Fprintf(e.w, "Releasing: %s %+v\n", ev.ID.Label, *ev.Cal)
	}
	return nil
}
