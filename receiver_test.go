package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmitter captures every event the pipeline emits.
type recordingEmitter struct {
	events []KeyEvent
}

func (e *recordingEmitter) Emit(ev KeyEvent) error {
	e.events = append(e.events, ev)
	return nil
}

func (e *recordingEmitter) labels() []string {
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = fmt.Sprintf("%s %s", ev.Transition, ev.ID.Label)
	}
	return out
}

func mustStore(t *testing.T, src string) *CalibrationStore {
	t.Helper()
	store, err := ParseCalibration([]byte(src))
	require.NoError(t, err)
	return store
}

func TestScanThresholdScenario(t *testing.T) {
	// Threshold 500, release debounce depth 1: scans
	// [490, 510, 510, 490] press at sample 2 and release at sample 4.
	store := mustStore(t, `
global:
  max_confidence: 1
"0":
  name: a
  voltage_threshold: 500
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	for i, v := range []int{490, 510, 510, 490} {
		scan := make([]int, NumKeys)
		scan[0] = v
		rv.HandleScan(scan)
		switch i {
		case 0:
			assert.Empty(t, rec.events, "sample 1 must not press")
		case 1:
			assert.Equal(t, []string{"press a"}, rec.labels(), "press fires at sample 2")
		}
	}

	assert.Equal(t, []string{"press a", "release a"}, rec.labels())

	press := rec.events[0]
	assert.True(t, press.HasVoltage)
	assert.Equal(t, 510.0, press.Voltage)
}

func TestScanGlitchDoesNotRelease(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 2
"0":
  name: a
  voltage_threshold: 500
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	// One unpressed reading sandwiched between pressed readings.
	for _, v := range []int{510, 510, 490, 510, 510} {
		scan := make([]int, NumKeys)
		scan[0] = v
		rv.HandleScan(scan)
	}

	assert.Equal(t, []string{"press a"}, rec.labels())
}

func TestScanSkipsUncalibratedKeys(t *testing.T) {
	store := mustStore(t, `
"0":
  name: a
  voltage_threshold: 500
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	scan := make([]int, NumKeys)
	scan[1] = 1023
	scan[42] = 1023
	rv.HandleScan(scan)

	assert.Empty(t, rec.events, "no event may fire for an uncalibrated key")
}

func TestEventModeShadowScenario(t *testing.T) {
	// Key 5 shadows to f5 while key 6 (a function-key modifier) is
	// held. Sequence press 6, press 5, release 5, release 6 emits f5
	// for both transitions of key 5 and nothing for key 6.
	store := mustStore(t, `
global:
  max_confidence: 1
"5":
  name: f
  voltage_threshold: 500
  shadow_function_key: f5
"6":
  name: code
  key_type: function_key_modifier
  voltage_threshold: 480
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	rv.HandleMessage(6, true)
	rv.HandleMessage(5, true)
	rv.HandleMessage(5, false)
	rv.HandleMessage(6, false)

	assert.Equal(t, []string{"press f5", "release f5"}, rec.labels())
}

func TestEventModeShadowResolvesAtEachTransition(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 1
"5":
  name: f
  voltage_threshold: 500
  shadow_function_key: f5
"6":
  name: code
  key_type: function_key_modifier
  voltage_threshold: 480
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	// Modifier released while key 5 is still held: the release of key
	// 5 resolves with the modifier state at that moment.
	rv.HandleMessage(6, true)
	rv.HandleMessage(5, true)
	rv.HandleMessage(6, false)
	rv.HandleMessage(5, false)

	assert.Equal(t, []string{"press f5", "release f"}, rec.labels())
}

func TestTapKeyNeverHeld(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 1
"4":
  name: caps lock
  press_and_release: true
  voltage_threshold: 510
`)
	kbd := newFakeKeyboard()
	rv := NewReceiver(store, &UinputEmitter{vkbd: kbd})

	for _, v := range []int{520, 520, 520, 490} {
		scan := make([]int, NumKeys)
		scan[4] = v
		rv.HandleScan(scan)
		assert.Empty(t, kbd.down, "tap key must never stay held across samples")
	}

	// One atomic tap, no repeats while electrically held, nothing on release.
	assert.Equal(t, []string{"press"}, kbd.calls)
}

func TestRunScanMode(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 1
"0":
  name: a
  voltage_threshold: 500
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	var input strings.Builder
	input.WriteString("garbage\n")
	input.WriteString("1,2,3,\n") // wrong field count
	input.WriteString(scanLine(map[int]int{0: 510}) + "\n")
	input.WriteString(strings.Replace(scanLine(nil), "0,", "zap,", 1) + "\n") // non-numeric
	input.WriteString(scanLine(nil) + "\n")

	require.NoError(t, rv.Run(strings.NewReader(input.String()), false))
	assert.Equal(t, []string{"press a", "release a"}, rec.labels())
}

func TestRunEventMode(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 1
"0":
  name: a
  voltage_threshold: 500
`)
	rec := &recordingEmitter{}
	rv := NewReceiver(store, rec)

	input := "0,1\nnot-an-event\n0,9\n0,0\n"
	require.NoError(t, rv.Run(strings.NewReader(input), true))
	assert.Equal(t, []string{"press a", "release a"}, rec.labels())
}

func TestEmitFailureDoesNotStopPipeline(t *testing.T) {
	store := mustStore(t, `
global:
  max_confidence: 1
"0":
  name: a
  voltage_threshold: 500
"1":
  name: b
  voltage_threshold: 500
`)
	kbd := newFakeKeyboard()
	kbd.failOn = "down"
	rv := NewReceiver(store, &UinputEmitter{vkbd: kbd})

	scan := make([]int, NumKeys)
	scan[0] = 510
	scan[1] = 510
	rv.HandleScan(scan)

	// Both keys were attempted despite the first injection failing.
	assert.Equal(t, []string{"down", "down"}, kbd.calls)
}
