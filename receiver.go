package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Receiver is the full decision pipeline: smoother → classifier →
// debounce filter → shadow resolver → emitter. Single-threaded and
// pull-based; one sample is fully processed before the next is read.
type Receiver struct {
	store    *CalibrationStore
	smoother *Smoother
	filter   *DebounceFilter
	shadow   *ShadowResolver
	emitter  Emitter
}

// NewReceiver wires the pipeline stages around an immutable calibration
// store. All per-key runtime state lives in the stages, pre-sized to
// NumKeys, separate from the calibration.
func NewReceiver(store *CalibrationStore, emitter Emitter) *Receiver {
	return &Receiver{
		store:    store,
		smoother: NewSmoother(store),
		filter:   NewDebounceFilter(store),
		shadow:   NewShadowResolver(store),
		emitter:  emitter,
	}
}

// HandleScan processes one full keyscan: every calibrated index is
// smoothed, classified, and debounced; uncalibrated indices are
// skipped, so no event ever fires for them.
func (rv *Receiver) HandleScan(scan []int) {
	for idx, raw := range scan {
		cal, ok := rv.store.Lookup(idx)
		if !ok {
			continue
		}
		voltage := rv.smoother.Apply(idx, float64(raw))
		tr := rv.filter.Update(idx, Classify(voltage, cal))
		if tr == TransitionNone {
			continue
		}
		rv.dispatch(cal, tr, voltage, true)
	}
}

// HandleMessage processes one pre-decoded press/release message (the
// no-scan protocol variant). The classifier is bypassed; the debounce
// filter still applies.
func (rv *Receiver) HandleMessage(idx int, pressed bool) {
	cal, ok := rv.store.Lookup(idx)
	if !ok {
		return
	}
	tr := rv.filter.Update(idx, pressed)
	if tr == TransitionNone {
		return
	}
	rv.dispatch(cal, tr, 0, false)
}

// dispatch routes a stable transition: modifier keys only flip their
// held flag, everything else resolves its identity at this moment and
// goes to the emitter.
func (rv *Receiver) dispatch(cal *KeyCalibration, tr Transition, voltage float64, hasVoltage bool) {
	if cal.IsModifier() {
		rv.shadow.HandleModifier(cal, tr)
		dbg("modifier %q %s", cal.Name, tr)
		return
	}

	id, err := rv.shadow.Resolve(cal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "displaywriter: WARNING: %v, skipping\n", err)
		return
	}

	dbg("key %d %s as %q", cal.Index, tr, id.Label)
	if err := rv.emitter.Emit(KeyEvent{
		ID:         id,
		Cal:        cal,
		Transition: tr,
		Voltage:    voltage,
		HasVoltage: hasVoltage,
	}); err != nil {
		// A dropped event is less harmful than crashing a live input
		// pipeline.
		fmt.Fprintf(os.Stderr, "displaywriter: emit %s %q: %v\n", tr, id.Label, err)
	}
}

// Run consumes lines from the serial link until it drains or fails.
// Malformed lines are silently skipped.
func (rv *Receiver) Run(src io.Reader, eventMode bool) error {
	lines := NewLineReader(src)
	for {
		line, err := lines.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if eventMode {
			if idx, pressed, ok := ParseEventLine(line); ok {
				rv.HandleMessage(idx, pressed)
			}
			continue
		}
		if scan, ok := ParseScanLine(line); ok {
			rv.HandleScan(scan)
		}
	}
}
