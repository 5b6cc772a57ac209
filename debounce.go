package main

// KeyState is the stable per-key state as last emitted to the OS layer.
type KeyState int

const (
	StateReleased KeyState = iota
	StatePressed
)

// Transition is the debounce filter's verdict for one sample.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionPress
	TransitionRelease
)

func (t Transition) String() string {
	switch t {
	case TransitionPress:
		return "press"
	case TransitionRelease:
		return "release"
	default:
		return "none"
	}
}

// step advances the per-key state machine by one sample.
//
// The policy is asymmetric: a press fires on the first pressed reading
// out of Released (no key-down latency), while a release requires the
// confidence counter to drain from maxConfidence to zero, so a brief
// not-pressed reading mid-hold is treated as noise. Confidence is
// clamped to [0, maxConfidence] for any input sequence.
func step(state KeyState, confidence, maxConfidence int, pressed bool) (KeyState, int, Transition) {
	switch state {
	case StateReleased:
		if !pressed {
			return StateReleased, 0, TransitionNone
		}
		return StatePressed, maxConfidence, TransitionPress
	case StatePressed:
		if pressed {
			if confidence < maxConfidence {
				confidence++
			}
			return StatePressed, confidence, TransitionNone
		}
		if confidence > 0 {
			confidence--
		}
		if confidence == 0 {
			return StateReleased, 0, TransitionRelease
		}
		return StatePressed, confidence, TransitionNone
	}
	return state, confidence, TransitionNone
}

type keyRuntime struct {
	state      KeyState
	confidence int
}

// DebounceFilter converts each key's noisy instantaneous pressed signal
// into stable press/release transitions. One instance owns all per-key
// runtime state; the single-threaded pipeline is its only caller.
type DebounceFilter struct {
	runtime       [NumKeys]keyRuntime
	maxConfidence [NumKeys]int
}

// NewDebounceFilter sizes the filter with each calibrated key's
// resolved max_confidence.
func NewDebounceFilter(store *CalibrationStore) *DebounceFilter {
	f := &DebounceFilter{}
	for i := range f.maxConfidence {
		f.maxConfidence[i] = store.Global().MaxConfidence
	}
	for _, idx := range store.Indices() {
		cal, _ := store.Lookup(idx)
		f.maxConfidence[idx] = store.MaxConfidenceFor(cal)
	}
	return f
}

// Update feeds one sample for a key and returns the resulting
// transition, if any.
func (f *DebounceFilter) Update(idx int, pressed bool) Transition {
	rt := &f.runtime[idx]
	var tr Transition
	rt.state, rt.confidence, tr = step(rt.state, rt.confidence, f.maxConfidence[idx], pressed)
	return tr
}

// State returns the key's current stable state.
func (f *DebounceFilter) State(idx int) KeyState {
	return f.runtime[idx].state
}
