package main

import "fmt"

// KeyID is a resolved logical key identity: a label for traces and the
// Linux input keycode handed to the injection backend.
type KeyID struct {
	Label string
	Code  int
}

// ShadowResolver decides, at the moment an event fires, which logical
// identity a key emits. Keys tagged function_key_modifier never emit
// events themselves; holding any of them switches every key with a
// configured shadow_function_key to its shadow identity. Resolution
// happens independently at each transition, so a modifier released
// mid-hold changes how the eventual release resolves.
type ShadowResolver struct {
	held map[int]bool
}

// NewShadowResolver tracks the hold state of every modifier key in the
// store.
func NewShadowResolver(store *CalibrationStore) *ShadowResolver {
	r := &ShadowResolver{held: make(map[int]bool)}
	for _, idx := range store.Indices() {
		if cal, _ := store.Lookup(idx); cal.IsModifier() {
			r.held[idx] = false
		}
	}
	return r
}

// HandleModifier records a modifier key's own press/release. This is
// the only effect a modifier key has.
func (r *ShadowResolver) HandleModifier(cal *KeyCalibration, tr Transition) {
	switch tr {
	case TransitionPress:
		r.held[cal.Index] = true
	case TransitionRelease:
		r.held[cal.Index] = false
	}
}

// AnyHeld reports whether at least one modifier key is currently held.
func (r *ShadowResolver) AnyHeld() bool {
	for _, h := range r.held {
		if h {
			return true
		}
	}
	return false
}

// Resolve returns the effective identity for a key at emission time:
// the shadow identity if one is configured and a modifier is held,
// else the raw scancode override, else the key's name.
func (r *ShadowResolver) Resolve(cal *KeyCalibration) (KeyID, error) {
	if cal.ShadowFunctionKey != "" && r.AnyHeld() {
		code, ok := LookupKeyCode(cal.ShadowFunctionKey)
		if !ok {
			return KeyID{}, fmt.Errorf("key %d: unknown shadow key name %q", cal.Index, cal.ShadowFunctionKey)
		}
		return KeyID{Label: cal.ShadowFunctionKey, Code: int(code)}, nil
	}
	if cal.Scancode != nil {
		return KeyID{Label: cal.Name, Code: *cal.Scancode}, nil
	}
	code, ok := LookupKeyCode(cal.Name)
	if !ok {
		return KeyID{}, fmt.Errorf("key %d: unknown key name %q", cal.Index, cal.Name)
	}
	return KeyID{Label: cal.Name, Code: int(code)}, nil
}
