package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// NumKeys is the number of key positions the arduino reports per scan.
const NumKeys = 96

// Defaults applied when the calibration file's "global" entry (or a
// per-key override) does not set them.
const (
	DefaultEwmeRatio     = 1.0 // no smoothing
	DefaultMaxConfidence = 2
)

// KeyType tags how a key participates in the pipeline.
type KeyType string

const (
	KeyTypeNormal           KeyType = "normal"
	KeyTypeFunctionModifier KeyType = "function_key_modifier"
)

// KeyCalibration holds the static parameters for one key position.
// Read-only after load.
type KeyCalibration struct {
	Index int `yaml:"-"`

	Name     string `yaml:"name"`
	Scancode *int   `yaml:"scancode,omitempty"`

	VoltageThreshold              *float64 `yaml:"voltage_threshold,omitempty"`
	NominalUnpressedVoltage       float64  `yaml:"nominal_unpressed_voltage"`
	NominalUnpressedVoltageStddev float64  `yaml:"nominal_unpressed_voltage_stddev"`
	NominalPressedVoltage         float64  `yaml:"nominal_pressed_voltage"`
	NominalPressedVoltageStddev   float64  `yaml:"nominal_pressed_voltage_stddev"`

	PressAndRelease   bool    `yaml:"press_and_release,omitempty"`
	ShadowFunctionKey string  `yaml:"shadow_function_key,omitempty"`
	KeyType           KeyType `yaml:"key_type,omitempty"`

	EwmeRatio     *float64 `yaml:"ewme_ratio,omitempty"`
	MaxConfidence *int     `yaml:"max_confidence,omitempty"`
}

// IsModifier reports whether this key acts as a function-key modifier.
// Modifier keys never emit OS events themselves.
func (c *KeyCalibration) IsModifier() bool {
	return c.KeyType == KeyTypeFunctionModifier
}

// GlobalConfig holds process-wide defaults from the "global" calibration entry.
type GlobalConfig struct {
	EwmeRatio     float64 `yaml:"ewme_ratio"`
	MaxConfidence int     `yaml:"max_confidence"`
}

// CalibrationStore is the immutable set of key calibrations plus global
// defaults. Built once before the run loop; never reloaded mid-run
// (re-run the program to pick up new calibration).
type CalibrationStore struct {
	keys   map[int]*KeyCalibration
	global GlobalConfig
}

// LoadCalibration reads a calibration file: a mapping from stringified
// key index (or the literal key "global") to a calibration record. The
// file is YAML; legacy calibration.json files from the Python receiver
// parse too, since YAML is a superset of JSON.
func LoadCalibration(path string) (*CalibrationStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}
	return ParseCalibration(data)
}

// ParseCalibration builds a CalibrationStore from raw file contents.
func ParseCalibration(data []byte) (*CalibrationStore, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration: %w", err)
	}

	store := &CalibrationStore{
		keys: make(map[int]*KeyCalibration, len(raw)),
		global: GlobalConfig{
			EwmeRatio:     DefaultEwmeRatio,
			MaxConfidence: DefaultMaxConfidence,
		},
	}

	for key, node := range raw {
		if key == "global" {
			if err := node.Decode(&store.global); err != nil {
				return nil, fmt.Errorf("parse global entry: %w", err)
			}
			continue
		}

		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("calibration key %q: not a key index", key)
		}
		if idx < 0 || idx >= NumKeys {
			return nil, fmt.Errorf("calibration key %d: out of range [0,%d)", idx, NumKeys)
		}

		var cal KeyCalibration
		if err := node.Decode(&cal); err != nil {
			return nil, fmt.Errorf("parse calibration for key %d: %w", idx, err)
		}
		if cal.Name == "" {
			return nil, fmt.Errorf("calibration for key %d: missing name", idx)
		}
		if cal.EwmeRatio != nil && (*cal.EwmeRatio < 0 || *cal.EwmeRatio > 1) {
			return nil, fmt.Errorf("calibration for key %d: ewme_ratio %v outside [0,1]", idx, *cal.EwmeRatio)
		}
		cal.Index = idx
		store.keys[idx] = &cal
	}

	if store.global.EwmeRatio < 0 || store.global.EwmeRatio > 1 {
		return nil, fmt.Errorf("global ewme_ratio %v outside [0,1]", store.global.EwmeRatio)
	}
	if store.global.MaxConfidence < 1 {
		return nil, fmt.Errorf("global max_confidence %d must be >= 1", store.global.MaxConfidence)
	}

	return store, nil
}

// Lookup returns the calibration for a key index. Absence is a defined
// skip for the pipeline, never a fault: no event ever fires for an
// uncalibrated key.
func (s *CalibrationStore) Lookup(idx int) (*KeyCalibration, bool) {
	cal, ok := s.keys[idx]
	return cal, ok
}

// Global returns the process-wide defaults.
func (s *CalibrationStore) Global() GlobalConfig {
	return s.global
}

// Len returns the number of calibrated keys.
func (s *CalibrationStore) Len() int {
	return len(s.keys)
}

// Indices returns the calibrated key indices in ascending order.
func (s *CalibrationStore) Indices() []int {
	out := make([]int, 0, len(s.keys))
	for idx := range s.keys {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// EwmeRatioFor resolves the smoothing ratio for a key: per-key override,
// else the global default.
func (s *CalibrationStore) EwmeRatioFor(cal *KeyCalibration) float64 {
	if cal.EwmeRatio != nil {
		return *cal.EwmeRatio
	}
	return s.global.EwmeRatio
}

// MaxConfidenceFor resolves the debounce depth for a key: per-key
// override, else the global default.
func (s *CalibrationStore) MaxConfidenceFor(cal *KeyCalibration) int {
	if cal.MaxConfidence != nil {
		return *cal.MaxConfidence
	}
	return s.global.MaxConfidence
}
