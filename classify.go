package main

import "math"

// Classify decides the instantaneous "electrically pressed" signal for
// one voltage sample. If the calibration carries an explicit threshold,
// pressed means the voltage exceeds it. Otherwise the sample is assigned
// to the nearer of the two calibrated voltage clusters.
//
// Pure function of the sample and the calibration; the caller guarantees
// cal is non-nil.
func Classify(voltage float64, cal *KeyCalibration) bool {
	if cal.VoltageThreshold != nil {
		return voltage > *cal.VoltageThreshold
	}
	return math.Abs(voltage-cal.NominalUnpressedVoltage) > math.Abs(voltage-cal.NominalPressedVoltage)
}

// Smoother applies an exponentially-weighted moving average to each
// key's voltage stream before classification. A ratio of 1 passes raw
// samples through; lower ratios trade latency for noise rejection.
type Smoother struct {
	ratio  [NumKeys]float64
	avg    [NumKeys]float64
	primed [NumKeys]bool
}

// NewSmoother builds a Smoother with each calibrated key's resolved
// ewme_ratio. Uncalibrated indices keep ratio 1 (pass-through); the
// pipeline never classifies them anyway.
func NewSmoother(store *CalibrationStore) *Smoother {
	s := &Smoother{}
	for i := range s.ratio {
		s.ratio[i] = 1
	}
	for _, idx := range store.Indices() {
		cal, _ := store.Lookup(idx)
		s.ratio[idx] = store.EwmeRatioFor(cal)
	}
	return s
}

// Apply folds one raw sample into the running average for a key and
// returns the smoothed voltage. The first sample primes the average.
func (s *Smoother) Apply(idx int, raw float64) float64 {
	if !s.primed[idx] {
		s.primed[idx] = true
		s.avg[idx] = raw
		return raw
	}
	r := s.ratio[idx]
	s.avg[idx] = (1-r)*s.avg[idx] + r*raw
	return s.avg[idx]
}
