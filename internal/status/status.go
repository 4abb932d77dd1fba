// Package status classifies readings against their safe band. Tiers are
// derived fresh on every evaluation; no history of prior tiers is kept.
package status

import "github.com/nati/waterdash/internal/sensor"

// Tier is the discrete safety classification of a reading.
type Tier int

// Tiers in increasing severity. Alert is the inner caution ring just outside
// the comfortable middle of the band, Warning the outer ring near the bounds.
// Low and High mean the value has left the safe band entirely.
const (
	Normal Tier = iota
	Alert
	Warning
	Low
	High
)

// Ring boundaries as fractions of the safe band. Below warnLo or above warnHi
// is Warning; below alertLo or above alertHi, Alert.
const (
	warnLo  = 0.2
	warnHi  = 0.8
	alertLo = 0.3
	alertHi = 0.7
)

func (t Tier) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Alert:
		return "Alert"
	case Warning:
		return "Warning"
	case Low:
		return "Low"
	case High:
		return "High"
	}
	return "Unknown"
}

// Severity orders tiers for comparison. Low and High rank equal: both mean
// the safe band is breached, they only differ in direction.
func (t Tier) Severity() int {
	switch t {
	case Low, High:
		return 3
	case Warning:
		return 2
	case Alert:
		return 1
	}
	return 0
}

// Breached reports whether the value has left the safe band entirely.
func (t Tier) Breached() bool {
	return t == Low || t == High
}

// Classify maps a value to its tier given the safe band [min, max]. Bounds
// are inclusive: a value exactly at a bound is inside the band, so it lands
// in the outer Warning ring rather than Low or High. A degenerate band with
// min == max has no interior and classifies as Normal once the bound checks
// pass.
func Classify(value, min, max float64) Tier {
	if value < min {
		return Low
	}
	if value > max {
		return High
	}
	if min == max {
		return Normal
	}
	p := (value - min) / (max - min)
	if p < warnLo || p > warnHi {
		return Warning
	}
	if p < alertLo || p > alertHi {
		return Alert
	}
	return Normal
}

// ForReading classifies a sensor reading against its own bounds.
func ForReading(r sensor.Reading) Tier {
	return Classify(r.Value, r.Min, r.Max)
}

// Worst returns the most severe tier in the set, Normal when empty. Ties
// keep the earliest.
func Worst(tiers ...Tier) Tier {
	worst := Normal
	for _, t := range tiers {
		if t.Severity() > worst.Severity() {
			worst = t
		}
	}
	return worst
}
