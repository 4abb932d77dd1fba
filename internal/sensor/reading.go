// Package sensor defines the bounded water-quality readings tracked by the
// station and the fixed catalog they are seeded from. Values are simulated:
// there is no hardware behind them, only a per-tick random walk.
package sensor

import "strconv"

// Overshoot is the tolerance margin beyond the safe band within which a
// simulated value is still allowed to wander: 10% past either bound.
const Overshoot = 0.10

// Reading is the live state of one simulated sensor.
type Reading struct {
	ID        string  // stable identifier, e.g. "ph"
	Name      string  // English display name; also the i18n lookup key
	Value     float64 // current measurement
	Min       float64 // lower bound of the safe band (inclusive)
	Max       float64 // upper bound of the safe band (inclusive)
	Unit      string  // display unit, e.g. "mg/L" (empty for pH)
	Precision int     // fractional digits for display
	Noise     float64 // half-width of the per-tick perturbation
}

// LowerLimit returns the lowest value the simulation may produce.
func (r Reading) LowerLimit() float64 {
	return r.Min * (1 - Overshoot)
}

// UpperLimit returns the highest value the simulation may produce.
func (r Reading) UpperLimit() float64 {
	return r.Max * (1 + Overshoot)
}

// Clamp bounds v to the tolerance-extended range of the reading.
func (r Reading) Clamp(v float64) float64 {
	if lo := r.LowerLimit(); v < lo {
		return lo
	}
	if hi := r.UpperLimit(); v > hi {
		return hi
	}
	return v
}

// FormatValue renders the current value with the configured precision.
func (r Reading) FormatValue() string {
	return strconv.FormatFloat(r.Value, 'f', r.Precision, 64)
}

// ValueWithUnit renders the current value followed by the unit, if any.
func (r Reading) ValueWithUnit() string {
	if r.Unit == "" {
		return r.FormatValue()
	}
	return r.FormatValue() + " " + r.Unit
}

// FormatRange renders the safe band, e.g. "6.5 – 8.5".
func (r Reading) FormatRange() string {
	lo := strconv.FormatFloat(r.Min, 'f', r.Precision, 64)
	hi := strconv.FormatFloat(r.Max, 'f', r.Precision, 64)
	return lo + " – " + hi
}
