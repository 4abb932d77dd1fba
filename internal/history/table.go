package history

import (
	"time"

	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/status"
)

// Source yields uniform floats in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// spread is how many ticks' worth of noise a synthesized historical value
// may sit away from the live one.
const spread = 3.0

// Row is one line of the readings table: a timestamp, one value per sensor
// in display order, and the worst tier across the row.
type Row struct {
	Time   time.Time
	Values []float64
	Tier   status.Tier
}

// Synthesize builds n plausible table rows ending at the current readings,
// oldest first, stepped back at the given interval. All rows but the newest
// jitter around each sensor's present value with its own noise, clamped to
// the tolerance-extended range, so the table reads like a recent log even
// though no real samples exist. The newest row carries the live values
// untouched.
func Synthesize(readings []sensor.Reading, n int, step time.Duration, src Source, now time.Time) []Row {
	if n <= 0 || len(readings) == 0 || src == nil {
		return nil
	}
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		at := now.Add(-time.Duration(n-1-i) * step)
		values := make([]float64, len(readings))
		tiers := make([]status.Tier, len(readings))
		for j, r := range readings {
			v := r.Value
			if i < n-1 {
				v = r.Clamp(v + (src.Float64()*2-1)*r.Noise*spread)
			}
			values[j] = v
			tiers[j] = status.Classify(v, r.Min, r.Max)
		}
		rows[i] = Row{Time: at, Values: values, Tier: status.Worst(tiers...)}
	}
	return rows
}
