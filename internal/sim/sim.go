// Package sim owns the bounded random walk that stands in for real probes,
// and the engine that turns one timer tick into classified, alert-checked,
// render-ready output.
package sim

import (
	"errors"
	"math/rand"
	"time"

	"github.com/nati/waterdash/internal/sensor"
)

// Source yields uniform floats in [0,1). *rand.Rand satisfies it, and tests
// substitute a fixed sequence.
type Source interface {
	Float64() float64
}

// ErrNoSource is returned when a station is built without a random source.
var ErrNoSource = errors.New("sim: no random source")

// NewSource returns a seeded random source. Seed 0 seeds from the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Station owns the live sensor set and advances it one tick at a time.
// Nothing else mutates the readings.
type Station struct {
	readings []sensor.Reading
	src      Source
}

// NewStation copies the seed readings into an owned state set. It fails fast
// when no random source is supplied rather than producing a frozen walk.
func NewStation(readings []sensor.Reading, src Source) (*Station, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	owned := make([]sensor.Reading, len(readings))
	copy(owned, readings)
	return &Station{readings: owned, src: src}, nil
}

// advanceBy applies one deterministic perturbation to a reading, clamping
// to the tolerance-extended range.
func advanceBy(r sensor.Reading, delta float64) sensor.Reading {
	r.Value = r.Clamp(r.Value + delta)
	return r
}

// Advance draws a perturbation in [-noise, +noise) and applies it.
func (s *Station) Advance(r sensor.Reading) sensor.Reading {
	delta := (s.src.Float64()*2 - 1) * r.Noise
	return advanceBy(r, delta)
}

// Tick advances every well-formed reading once. Entries with an inverted
// band or no noise configured are skipped untouched, never an error.
func (s *Station) Tick() {
	for i, r := range s.readings {
		if r.Max < r.Min || r.Noise <= 0 {
			continue
		}
		s.readings[i] = s.Advance(r)
	}
}

// Readings returns a copy of the current sensor set in display order.
func (s *Station) Readings() []sensor.Reading {
	out := make([]sensor.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// Reading returns the current state of one sensor by ID.
func (s *Station) Reading(id string) (sensor.Reading, bool) {
	for _, r := range s.readings {
		if r.ID == id {
			return r, true
		}
	}
	return sensor.Reading{}, false
}
