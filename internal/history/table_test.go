package history

import (
	"testing"
	"time"

	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/status"
)

// midSource always returns 0.5, which maps to a zero perturbation.
type midSource struct{}

func (midSource) Float64() float64 { return 0.5 }

// hiSource always returns values near 1, pushing jitter to its upper edge.
type hiSource struct{}

func (hiSource) Float64() float64 { return 0.999 }

func testReadings() []sensor.Reading {
	return []sensor.Reading{
		{ID: "ph", Name: "pH", Value: 7.2, Min: 6.5, Max: 8.5, Precision: 2, Noise: 0.1},
		{ID: "oxygen", Name: "Dissolved Oxygen", Value: 7.5, Min: 4, Max: 12, Unit: "mg/L", Precision: 2, Noise: 0.2},
	}
}

func TestSynthesize(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	step := 10 * time.Minute

	rows := Synthesize(testReadings(), 6, step, midSource{}, now)
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}

	// Oldest first, stepping up to now.
	for i, row := range rows {
		want := now.Add(-time.Duration(5-i) * step)
		if !row.Time.Equal(want) {
			t.Errorf("row %d time: got %v, want %v", i, row.Time, want)
		}
		if len(row.Values) != 2 {
			t.Fatalf("row %d: got %d values, want 2", i, len(row.Values))
		}
	}

	// The newest row carries the live values untouched.
	last := rows[len(rows)-1]
	if last.Values[0] != 7.2 || last.Values[1] != 7.5 {
		t.Errorf("newest row: got %v, want live values", last.Values)
	}
	if last.Tier != status.Normal {
		t.Errorf("newest row tier: got %v, want Normal", last.Tier)
	}
}

func TestSynthesizeStaysInBounds(t *testing.T) {
	readings := testReadings()
	rows := Synthesize(readings, 50, time.Minute, hiSource{}, time.Now())

	for i, row := range rows {
		for j, v := range row.Values {
			r := readings[j]
			if v < r.LowerLimit() || v > r.UpperLimit() {
				t.Errorf("row %d %s: value %f outside [%f, %f]", i, r.ID, v, r.LowerLimit(), r.UpperLimit())
			}
		}
	}
}

func TestSynthesizeRowTier(t *testing.T) {
	// A live value outside its band has to surface in the row status.
	readings := []sensor.Reading{
		{ID: "ph", Value: 7.5, Min: 6.5, Max: 8.5, Precision: 2, Noise: 0.1},
		{ID: "turbidity", Value: 6.0, Min: 0, Max: 5, Precision: 2, Noise: 0.1},
	}
	rows := Synthesize(readings, 3, time.Minute, midSource{}, time.Now())

	last := rows[len(rows)-1]
	if last.Tier != status.High {
		t.Errorf("newest row tier: got %v, want High", last.Tier)
	}
}

func TestSynthesizeDegenerate(t *testing.T) {
	if rows := Synthesize(nil, 5, time.Minute, midSource{}, time.Now()); rows != nil {
		t.Error("no readings should produce no rows")
	}
	if rows := Synthesize(testReadings(), 0, time.Minute, midSource{}, time.Now()); rows != nil {
		t.Error("zero rows requested should produce nil")
	}
	if rows := Synthesize(testReadings(), 5, time.Minute, nil, time.Now()); rows != nil {
		t.Error("nil source should produce nil")
	}
}
