package sensor

import (
	"testing"
)

func TestCatalog(t *testing.T) {
	cat := Catalog()

	if len(cat) != 6 {
		t.Fatalf("expected 6 sensors, got %d", len(cat))
	}

	for _, r := range cat {
		if r.ID == "" || r.Name == "" {
			t.Errorf("sensor %q: missing id or name", r.Name)
		}
		if r.Min > r.Max {
			t.Errorf("%s: min %f above max %f", r.ID, r.Min, r.Max)
		}
		if r.Value < r.LowerLimit() || r.Value > r.UpperLimit() {
			t.Errorf("%s: seed %f outside [%f, %f]", r.ID, r.Value, r.LowerLimit(), r.UpperLimit())
		}
		if r.Noise <= 0 {
			t.Errorf("%s: noise must be positive, got %f", r.ID, r.Noise)
		}
	}

	// Mutating the copy must not touch the catalog.
	cat[0].Value = -999
	if Catalog()[0].Value == -999 {
		t.Error("Catalog() returned shared state")
	}
}

func TestLimits(t *testing.T) {
	r := Reading{Min: 6.5, Max: 8.5}

	if got := r.UpperLimit(); got != 9.35 {
		t.Errorf("UpperLimit: got %f, want 9.35", got)
	}
	if got := r.LowerLimit(); got != 5.85 {
		t.Errorf("LowerLimit: got %f, want 5.85", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		unit      string
		want      string
		withUnit  string
	}{
		{7.2, 2, "", "7.20", "7.20"},
		{26.04, 1, "°C", "26.0", "26.0 °C"},
		{180.4, 0, "ppm", "180", "180 ppm"},
		{7.456, 2, "mg/L", "7.46", "7.46 mg/L"},
	}
	for _, tt := range tests {
		r := Reading{Value: tt.value, Precision: tt.precision, Unit: tt.unit}
		if got := r.FormatValue(); got != tt.want {
			t.Errorf("FormatValue(%f, prec %d) = %q, want %q", tt.value, tt.precision, got, tt.want)
		}
		if got := r.ValueWithUnit(); got != tt.withUnit {
			t.Errorf("ValueWithUnit(%f, %q) = %q, want %q", tt.value, tt.unit, got, tt.withUnit)
		}
	}
}

func TestFormatRange(t *testing.T) {
	r := Reading{Min: 6.5, Max: 8.5, Precision: 1}
	if got := r.FormatRange(); got != "6.5 – 8.5" {
		t.Errorf("FormatRange: got %q, want %q", got, "6.5 – 8.5")
	}
}
