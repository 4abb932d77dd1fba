package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/status"
)

func TestTierColor(t *testing.T) {
	tests := []struct {
		tier status.Tier
		want lipgloss.Color
	}{
		{status.Normal, lipgloss.Color("78")},
		{status.Alert, lipgloss.Color("220")},
		{status.Warning, lipgloss.Color("208")},
		{status.Low, lipgloss.Color("196")},
		{status.High, lipgloss.Color("196")},
	}
	for _, tt := range tests {
		if got := TierColor(tt.tier); got != tt.want {
			t.Errorf("TierColor(%v) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestSparkline(t *testing.T) {
	r := sensor.Reading{ID: "ph", Value: 7.2, Min: 6.5, Max: 8.5, Precision: 2}

	base := time.Date(2026, 2, 21, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: 6.8 + float64(i%5)*0.3,
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := Sparkline(pts, 20, r)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineEmpty(t *testing.T) {
	r := sensor.Reading{Min: 6.5, Max: 8.5}

	result := Sparkline(nil, 10, r)
	if lipgloss.Width(result) != 10 {
		t.Errorf("empty sparkline width: got %d, want 10", lipgloss.Width(result))
	}
	if Sparkline(nil, 0, r) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestTimeline(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 55, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 30; i++ {
		pts = append(pts, history.Point{
			Value: 7.0,
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := Timeline(pts, 30)
	if !strings.Contains(result, "14:01") {
		t.Errorf("timeline should label the minute boundary: %q", result)
	}
}

func TestBandGauge(t *testing.T) {
	r := sensor.Reading{ID: "ph", Value: 7.5, Min: 6.5, Max: 8.5, Precision: 2}

	result := BandGauge(r, 24)
	if lipgloss.Width(result) != 24 {
		t.Errorf("gauge width: got %d, want 24", lipgloss.Width(result))
	}
	if !strings.Contains(result, "◆") {
		t.Error("gauge should mark the current value")
	}
	if strings.Count(result, "▪") != 2 {
		t.Errorf("gauge should mark both safe bounds: %q", result)
	}
	if BandGauge(r, 0) != "" {
		t.Error("zero width should render nothing")
	}
	t.Logf("Gauge: %s", result)
}

func TestValue(t *testing.T) {
	r := sensor.Reading{ID: "oxygen", Value: 7.5, Min: 4, Max: 12, Unit: "mg/L", Precision: 2}

	result := Value(r, status.Normal)
	if !strings.Contains(result, "7.50 mg/L") {
		t.Errorf("rendered value missing text: %q", result)
	}
}
