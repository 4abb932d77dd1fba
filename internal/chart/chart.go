// Package chart renders sparklines, safe-band gauges and tier-colored
// values for the terminal dashboard.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/status"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// TierColor maps a tier to the dashboard palette.
func TierColor(t status.Tier) lipgloss.Color {
	switch t {
	case status.Low, status.High:
		return lipgloss.Color("196") // red
	case status.Warning:
		return lipgloss.Color("208") // orange
	case status.Alert:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// Sparkline renders recent history as color-coded blocks scaled to the
// reading's tolerance-extended range. A subtle pipe is drawn at each minute
// boundary.
func Sparkline(points []history.Point, width int, r sensor.Reading) string {
	if width <= 0 {
		return ""
	}

	if len(points) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	lo := r.LowerLimit()
	span := r.UpperLimit() - lo
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		norm := (p.Value - lo) / span
		norm = math.Max(0, math.Min(1, norm))

		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		isMinuteTick := false
		if !p.Time.IsZero() {
			if p.Time.Second() == 0 {
				isMinuteTick = true
			} else if i > 0 && !points[i-1].Time.IsZero() {
				if p.Time.Minute() != points[i-1].Time.Minute() {
					isMinuteTick = true
				}
			}
		}

		if isMinuteTick {
			sb.WriteString(tickStyle.Render("│"))
		} else {
			tier := status.Classify(p.Value, r.Min, r.Max)
			style := lipgloss.NewStyle().Foreground(TierColor(tier))
			if tier.Breached() {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(string(sparkBlocks[idx])))
		}
	}

	return sb.String()
}

// Timeline renders the time labels under the sparkline, showing HH:MM at
// each minute tick position.
func Timeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick

	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		isMinuteTick := false
		if p.Time.Second() == 0 {
			isMinuteTick = true
		} else if i > 0 && !points[i-1].Time.IsZero() {
			if p.Time.Minute() != points[i-1].Time.Minute() {
				isMinuteTick = true
			}
		}
		if isMinuteTick {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return tickStyle.Render(string(line))
}

// BandGauge renders where the current value sits across the reading's
// tolerance-extended range, with the safe bounds marked.
func BandGauge(r sensor.Reading, width int) string {
	if width <= 0 {
		return ""
	}

	lo := r.LowerLimit()
	span := r.UpperLimit() - lo
	if span <= 0 {
		span = 1
	}
	place := func(v float64) int {
		pos := int(float64(width-1) * (v - lo) / span)
		if pos < 0 {
			pos = 0
		}
		if pos >= width {
			pos = width - 1
		}
		return pos
	}

	minPos := place(r.Min)
	maxPos := place(r.Max)
	curPos := place(r.Value)

	tier := status.ForReading(r)
	curStyle := lipgloss.NewStyle().Foreground(TierColor(tier))
	if tier.Breached() {
		curStyle = curStyle.Bold(true)
	}
	boundStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dotStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			sb.WriteString(curStyle.Render("◆"))
		case i == minPos || i == maxPos:
			sb.WriteString(boundStyle.Render("▪"))
		default:
			sb.WriteString(dotStyle.Render("·"))
		}
	}
	return sb.String()
}

// Value renders the current value with its tier color, bold once the safe
// band is breached.
func Value(r sensor.Reading, tier status.Tier) string {
	style := lipgloss.NewStyle().Foreground(TierColor(tier))
	if tier.Breached() {
		style = style.Bold(true)
	}
	return style.Render(r.ValueWithUnit())
}
