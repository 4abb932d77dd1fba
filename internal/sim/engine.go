package sim

import (
	"time"

	"github.com/nati/waterdash/internal/alert"
	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/status"
)

// RenderTarget is one visual element bound to a sensor at startup. Update is
// called once per sensor per tick; the engine never reads rendered state
// back.
type RenderTarget interface {
	Update(value string, tier status.Tier)
}

// TickRow pairs a reading with its freshly derived tier.
type TickRow struct {
	Reading sensor.Reading
	Tier    status.Tier
}

// TickResult is everything one tick produced, handed to whichever surface
// is rendering the dashboard.
type TickResult struct {
	At           time.Time
	Rows         []TickRow
	Notification *alert.Notification
}

// Engine drives the full per-tick cycle: advance the walk, classify every
// reading, push bound render targets, record history, and run alert
// dispatch. Like the station it is driven from a single loop; callers with
// more than one goroutine serialize around it.
type Engine struct {
	station    *Station
	dispatcher *alert.Dispatcher
	histories  *history.Store
	targets    map[string]RenderTarget
	lang       i18n.Lang
}

// NewEngine wires a station, dispatcher and history store together.
func NewEngine(station *Station, dispatcher *alert.Dispatcher, histories *history.Store) *Engine {
	return &Engine{
		station:    station,
		dispatcher: dispatcher,
		histories:  histories,
		targets:    make(map[string]RenderTarget),
		lang:       i18n.English,
	}
}

// Bind attaches a render target to a sensor ID. Bindings are fixed at
// startup; sensors without one are simply not pushed to.
func (e *Engine) Bind(id string, target RenderTarget) {
	e.targets[id] = target
}

// SetLanguage switches the language used for alert messages.
func (e *Engine) SetLanguage(lang i18n.Lang) {
	e.lang = lang
}

// Language returns the language alert messages are built in.
func (e *Engine) Language() i18n.Lang {
	return e.lang
}

// Dispatcher exposes the notification slot for dismissal and UI toasts.
func (e *Engine) Dispatcher() *alert.Dispatcher {
	return e.dispatcher
}

// Histories exposes the per-sensor ring buffers for chart rendering.
func (e *Engine) Histories() *history.Store {
	return e.histories
}

// Readings returns the station's current sensor set in display order.
func (e *Engine) Readings() []sensor.Reading {
	return e.station.Readings()
}

// Tick runs one full cycle at the given instant and reports what it
// produced.
func (e *Engine) Tick(now time.Time) TickResult {
	e.station.Tick()
	readings := e.station.Readings()

	rows := make([]TickRow, len(readings))
	for i, r := range readings {
		tier := status.ForReading(r)
		rows[i] = TickRow{Reading: r, Tier: tier}
		e.histories.Record(r.ID, r.Value, now)
		if target, ok := e.targets[r.ID]; ok {
			target.Update(r.ValueWithUnit(), tier)
		}
	}

	notification := e.dispatcher.Evaluate(readings, e.lang, now)
	return TickResult{At: now, Rows: rows, Notification: notification}
}

// Snapshot classifies the current readings without advancing the walk.
func (e *Engine) Snapshot(now time.Time) TickResult {
	readings := e.station.Readings()
	rows := make([]TickRow, len(readings))
	for i, r := range readings {
		rows[i] = TickRow{Reading: r, Tier: status.ForReading(r)}
	}
	return TickResult{At: now, Rows: rows, Notification: e.dispatcher.Current(now)}
}

// Table synthesizes the readings table from the current sensor state:
// n rows stepped back from now, sharing the station's random source.
func (e *Engine) Table(n int, step time.Duration, now time.Time) []history.Row {
	return history.Synthesize(e.station.Readings(), n, step, e.station.src, now)
}
