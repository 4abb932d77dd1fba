// Package alert decides when a reading deserves a notification and owns the
// single visible notification slot. Dispatching replaces whatever is showing;
// there is no queue.
package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/sensor"
)

// Severity levels understood by every notification surface.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 4 * time.Second

// Dispatch thresholds relative to the safe bounds. A reading qualifies for a
// notification within 5% of a bound, and reads as "near" on the warning side
// within 10%.
const (
	dispatchBelow = 1.05
	dispatchAbove = 0.95
	nearBelow     = 1.10
	nearAbove     = 0.90
)

// Notification is one transient message shown to the user.
type Notification struct {
	ID       string    `json:"id"`
	SensorID string    `json:"sensorId,omitempty"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
	Expires  time.Time `json:"expires"`
}

// Active reports whether the notification should still be visible at now.
func (n Notification) Active(now time.Time) bool {
	return now.Before(n.Expires)
}

// Notifier receives every dispatched notification, replacing any prior one.
type Notifier interface {
	Notify(n Notification)
}

// Dispatcher evaluates readings against their bounds and keeps the one
// currently visible notification. It is driven from a single loop and is not
// safe for concurrent use.
type Dispatcher struct {
	ttl      time.Duration
	notifier Notifier
	current  *Notification
}

// NewDispatcher returns a dispatcher whose notifications live for ttl.
// A non-positive ttl falls back to DefaultTTL; notifier may be nil.
func NewDispatcher(ttl time.Duration, notifier Notifier) *Dispatcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Dispatcher{ttl: ttl, notifier: notifier}
}

// TTL returns the configured notification lifetime.
func (d *Dispatcher) TTL() time.Duration {
	return d.ttl
}

// Evaluate runs the dispatch rules over every reading in order. A reading
// within 5% of a bound produces a notification: danger if the bound is
// breached outright, warning if it is merely near. Each dispatch replaces
// the previous one, so when several readings qualify in one pass the last
// one wins the slot. Returns the notification visible after the pass, if
// any.
func (d *Dispatcher) Evaluate(readings []sensor.Reading, lang i18n.Lang, now time.Time) *Notification {
	tr := i18n.New(lang)
	for _, r := range readings {
		if !(r.Value < r.Min*dispatchBelow || r.Value > r.Max*dispatchAbove) {
			continue
		}
		breached := r.Value < r.Min || r.Value > r.Max
		if !breached && !(r.Value < r.Min*nearBelow || r.Value > r.Max*nearAbove) {
			continue
		}
		severity, key := SeverityWarning, "alert.near"
		if breached {
			severity, key = SeverityDanger, "alert.breach"
		}
		message := fmt.Sprintf(tr.T(key), tr.Sensor(r.ID), r.ValueWithUnit(), r.FormatRange())
		d.dispatch(Notification{
			SensorID: r.ID,
			Message:  message,
			Severity: severity,
			At:       now,
		})
	}
	return d.Current(now)
}

// Dispatch shows an arbitrary message, replacing any visible notification.
// Used for UI feedback such as language switches and export results.
func (d *Dispatcher) Dispatch(message string, severity Severity, now time.Time) Notification {
	return d.dispatch(Notification{Message: message, Severity: severity, At: now})
}

func (d *Dispatcher) dispatch(n Notification) Notification {
	n.ID = uuid.New().String()
	n.Expires = n.At.Add(d.ttl)
	d.current = &n
	if d.notifier != nil {
		d.notifier.Notify(n)
	}
	return n
}

// Current returns a copy of the visible notification, or nil once it has
// expired or been dismissed.
func (d *Dispatcher) Current(now time.Time) *Notification {
	if d.current == nil {
		return nil
	}
	if !d.current.Active(now) {
		d.current = nil
		return nil
	}
	n := *d.current
	return &n
}

// Dismiss clears the visible notification ahead of its expiry.
func (d *Dispatcher) Dismiss() {
	d.current = nil
}
