package sched

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testRunner() *Runner {
	return NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStartAndStop(t *testing.T) {
	r := testRunner()
	var count atomic.Int64

	r.Start("tick", 10*time.Millisecond, func(time.Time) {
		count.Add(1)
	})
	if !r.Active("tick") {
		t.Fatal("task should be active after start")
	}

	time.Sleep(100 * time.Millisecond)
	if count.Load() == 0 {
		t.Fatal("task never fired")
	}

	r.Stop("tick")
	if r.Active("tick") {
		t.Fatal("task still active after stop")
	}

	time.Sleep(30 * time.Millisecond)
	frozen := count.Load()
	time.Sleep(60 * time.Millisecond)
	if count.Load() != frozen {
		t.Errorf("task fired after stop: %d -> %d", frozen, count.Load())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	r := testRunner()

	r.Start("tick", 10*time.Millisecond, func(time.Time) {})
	r.Stop("tick")
	r.Stop("tick")
	r.Stop("never-started")

	if r.Active("tick") {
		t.Error("task active after repeated stop")
	}
}

func TestStartReplacesPrevious(t *testing.T) {
	r := testRunner()
	var first, second atomic.Int64

	r.Start("tick", 10*time.Millisecond, func(time.Time) {
		first.Add(1)
	})
	time.Sleep(35 * time.Millisecond)

	r.Start("tick", 10*time.Millisecond, func(time.Time) {
		second.Add(1)
	})

	time.Sleep(30 * time.Millisecond)
	frozen := first.Load()
	time.Sleep(60 * time.Millisecond)

	if first.Load() != frozen {
		t.Errorf("replaced task kept firing: %d -> %d", frozen, first.Load())
	}
	if second.Load() == 0 {
		t.Error("replacement task never fired")
	}
	if !r.Active("tick") {
		t.Error("concern should still be active")
	}

	r.StopAll()
}

func TestStopAll(t *testing.T) {
	r := testRunner()

	r.Start("tick", 10*time.Millisecond, func(time.Time) {})
	r.Start("clock", 10*time.Millisecond, func(time.Time) {})

	r.StopAll()
	if r.Active("tick") || r.Active("clock") {
		t.Error("tasks still active after StopAll")
	}
}

func TestConcernsAreIndependent(t *testing.T) {
	r := testRunner()
	var ticks atomic.Int64

	r.Start("tick", 10*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})
	r.Start("clock", 10*time.Millisecond, func(time.Time) {})

	r.Stop("clock")
	if !r.Active("tick") {
		t.Error("stopping one concern cancelled another")
	}

	time.Sleep(40 * time.Millisecond)
	if ticks.Load() == 0 {
		t.Error("surviving task never fired")
	}

	r.StopAll()
}
