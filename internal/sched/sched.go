// Package sched runs named periodic tasks with explicit handles. Each
// concern owns at most one live task: starting again under the same name
// cancels the previous loop first, and stopping is safe to repeat.
package sched

import (
	"log/slog"
	"sync"
	"time"
)

// Task is one live periodic loop.
type Task struct {
	name   string
	ticker *time.Ticker
	quit   chan struct{}
}

func (t *Task) run(fn func(time.Time)) {
	for {
		select {
		case <-t.quit:
			return
		case now := <-t.ticker.C:
			fn(now)
		}
	}
}

func (t *Task) stop() {
	close(t.quit)
	t.ticker.Stop()
}

// Runner owns the named tasks. A task handle only ever leaves the map when
// the holder also stops it, so no task is stopped twice.
type Runner struct {
	mu     sync.Mutex
	tasks  map[string]*Task
	logger *slog.Logger
}

// NewRunner returns an empty runner logging through logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		tasks:  make(map[string]*Task),
		logger: logger,
	}
}

// Start launches fn on the given period under name, cancelling any task
// already live for that concern.
func (r *Runner) Start(name string, every time.Duration, fn func(time.Time)) *Task {
	t := &Task{
		name:   name,
		ticker: time.NewTicker(every),
		quit:   make(chan struct{}),
	}

	r.mu.Lock()
	if prev, ok := r.tasks[name]; ok {
		prev.stop()
	}
	r.tasks[name] = t
	r.mu.Unlock()

	r.logger.Debug("task started", slog.String("task", name), slog.Duration("every", every))
	go t.run(fn)
	return t
}

// Stop cancels the task for a concern. Unknown names and repeated stops are
// no-ops.
func (r *Runner) Stop(name string) {
	r.mu.Lock()
	t, ok := r.tasks[name]
	if ok {
		delete(r.tasks, name)
	}
	r.mu.Unlock()

	if ok {
		t.stop()
		r.logger.Debug("task stopped", slog.String("task", name))
	}
}

// StopAll cancels every live task.
func (r *Runner) StopAll() {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = make(map[string]*Task)
	r.mu.Unlock()

	for name, t := range tasks {
		t.stop()
		r.logger.Debug("task stopped", slog.String("task", name))
	}
}

// Active reports whether a concern currently has a live task.
func (r *Runner) Active(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[name]
	return ok
}
