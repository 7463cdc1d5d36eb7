package watch

import (
	"sync"
	"time"
)

// State is the lifecycle position of a trigger.
type State uint8

const (
	// Idle means no run is scheduled or in progress.
	Idle State = iota
	// Pending means a run is scheduled once the debounce window elapses.
	Pending
	// Running means the task is executing.
	Running
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// trigger debounces change notifications for one asset kind and never runs
// its task twice at the same time.
type trigger struct {
	window time.Duration
	run    func()
	wg     *sync.WaitGroup

	mu     sync.Mutex
	state  State
	dirty  bool
	gen    uint64
	timer  *time.Timer
	closed bool
}

func newTrigger(window time.Duration, wg *sync.WaitGroup, run func()) *trigger {
	return &trigger{window: window, run: run, wg: wg}
}

// notify records a change. A change while Running is remembered and
// schedules another run once the current one completes.
func (t *trigger) notify() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	switch t.state {
	case Idle, Pending:
		t.state = Pending
		t.armLocked()
	case Running:
		t.dirty = true
	}
}

// armLocked (re)starts the debounce timer. Earlier timers become stale.
func (t *trigger) armLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.window, func() { t.fire(gen) })
}

func (t *trigger) fire(gen uint64) {
	t.mu.Lock()
	if t.closed || t.state != Pending || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state = Running
	t.dirty = false
	t.timer = nil
	t.wg.Add(1)
	t.mu.Unlock()

	defer t.wg.Done()
	t.run()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirty && !t.closed {
		t.dirty = false
		t.state = Pending
		t.armLocked()
		return
	}
	t.dirty = false
	t.state = Idle
}

// current returns the trigger state.
func (t *trigger) current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// stop cancels a scheduled run. A run in progress completes.
func (t *trigger) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.state == Pending {
		t.state = Idle
	}
}
