package scheduler

import (
	"container/heap"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Firing is one delivered wake-up. The key carries everything the fire
// handler needs to identify the slot; see model.SplitSlotKey.
type Firing struct {
	Key int64
	At  time.Time
}

type queueItem struct {
	key int64
	at  time.Time
	gen uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].at.Before(pq[j].at)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type armedAlarm struct {
	gen uint64
	at  time.Time
}

// Engine is the in-process AlarmSink: a heap of pending wake-ups drained by
// a single timer loop. Each key holds at most one live alarm; re-arming a
// key bumps its generation so stale heap entries are skipped when they
// surface. Whoever armed a key last wins.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	armed   map[int64]armedAlarm
	gen     uint64
	out     chan Firing
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	exact   func() bool
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		armed:  make(map[int64]armedAlarm),
		out:    make(chan Firing, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		exact:  func() bool { return true },
	}
}

// SetExactProbe replaces the exact-scheduling permission probe. The default
// always grants; tests and platform adapters inject their own.
func (e *Engine) SetExactProbe(probe func() bool) {
	if probe == nil {
		return
	}
	e.mu.Lock()
	e.exact = probe
	e.mu.Unlock()
}

func (e *Engine) C() <-chan Firing {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) CanScheduleExact() bool {
	e.mu.Lock()
	probe := e.exact
	e.mu.Unlock()
	return probe()
}

// Arm registers a wake-up for key at the given instant, replacing any alarm
// already held under that key.
func (e *Engine) Arm(key int64, at time.Time) error {
	if at.IsZero() {
		return ErrInvalidTriggerTime
	}
	if !e.CanScheduleExact() {
		return ErrPermissionDenied
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	e.gen++
	e.armed[key] = armedAlarm{gen: e.gen, at: at}
	heap.Push(&e.queue, queueItem{key: key, at: at, gen: e.gen})
	e.signalWakeup()
	return nil
}

// Disarm cancels the alarm held under key. Unknown keys are ignored; the
// stale heap entry is dropped when it reaches the top.
func (e *Engine) Disarm(key int64) {
	e.mu.Lock()
	delete(e.armed, key)
	e.mu.Unlock()
}

// ArmedAt reports the instant key is armed for, if it is armed at all.
func (e *Engine) ArmedAt(key int64) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	alarm, ok := e.armed[key]
	return alarm.at, ok
}

// Snapshot returns the currently armed alarms ordered by key.
func (e *Engine) Snapshot() []Firing {
	e.mu.Lock()
	out := make([]Firing, 0, len(e.armed))
	for key, alarm := range e.armed {
		out = append(out, Firing{Key: key, At: alarm.at})
	}
	e.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.at)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, firing := range due {
				select {
				case e.out <- firing:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live queue entry, discarding entries whose key
// was disarmed or re-armed since they were pushed.
func (e *Engine) peek() (queueItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		top := e.queue[0]
		if alarm, ok := e.armed[top.key]; ok && alarm.gen == top.gen {
			return top, true
		}
		heap.Pop(&e.queue)
	}
	return queueItem{}, false
}

func (e *Engine) popDue(now time.Time) []Firing {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Firing, 0)
	for len(e.queue) > 0 {
		top := e.queue[0]
		alarm, ok := e.armed[top.key]
		if !ok || alarm.gen != top.gen {
			heap.Pop(&e.queue)
			continue
		}
		if top.at.After(now) {
			break
		}
		heap.Pop(&e.queue)
		delete(e.armed, top.key)
		out = append(out, Firing{Key: top.key, At: top.at})
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
