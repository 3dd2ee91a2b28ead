package room

import (
	"sync"
	"time"
)

const DefaultTypingInterval = 500 * time.Millisecond

// TypingEmitter rate-limits typing signals from one sender. Rapid toggles
// within the interval coalesce into a single trailing emit, so a keystroke
// burst costs one event instead of dozens. Emits are best-effort and carry
// no delivery guarantee.
type TypingEmitter struct {
	interval time.Duration
	emit     func(isTyping bool)

	mu      sync.Mutex
	last    time.Time
	pending *bool
	timer   *time.Timer
	stopped bool
}

func NewTypingEmitter(interval time.Duration, emit func(isTyping bool)) *TypingEmitter {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}
	return &TypingEmitter{interval: interval, emit: emit}
}

// Set records the sender's current typing state. The first call after a
// quiet period emits immediately; calls inside the interval are coalesced
// and the latest value is emitted when it elapses.
func (e *TypingEmitter) Set(isTyping bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}

	now := time.Now()
	if e.timer == nil && now.Sub(e.last) >= e.interval {
		e.last = now
		go e.emit(isTyping)
		return
	}

	v := isTyping
	e.pending = &v
	if e.timer == nil {
		wait := e.interval - now.Sub(e.last)
		e.timer = time.AfterFunc(wait, e.fire)
	}
}

// Flush emits any coalesced value immediately. Used right before a message
// send so the opponent's "typing" indicator clears with the message.
func (e *TypingEmitter) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || e.pending == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	v := *e.pending
	e.pending = nil
	e.last = time.Now()
	go e.emit(v)
}

// Stop discards any pending emit. Safe to call more than once.
func (e *TypingEmitter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
}

func (e *TypingEmitter) fire() {
	e.mu.Lock()
	if e.stopped || e.pending == nil {
		e.timer = nil
		e.mu.Unlock()
		return
	}
	v := *e.pending
	e.pending = nil
	e.timer = nil
	e.last = time.Now()
	e.mu.Unlock()
	e.emit(v)
}
