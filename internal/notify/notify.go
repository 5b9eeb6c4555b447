// Package notify implements the single-slot change subscription a session
// uses to tell its caller that cached views are stale.
package notify

import (
	"io"
	"log/slog"
	"sync"
)

// Func is a zero-argument change notification.
type Func func()

// Subscription holds at most one callback. The zero value is ready to use.
type Subscription struct {
	mu     sync.Mutex
	fn     Func
	logger *slog.Logger
}

// New returns a Subscription that logs recovered callback panics to logger.
func New(logger *slog.Logger) *Subscription {
	return &Subscription{logger: logger}
}

// Register replaces the current callback with fn and invokes fn once as a
// confirmation. A nil fn clears the slot.
func (s *Subscription) Register(fn Func) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()

	if fn != nil {
		s.invoke(fn)
	}
}

// Notify invokes the registered callback, if any, on the calling
// goroutine. The callback runs without the slot lock held, so it may
// re-register.
func (s *Subscription) Notify() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()

	if fn != nil {
		s.invoke(fn)
	}
}

// Clear empties the slot.
func (s *Subscription) Clear() {
	s.mu.Lock()
	s.fn = nil
	s.mu.Unlock()
}

// invoke calls fn, swallowing any panic: a failing listener never affects
// the mutation that triggered it.
func (s *Subscription) invoke(fn Func) {
	defer func() {
		if r := recover(); r != nil {
			s.log().Error("change callback panicked", "panic", r)
		}
	}()
	fn()
}

func (s *Subscription) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
