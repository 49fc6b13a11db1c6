// Package notice carries user-facing messages from the data flows to
// whatever surface renders them. Business outcomes get specific texts;
// faults get a generic retry text. Nothing here is an error value.
package notice

import (
	"fmt"
	"sync"
	"time"
)

// Level classifies a notice for rendering.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notice is a single user-facing message.
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

// Notifier receives user-facing messages.
type Notifier interface {
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Feed is a thread-safe Notifier that queues notices until a renderer
// drains them. The terminal UI drains it after every async result.
type Feed struct {
	mu      sync.Mutex
	pending []Notice
}

func NewFeed() *Feed {
	return &Feed{}
}

func (f *Feed) Successf(format string, args ...any) {
	f.push(Notice{Level: LevelSuccess, Text: fmt.Sprintf(format, args...), At: time.Now()})
}

func (f *Feed) Errorf(format string, args ...any) {
	f.push(Notice{Level: LevelError, Text: fmt.Sprintf(format, args...), At: time.Now()})
}

func (f *Feed) push(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, n)
}

// Drain returns all queued notices and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}

// Discard is a Notifier that drops everything. Useful for headless
// commands and tests that only care about return values.
type Discard struct{}

func (Discard) Successf(string, ...any) {}
func (Discard) Errorf(string, ...any)  {}
