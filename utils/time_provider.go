package utils

import (
	"sync"
	"time"
)

// TimeProvider is a interface for classes that needs time and we want to be able to unittest it
type TimeProvider interface {
	// Now returns current time
	Now() time.Time
}

// TimeProviderSystemLocalTime is the default implementation of TimeProvider
type TimeProviderSystemLocalTime struct{}

// NewTimeProviderSystemLocalTime returns the system clock
func NewTimeProviderSystemLocalTime() *TimeProviderSystemLocalTime {
	return &TimeProviderSystemLocalTime{}
}

// Now returns current time
func (d TimeProviderSystemLocalTime) Now() time.Time {
	return time.Now()
}

// TimeProviderManual is a implementation that only moves when Advance is called,
// useful to drive timeouts in tests
type TimeProviderManual struct {
	mu  sync.Mutex
	now time.Time
}

// NewTimeProviderManual creates a manual clock starting at t
func NewTimeProviderManual(t time.Time) *TimeProviderManual {
	return &TimeProviderManual{now: t}
}

// Now returns current time
func (d *TimeProviderManual) Now() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// Advance moves the clock forward
func (d *TimeProviderManual) Advance(dur time.Duration) {
	d.mu.Lock()
	d.now = d.now.Add(dur)
	d.mu.Unlock()
}
