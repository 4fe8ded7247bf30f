package handlers

import (
	"math"
	"time"

	"github.com/hongminglow/taskdesk/internal/models/dto"
)

// Delayer holds a request for a caller-chosen time before it is processed.
// The wait ignores request cancellation: once started it runs to completion.
type Delayer struct {
	max   time.Duration
	sleep func(time.Duration)
}

// NewDelayer returns a Delayer that never waits longer than max.
func NewDelayer(max time.Duration) *Delayer {
	return &Delayer{max: max, sleep: time.Sleep}
}

// Wait sleeps for ms milliseconds, clamped to [0, max].
func (d *Delayer) Wait(ms int) {
	if d == nil || ms <= 0 {
		return
	}
	// Clamp in milliseconds first so huge values cannot overflow time.Duration.
	limit := d.max.Milliseconds()
	if limit <= 0 {
		limit = math.MaxInt64 / int64(time.Millisecond)
	}
	wait := int64(ms)
	if wait > limit {
		wait = limit
	}
	d.sleep(time.Duration(wait) * time.Millisecond)
}

// WaitQuery applies the ?delay= query value using the same leading-integer
// rule as the login body. Values without a number are ignored.
func (d *Delayer) WaitQuery(value string) {
	d.Wait(dto.ParseMillis(value))
}
