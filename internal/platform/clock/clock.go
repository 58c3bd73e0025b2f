package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
)

// Clock abstracts time and timers to keep reconnect scheduling deterministic in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) *bclock.Timer
}

type SystemClock struct {
	base bclock.Clock
}

func NewSystemClock() SystemClock {
	return SystemClock{base: bclock.New()}
}

func (c SystemClock) Now() time.Time {
	if c.base == nil {
		return time.Now().UTC()
	}
	return c.base.Now().UTC()
}

func (c SystemClock) AfterFunc(d time.Duration, f func()) *bclock.Timer {
	if c.base == nil {
		return bclock.New().AfterFunc(d, f)
	}
	return c.base.AfterFunc(d, f)
}

// NewMock returns a manually advanced clock; *bclock.Mock satisfies Clock.
func NewMock(start time.Time) *bclock.Mock {
	m := bclock.NewMock()
	m.Set(start)
	return m
}
