package redislock

import "time"

func (l *InMemoryBatchLock) SetClock(now func() time.Time) {
	l.now = now
}
