package finscreener

import (
	"sync"
	"time"
)

const (
	// detail endpoints are limited to 100 calls per rolling day
	detailDailyLimit  = 100
	quotaWindowLength = 24 * time.Hour
)

type quotaWindow struct {
	start time.Time
	count int
}

// quota is the client-side admission bookkeeping for rate-limited endpoint
// classes. It mirrors the server-side limit so most over-quota calls never
// leave the process; it does not replace remote enforcement.
type quota struct {
	now    func() time.Time
	limits map[Class]int

	mu      sync.Mutex
	windows map[Class]*quotaWindow
}

func newQuota(now func() time.Time) *quota {
	return &quota{
		now:     now,
		limits:  map[Class]int{ClassDetail: detailDailyLimit},
		windows: map[Class]*quotaWindow{},
	}
}

// TryAdmit reports whether a call of the given class may proceed, counting
// it against the window if so. Check and increment happen under one lock so
// concurrent callers cannot both consume the last slot. Classes without a
// configured limit are always admitted. When denied, the returned time is
// when the window resets.
func (q *quota) TryAdmit(class Class) (bool, time.Time) {
	limit, limited := q.limits[class]
	if !limited {
		return true, time.Time{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()

	w := q.windows[class]
	if w == nil || now.Sub(w.start) >= quotaWindowLength {
		w = &quotaWindow{start: now}
		q.windows[class] = w
	}

	if w.count >= limit {
		return false, w.start.Add(quotaWindowLength)
	}

	w.count++

	return true, time.Time{}
}

// resetTime returns when the current window for the class resets, used as
// the retry hint when the remote API denies a call without one. Zero for
// unlimited classes or before any call has opened a window.
func (q *quota) resetTime(class Class) time.Time {
	if _, limited := q.limits[class]; !limited {
		return time.Time{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	w := q.windows[class]
	if w == nil {
		return time.Time{}
	}

	return w.start.Add(quotaWindowLength)
}
