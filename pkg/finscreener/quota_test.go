package finscreener

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuota_UnlimitedClass(t *testing.T) {
	clock := newFakeClock()
	q := newQuota(clock.Now)

	for i := 0; i < detailDailyLimit*2; i++ {
		ok, _ := q.TryAdmit(ClassSearch)
		assert.True(t, ok)
	}
}

func TestQuota_DetailLimit(t *testing.T) {
	clock := newFakeClock()
	q := newQuota(clock.Now)

	start := clock.Now()

	for i := 0; i < detailDailyLimit; i++ {
		ok, _ := q.TryAdmit(ClassDetail)
		assert.True(t, ok, "call %d should be admitted", i+1)
	}

	ok, resetAt := q.TryAdmit(ClassDetail)
	assert.False(t, ok)
	assert.Equal(t, start.Add(quotaWindowLength), resetAt)
}

func TestQuota_WindowReset(t *testing.T) {
	clock := newFakeClock()
	q := newQuota(clock.Now)

	for i := 0; i < detailDailyLimit; i++ {
		q.TryAdmit(ClassDetail)
	}

	ok, _ := q.TryAdmit(ClassDetail)
	assert.False(t, ok)

	// one second short of the window boundary, still denied
	clock.Advance(quotaWindowLength - time.Second)

	ok, _ = q.TryAdmit(ClassDetail)
	assert.False(t, ok)

	// at the boundary a new window opens
	clock.Advance(time.Second)

	ok, _ = q.TryAdmit(ClassDetail)
	assert.True(t, ok)
}

func TestQuota_ConcurrentAdmission(t *testing.T) {
	const callers = 250

	clock := newFakeClock()
	q := newQuota(clock.Now)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		resets   []time.Time
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, resetAt := q.TryAdmit(ClassDetail)

			mu.Lock()
			defer mu.Unlock()

			if ok {
				admitted++
			} else {
				resets = append(resets, resetAt)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, detailDailyLimit, admitted, "exactly the limit must be admitted, never more")

	want := clock.Now().Add(quotaWindowLength)
	for _, resetAt := range resets {
		assert.Equal(t, want, resetAt)
	}
}

func TestQuota_ResetTime(t *testing.T) {
	clock := newFakeClock()
	q := newQuota(clock.Now)

	// no window yet
	assert.True(t, q.resetTime(ClassDetail).IsZero())

	// unlimited classes never report one
	assert.True(t, q.resetTime(ClassSearch).IsZero())

	q.TryAdmit(ClassDetail)
	assert.Equal(t, clock.Now().Add(quotaWindowLength), q.resetTime(ClassDetail))
}
