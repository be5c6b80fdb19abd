package backend

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim  *rate.Limiter
	last time.Time
}

type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*limiterEntry
	limit rate.Limit
	burst int
}

func newLimiterPool(limit rate.Limit, burst int) *limiterPool {
	if limit <= 0 {
		limit = rate.Every(5 * time.Second)
	}
	if burst <= 0 {
		burst = 5
	}
	return &limiterPool{m: make(map[string]*limiterEntry), limit: limit, burst: burst}
}

func (p *limiterPool) get(key string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(p.limit, p.burst)}
		p.m[key] = e
	}
	e.last = now
	return e.lim
}

// loginAttempt is one reserved sign-in attempt.
type loginAttempt struct {
	r   *rate.Reservation
	now time.Time
}

// release gives the attempt back to the budget.
func (a *loginAttempt) release() {
	a.r.CancelAt(a.now)
}

// reserve takes one attempt from key's budget at now. It returns nil when the
// budget is exhausted.
func (p *limiterPool) reserve(key string, now time.Time) *loginAttempt {
	r := p.get(key, now).ReserveN(now, 1)
	if !r.OK() || r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil
	}
	return &loginAttempt{r: r, now: now}
}

// prune drops limiters that have been idle long enough to refill completely;
// a fresh limiter behaves the same. It returns how many were dropped.
func (p *limiterPool) prune(now time.Time) int {
	refill := time.Duration(float64(p.burst) / float64(p.limit) * float64(time.Second))

	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for key, e := range p.m {
		if now.Sub(e.last) >= refill {
			delete(p.m, key)
			n++
		}
	}
	return n
}

func (p *limiterPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
