// Package rate keeps one token bucket per client key.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter struct {
	burst   int
	limit   rate.Limit
	expiry  time.Duration
	clients map[string]*clientLimiter
	mu      sync.Mutex
	stop    chan struct{}
	once    sync.Once
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLimiter allows each client limitRPS events per second with the given
// burst. Clients idle for longer than expiry are forgotten.
func NewLimiter(burst int, expiry time.Duration, limitRPS float64) *Limiter {
	lm := &Limiter{
		burst:   burst,
		limit:   rate.Limit(limitRPS),
		expiry:  expiry,
		clients: make(map[string]*clientLimiter),
		stop:    make(chan struct{}),
	}
	go lm.sweep()
	return lm
}

func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[id]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[id] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter.Allow()
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep() {
	interval := l.expiry
	if interval > time.Minute || interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
		}

		l.mu.Lock()
		for id, v := range l.clients {
			if time.Since(v.lastAccess) > l.expiry {
				delete(l.clients, id)
			}
		}
		l.mu.Unlock()
	}
}

// Every converts a minimum time between events into events per second.
func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
