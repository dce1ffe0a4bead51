package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces request rate limits on mutating (upload-bearing)
// routes using sliding minute and hour windows.
type Limiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	minuteWindow []time.Time
	hourWindow   []time.Time
	mu           sync.Mutex
}

// NewLimiter creates a limiter with the given limits.
func NewLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *Limiter {
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		minuteWindow:      make([]time.Time, 0),
		hourWindow:        make([]time.Time, 0),
	}
}

// Allow checks whether a request fits within the limits and records it.
func (l *Limiter) Allow() bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.cleanup(now)

	if l.requestsPerMinute > 0 && len(l.minuteWindow) >= l.requestsPerMinute {
		return false
	}
	if l.requestsPerHour > 0 && len(l.hourWindow) >= l.requestsPerHour {
		return false
	}

	l.minuteWindow = append(l.minuteWindow, now)
	l.hourWindow = append(l.hourWindow, now)

	return true
}

func (l *Limiter) cleanup(now time.Time) {
	l.minuteWindow = filterTimes(l.minuteWindow, now.Add(-1*time.Minute))
	l.hourWindow = filterTimes(l.hourWindow, now.Add(-1*time.Hour))
}

// filterTimes keeps only times after the cutoff.
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats contains current limiter statistics.
type Stats struct {
	Enabled            bool `json:"enabled"`
	RequestsLastMinute int  `json:"requests_last_minute"`
	RequestsLastHour   int  `json:"requests_last_hour"`
	LimitPerMinute     int  `json:"limit_per_minute"`
	LimitPerHour       int  `json:"limit_per_hour"`
}

// GetStats returns current limiter statistics.
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanup(time.Now())

	return Stats{
		Enabled:            true,
		RequestsLastMinute: len(l.minuteWindow),
		RequestsLastHour:   len(l.hourWindow),
		LimitPerMinute:     l.requestsPerMinute,
		LimitPerHour:       l.requestsPerHour,
	}
}

// Reset clears all tracked requests (useful for testing).
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.minuteWindow = make([]time.Time, 0)
	l.hourWindow = make([]time.Time, 0)
}
