// Package metrics tracks in-process inference latency per model.
package metrics

import (
	"sync"
	"time"
)

// ModelLatency aggregates observations for one model.
type ModelLatency struct {
	// EWMA of inference time in milliseconds.
	EWMAms float64

	// Counters since process start.
	OK    uint64
	Error uint64

	// Last observation.
	Last   time.Duration
	LastAt time.Time
}

// Tracker keeps an EWMA latency per model name.
type Tracker struct {
	mu     sync.RWMutex
	alpha  float64
	models map[string]*ModelLatency
}

// NewTracker creates a tracker with EWMA smoothing factor alpha.
// Typical alpha: 0.1..0.3 (higher reacts faster).
func NewTracker(alpha float64) *Tracker {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.2
	}
	return &Tracker{
		alpha:  alpha,
		models: map[string]*ModelLatency{},
	}
}

// Observe records one inference.
func (t *Tracker) Observe(model string, d time.Duration, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.models[model]
	if m == nil {
		m = &ModelLatency{}
		t.models[model] = m
	}

	ms := float64(d.Milliseconds())
	if ms < 0 {
		ms = 0
	}
	if m.EWMAms == 0 {
		m.EWMAms = ms
	} else {
		m.EWMAms = t.alpha*ms + (1.0-t.alpha)*m.EWMAms
	}

	m.Last = d
	m.LastAt = time.Now()
	if ok {
		m.OK++
	} else {
		m.Error++
	}
}

// Get returns the latency record for one model.
func (t *Tracker) Get(model string) (ModelLatency, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := t.models[model]
	if m == nil {
		return ModelLatency{}, false
	}
	return *m, true
}

// Snapshot copies all model records.
func (t *Tracker) Snapshot() map[string]ModelLatency {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]ModelLatency, len(t.models))
	for k, v := range t.models {
		out[k] = *v
	}
	return out
}
