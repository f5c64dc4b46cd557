package loop

import "time"

// Trace keeps the most recent samples of a value taken at a fixed interval.
type Trace struct {
	samples  []float64
	size     int
	interval time.Duration
	elapsed  time.Duration
}

// NewTrace returns a trace holding up to size samples, one per interval.
func NewTrace(size int, interval time.Duration) *Trace {
	return &Trace{
		samples:  make([]float64, 0, size),
		size:     max(size, 1),
		interval: interval,
	}
}

// Observe advances the trace clock by dt and records value for every
// interval that has elapsed. The first observation is always recorded.
func (t *Trace) Observe(dt time.Duration, value float64) {
	if len(t.samples) == 0 {
		t.push(value)
		return
	}
	t.elapsed += dt
	for t.interval > 0 && t.elapsed >= t.interval {
		t.elapsed -= t.interval
		t.push(value)
	}
}

func (t *Trace) push(value float64) {
	if len(t.samples) == t.size {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:t.size-1]
	}
	t.samples = append(t.samples, value)
}

// Samples returns the recorded values, oldest first. The slice is owned by
// the trace.
func (t *Trace) Samples() []float64 {
	return t.samples
}

// Reset drops every sample.
func (t *Trace) Reset() {
	t.samples = t.samples[:0]
	t.elapsed = 0
}
