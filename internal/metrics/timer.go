package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveSeconds records the elapsed time in fractional seconds.
func (t *Timer) ObserveSeconds(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}
