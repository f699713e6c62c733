package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	installOnce sync.Once
	pending     []prometheus.Collector
)

// register queues collectors from per-file init functions until MustRegister
// installs them.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every queued collector into the default registry,
// at most once no matter how often it is called.
func MustRegister() {
	installOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
