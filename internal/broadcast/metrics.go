package broadcast

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes hub activity to Prometheus. A nil *Metrics is a no-op.
type Metrics struct {
	published   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	subscribers prometheus.Gauge
}

// NewMetrics creates and registers the hub collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docusafe_sync_events_published_total",
				Help: "Store change events published to the sync hub.",
			},
			[]string{"key"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docusafe_sync_events_dropped_total",
				Help: "Store change events dropped because a subscriber was full.",
			},
			[]string{"key"},
		),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docusafe_sync_subscribers",
			Help: "Open sync hub subscriptions.",
		}),
	}

	for _, c := range []prometheus.Collector{m.published, m.dropped, m.subscribers} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) incPublished(key string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(key).Inc()
}

func (m *Metrics) incDropped(key string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(key).Inc()
}

func (m *Metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}
