package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shortlink"

// Metrics holds the collectors of the resolution and group services.
type Metrics struct {
	LinksCreated  *prometheus.CounterVec
	DedupLookups  *prometheus.CounterVec
	Redirects     *prometheus.CounterVec
	GroupViews    prometheus.Counter
	CacheFailures *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LinksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links created, by kind (generated or custom).",
		}, []string{"kind"}),
		DedupLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_lookups_total",
			Help:      "Create-path dedup lookups, by result (cache_hit, store_hit, miss).",
		}, []string{"result"}),
		Redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Redirect resolutions, by result (found, not_found).",
		}, []string{"result"}),
		GroupViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_page_views_total",
			Help:      "Rendered link group pages.",
		}),
		CacheFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_failures_total",
			Help:      "Cache operations that failed and were ignored, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.LinksCreated, m.DedupLookups, m.Redirects, m.GroupViews, m.CacheFailures)

	return m
}
