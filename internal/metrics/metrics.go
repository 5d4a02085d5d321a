// Package metrics provides Prometheus counters for the snapping engine and
// the command driver.
//
// Every method is safe on a nil *Metrics, so components can take an
// optional metrics dependency without guarding each call.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "draftsnap"

// Label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds all application counters.
type Metrics struct {
	registry *prometheus.Registry

	// Snap metrics
	FeatureCache          *prometheus.CounterVec
	IntersectionCache     *prometheus.CounterVec
	IntersectionsComputed prometheus.Counter
	MarkersCreated        prometheus.Counter
	Snaps                 *prometheus.CounterVec

	// Pick and command metrics
	Picks    *prometheus.CounterVec
	Commands *prometheus.CounterVec
}

// New creates counters registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FeatureCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "feature_cache_total",
			Help:      "Feature point cache lookups by result.",
		}, []string{"result"}),
		IntersectionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "intersection_cache_total",
			Help:      "Intersection cache lookups by result.",
		}, []string{"result"}),
		IntersectionsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "intersections_computed_total",
			Help:      "Edge pairs intersected.",
		}),
		MarkersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "markers_created_total",
			Help:      "Temporary markers created for invisible snap points.",
		}),
		Snaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "resolved_total",
			Help:      "Pointer moves by snap source.",
		}, []string{"source"}),
		Picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_total",
			Help:      "Finished pick sessions by outcome.",
		}, []string{"outcome"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Finished commands by name and outcome.",
		}, []string{"command", "outcome"}),
	}
	m.registry.MustRegister(
		m.FeatureCache,
		m.IntersectionCache,
		m.IntersectionsComputed,
		m.MarkersCreated,
		m.Snaps,
		m.Picks,
		m.Commands,
	)
	return m
}

// Registry returns the registry the counters live in.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// FeatureLookup records a feature point cache lookup.
func (m *Metrics) FeatureLookup(hit bool) {
	if m == nil {
		return
	}
	m.FeatureCache.WithLabelValues(cacheResult(hit)).Inc()
}

// IntersectionLookup records an intersection cache lookup.
func (m *Metrics) IntersectionLookup(hit bool) {
	if m == nil {
		return
	}
	m.IntersectionCache.WithLabelValues(cacheResult(hit)).Inc()
	if !hit {
		m.IntersectionsComputed.Inc()
	}
}

// MarkerCreated records a new invisible snap marker.
func (m *Metrics) MarkerCreated() {
	if m == nil {
		return
	}
	m.MarkersCreated.Inc()
}

// Snapped records the source of a resolved snap ("feature", "object", "plane", "none", ...).
func (m *Metrics) Snapped(source string) {
	if m == nil {
		return
	}
	m.Snaps.WithLabelValues(source).Inc()
}

// PickFinished records the outcome of a pick session.
func (m *Metrics) PickFinished(outcome string) {
	if m == nil {
		return
	}
	m.Picks.WithLabelValues(outcome).Inc()
}

// CommandFinished records the outcome of a command.
func (m *Metrics) CommandFinished(command, outcome string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}

func cacheResult(hit bool) string {
	if hit {
		return CacheHit
	}
	return CacheMiss
}

// Sample is one counter value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot returns every counter value, sorted by name then labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
