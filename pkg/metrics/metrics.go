// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what handlers and middleware record against.
type Recorder interface {
	RecordItemCreated()
	RecordDecision(decision string)
	RecordReaction(kind string)
	RecordComment()
	RecordSighting()
	RecordHTTPRequest(method string, status int)
}

type Collector struct {
	itemsCreated prometheus.Counter
	decisions    *prometheus.CounterVec
	reactions    *prometheus.CounterVec
	comments     prometheus.Counter
	sightings    prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		itemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lostfound_items_created_total",
			Help: "Lost item reports submitted.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_moderation_decisions_total",
			Help: "Moderation decisions applied, by decision.",
		}, []string{"decision"}),
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_reactions_total",
			Help: "Reactions added, by kind.",
		}, []string{"kind"}),
		comments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lostfound_comments_total",
			Help: "Comments appended.",
		}),
		sightings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lostfound_sightings_total",
			Help: "Sightings reported.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		c.itemsCreated,
		c.decisions,
		c.reactions,
		c.comments,
		c.sightings,
		c.httpRequests,
	)

	return c
}

func (c *Collector) RecordItemCreated() {
	c.itemsCreated.Inc()
}

func (c *Collector) RecordDecision(decision string) {
	c.decisions.WithLabelValues(decision).Inc()
}

func (c *Collector) RecordReaction(kind string) {
	c.reactions.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordComment() {
	c.comments.Inc()
}

func (c *Collector) RecordSighting() {
	c.sightings.Inc()
}

func (c *Collector) RecordHTTPRequest(method string, status int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Nop discards everything. Used when metrics are not wired, e.g. in tests.
type Nop struct{}

func (Nop) RecordItemCreated()            {}
func (Nop) RecordDecision(string)         {}
func (Nop) RecordReaction(string)         {}
func (Nop) RecordComment()                {}
func (Nop) RecordSighting()               {}
func (Nop) RecordHTTPRequest(string, int) {}
